package index

import (
	"fmt"
	"io"

	"github.com/balzaczyy/gopacked/core/codec"
	"github.com/balzaczyy/gopacked/core/index/model"
	"github.com/balzaczyy/gopacked/core/store"
	"github.com/balzaczyy/gopacked/core/util"
	"github.com/balzaczyy/gopacked/core/util/packed"
)

/*
Postings of a merged segment.

File layout (POSTINGS_EXTENSION):

	PostingsFile --> Header, FieldCount, <FieldNumber, TermCount, <Term, DocFreq, Docs, Freqs?, Positions?>^TermCount>^FieldCount, Footer
	Header --> CodecHeader (POSTINGS_CODEC_NAME)
	FieldCount, FieldNumber, TermCount, DocFreq --> VInt
	Term --> VInt length, bytes
	Docs --> packed stream of doc deltas; the first delta is the first doc
	Freqs --> packed stream of term frequencies, when the field indexes freqs
	Positions --> <PositionDelta, PayloadLength?, PayloadBytes?>^Freq per doc, when the field indexes positions
	Footer --> CodecFooter

PayloadLength is only written for fields storing payloads.
*/
const (
	POSTINGS_EXTENSION       = "pst"
	POSTINGS_CODEC_NAME      = "GoPackedPostings"
	POSTINGS_VERSION_START   = 0
	POSTINGS_VERSION_CURRENT = POSTINGS_VERSION_START
)

type postingsWriter struct {
	out                     store.IndexOutput
	acceptableOverheadRatio float32
	fieldInfo               *model.FieldInfo
}

func (w *postingsWriter) startField(fi *model.FieldInfo, termCount int) error {
	w.fieldInfo = fi
	if err := w.out.WriteVInt(fi.Number); err != nil {
		return err
	}
	return w.out.WriteVInt(int32(termCount))
}

func (w *postingsWriter) writeTerm(tp *TermPostings) error {
	assert2(len(tp.Docs) > 0, "term '%s' has no postings", tp.Term)
	if err := w.out.WriteVInt(int32(len(tp.Term))); err != nil {
		return err
	}
	if err := w.out.WriteBytes(tp.Term); err != nil {
		return err
	}
	if err := w.out.WriteVInt(int32(len(tp.Docs))); err != nil {
		return err
	}

	var maxDelta int64
	var maxFreq int
	for i, p := range tp.Docs {
		delta := int64(p.Doc)
		if i > 0 {
			delta -= int64(tp.Docs[i-1].Doc)
			assert2(delta > 0, "docs of term '%s' are not sorted", tp.Term)
		}
		if delta > maxDelta {
			maxDelta = delta
		}
		if p.Freq > maxFreq {
			maxFreq = p.Freq
		}
	}
	if err := w.writePacked(len(tp.Docs), maxDelta, func(i int) int64 {
		if i == 0 {
			return int64(tp.Docs[0].Doc)
		}
		return int64(tp.Docs[i].Doc - tp.Docs[i-1].Doc)
	}); err != nil {
		return err
	}

	indexOptions := w.fieldInfo.IndexOptions()
	if indexOptions >= model.INDEX_OPT_DOCS_AND_FREQS {
		if err := w.writePacked(len(tp.Docs), int64(maxFreq), func(i int) int64 {
			return int64(tp.Docs[i].Freq)
		}); err != nil {
			return err
		}
	}
	if indexOptions >= model.INDEX_OPT_DOCS_AND_FREQS_AND_POSITIONS {
		for _, p := range tp.Docs {
			if err := w.writePositions(p); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *postingsWriter) writePacked(count int, max int64, value func(i int) int64) error {
	pw, err := packed.GetWriter(w.out, count, packed.BitsRequired(max), w.acceptableOverheadRatio)
	if err != nil {
		return err
	}
	for i := 0; i < count; i++ {
		if err = pw.Add(value(i)); err != nil {
			return err
		}
	}
	return pw.Finish()
}

func (w *postingsWriter) writePositions(p Posting) error {
	assert2(len(p.Positions) == p.Freq, "doc %v: freq=%v but %v positions", p.Doc, p.Freq, len(p.Positions))
	last := 0
	for _, pos := range p.Positions {
		assert2(pos.Pos >= last, "doc %v: positions are not sorted", p.Doc)
		if err := w.out.WriteVInt(int32(pos.Pos - last)); err != nil {
			return err
		}
		last = pos.Pos
		if w.fieldInfo.HasPayloads() {
			if err := w.out.WriteVInt(int32(len(pos.Payload))); err != nil {
				return err
			}
			if err := w.out.WriteBytes(pos.Payload); err != nil {
				return err
			}
		}
	}
	return nil
}

/*
Loads the postings of segment si, keyed by field name, terms in the
order they were written. The whole file is checksummed while it is
read.
*/
func ReadPostings(si *model.SegmentInfo, infos model.FieldInfos) (ans map[string][]*TermPostings, err error) {
	in, err := si.Dir.OpenInput(si.FileName(POSTINGS_EXTENSION), store.IO_CONTEXT_READONCE)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = util.CloseWhileHandlingError(err, in)
	}()
	cin := store.NewChecksumIndexInput(in)
	if _, err = codec.CheckHeader(cin, POSTINGS_CODEC_NAME, POSTINGS_VERSION_START, POSTINGS_VERSION_CURRENT); err != nil {
		return nil, err
	}
	fieldCount, err := cin.ReadVInt()
	if err != nil {
		return nil, err
	}
	ans = make(map[string][]*TermPostings)
	for i := int32(0); i < fieldCount; i++ {
		number, err := cin.ReadVInt()
		if err != nil {
			return nil, err
		}
		fi := infos.FieldInfoByNumber(int(number))
		if fi == nil || !fi.IsIndexed() {
			return nil, codec.NewCorruptIndexError("invalid field number: %v (resource: %v)", number, cin)
		}
		termCount, err := cin.ReadVInt()
		if err != nil {
			return nil, err
		}
		terms := make([]*TermPostings, termCount)
		for j := range terms {
			if terms[j], err = readTerm(cin, fi, si.DocCount()); err != nil {
				return nil, fmt.Errorf("field '%v': %w", fi.Name, err)
			}
		}
		ans[fi.Name] = terms
	}
	if _, err = codec.CheckFooter(cin); err != nil {
		return nil, err
	}
	return ans, nil
}

func readTerm(in *store.ChecksumIndexInput, fi *model.FieldInfo, maxDoc int) (*TermPostings, error) {
	length, err := in.ReadVInt()
	if err != nil {
		return nil, err
	}
	tp := &TermPostings{Term: make([]byte, length)}
	if err = in.ReadBytes(tp.Term); err != nil {
		return nil, err
	}
	docFreq, err := in.ReadVInt()
	if err != nil {
		return nil, err
	}
	tp.Docs = make([]Posting, docFreq)

	it, err := packed.GetReaderIterator(in)
	if err != nil {
		return nil, err
	}
	if it.Size() != len(tp.Docs) {
		return nil, codec.NewCorruptIndexError("docFreq=%v but %v docs (resource: %v)", docFreq, it.Size(), in)
	}
	doc := 0
	for i := range tp.Docs {
		delta, err := it.Next()
		if err != nil {
			return nil, err
		}
		doc += int(delta)
		if doc >= maxDoc {
			return nil, codec.NewCorruptIndexError("doc %v out of bounds [0,%v) (resource: %v)", doc, maxDoc, in)
		}
		tp.Docs[i] = Posting{Doc: doc, Freq: 1}
	}
	if _, err = it.Next(); err != io.EOF {
		return nil, codec.NewCorruptIndexError("too many docs (resource: %v)", in)
	}

	if fi.IndexOptions() >= model.INDEX_OPT_DOCS_AND_FREQS {
		freqs, err := packed.GetReader(in)
		if err != nil {
			return nil, err
		}
		if freqs.Size() != len(tp.Docs) {
			return nil, codec.NewCorruptIndexError("docFreq=%v but %v freqs (resource: %v)", docFreq, freqs.Size(), in)
		}
		for i := range tp.Docs {
			tp.Docs[i].Freq = int(freqs.Get(i))
		}
	}
	if fi.IndexOptions() >= model.INDEX_OPT_DOCS_AND_FREQS_AND_POSITIONS {
		for i := range tp.Docs {
			if tp.Docs[i].Positions, err = readPositions(in, fi, tp.Docs[i].Freq); err != nil {
				return nil, err
			}
		}
	}
	return tp, nil
}

func readPositions(in *store.ChecksumIndexInput, fi *model.FieldInfo, freq int) ([]Position, error) {
	positions := make([]Position, freq)
	last := 0
	for i := range positions {
		delta, err := in.ReadVInt()
		if err != nil {
			return nil, err
		}
		last += int(delta)
		positions[i].Pos = last
		if fi.HasPayloads() {
			length, err := in.ReadVInt()
			if err != nil {
				return nil, err
			}
			if length > 0 {
				positions[i].Payload = make([]byte, length)
				if err = in.ReadBytes(positions[i].Payload); err != nil {
					return nil, err
				}
			}
		}
	}
	return positions, nil
}
