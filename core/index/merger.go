package index

import (
	"bytes"
	"errors"
	"io"
	"time"

	"github.com/balzaczyy/gopacked/core/codec"
	"github.com/balzaczyy/gopacked/core/index/model"
	"github.com/balzaczyy/gopacked/core/store"
	"github.com/balzaczyy/gopacked/core/util"
)

// index/SegmentMerger.java

/*
The SegmentMerger class combines two or more Segments, represented by
an AtomicReader, into a single Segment. Call the merge method to
combine the segments.

The merger owns the readers it was given: they are closed, together
with the payload processors it opened, before Merge returns. When the
merge fails every file it created is deleted again.
*/
type SegmentMerger struct {
	directory         *store.TrackingDirectoryWrapper
	config            *MergeConfig
	mergeState        *MergeState
	fieldInfosBuilder *model.FieldInfosBuilder
	context           store.IOContext
}

func NewSegmentMerger(readers []AtomicReader, segmentInfo *model.SegmentInfo,
	merge *OneMerge, fieldNumbers *model.FieldNumbers, config *MergeConfig) *SegmentMerger {
	assert(segmentInfo != nil)
	if config == nil {
		config = NewMergeConfig()
	}
	if fieldNumbers == nil {
		fieldNumbers = model.NewFieldNumbers()
	}
	directory := store.NewTrackingDirectoryWrapper(segmentInfo.Dir)
	var checkAbort *CheckAbort
	if merge != nil {
		checkAbort = NewCheckAbort(merge, directory, config.CheckAbortInterval)
	}
	totalDocs := 0
	for _, reader := range readers {
		totalDocs += reader.MaxDoc()
	}
	return &SegmentMerger{
		directory:         directory,
		config:            config,
		mergeState:        NewMergeState(readers, segmentInfo, config.InfoStream, checkAbort),
		fieldInfosBuilder: model.NewFieldInfosBuilder(fieldNumbers),
		context: store.NewIOContextForMerge(&store.MergeInfo{
			TotalDocCount:       totalDocs,
			MergeMaxNumSegments: -1,
		}),
	}
}

// True if any merging should happen
func (m *SegmentMerger) ShouldMerge() bool {
	for _, reader := range m.mergeState.Readers {
		if reader.NumDocs() > 0 {
			return true
		}
	}
	return false
}

/*
Merges the readers into the directory of the target segment, writing
the numeric doc values and postings of every field. Returns the
MergeState of the finished merge; the segment info is updated with
the merged doc count and the files written.
*/
func (m *SegmentMerger) Merge() (_ *MergeState, err error) {
	start := time.Now()
	ms := m.mergeState
	infoStream := ms.InfoStream
	defer func() {
		err = util.CloseWhileHandlingError(err, m.closers()...)
		var bytesWritten int64
		if err != nil {
			util.DeleteFilesIgnoringErrors(m.directory, m.directory.CreatedFiles()...)
			result := MERGE_RESULT_FAILED
			if errors.Is(err, ErrMergeAborted) {
				result = MERGE_RESULT_ABORTED
			}
			log.Warningf("Merge into %v failed: %v", ms.SegmentInfo.Name, err)
			m.config.Metrics.observe(result, ms, 0, time.Since(start))
			return
		}
		for _, name := range m.directory.CreatedFiles() {
			if n, e := m.directory.FileLength(name); e == nil {
				bytesWritten += n
			}
		}
		m.config.Metrics.observe(MERGE_RESULT_OK, ms, bytesWritten, time.Since(start))
		if infoStream.IsEnabled("SM") {
			infoStream.Message("SM", "%v msec to merge %v docs (%v bytes)",
				time.Since(start).Milliseconds(), ms.DocCount, bytesWritten)
		}
	}()

	m.mergeFieldInfos()
	numMerged := ms.SetDocMaps(m.config.AcceptableOverheadRatio)
	if infoStream.IsEnabled("SM") {
		infoStream.Message("SM", "merge %v readers into %v: %v docs",
			len(ms.Readers), ms.SegmentInfo.Name, numMerged)
	}
	if err = m.setPayloadProcessors(); err != nil {
		return nil, err
	}

	t0 := time.Now()
	if err = m.mergeNumericFields(); err != nil {
		return nil, err
	}
	if infoStream.IsEnabled("SM") {
		infoStream.Message("SM", "%v msec to merge numeric doc values [%v docs]",
			time.Since(t0).Milliseconds(), numMerged)
	}

	t0 = time.Now()
	if err = m.mergePostings(); err != nil {
		return nil, err
	}
	if infoStream.IsEnabled("SM") {
		infoStream.Message("SM", "%v msec to merge postings [%v docs]",
			time.Since(t0).Milliseconds(), numMerged)
	}

	ms.SegmentInfo.SetDocCount(numMerged)
	ms.SegmentInfo.SetFiles(m.directory.CreatedFiles())
	return ms, nil
}

func (m *SegmentMerger) closers() []io.Closer {
	ms := m.mergeState
	ans := make([]io.Closer, 0, len(ms.Readers)*2)
	for _, rp := range ms.ReaderPayloadProcessors {
		if c, ok := rp.(io.Closer); ok {
			ans = append(ans, c)
		}
	}
	for _, reader := range ms.Readers {
		ans = append(ans, reader)
	}
	return ans
}

func (m *SegmentMerger) mergeFieldInfos() {
	for _, reader := range m.mergeState.Readers {
		m.fieldInfosBuilder.AddAll(reader.FieldInfos())
	}
	m.mergeState.FieldInfos = m.fieldInfosBuilder.Finish()
}

func (m *SegmentMerger) setPayloadProcessors() error {
	provider := m.config.PayloadProcessorProvider
	if provider == nil {
		return nil
	}
	for i, reader := range m.mergeState.Readers {
		rp, err := provider.ReaderProcessor(reader)
		if err != nil {
			return err
		}
		m.mergeState.ReaderPayloadProcessors[i] = rp
	}
	return nil
}

func (m *SegmentMerger) fields(accept func(fi *model.FieldInfo) bool) []*model.FieldInfo {
	var ans []*model.FieldInfo
	for _, fi := range m.mergeState.FieldInfos.Values {
		if accept(fi) {
			ans = append(ans, fi)
		}
	}
	return ans
}

func (m *SegmentMerger) mergeNumericFields() (err error) {
	ms := m.mergeState
	fields := m.fields(func(fi *model.FieldInfo) bool {
		return fi.DocValuesType() == model.DOC_VALUES_TYPE_NUMERIC
	})

	out, err := m.directory.CreateOutput(ms.SegmentInfo.FileName(NUMERIC_EXTENSION), m.context)
	if err != nil {
		return err
	}
	defer func() {
		err = util.CloseWhileHandlingError(err, out)
	}()
	if err = codec.WriteHeader(out, NUMERIC_CODEC_NAME, NUMERIC_VERSION_CURRENT); err != nil {
		return err
	}
	if err = out.WriteVInt(int32(len(fields))); err != nil {
		return err
	}
	for _, fi := range fields {
		ms.SetCurrentField(fi)
		values := make([]int64, ms.DocCount)
		for i, reader := range ms.Readers {
			dv, err := reader.NumericValues(fi.Name)
			if err != nil {
				return err
			}
			if dv == nil {
				continue
			}
			for doc, maxDoc := 0, ms.MaxDocs[i]; doc < maxDoc; doc++ {
				if newDoc := ms.MapDoc(i, doc); newDoc != -1 {
					values[newDoc] = dv.Get(doc)
				}
				if err = ms.CheckAbort.Work(1); err != nil {
					return err
				}
			}
		}
		if err = writeNumericField(out, fi.Number, values, m.config.AcceptableOverheadRatio); err != nil {
			return err
		}
	}
	ms.SetCurrentField(nil)
	return codec.WriteFooter(out)
}

func (m *SegmentMerger) mergePostings() (err error) {
	ms := m.mergeState
	fields := m.fields(func(fi *model.FieldInfo) bool { return fi.IsIndexed() })

	out, err := m.directory.CreateOutput(ms.SegmentInfo.FileName(POSTINGS_EXTENSION), m.context)
	if err != nil {
		return err
	}
	defer func() {
		err = util.CloseWhileHandlingError(err, out)
	}()
	if err = codec.WriteHeader(out, POSTINGS_CODEC_NAME, POSTINGS_VERSION_CURRENT); err != nil {
		return err
	}
	if err = out.WriteVInt(int32(len(fields))); err != nil {
		return err
	}
	writer := &postingsWriter{out: out, acceptableOverheadRatio: m.config.AcceptableOverheadRatio}
	for _, fi := range fields {
		ms.SetCurrentField(fi)
		terms, err := m.mergeTerms(fi)
		if err != nil {
			return err
		}
		if err = writer.startField(fi, len(terms)); err != nil {
			return err
		}
		for _, tp := range terms {
			if err = writer.writeTerm(tp); err != nil {
				return err
			}
		}
	}
	ms.SetCurrentField(nil)
	return codec.WriteFooter(out)
}

/*
Merges the terms of field fi across all readers, in term order. Docs
are remapped into the merged space; terms whose docs were all deleted
are dropped.
*/
func (m *SegmentMerger) mergeTerms(fi *model.FieldInfo) ([]*TermPostings, error) {
	ms := m.mergeState
	enums := make([]PostingsEnum, len(ms.Readers))
	current := make([]*TermPostings, len(ms.Readers))
	advance := func(i int) error {
		tp, err := enums[i].Next()
		if err == io.EOF {
			current[i], enums[i] = nil, nil
			return nil
		}
		current[i] = tp
		return err
	}
	for i, reader := range ms.Readers {
		e, err := reader.Postings(fi.Name)
		if err != nil {
			return nil, err
		}
		if e == nil {
			continue
		}
		enums[i] = e
		if err = advance(i); err != nil {
			return nil, err
		}
	}

	var ans []*TermPostings
	for {
		var term []byte
		for _, tp := range current {
			if tp != nil && (term == nil || bytes.Compare(tp.Term, term) < 0) {
				term = tp.Term
			}
		}
		if term == nil {
			return ans, nil
		}
		if err := ms.SetCurrentTerm(term); err != nil {
			return nil, err
		}
		merged := &TermPostings{Term: append([]byte(nil), term...)}
		for i, tp := range current {
			if tp == nil || !bytes.Equal(tp.Term, term) {
				continue
			}
			for _, p := range tp.Docs {
				newDoc := ms.MapDoc(i, p.Doc)
				if newDoc == -1 {
					continue
				}
				posting, err := m.remapPosting(fi, p, newDoc, ms.CurrentPayloadProcessors[i])
				if err != nil {
					return nil, err
				}
				merged.Docs = append(merged.Docs, posting)
			}
			if err := ms.CheckAbort.Work(float64(len(tp.Docs))); err != nil {
				return nil, err
			}
			if err := advance(i); err != nil {
				return nil, err
			}
		}
		if len(merged.Docs) > 0 {
			ans = append(ans, merged)
		}
	}
}

func (m *SegmentMerger) remapPosting(fi *model.FieldInfo, p Posting, newDoc int,
	pp PayloadProcessor) (Posting, error) {
	ans := Posting{Doc: newDoc, Freq: 1}
	if fi.IndexOptions() < model.INDEX_OPT_DOCS_AND_FREQS {
		return ans, nil
	}
	ans.Freq = p.Freq
	if fi.IndexOptions() < model.INDEX_OPT_DOCS_AND_FREQS_AND_POSITIONS {
		return ans, nil
	}
	ans.Positions = make([]Position, len(p.Positions))
	for j, pos := range p.Positions {
		ans.Positions[j].Pos = pos.Pos
		if !fi.HasPayloads() || len(pos.Payload) == 0 {
			continue
		}
		payload := pos.Payload
		if pp != nil {
			var err error
			if payload, err = pp.Process(payload); err != nil {
				return ans, err
			}
		}
		ans.Positions[j].Payload = payload
	}
	return ans, nil
}
