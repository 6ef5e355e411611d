package index_test

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	. "github.com/balzaczyy/gopacked/core/index"
	"github.com/balzaczyy/gopacked/core/index/model"
	"github.com/balzaczyy/gopacked/core/store"
	"github.com/balzaczyy/gopacked/core/util"
	"github.com/balzaczyy/gopacked/core/util/packed"
	ts "github.com/balzaczyy/gopacked/test_framework/store"
	. "github.com/balzaczyy/gopacked/test_framework/util"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const positionsWithPayloads = model.INDEX_OPT_DOCS_AND_FREQS_AND_POSITIONS

func pos(p int, payload string) Position {
	if payload == "" {
		return Position{Pos: p}
	}
	return Position{Pos: p, Payload: []byte(payload)}
}

// Two readers: the first has doc 1 deleted, the second declares a
// field the first does not know.
func newTestReaders() []*MemoryReader {
	r1 := NewMemoryReader("r1", 4).
		AddNumericField("price", []int64{10, 20, 30, 40}).
		AddPostings("body", positionsWithPayloads, true, "apple",
			Posting{Doc: 0, Positions: []Position{pos(1, "a")}},
			Posting{Doc: 1, Positions: []Position{pos(0, "x")}},
			Posting{Doc: 3, Positions: []Position{pos(2, "b"), pos(5, "")}}).
		AddPostings("body", positionsWithPayloads, true, "pear",
			Posting{Doc: 1, Positions: []Position{pos(3, "p")}}).
		Delete(1)
	r2 := NewMemoryReader("r2", 3).
		AddNumericField("price", []int64{-5, 100, 7}).
		AddNumericField("rank", []int64{1, 2, 3}).
		AddPostings("body", positionsWithPayloads, true, "apple",
			Posting{Doc: 2, Positions: []Position{pos(0, "c")}}).
		AddPostings("body", positionsWithPayloads, true, "zoo",
			Posting{Doc: 0, Positions: []Position{pos(4, "")}}).
		AddPostings("tag", model.INDEX_OPT_DOCS_ONLY, false, "x",
			Posting{Doc: 1}, Posting{Doc: 2})
	return []*MemoryReader{r1, r2}
}

func atomicReaders(readers []*MemoryReader) []AtomicReader {
	ans := make([]AtomicReader, len(readers))
	for i, r := range readers {
		ans[i] = r
	}
	return ans
}

type recordingInfoStream struct {
	messages []string
}

func (s *recordingInfoStream) Message(component, message string, args ...interface{}) {
	s.messages = append(s.messages, component+": "+fmt.Sprintf(message, args...))
}

func (s *recordingInfoStream) IsEnabled(component string) bool { return true }
func (s *recordingInfoStream) Close() error                     { return nil }
func (s *recordingInfoStream) Clone() util.InfoStream           { return s }

type upperCaseProcessor struct {
	closed bool
}

func (p *upperCaseProcessor) ProcessorFor(field string, term []byte) (PayloadProcessor, error) {
	if string(term) == "zoo" {
		return nil, nil
	}
	return PayloadProcessorFunc(func(payload []byte) ([]byte, error) {
		return bytes.ToUpper(payload), nil
	}), nil
}

func (p *upperCaseProcessor) Close() error {
	p.closed = true
	return nil
}

func TestMergeNumericValuesAndPostings(t *testing.T) {
	r := NewRandom(t)
	dir := NewDirectory(t, r)
	readers := newTestReaders()
	si := model.NewSegmentInfo(dir, "_2", nil)
	infoStream := &recordingInfoStream{}
	conf := NewMergeConfig().SetInfoStream(infoStream)

	merger := NewSegmentMerger(atomicReaders(readers), si, NewOneMerge("_0", "_1"), nil, conf)
	require.True(t, merger.ShouldMerge())
	ms, err := merger.Merge()
	require.NoError(t, err)

	for _, reader := range readers {
		assert.True(t, reader.IsClosed())
	}
	assert.Equal(t, 6, ms.DocCount)
	assert.Equal(t, 6, si.DocCount())
	assert.Equal(t, []int{0, 3}, ms.DocBase)
	assert.Equal(t, []int{1, 0}, ms.DelCounts)
	assert.Equal(t, []string{"_2.ndv", "_2.pst"}, si.Files())
	assert.Nil(t, ms.FieldInfo)
	assert.NotEmpty(t, infoStream.messages)

	numerics, err := ReadNumericValues(si, ms.FieldInfos)
	require.NoError(t, err)
	require.Len(t, numerics, 2)
	price := numerics["price"]
	for doc, want := range []int64{10, 30, 40, -5, 100, 7} {
		assert.Equal(t, want, price.Get(doc), "price of doc %v", doc)
	}
	rank := numerics["rank"]
	for doc, want := range []int64{0, 0, 0, 1, 2, 3} {
		assert.Equal(t, want, rank.Get(doc), "rank of doc %v", doc)
	}
	assert.Equal(t, packed.BitsRequired(3), rank.Values.BitsPerValue())

	postings, err := ReadPostings(si, ms.FieldInfos)
	require.NoError(t, err)
	assert.Equal(t, []*TermPostings{
		{Term: []byte("apple"), Docs: []Posting{
			{Doc: 0, Freq: 1, Positions: []Position{pos(1, "a")}},
			{Doc: 2, Freq: 2, Positions: []Position{pos(2, "b"), pos(5, "")}},
			{Doc: 5, Freq: 1, Positions: []Position{pos(0, "c")}},
		}},
		{Term: []byte("zoo"), Docs: []Posting{
			{Doc: 3, Freq: 1, Positions: []Position{pos(4, "")}},
		}},
	}, postings["body"])
	assert.Equal(t, []*TermPostings{
		{Term: []byte("x"), Docs: []Posting{{Doc: 4, Freq: 1}, {Doc: 5, Freq: 1}}},
	}, postings["tag"])
}

func TestMergeAppliesPayloadProcessors(t *testing.T) {
	dir := store.NewRAMDirectory()
	readers := newTestReaders()
	si := model.NewSegmentInfo(dir, "_2", nil)
	processor := &upperCaseProcessor{}
	conf := NewMergeConfig().SetPayloadProcessorProvider(
		PayloadProcessorProviderFunc(func(reader AtomicReader) (ReaderPayloadProcessor, error) {
			if reader == AtomicReader(readers[0]) {
				return processor, nil
			}
			return nil, nil
		}))

	ms, err := NewSegmentMerger(atomicReaders(readers), si, nil, nil, conf).Merge()
	require.NoError(t, err)
	assert.True(t, processor.closed)

	postings, err := ReadPostings(si, ms.FieldInfos)
	require.NoError(t, err)
	apple := postings["body"][0]
	require.Equal(t, "apple", string(apple.Term))
	assert.Equal(t, []Position{pos(1, "A")}, apple.Docs[0].Positions)
	assert.Equal(t, []Position{pos(2, "B"), pos(5, "")}, apple.Docs[1].Positions)
	// second reader has no processor
	assert.Equal(t, []Position{pos(0, "c")}, apple.Docs[2].Positions)
}

func TestMergeAbortDeletesFiles(t *testing.T) {
	dir := store.NewRAMDirectory()
	readers := newTestReaders()
	si := model.NewSegmentInfo(dir, "_2", nil)
	reg := prometheus.NewRegistry()
	metrics := NewMergeMetrics(reg)
	conf := NewMergeConfig().SetCheckAbortInterval(1).SetMetrics(metrics)

	merge := NewOneMerge("_0", "_1")
	merge.Abort()
	ms, err := NewSegmentMerger(atomicReaders(readers), si, merge, nil, conf).Merge()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMergeAborted))
	assert.Nil(t, ms)

	files, err := dir.ListAll()
	require.NoError(t, err)
	assert.Empty(t, files)
	for _, reader := range readers {
		assert.True(t, reader.IsClosed())
	}
	assert.Equal(t, -1, si.DocCount())

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Merges.WithLabelValues(MERGE_RESULT_ABORTED)))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.Merges.WithLabelValues(MERGE_RESULT_OK)))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.DocsMerged))
}

func TestMergeProviderFailureClosesReaders(t *testing.T) {
	dir := store.NewRAMDirectory()
	readers := newTestReaders()
	si := model.NewSegmentInfo(dir, "_2", nil)
	processor := &upperCaseProcessor{}
	broken := errors.New("broken provider")
	conf := NewMergeConfig().SetPayloadProcessorProvider(
		PayloadProcessorProviderFunc(func(reader AtomicReader) (ReaderPayloadProcessor, error) {
			if reader == AtomicReader(readers[1]) {
				return nil, broken
			}
			return processor, nil
		}))

	_, err := NewSegmentMerger(atomicReaders(readers), si, nil, nil, conf).Merge()
	assert.True(t, errors.Is(err, broken))
	assert.True(t, processor.closed)
	for _, reader := range readers {
		assert.True(t, reader.IsClosed())
	}
	files, err := dir.ListAll()
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestMergePayloadProcessorFailure(t *testing.T) {
	dir := store.NewRAMDirectory()
	readers := newTestReaders()
	si := model.NewSegmentInfo(dir, "_2", nil)
	broken := errors.New("bad payload")
	conf := NewMergeConfig().SetPayloadProcessorProvider(
		PayloadProcessorProviderFunc(func(reader AtomicReader) (ReaderPayloadProcessor, error) {
			return ReaderPayloadProcessorFunc(func(field string, term []byte) (PayloadProcessor, error) {
				return PayloadProcessorFunc(func(payload []byte) ([]byte, error) {
					return nil, broken
				}), nil
			}), nil
		}))

	_, err := NewSegmentMerger(atomicReaders(readers), si, nil, nil, conf).Merge()
	assert.True(t, errors.Is(err, broken))
	files, err := dir.ListAll()
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestMergeDirectoryFailureDeletesFiles(t *testing.T) {
	r := NewRandom(t)
	dir := NewDirectory(t, r)
	dir.FailOn(func(op ts.Op, name string) error {
		if op == ts.OP_CREATE_OUTPUT && name == "_2.pst" {
			return ts.ErrInjected
		}
		return nil
	})
	readers := newTestReaders()
	si := model.NewSegmentInfo(dir, "_2", nil)

	_, err := NewSegmentMerger(atomicReaders(readers), si, nil, nil, nil).Merge()
	assert.True(t, errors.Is(err, ts.ErrInjected))
	files, err := dir.ListAll()
	require.NoError(t, err)
	assert.Empty(t, files, "numeric values must be deleted")
	assert.Empty(t, dir.OpenFiles())
	for _, reader := range readers {
		assert.True(t, reader.IsClosed())
	}
}

func TestMergeClosedReaderFails(t *testing.T) {
	readers := newTestReaders()
	readers[1].Close()
	si := model.NewSegmentInfo(store.NewRAMDirectory(), "_2", nil)
	_, err := NewSegmentMerger(atomicReaders(readers), si, nil, nil, nil).Merge()
	assert.True(t, errors.Is(err, ErrReaderClosed))
	assert.True(t, readers[0].IsClosed())
}

func TestMergeMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMergeMetrics(reg)
	readers := newTestReaders()
	dir := store.NewRAMDirectory()
	si := model.NewSegmentInfo(dir, "_2", nil)

	_, err := NewSegmentMerger(atomicReaders(readers), si, nil, nil,
		NewMergeConfig().SetMetrics(metrics)).Merge()
	require.NoError(t, err)

	var size int64
	for _, name := range si.Files() {
		n, err := dir.FileLength(name)
		require.NoError(t, err)
		size += n
	}
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Merges.WithLabelValues(MERGE_RESULT_OK)))
	assert.Equal(t, 6.0, testutil.ToFloat64(metrics.DocsMerged))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.DeletedDocsDropped))
	assert.Equal(t, float64(size), testutil.ToFloat64(metrics.BytesWritten))
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.Duration))
}

func TestMergeEmptyReaders(t *testing.T) {
	readers := []*MemoryReader{NewMemoryReader("a", 2).Delete(0, 1), NewMemoryReader("b", 0)}
	si := model.NewSegmentInfo(store.NewRAMDirectory(), "_3", nil)
	merger := NewSegmentMerger(atomicReaders(readers), si, nil, nil, nil)
	assert.False(t, merger.ShouldMerge())

	ms, err := merger.Merge()
	require.NoError(t, err)
	assert.Equal(t, 0, ms.DocCount)
	numerics, err := ReadNumericValues(si, ms.FieldInfos)
	require.NoError(t, err)
	assert.Empty(t, numerics)
	postings, err := ReadPostings(si, ms.FieldInfos)
	require.NoError(t, err)
	assert.Empty(t, postings)
}

func TestMergeRandomNumericValues(t *testing.T) {
	r := NewRandom(t)
	dir := NewDirectory(t, r)
	numReaders := NextInt(r, 1, 5)
	readers := make([]*MemoryReader, numReaders)
	var expected []int64
	for i := range readers {
		maxDoc := NextInt(r, 0, AtLeast(r, 300))
		values := make([]int64, maxDoc)
		bpv := NextInt(r, 1, 64)
		for j := range values {
			values[j] = r.Int63() >> uint(64-bpv)
			if bpv == 64 && r.Intn(2) == 0 {
				values[j] = -values[j]
			}
		}
		reader := NewMemoryReader(fmt.Sprintf("r%d", i), maxDoc).AddNumericField("n", values)
		for j := range values {
			if Rarely(r) || r.Intn(10) == 0 {
				reader.Delete(j)
			} else {
				expected = append(expected, values[j])
			}
		}
		readers[i] = reader
	}

	si := model.NewSegmentInfo(dir, "_r", nil)
	conf := NewMergeConfig().SetAcceptableOverheadRatio(packed.PackedInts.FAST)
	ms, err := NewSegmentMerger(atomicReaders(readers), si, nil, nil, conf).Merge()
	require.NoError(t, err)
	require.Equal(t, len(expected), ms.DocCount)

	numerics, err := ReadNumericValues(si, ms.FieldInfos)
	require.NoError(t, err)
	n := numerics["n"]
	require.NotNil(t, n)
	for doc, want := range expected {
		require.Equal(t, want, n.Get(doc), "doc %v", doc)
	}
}

func TestMergeConfigDefaults(t *testing.T) {
	conf := NewMergeConfig()
	assert.Equal(t, packed.PackedInts.COMPACT, conf.AcceptableOverheadRatio)
	assert.Equal(t, util.NO_OUTPUT, conf.InfoStream)
	assert.Equal(t, DEFAULT_CHECK_ABORT_INTERVAL, conf.CheckAbortInterval)
	assert.Nil(t, conf.Metrics)
	assert.Panics(t, func() { conf.SetAcceptableOverheadRatio(-1) })
	assert.Panics(t, func() { conf.SetInfoStream(nil) })
	assert.Panics(t, func() { conf.SetCheckAbortInterval(0) })
}

func TestCheckAbortPollsAfterInterval(t *testing.T) {
	merge := NewOneMerge("_0")
	ca := NewCheckAbort(merge, nil, 10)
	require.NoError(t, ca.Work(5))
	merge.Abort()
	assert.NoError(t, ca.Work(4))
	assert.True(t, errors.Is(ca.Work(1), ErrMergeAborted))
	assert.NoError(t, CHECK_ABORT_NONE.Work(1e9))
}
