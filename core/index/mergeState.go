package index

import (
	"github.com/balzaczyy/gopacked/core/index/model"
	"github.com/balzaczyy/gopacked/core/util"
)

// index/MergeState.java

/*
Holds common state used during segment merging.

A MergeState is created for one merge and passed by reference to each
merge phase; it is owned by the goroutine driving that merge and is
discarded once the merge completes.
*/
type MergeState struct {
	// SegmentInfo of the newly merged segment.
	SegmentInfo *model.SegmentInfo
	// FieldInfos of the newly merged segment.
	FieldInfos model.FieldInfos
	// Readers being merged.
	Readers []AtomicReader
	// Maps docIDs around deletions, one per reader.
	DocMaps []*DocMap
	// New docID base per reader.
	DocBase []int
	// Documents per reader, deletions included.
	MaxDocs []int
	// Deleted documents per reader.
	DelCounts []int
	// Number of documents in the merged segment.
	DocCount int

	// Field being merged, nil between fields.
	FieldInfo *model.FieldInfo

	// Holds the CheckAbort instance, which is invoked periodically to
	// see if the merge has been aborted.
	CheckAbort *CheckAbort
	// InfoStream for debugging messages.
	InfoStream util.InfoStream

	// Per-reader processors, nil entries leave payloads untouched.
	ReaderPayloadProcessors []ReaderPayloadProcessor
	// Per-reader processors of the term being merged.
	CurrentPayloadProcessors []PayloadProcessor
}

func NewMergeState(readers []AtomicReader, segmentInfo *model.SegmentInfo,
	infoStream util.InfoStream, checkAbort *CheckAbort) *MergeState {
	if infoStream == nil {
		infoStream = util.NO_OUTPUT
	}
	if checkAbort == nil {
		checkAbort = CHECK_ABORT_NONE
	}
	return &MergeState{
		SegmentInfo:              segmentInfo,
		Readers:                  readers,
		InfoStream:               infoStream,
		CheckAbort:               checkAbort,
		ReaderPayloadProcessors:  make([]ReaderPayloadProcessor, len(readers)),
		CurrentPayloadProcessors: make([]PayloadProcessor, len(readers)),
	}
}

/*
Builds the doc maps and doc bases of all readers and returns the number
of documents of the merged segment. Live documents of reader i are
numbered from DocBase[i] in the merged space.
*/
func (s *MergeState) SetDocMaps(acceptableOverheadRatio float32) int {
	numReaders := len(s.Readers)
	s.DocMaps = make([]*DocMap, numReaders)
	s.DocBase = make([]int, numReaders)
	s.MaxDocs = make([]int, numReaders)
	s.DelCounts = make([]int, numReaders)
	docBase := 0
	for i, reader := range s.Readers {
		s.DocBase[i] = docBase
		docMap := BuildDocMap(reader, acceptableOverheadRatio)
		s.DocMaps[i] = docMap
		s.MaxDocs[i] = docMap.MaxDoc()
		s.DelCounts[i] = docMap.NumDeletedDocs()
		docBase += docMap.NumDocs()
	}
	s.DocCount = docBase
	return docBase
}

/*
Maps docID of reader readerIndex into the merged space, or returns -1
if the document is deleted.
*/
func (s *MergeState) MapDoc(readerIndex, docID int) int {
	newDoc := s.DocMaps[readerIndex].Get(docID)
	if newDoc == -1 {
		return -1
	}
	return s.DocBase[readerIndex] + newDoc
}

// Moves the field cursor; nil marks the end of a field.
func (s *MergeState) SetCurrentField(fi *model.FieldInfo) {
	s.FieldInfo = fi
}

/*
Resolves the payload processors of term for every reader. Readers
without a ReaderPayloadProcessor get a nil processor.
*/
func (s *MergeState) SetCurrentTerm(term []byte) error {
	assert2(s.FieldInfo != nil, "no field is being merged")
	for i, rp := range s.ReaderPayloadProcessors {
		s.CurrentPayloadProcessors[i] = nil
		if rp == nil {
			continue
		}
		pp, err := rp.ProcessorFor(s.FieldInfo.Name, term)
		if err != nil {
			return err
		}
		s.CurrentPayloadProcessors[i] = pp
	}
	return nil
}
