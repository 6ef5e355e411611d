package index

import (
	"fmt"

	"github.com/balzaczyy/gopacked/core/util"
	"github.com/balzaczyy/gopacked/core/util/packed"
)

// index/MergeState.java#DocMap

/*
Remaps docids around deletes during merge. Live documents keep their
relative order and are renumbered densely from 0; deleted documents
map to -1.
*/
type DocMap struct {
	liveDocs   util.Bits
	docMap     *packed.PackedLongValues // nil without deletions
	maxDoc     int
	numDeleted int
}

/*
Creates a DocMap instance appropriate for this reader. The mapping is
kept in delta-packed pages, so a segment with few deletions maps its
documents with a handful of bits each.
*/
func BuildDocMap(reader AtomicReader, acceptableOverheadRatio float32) *DocMap {
	maxDoc := reader.MaxDoc()
	liveDocs := reader.LiveDocs()
	if liveDocs == nil {
		return &DocMap{maxDoc: maxDoc}
	}
	assert2(liveDocs.Length() == maxDoc, "liveDocs.Length()=%v, maxDoc=%v", liveDocs.Length(), maxDoc)
	b := packed.DeltaPackedBuilder(acceptableOverheadRatio)
	del := 0
	for i := 0; i < maxDoc; i++ {
		b.Add(int64(i - del))
		if !liveDocs.At(i) {
			del++
		}
	}
	assert2(reader.NumDocs()+del == maxDoc, "numDocs=%v, deleted=%v, maxDoc=%v", reader.NumDocs(), del, maxDoc)
	return &DocMap{
		liveDocs:   liveDocs,
		docMap:     b.Build(),
		maxDoc:     maxDoc,
		numDeleted: del,
	}
}

// Returns the mapped docID corresponding to the provided one, or -1
// if the document is deleted.
func (m *DocMap) Get(docID int) int {
	if m.docMap == nil {
		return docID
	}
	if !m.liveDocs.At(docID) {
		return -1
	}
	return int(m.docMap.Get(int64(docID)))
}

// Returns the total number of documents, ignoring deletions.
func (m *DocMap) MaxDoc() int {
	return m.maxDoc
}

// Returns the number of not-deleted documents.
func (m *DocMap) NumDocs() int {
	return m.maxDoc - m.numDeleted
}

// Returns the number of deleted documents.
func (m *DocMap) NumDeletedDocs() int {
	return m.numDeleted
}

// Returns true if there are any deletions.
func (m *DocMap) HasDeletions() bool {
	return m.numDeleted > 0
}

func (m *DocMap) RamBytesUsed() int64 {
	ans := util.AlignObjectSize(util.NUM_BYTES_OBJECT_HEADER + 2*util.NUM_BYTES_OBJECT_REF + 2*util.NUM_BYTES_INT)
	if m.docMap != nil {
		ans += m.docMap.RamBytesUsed()
	}
	return ans
}

func (m *DocMap) String() string {
	return fmt.Sprintf("DocMap(maxDoc=%v, deleted=%v)", m.maxDoc, m.numDeleted)
}
