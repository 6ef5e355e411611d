package util

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
)

// util/Bits.java

/*
Interface for Bitset-like structures.
*/
type Bits interface {
	// Returns the value of the bit with the specified index. The index
	// should be non-negative and < Length(); the result of passing
	// negative or out of bounds values is undefined.
	At(index int) bool
	// Returns the number of bits in the set
	Length() int
}

// util/MutableBits.java

/* Extension of Bits for live documents. */
type MutableBits interface {
	Bits
	// Sets the bit specified by index to false.
	Clear(index int)
}

/*
LiveDocs marks which documents of a segment are still live. Deleted
documents are recorded in a compressed roaring bitmap, so a segment
with few deletions costs almost nothing regardless of its size.

At(i) reports true iff document i is live.
*/
type LiveDocs struct {
	deleted *roaring.Bitmap
	length  int
}

// Returns LiveDocs over length documents, all of them live.
func NewLiveDocs(length int) *LiveDocs {
	assert2(length >= 0, "length must be >= 0 (got %v)", length)
	return &LiveDocs{deleted: roaring.New(), length: length}
}

func (ld *LiveDocs) At(index int) bool {
	return !ld.deleted.Contains(uint32(index))
}

func (ld *LiveDocs) Length() int {
	return ld.length
}

// Marks document index as deleted.
func (ld *LiveDocs) Clear(index int) {
	assert2(index >= 0 && index < ld.length, "index %v out of bounds [0,%v)", index, ld.length)
	ld.deleted.Add(uint32(index))
}

// Returns the number of deleted documents.
func (ld *LiveDocs) DeletedCount() int {
	return int(ld.deleted.GetCardinality())
}

func (ld *LiveDocs) RamBytesUsed() int64 {
	return AlignObjectSize(NUM_BYTES_OBJECT_HEADER+NUM_BYTES_OBJECT_REF+NUM_BYTES_INT) +
		int64(ld.deleted.GetSizeInBytes())
}

func (ld *LiveDocs) String() string {
	return fmt.Sprintf("LiveDocs(length=%v, deleted=%v)", ld.length, ld.DeletedCount())
}
