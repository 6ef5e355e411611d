package packed

import (
	"fmt"
	"math/bits"

	"github.com/balzaczyy/gopacked/core/util"
)

// util/packed/PackedLongValues.java

const (
	DEFAULT_PAGE_SIZE = 1024
	MIN_PAGE_SIZE     = 64
	// More than 1M doesn't really makes sense with these appending buffers
	// since their goal is to try to have small numbers of bits per value
	MAX_PAGE_SIZE = 1 << 20
)

/*
Utility class to compress integers into a PackedLongValues instance.
Values are buffered into pages of pageSize values and every page is
packed with the minimal number of bits its values need.
*/
type PackedLongValues struct {
	values              []PackedIntsReader
	mins                []int64 // nil unless delta-encoded
	pageShift, pageMask int
	size                int64
	ramBytesUsed        int64
}

// Get the number of values in this array.
func (p *PackedLongValues) Size() int64 {
	return p.size
}

func (p *PackedLongValues) Get(index int64) int64 {
	assert2(index >= 0 && index < p.size, "index %v out of range [0,%v)", index, p.size)
	block := int(index >> uint(p.pageShift))
	element := int(index & int64(p.pageMask))
	v := p.values[block].Get(element)
	if p.mins != nil {
		v += p.mins[block]
	}
	return v
}

func (p *PackedLongValues) RamBytesUsed() int64 {
	return p.ramBytesUsed
}

func (p *PackedLongValues) String() string {
	return fmt.Sprintf("PackedLongValues(size=%v, pages=%v, delta=%v)", p.size, len(p.values), p.mins != nil)
}

// Return an iterator over the values of this array.
func (p *PackedLongValues) Iterator() *PackedLongValuesIterator {
	return &PackedLongValuesIterator{owner: p}
}

// An iterator over long values.
type PackedLongValuesIterator struct {
	owner *PackedLongValues
	next  int64
}

func (it *PackedLongValuesIterator) HasNext() bool {
	return it.next < it.owner.size
}

func (it *PackedLongValuesIterator) Next() int64 {
	assert(it.HasNext())
	v := it.owner.Get(it.next)
	it.next++
	return v
}

const INITIAL_PAGE_COUNT = 16

// A Builder for a PackedLongValues instance.
type PackedLongValuesBuilder struct {
	pageShift, pageMask     int
	acceptableOverheadRatio float32
	delta                   bool

	pending    []int64
	pendingOff int
	size       int64

	values      []PackedIntsReader
	mins        []int64
	valuesBytes int64
}

func newPackedLongValuesBuilder(pageSize int, acceptableOverheadRatio float32, delta bool) *PackedLongValuesBuilder {
	ans := &PackedLongValuesBuilder{
		pageShift:               checkBlockSize(pageSize, MIN_PAGE_SIZE, MAX_PAGE_SIZE),
		pageMask:                pageSize - 1,
		acceptableOverheadRatio: acceptableOverheadRatio,
		delta:                   delta,
		pending:                 make([]int64, pageSize),
		values:                  make([]PackedIntsReader, 0, INITIAL_PAGE_COUNT),
	}
	if delta {
		ans.mins = make([]int64, 0, INITIAL_PAGE_COUNT)
	}
	return ans
}

// Return a new Builder that will compress efficiently positive integers.
func NewPackedBuilder(pageSize int, acceptableOverheadRatio float32) *PackedLongValuesBuilder {
	return newPackedLongValuesBuilder(pageSize, acceptableOverheadRatio, false)
}

/*
Return a new Builder that will compress efficiently integers that are
close to each other: every page stores its minimum and the deltas from
it.
*/
func NewDeltaPackedBuilder(pageSize int, acceptableOverheadRatio float32) *PackedLongValuesBuilder {
	return newPackedLongValuesBuilder(pageSize, acceptableOverheadRatio, true)
}

func PackedBuilder(acceptableOverheadRatio float32) *PackedLongValuesBuilder {
	return NewPackedBuilder(DEFAULT_PAGE_SIZE, acceptableOverheadRatio)
}

func DeltaPackedBuilder(acceptableOverheadRatio float32) *PackedLongValuesBuilder {
	return NewDeltaPackedBuilder(DEFAULT_PAGE_SIZE, acceptableOverheadRatio)
}

/*
Build a PackedLongValues instance that contains values that have been
added to this builder. This operation is destructive.
*/
func (b *PackedLongValuesBuilder) Build() *PackedLongValues {
	assert2(b.pending != nil, "Cannot be reused after Build()")
	if b.pendingOff > 0 {
		b.pack()
	}
	b.pending = nil
	ans := &PackedLongValues{
		values:    b.values,
		mins:      b.mins,
		pageShift: b.pageShift,
		pageMask:  b.pageMask,
		size:      b.size,
	}
	ans.ramBytesUsed = util.AlignObjectSize(
		util.NUM_BYTES_OBJECT_HEADER+
			3*util.NUM_BYTES_OBJECT_REF+
			2*util.NUM_BYTES_INT+
			2*util.NUM_BYTES_LONG) +
		util.ShallowSizeOfRefs(len(b.values)) + b.valuesBytes
	if b.mins != nil {
		ans.ramBytesUsed += util.SizeOf(b.mins)
	}
	return ans
}

func (b *PackedLongValuesBuilder) RamBytesUsed() int64 {
	ans := util.AlignObjectSize(
		util.NUM_BYTES_OBJECT_HEADER+
			4*util.NUM_BYTES_OBJECT_REF+
			4*util.NUM_BYTES_INT+
			util.NUM_BYTES_LONG+
			util.NUM_BYTES_FLOAT) +
		util.ShallowSizeOfRefs(cap(b.values)) + b.valuesBytes
	if b.pending != nil {
		ans += util.SizeOf(b.pending)
	}
	if b.mins != nil {
		ans += util.SizeOf(b.mins[:cap(b.mins)])
	}
	return ans
}

// Return the number of elements that have been added to this builder.
func (b *PackedLongValuesBuilder) Size() int64 {
	return b.size
}

// Add a new element to this builder.
func (b *PackedLongValuesBuilder) Add(l int64) *PackedLongValuesBuilder {
	assert2(b.pending != nil, "Cannot be reused after Build()")
	if b.pendingOff == len(b.pending) {
		b.pack()
	}
	b.pending[b.pendingOff] = l
	b.pendingOff++
	b.size++
	return b
}

func (b *PackedLongValuesBuilder) pack() {
	page := b.pending[:b.pendingOff]
	var min int64
	if b.delta {
		min = page[0]
		for _, v := range page[1:] {
			if v < min {
				min = v
			}
		}
	}
	// or-ing the deltas gives the width of the largest one
	var or uint64
	for _, v := range page {
		or |= uint64(v - min)
	}
	var reader PackedIntsReader
	if or == 0 {
		reader = newNilReader(len(page))
	} else {
		m := MutableFor(len(page), bits.Len64(or), b.acceptableOverheadRatio)
		for i, v := range page {
			m.Set(i, v-min)
		}
		reader = m
	}
	if len(b.values) == cap(b.values) {
		n := util.Oversize(len(b.values)+1, util.NUM_BYTES_OBJECT_REF)
		b.values = append(make([]PackedIntsReader, 0, n), b.values...)
		if b.delta {
			b.mins = append(make([]int64, 0, n), b.mins...)
		}
	}
	b.values = append(b.values, reader)
	if b.delta {
		b.mins = append(b.mins, min)
	}
	b.valuesBytes += reader.RamBytesUsed()
	b.pendingOff = 0
}

// Checks that blockSize is a power of two in [minBlockSize,maxBlockSize]
// and returns its base-2 logarithm.
func checkBlockSize(blockSize, minBlockSize, maxBlockSize int) int {
	assert2(blockSize >= minBlockSize && blockSize <= maxBlockSize,
		"blockSize must be >= %v and <= %v, got %v", minBlockSize, maxBlockSize, blockSize)
	assert2(blockSize&(blockSize-1) == 0, "blockSize must be a power of two, got %v", blockSize)
	return bits.TrailingZeros(uint(blockSize))
}
