package packed

import (
	"fmt"

	"github.com/balzaczyy/gopacked/core/util"
)

// util/packed/Packed64.java

const (
	PACKED64_BLOCK_SIZE = 64                      // 32 = int, 64 = long
	PACKED64_BLOCK_BITS = 6                       // The #bits representing BLOCK_SIZE
	PACKED64_MOD_MASK   = PACKED64_BLOCK_SIZE - 1 // x % BLOCK_SIZE
)

/*
Space optimized random access capable array of values with a fixed
number of bits/value. Values are packed contiguously, MSB first.

The implementation strives to perform as fast as possible under the
constraint of contiguous bits, by avoiding expensive operations. This
comes at the cost of code clarity.

Technical details: This implementation is a refinement of a
non-branching version. The non-branching get and set methods meant
that 2 or 4 atomics in the underlying array were always accessed, even
for the cases where only 1 or 2 were needed. Even with caching, this
had a detrimental effect on performance. Related to this issue, the
old implementation used lookup tables for shifts and masks, which also
proved to be a bit slower than calculating the shifts and masks on the
fly.
*/
type Packed64 struct {
	*mutableImpl
	blocks            []int64
	maskRight         uint64
	bpvMinusBlockSize int
}

func newPacked64(valueCount, bitsPerValue int) *Packed64 {
	checkValueCount(valueCount)
	longCount := PACKED.LongCount(VERSION_CURRENT, valueCount, bitsPerValue)
	return NewPacked64Wrap(make([]int64, longCount), valueCount, bitsPerValue)
}

/*
Wraps blocks without copying. blocks must hold at least
ceil(valueCount*bitsPerValue/64) words; writes through the returned
Packed64 are visible to the caller.
*/
func NewPacked64Wrap(blocks []int64, valueCount, bitsPerValue int) *Packed64 {
	checkBitsPerValue(bitsPerValue)
	assert2(len(blocks) >= PACKED.LongCount(VERSION_CURRENT, valueCount, bitsPerValue),
		"%v blocks cannot hold %v values of %v bits", len(blocks), valueCount, bitsPerValue)
	ans := &Packed64{
		blocks:            blocks,
		maskRight:         mask(bitsPerValue),
		bpvMinusBlockSize: bitsPerValue - PACKED64_BLOCK_SIZE,
	}
	ans.mutableImpl = newMutableImpl(ans, valueCount, bitsPerValue)
	return ans
}

func newPacked64FromInput(version int32, in DataInput, valueCount, bitsPerValue int) (r *Packed64, err error) {
	ans := newPacked64(valueCount, bitsPerValue)
	for i := range ans.blocks {
		if ans.blocks[i], err = in.ReadLong(); err != nil {
			return nil, err
		}
	}
	return ans, nil
}

func (p *Packed64) Get(index int) int64 {
	// The abstract index in a bit stream
	majorBitPos := int64(index) * int64(p.bitsPerValue)
	// The index in the backing long-array
	elementPos := int(majorBitPos >> PACKED64_BLOCK_BITS)
	// The number of value-bits in the second long
	endBits := int(majorBitPos&PACKED64_MOD_MASK) + p.bpvMinusBlockSize

	if endBits <= 0 { // Single block
		return int64((uint64(p.blocks[elementPos]) >> uint(-endBits)) & p.maskRight)
	}
	// Two blocks
	return int64(((uint64(p.blocks[elementPos]) << uint(endBits)) |
		(uint64(p.blocks[elementPos+1]) >> uint(PACKED64_BLOCK_SIZE-endBits))) &
		p.maskRight)
}

func (p *Packed64) Set(index int, value int64) {
	v := uint64(value) & p.maskRight
	// The abstract index in a contiguous bit stream
	majorBitPos := int64(index) * int64(p.bitsPerValue)
	// The index in the backing long-array
	elementPos := int(majorBitPos >> PACKED64_BLOCK_BITS)
	// The number of value-bits in the second long
	endBits := int(majorBitPos&PACKED64_MOD_MASK) + p.bpvMinusBlockSize

	if endBits <= 0 { // Single block
		b := uint64(p.blocks[elementPos])
		b = b&^(p.maskRight<<uint(-endBits)) | v<<uint(-endBits)
		p.blocks[elementPos] = int64(b)
		return
	}
	// Two blocks
	b := uint64(p.blocks[elementPos])
	b = b&^(p.maskRight>>uint(endBits)) | v>>uint(endBits)
	p.blocks[elementPos] = int64(b)
	b = uint64(p.blocks[elementPos+1])
	b = b&(^uint64(0)>>uint(endBits)) | v<<uint(PACKED64_BLOCK_SIZE-endBits)
	p.blocks[elementPos+1] = int64(b)
}

func (p *Packed64) String() string {
	return fmt.Sprintf("Packed64(bitsPerValue=%v, size=%v, elements.length=%v)",
		p.bitsPerValue, p.Size(), len(p.blocks))
}

func (p *Packed64) RamBytesUsed() int64 {
	return util.AlignObjectSize(
		util.NUM_BYTES_OBJECT_HEADER+
			3*util.NUM_BYTES_INT+
			util.NUM_BYTES_LONG+
			util.NUM_BYTES_OBJECT_REF) +
		util.SizeOf(p.blocks)
}

func (p *Packed64) Clear() {
	for i := range p.blocks {
		p.blocks[i] = 0
	}
}
