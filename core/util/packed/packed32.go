package packed

import (
	"fmt"

	"github.com/balzaczyy/gopacked/core/util"
)

// util/packed/Packed32.java

const (
	PACKED32_BLOCK_SIZE = 32
	PACKED32_BLOCK_BITS = 5
	PACKED32_MOD_MASK   = PACKED32_BLOCK_SIZE - 1
)

/*
Space optimized random access capable array of values with a fixed
number of bits/value, packed MSB first into 32-bit words. A value may
span up to three words when bitsPerValue is above 32.

The bit layout is the same as Packed64's: two consecutive words form
one long of a Packed64 stream, high word first.
*/
type Packed32 struct {
	*mutableImpl
	blocks []int32
}

func packed32WordCount(valueCount, bitsPerValue int) int {
	totalBits := int64(valueCount) * int64(bitsPerValue)
	return int((totalBits + PACKED32_MOD_MASK) >> PACKED32_BLOCK_BITS)
}

func newPacked32(valueCount, bitsPerValue int) *Packed32 {
	checkValueCount(valueCount)
	return NewPacked32Wrap(make([]int32, packed32WordCount(valueCount, bitsPerValue)), valueCount, bitsPerValue)
}

/*
Wraps blocks without copying. blocks must hold at least
ceil(valueCount*bitsPerValue/32) words; writes through the returned
Packed32 are visible to the caller.
*/
func NewPacked32Wrap(blocks []int32, valueCount, bitsPerValue int) *Packed32 {
	checkBitsPerValue(bitsPerValue)
	assert2(len(blocks) >= packed32WordCount(valueCount, bitsPerValue),
		"%v blocks cannot hold %v values of %v bits", len(blocks), valueCount, bitsPerValue)
	ans := &Packed32{blocks: blocks}
	ans.mutableImpl = newMutableImpl(ans, valueCount, bitsPerValue)
	return ans
}

func newPacked32FromInput(version int32, in DataInput, valueCount, bitsPerValue int) (r *Packed32, err error) {
	ans := newPacked32(valueCount, bitsPerValue)
	longCount := PACKED.LongCount(version, valueCount, bitsPerValue)
	for i := 0; i < longCount; i++ {
		var l int64
		if l, err = in.ReadLong(); err != nil {
			return nil, err
		}
		ans.blocks[2*i] = int32(l >> 32)
		// the low half of the last long may be padding only
		if 2*i+1 < len(ans.blocks) {
			ans.blocks[2*i+1] = int32(l)
		}
	}
	return ans, nil
}

func (p *Packed32) Get(index int) int64 {
	bitPos := int64(index) * int64(p.bitsPerValue)
	var v uint64
	for remaining := p.bitsPerValue; remaining > 0; {
		elementPos := int(bitPos >> PACKED32_BLOCK_BITS)
		offset := int(bitPos & PACKED32_MOD_MASK)
		take := PACKED32_BLOCK_SIZE - offset
		if take > remaining {
			take = remaining
		}
		word := uint64(uint32(p.blocks[elementPos]))
		v = v<<uint(take) | (word>>uint(PACKED32_BLOCK_SIZE-offset-take))&mask(take)
		remaining -= take
		bitPos += int64(take)
	}
	return int64(v)
}

func (p *Packed32) Set(index int, value int64) {
	v := uint64(value) & mask(p.bitsPerValue)
	bitPos := int64(index) * int64(p.bitsPerValue)
	for remaining := p.bitsPerValue; remaining > 0; {
		elementPos := int(bitPos >> PACKED32_BLOCK_BITS)
		offset := int(bitPos & PACKED32_MOD_MASK)
		take := PACKED32_BLOCK_SIZE - offset
		if take > remaining {
			take = remaining
		}
		shift := uint(PACKED32_BLOCK_SIZE - offset - take)
		bits := uint32((v >> uint(remaining-take)) & mask(take))
		m := uint32(mask(take)) << shift
		p.blocks[elementPos] = int32(uint32(p.blocks[elementPos])&^m | bits<<shift)
		remaining -= take
		bitPos += int64(take)
	}
}

func (p *Packed32) String() string {
	return fmt.Sprintf("Packed32(bitsPerValue=%v, size=%v, elements.length=%v)",
		p.bitsPerValue, p.Size(), len(p.blocks))
}

func (p *Packed32) RamBytesUsed() int64 {
	return util.AlignObjectSize(
		util.NUM_BYTES_OBJECT_HEADER+
			2*util.NUM_BYTES_INT+
			util.NUM_BYTES_OBJECT_REF) +
		util.SizeOf(p.blocks)
}

func (p *Packed32) Clear() {
	for i := range p.blocks {
		p.blocks[i] = 0
	}
}
