package packed

import (
	"fmt"

	"github.com/balzaczyy/gopacked/core/util"
)

// Direct wrapping of 32-bits values to a backing array.
type Direct32 struct {
	*mutableImpl
	values []int32
}

func newDirect32(valueCount int) *Direct32 {
	checkValueCount(valueCount)
	return NewDirect32Wrap(make([]int32, valueCount))
}

// Wraps values without copying: later writes through the returned
// Direct32 are visible in values and vice versa.
func NewDirect32Wrap(values []int32) *Direct32 {
	ans := &Direct32{values: values}
	ans.mutableImpl = newMutableImpl(ans, len(values), 32)
	return ans
}

func newDirect32FromInput(version int32, in DataInput, valueCount int) (r *Direct32, err error) {
	ans := newDirect32(valueCount)
	for i := range ans.values {
		if ans.values[i], err = in.ReadInt(); err != nil {
			return nil, err
		}
	}
	// the stream is long-aligned
	remaining := PACKED.ByteCount(version, valueCount, 32) - 4*int64(valueCount)
	for i := int64(0); i < remaining; i++ {
		if _, err = in.ReadByte(); err != nil {
			return nil, err
		}
	}
	return ans, nil
}

func (d *Direct32) Get(index int) int64 {
	return int64(d.values[index]) & 0xFFFFFFFF
}

func (d *Direct32) Set(index int, value int64) {
	d.values[index] = int32(value)
}

func (d *Direct32) RamBytesUsed() int64 {
	return util.AlignObjectSize(
		util.NUM_BYTES_OBJECT_HEADER+
			2*util.NUM_BYTES_INT+
			util.NUM_BYTES_OBJECT_REF) +
		util.SizeOf(d.values)
}

func (d *Direct32) Clear() {
	for i := range d.values {
		d.values[i] = 0
	}
}

func (d *Direct32) GetBulk(index int, arr []int64) int {
	gets := d.checkBulk(index, arr)
	for i, v := range d.values[index : index+gets] {
		arr[i] = int64(v) & 0xFFFFFFFF
	}
	return gets
}

func (d *Direct32) SetBulk(index int, arr []int64) int {
	sets := d.checkBulk(index, arr)
	for i, v := range arr[:sets] {
		d.values[index+i] = int32(v)
	}
	return sets
}

func (d *Direct32) Fill(from, to int, val int64) {
	assert(from <= to)
	for i := from; i < to; i++ {
		d.values[i] = int32(val)
	}
}

func (d *Direct32) String() string {
	return fmt.Sprintf("Direct32(valueCount=%v)", d.valueCount)
}
