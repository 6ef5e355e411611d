package packed

import (
	"fmt"

	"github.com/balzaczyy/gopacked/core/util"
)

// Direct wrapping of 16-bits values to a backing array.
type Direct16 struct {
	*mutableImpl
	values []int16
}

func newDirect16(valueCount int) *Direct16 {
	checkValueCount(valueCount)
	return NewDirect16Wrap(make([]int16, valueCount))
}

// Wraps values without copying: later writes through the returned
// Direct16 are visible in values and vice versa.
func NewDirect16Wrap(values []int16) *Direct16 {
	ans := &Direct16{values: values}
	ans.mutableImpl = newMutableImpl(ans, len(values), 16)
	return ans
}

func newDirect16FromInput(version int32, in DataInput, valueCount int) (r *Direct16, err error) {
	ans := newDirect16(valueCount)
	for i := range ans.values {
		if ans.values[i], err = in.ReadShort(); err != nil {
			return nil, err
		}
	}
	// the stream is long-aligned
	remaining := PACKED.ByteCount(version, valueCount, 16) - 2*int64(valueCount)
	for i := int64(0); i < remaining; i++ {
		if _, err = in.ReadByte(); err != nil {
			return nil, err
		}
	}
	return ans, nil
}

func (d *Direct16) Get(index int) int64 {
	return int64(d.values[index]) & 0xFFFF
}

func (d *Direct16) Set(index int, value int64) {
	d.values[index] = int16(value)
}

func (d *Direct16) RamBytesUsed() int64 {
	return util.AlignObjectSize(
		util.NUM_BYTES_OBJECT_HEADER+
			2*util.NUM_BYTES_INT+
			util.NUM_BYTES_OBJECT_REF) +
		util.SizeOf(d.values)
}

func (d *Direct16) Clear() {
	for i := range d.values {
		d.values[i] = 0
	}
}

func (d *Direct16) GetBulk(index int, arr []int64) int {
	gets := d.checkBulk(index, arr)
	for i, v := range d.values[index : index+gets] {
		arr[i] = int64(v) & 0xFFFF
	}
	return gets
}

func (d *Direct16) SetBulk(index int, arr []int64) int {
	sets := d.checkBulk(index, arr)
	for i, v := range arr[:sets] {
		d.values[index+i] = int16(v)
	}
	return sets
}

func (d *Direct16) Fill(from, to int, val int64) {
	assert(from <= to)
	for i := from; i < to; i++ {
		d.values[i] = int16(val)
	}
}

func (d *Direct16) String() string {
	return fmt.Sprintf("Direct16(valueCount=%v)", d.valueCount)
}
