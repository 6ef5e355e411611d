package packed

import (
	"fmt"

	"github.com/balzaczyy/gopacked/core/util"
)

// Direct wrapping of 64-bits values to a backing array.
type Direct64 struct {
	*mutableImpl
	values []int64
}

func newDirect64(valueCount int) *Direct64 {
	checkValueCount(valueCount)
	return NewDirect64Wrap(make([]int64, valueCount))
}

// Wraps values without copying: later writes through the returned
// Direct64 are visible in values and vice versa.
func NewDirect64Wrap(values []int64) *Direct64 {
	ans := &Direct64{values: values}
	ans.mutableImpl = newMutableImpl(ans, len(values), 64)
	return ans
}

func newDirect64FromInput(version int32, in DataInput, valueCount int) (r *Direct64, err error) {
	ans := newDirect64(valueCount)
	for i := range ans.values {
		if ans.values[i], err = in.ReadLong(); err != nil {
			return nil, err
		}
	}
	return ans, nil
}

func (d *Direct64) Get(index int) int64 {
	return d.values[index]
}

func (d *Direct64) Set(index int, value int64) {
	d.values[index] = value
}

func (d *Direct64) RamBytesUsed() int64 {
	return util.AlignObjectSize(
		util.NUM_BYTES_OBJECT_HEADER+
			2*util.NUM_BYTES_INT+
			util.NUM_BYTES_OBJECT_REF) +
		util.SizeOf(d.values)
}

func (d *Direct64) Clear() {
	for i := range d.values {
		d.values[i] = 0
	}
}

func (d *Direct64) GetBulk(index int, arr []int64) int {
	gets := d.checkBulk(index, arr)
	for i, v := range d.values[index : index+gets] {
		arr[i] = v
	}
	return gets
}

func (d *Direct64) SetBulk(index int, arr []int64) int {
	sets := d.checkBulk(index, arr)
	for i, v := range arr[:sets] {
		d.values[index+i] = v
	}
	return sets
}

func (d *Direct64) Fill(from, to int, val int64) {
	assert(from <= to)
	for i := from; i < to; i++ {
		d.values[i] = val
	}
}

func (d *Direct64) String() string {
	return fmt.Sprintf("Direct64(valueCount=%v)", d.valueCount)
}
