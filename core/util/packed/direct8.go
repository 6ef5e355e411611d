package packed

import (
	"fmt"

	"github.com/balzaczyy/gopacked/core/util"
)

// Direct wrapping of 8-bits values to a backing array.
type Direct8 struct {
	*mutableImpl
	values []byte
}

func newDirect8(valueCount int) *Direct8 {
	checkValueCount(valueCount)
	return NewDirect8Wrap(make([]byte, valueCount))
}

// Wraps values without copying: later writes through the returned
// Direct8 are visible in values and vice versa.
func NewDirect8Wrap(values []byte) *Direct8 {
	ans := &Direct8{values: values}
	ans.mutableImpl = newMutableImpl(ans, len(values), 8)
	return ans
}

func newDirect8FromInput(version int32, in DataInput, valueCount int) (r *Direct8, err error) {
	ans := newDirect8(valueCount)
	if err = in.ReadBytes(ans.values); err != nil {
		return nil, err
	}
	// the stream is long-aligned
	remaining := PACKED.ByteCount(version, valueCount, 8) - 1*int64(valueCount)
	for i := int64(0); i < remaining; i++ {
		if _, err = in.ReadByte(); err != nil {
			return nil, err
		}
	}
	return ans, nil
}

func (d *Direct8) Get(index int) int64 {
	return int64(d.values[index]) & 0xFF
}

func (d *Direct8) Set(index int, value int64) {
	d.values[index] = byte(value)
}

func (d *Direct8) RamBytesUsed() int64 {
	return util.AlignObjectSize(
		util.NUM_BYTES_OBJECT_HEADER+
			2*util.NUM_BYTES_INT+
			util.NUM_BYTES_OBJECT_REF) +
		util.SizeOf(d.values)
}

func (d *Direct8) Clear() {
	for i := range d.values {
		d.values[i] = 0
	}
}

func (d *Direct8) GetBulk(index int, arr []int64) int {
	gets := d.checkBulk(index, arr)
	for i, v := range d.values[index : index+gets] {
		arr[i] = int64(v) & 0xFF
	}
	return gets
}

func (d *Direct8) SetBulk(index int, arr []int64) int {
	sets := d.checkBulk(index, arr)
	for i, v := range arr[:sets] {
		d.values[index+i] = byte(v)
	}
	return sets
}

func (d *Direct8) Fill(from, to int, val int64) {
	assert(from <= to)
	for i := from; i < to; i++ {
		d.values[i] = byte(val)
	}
}

func (d *Direct8) String() string {
	return fmt.Sprintf("Direct8(valueCount=%v)", d.valueCount)
}
