package packed

import (
	"fmt"

	"github.com/balzaczyy/gopacked/core/util"
)

// util/packed/GrowableWriter.java

/*
Implements Mutable, but grows the bit count of the underlying packed
ints on-demand.

Beware that this class will accept to set negative values but in order
to do this, it will grow the number of bits per value to 64.
*/
type GrowableWriter struct {
	currentMask             uint64
	current                 Mutable
	acceptableOverheadRatio float32
}

func NewGrowableWriter(startBitsPerValue, valueCount int,
	acceptableOverheadRatio float32) *GrowableWriter {
	m := MutableFor(valueCount, startBitsPerValue, acceptableOverheadRatio)
	return &GrowableWriter{
		acceptableOverheadRatio: acceptableOverheadRatio,
		current:                 m,
		currentMask:             mask(m.BitsPerValue()),
	}
}

func (w *GrowableWriter) Get(index int) int64 {
	return w.current.Get(index)
}

func (w *GrowableWriter) Size() int {
	return w.current.Size()
}

func (w *GrowableWriter) BitsPerValue() int {
	return w.current.BitsPerValue()
}

// The Mutable currently backing this writer.
func (w *GrowableWriter) Mutable() Mutable {
	return w.current
}

func (w *GrowableWriter) ensureCapacity(value int64) {
	if uint64(value)&w.currentMask == uint64(value) {
		return
	}
	var bitsRequired int
	if value < 0 {
		bitsRequired = 64
	} else {
		bitsRequired = UnsignedBitsRequired(value)
	}
	assert(bitsRequired > w.current.BitsPerValue())
	valueCount := w.Size()
	next := MutableFor(valueCount, bitsRequired, w.acceptableOverheadRatio)
	Copy(w.current, 0, next, 0, valueCount, DEFAULT_BUFFER_SIZE)
	w.current = next
	w.currentMask = mask(w.current.BitsPerValue())
}

func (w *GrowableWriter) Set(index int, value int64) {
	w.ensureCapacity(value)
	w.current.Set(index, value)
}

func (w *GrowableWriter) Clear() {
	w.current.Clear()
}

func (w *GrowableWriter) GetBulk(index int, arr []int64) int {
	return w.current.GetBulk(index, arr)
}

func (w *GrowableWriter) SetBulk(index int, arr []int64) int {
	var max int64
	for _, v := range arr {
		// bitwise or is nice because either all values are positive and
		// the or-ed result will require as many bits per value as the max
		// of the values, or one of them is negative and the result will be
		// negative, forcing GrowableWriter to use 64 bits per value
		max |= v
	}
	w.ensureCapacity(max)
	return w.current.SetBulk(index, arr)
}

func (w *GrowableWriter) Fill(from, to int, val int64) {
	w.ensureCapacity(val)
	w.current.Fill(from, to, val)
}

func (w *GrowableWriter) RamBytesUsed() int64 {
	return util.AlignObjectSize(
		util.NUM_BYTES_OBJECT_HEADER+
			util.NUM_BYTES_OBJECT_REF+
			util.NUM_BYTES_LONG+
			util.NUM_BYTES_FLOAT) +
		w.current.RamBytesUsed()
}

func (w *GrowableWriter) Save(out DataOutput) error {
	return w.current.Save(out)
}

func (w *GrowableWriter) String() string {
	return fmt.Sprintf("GrowableWriter(current=%v)", w.current)
}
