package packed

import (
	"github.com/balzaczyy/gopacked/core/util"
)

/*
A read-only random access array of positive integers.

Get() never mutates shared state, so a Reader may be shared between
goroutines once it is fully constructed.
*/
type PackedIntsReader interface {
	util.Accountable
	// Get the value at the given index. Out of range indices panic.
	Get(index int) int64
	// Bulk get: read at least one and at most len(arr) values starting
	// from index into arr. Returns the actual number of values read.
	GetBulk(index int, arr []int64) int
	// The number of values.
	Size() int
	// The number of bits used to store any given value.
	BitsPerValue() int
}

/*
A packed integer array that can be modified.

Set() stores value & MaxValue(BitsPerValue()): high bits that do not
fit are silently discarded. Mutables are not safe for concurrent
writes.
*/
type Mutable interface {
	PackedIntsReader
	// Set the value at the given index in the array.
	Set(index int, value int64)
	// Bulk set: set at least one and at most len(arr) values starting
	// at index. Returns the actual number of values written.
	SetBulk(index int, arr []int64) int
	// Fill the mutable [from,to) with val.
	Fill(from, to int, val int64)
	// Sets all values to 0.
	Clear()
	// Save this mutable into out. Instantiating a reader from the
	// generated data will return a reader with the same number of bits
	// per value.
	Save(out DataOutput) error
}

type mutableSPI interface {
	Get(index int) int64
	Set(index int, value int64)
}

// Generic Mutable behavior on top of Get() and Set().
type mutableImpl struct {
	spi          mutableSPI
	valueCount   int
	bitsPerValue int
}

func newMutableImpl(spi mutableSPI, valueCount, bitsPerValue int) *mutableImpl {
	checkValueCount(valueCount)
	checkBitsPerValue(bitsPerValue)
	return &mutableImpl{spi, valueCount, bitsPerValue}
}

func (m *mutableImpl) Size() int {
	return m.valueCount
}

func (m *mutableImpl) BitsPerValue() int {
	return m.bitsPerValue
}

func (m *mutableImpl) checkBulk(index int, arr []int64) int {
	assert2(len(arr) > 0, "len must be > 0 (got %v)", len(arr))
	assert2(index >= 0 && index < m.valueCount, "index %v out of range [0,%v)", index, m.valueCount)
	n := m.valueCount - index
	if len(arr) < n {
		n = len(arr)
	}
	return n
}

func (m *mutableImpl) GetBulk(index int, arr []int64) int {
	n := m.checkBulk(index, arr)
	for i := range arr[:n] {
		arr[i] = m.spi.Get(index + i)
	}
	return n
}

func (m *mutableImpl) SetBulk(index int, arr []int64) int {
	n := m.checkBulk(index, arr)
	for i, v := range arr[:n] {
		m.spi.Set(index+i, v)
	}
	return n
}

func (m *mutableImpl) Fill(from, to int, val int64) {
	assert(from <= to)
	for i := from; i < to; i++ {
		m.spi.Set(i, val)
	}
}

func (m *mutableImpl) Clear() {
	m.Fill(0, m.valueCount, 0)
}

func (m *mutableImpl) Save(out DataOutput) error {
	w := WriterNoHeader(out, PACKED, m.valueCount, m.bitsPerValue)
	err := w.writeHeader()
	if err != nil {
		return err
	}
	for i := 0; i < m.valueCount; i++ {
		if err = w.Add(m.spi.Get(i)); err != nil {
			return err
		}
	}
	return w.Finish()
}
