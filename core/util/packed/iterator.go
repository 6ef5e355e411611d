package packed

import (
	"io"
)

// util/packed/PackedInts.java#ReaderIterator

/*
Run-once iterator interface, to decode previously saved PackedInts.

Values are decoded lazily from the underlying stream. Once Size()
values have been returned, Next() reports io.EOF; at that point the
stream has been consumed up to the end of the payload.
*/
type ReaderIterator interface {
	// Returns next value
	Next() (int64, error)
	// Returns number of bits per value
	BitsPerValue() int
	// Returns number of values
	Size() int
	// Returns the current position
	Ord() int
}

type packedReaderIterator struct {
	in           DataInput
	valueCount   int
	bitsPerValue int
	position     int
	// unread bits of the current long, left aligned
	pending   uint64
	available int
}

func newPackedReaderIterator(in DataInput, valueCount, bitsPerValue int) *packedReaderIterator {
	checkValueCount(valueCount)
	assert2(bitsPerValue >= 0 && bitsPerValue <= 64, "bitsPerValue must be in [0,64] (got %v)", bitsPerValue)
	return &packedReaderIterator{
		in:           in,
		valueCount:   valueCount,
		bitsPerValue: bitsPerValue,
		position:     -1,
	}
}

func (it *packedReaderIterator) Next() (int64, error) {
	if it.position+1 >= it.valueCount {
		return 0, io.EOF
	}
	var v uint64
	for remaining := it.bitsPerValue; remaining > 0; {
		if it.available == 0 {
			l, err := it.in.ReadLong()
			if err != nil {
				return 0, err
			}
			it.pending, it.available = uint64(l), 64
		}
		take := remaining
		if take > it.available {
			take = it.available
		}
		v = v<<uint(take) | it.pending>>uint(64-take)
		if take == 64 {
			it.pending = 0
		} else {
			it.pending <<= uint(take)
		}
		it.available -= take
		remaining -= take
	}
	it.position++
	return int64(v), nil
}

func (it *packedReaderIterator) BitsPerValue() int {
	return it.bitsPerValue
}

func (it *packedReaderIterator) Size() int {
	return it.valueCount
}

func (it *packedReaderIterator) Ord() int {
	return it.position
}

/*
Expert: Returns a ReaderIterator over a stream whose metadata is stored
elsewhere, see WriterNoHeader().
*/
func ReaderIteratorNoHeader(in DataInput, format PackedFormat, version int32,
	valueCount, bitsPerValue int) ReaderIterator {
	CheckVersion(version)
	assert2(format == PACKED, "Unknown format: %v", format)
	return newPackedReaderIterator(in, valueCount, bitsPerValue)
}

/*
Returns a ReaderIterator over a stream written by GetWriter() or
Mutable.Save(). Only the header is read eagerly.
*/
func GetReaderIterator(in DataInput) (ReaderIterator, error) {
	h, err := ReadHeader(in)
	if err != nil {
		return nil, err
	}
	return ReaderIteratorNoHeader(in, PACKED, h.Version, h.ValueCount, h.BitsPerValue), nil
}
