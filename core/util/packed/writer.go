package packed

// util/packed/PackedInts.java#Writer

/*
A write-once Writer.

Values are appended MSB-first into 64-bit words which are written as
big-endian longs. Finish() pads missing values with zeros and flushes
the last partial word, so the stream always ends on a long boundary.
*/
type Writer interface {
	writeHeader() error
	// Add a value to the stream. Only the lowest BitsPerValue() bits
	// are stored.
	Add(v int64) error
	// The number of bits per value.
	BitsPerValue() int
	// Returns the current ord in the stream (number of values that
	// have been written so far minus one).
	Ord() int
	// Perform end-of-stream operations.
	Finish() error
}

// util/packed/PackedWriter.java

type PackedWriter struct {
	out          DataOutput
	format       PackedFormat
	valueCount   int
	bitsPerValue int
	mask         uint64

	finished bool
	written  int
	// bits pending in the current word, left aligned
	current uint64
	used    int
}

func newPackedWriter(format PackedFormat, out DataOutput, valueCount, bitsPerValue int) *PackedWriter {
	assert2(bitsPerValue >= 0 && bitsPerValue <= 64, "bitsPerValue must be in [0,64] (got %v)", bitsPerValue)
	assert(valueCount >= 0 || valueCount == -1)
	return &PackedWriter{
		out:          out,
		format:       format,
		valueCount:   valueCount,
		bitsPerValue: bitsPerValue,
		mask:         mask(bitsPerValue),
	}
}

func (w *PackedWriter) writeHeader() error {
	return writeHeader(w.out, w.valueCount, w.bitsPerValue)
}

func (w *PackedWriter) BitsPerValue() int {
	return w.bitsPerValue
}

func (w *PackedWriter) Ord() int {
	return w.written - 1
}

func (w *PackedWriter) Add(v int64) error {
	if w.finished {
		return ErrWriterFinished
	}
	if w.valueCount != -1 && w.written >= w.valueCount {
		return ErrPastEnd
	}
	if err := w.append(uint64(v) & w.mask); err != nil {
		return err
	}
	w.written++
	return nil
}

func (w *PackedWriter) append(v uint64) error {
	for remaining := w.bitsPerValue; remaining > 0; {
		space := 64 - w.used
		take := remaining
		if take > space {
			take = space
		}
		bits := (v >> uint(remaining-take)) & mask(take)
		w.current |= bits << uint(space-take)
		w.used += take
		remaining -= take
		if w.used == 64 {
			if err := w.out.WriteLong(int64(w.current)); err != nil {
				return err
			}
			w.current, w.used = 0, 0
		}
	}
	return nil
}

func (w *PackedWriter) Finish() error {
	if w.finished {
		return ErrWriterFinished
	}
	if w.valueCount != -1 {
		for w.written < w.valueCount {
			if err := w.Add(0); err != nil {
				return err
			}
		}
	}
	if w.used > 0 {
		if err := w.out.WriteLong(int64(w.current)); err != nil {
			return err
		}
		w.current, w.used = 0, 0
	}
	w.finished = true
	return nil
}

/*
Create a packed integer array writer for the given output, format,
value count, and number of bits per value.

The resulting stream will be long-aligned. This means that up to 63
bits will be wasted. An easy way to make sure that no space is lost is
to always use a valueCount that is a multiple of 64.

This method writes metadata to the stream, so that the resulting
stream is sufficient to restore a Reader from it. You don't need to
track valueCount or bitsPerValue by yourself. In case this is a
problem, you should probably look at WriterNoHeader().

The acceptableOverheadRatio parameter controls how readers that will
be restored from this stream trade space for speed by selecting a
faster but potentially less memory-efficient implementation. An
acceptableOverheadRatio of COMPACT will make sure that the most
memory-efficient implementation is selected whereas FASTEST will make
sure that the fastest implementation is selected. In case you are only
interested in reading this stream sequentially later on, you should
probably use COMPACT.
*/
func GetWriter(out DataOutput, valueCount, bitsPerValue int,
	acceptableOverheadRatio float32) (Writer, error) {
	checkValueCount(valueCount)
	checkBitsPerValue(bitsPerValue)
	formatAndBits := FastestFormatAndBits(valueCount, bitsPerValue, acceptableOverheadRatio)
	writer := WriterNoHeader(out, formatAndBits.Format, valueCount, formatAndBits.BitsPerValue)
	if err := writer.writeHeader(); err != nil {
		return nil, err
	}
	return writer, nil
}

/*
Expert: Create a packed integer array writer for the given output,
format, value count, and number of bits per value.

This method does not write any metadata to the stream, meaning that
it is your responsibility to store it somewhere else in order to be
able to recover data from the stream later on:

- format (using Format.Id()),
- valueCount,
- bitsPerValue,
- VERSION_CURRENT.

It is possible to start writing values without knowing how many of
them you are actually going to write. To do this, just pass -1 as
valueCount. On the other hand, for any positive value of valueCount,
the returned writer will make sure that you don't write more values
than expected and pad the end of stream with zeros in case you have
written less than valueCount when calling Writer.Finish().
*/
func WriterNoHeader(out DataOutput, format PackedFormat, valueCount, bitsPerValue int) Writer {
	assert2(format == PACKED, "Unknown Writer format: %v", format)
	return newPackedWriter(format, out, valueCount, bitsPerValue)
}
