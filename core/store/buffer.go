package store

import (
	"fmt"
)

// Positional source behind a BufferedIndexInput. Implementations must
// allow concurrent calls, since clones share the same source.
type positionalReader interface {
	readInternal(pos int64, buf []byte) error
}

// Minimum buffer size allowed
const MIN_BUFFER_SIZE = 8

// The default buffer size in bytes.
const DEFAULT_BUFFER_SIZE = 16384

// A buffer size for merges.
const MERGE_BUFFER_SIZE = 4096

// Returns the buffer size for the given context
func bufferSize(ctx IOContext) int {
	if ctx.Type() == IO_CONTEXT_TYPE_MERGE {
		return MERGE_BUFFER_SIZE
	}
	return DEFAULT_BUFFER_SIZE
}

// Base implementation class for buffered IndexInput.
type BufferedIndexInput struct {
	*IndexInputImpl
	spi            positionalReader
	length         int64
	bufferSize     int
	buffer         []byte
	bufferStart    int64
	bufferLength   int
	bufferPosition int
	closer         func() error
}

func newBufferedIndexInput(spi positionalReader, desc string, length int64, ctx IOContext) *BufferedIndexInput {
	return newBufferedIndexInputBySize(spi, desc, length, bufferSize(ctx))
}

func newBufferedIndexInputBySize(spi positionalReader, desc string, length int64, bufferSize int) *BufferedIndexInput {
	assert2(bufferSize >= MIN_BUFFER_SIZE,
		"bufferSize must be at least MIN_BUFFER_SIZE (got %v)", bufferSize)
	ans := &BufferedIndexInput{spi: spi, length: length, bufferSize: bufferSize}
	ans.IndexInputImpl = newIndexInputImpl(desc, ans)
	return ans
}

func (in *BufferedIndexInput) ReadByte() (b byte, err error) {
	if in.bufferPosition >= in.bufferLength {
		if err = in.refill(); err != nil {
			return 0, err
		}
	}
	b = in.buffer[in.bufferPosition]
	in.bufferPosition++
	return
}

func (in *BufferedIndexInput) ReadBytes(buf []byte) error {
	available := in.bufferLength - in.bufferPosition
	if length := len(buf); length <= available {
		// the buffer contains enough data to satisfy this request
		copy(buf, in.buffer[in.bufferPosition:in.bufferPosition+length])
		in.bufferPosition += length
		return nil
	}
	// the buffer does not have enough data. First serve all we've got.
	if available > 0 {
		copy(buf, in.buffer[in.bufferPosition:in.bufferLength])
		buf = buf[available:]
		in.bufferPosition += available
	}
	if length := len(buf); length < in.bufferSize {
		if err := in.refill(); err != nil {
			return err
		}
		if in.bufferLength < length {
			return errReadPastEOF(in)
		}
		copy(buf, in.buffer[:length])
		in.bufferPosition += length
		return nil
	}
	// larger than the buffer: read it all at once
	start := in.bufferStart + int64(in.bufferPosition)
	after := start + int64(len(buf))
	if after > in.length {
		return errReadPastEOF(in)
	}
	if err := in.spi.readInternal(start, buf); err != nil {
		return err
	}
	in.bufferStart = after
	in.bufferPosition = 0
	in.bufferLength = 0 // trigger refill() on read
	return nil
}

func (in *BufferedIndexInput) ReadInt() (n int32, err error) {
	if 4 <= in.bufferLength-in.bufferPosition {
		p := in.bufferPosition
		in.bufferPosition += 4
		return (int32(in.buffer[p]) << 24) | (int32(in.buffer[p+1]) << 16) |
			(int32(in.buffer[p+2]) << 8) | int32(in.buffer[p+3]), nil
	}
	return in.DataInputImpl.ReadInt()
}

func (in *BufferedIndexInput) ReadLong() (n int64, err error) {
	if 8 <= in.bufferLength-in.bufferPosition {
		for _, b := range in.buffer[in.bufferPosition : in.bufferPosition+8] {
			n = (n << 8) | int64(b)
		}
		in.bufferPosition += 8
		return n, nil
	}
	return in.DataInputImpl.ReadLong()
}

func (in *BufferedIndexInput) refill() error {
	start := in.bufferStart + int64(in.bufferPosition)
	end := start + int64(in.bufferSize)
	if end > in.length { // don't read past EOF
		end = in.length
	}
	newLength := int(end - start)
	if newLength <= 0 {
		return errReadPastEOF(in)
	}
	if in.buffer == nil {
		in.buffer = make([]byte, in.bufferSize) // allocate buffer lazily
	}
	if err := in.spi.readInternal(start, in.buffer[:newLength]); err != nil {
		return err
	}
	in.bufferLength = newLength
	in.bufferStart = start
	in.bufferPosition = 0
	return nil
}

func (in *BufferedIndexInput) FilePointer() int64 {
	return in.bufferStart + int64(in.bufferPosition)
}

func (in *BufferedIndexInput) Seek(pos int64) error {
	if pos < 0 || pos > in.length {
		return fmt.Errorf("seek to %v out of bounds [0,%v] (resource: %v)", pos, in.length, in)
	}
	if pos >= in.bufferStart && pos < in.bufferStart+int64(in.bufferLength) {
		in.bufferPosition = int(pos - in.bufferStart) // seek within buffer
		return nil
	}
	in.bufferStart = pos
	in.bufferPosition = 0
	in.bufferLength = 0 // trigger refill() on read()
	return nil
}

func (in *BufferedIndexInput) Length() int64 {
	return in.length
}

func (in *BufferedIndexInput) Clone() IndexInput {
	ans := &BufferedIndexInput{
		spi:         in.spi,
		length:      in.length,
		bufferSize:  in.bufferSize,
		bufferStart: in.FilePointer(),
	}
	ans.IndexInputImpl = newIndexInputImpl(in.desc, ans)
	return ans
}

// Only the original input releases the underlying source.
func (in *BufferedIndexInput) Close() error {
	if in.closer == nil {
		return nil
	}
	f := in.closer
	in.closer = nil
	return f()
}
