package store

import (
	"io"

	"github.com/balzaczyy/gopacked/core/util"
)

// store/IndexOutput.java

/*
Abstract base class for output to a file in a Directory. A random-
access output stream. Used for all index operations.

IndexOutput may only be used from one goroutine, because it is not
thread safe (it keeps internal state like file position).
*/
type IndexOutput interface {
	io.Closer
	util.DataOutput
	// Returns the current position in this file, where the next write
	// will occur.
	FilePointer() int64
	// Returns the current checksum of bytes written so far
	Checksum() int64
}

type IndexOutputImpl struct {
	*util.DataOutputImpl
}

func newIndexOutput(part util.DataWriter) *IndexOutputImpl {
	return &IndexOutputImpl{util.NewDataOutput(part)}
}

// store/ByteArrayDataOutput.java

/*
DataOutput backed by a byte array.

WARNING: This class omits most low-level checks, so be sure to test
heavily with assertion enabled.
*/
type ByteArrayDataOutput struct {
	*util.DataOutputImpl
	bytes []byte
	pos   int
	limit int
}

func NewByteArrayDataOutput(bytes []byte) *ByteArrayDataOutput {
	ans := &ByteArrayDataOutput{}
	ans.DataOutputImpl = util.NewDataOutput(ans)
	ans.Reset(bytes)
	return ans
}

func (o *ByteArrayDataOutput) Reset(bytes []byte) {
	o.bytes = bytes
	o.pos = 0
	o.limit = len(bytes)
}

func (o *ByteArrayDataOutput) Position() int {
	return o.pos
}

// Returns the bytes written since the last Reset().
func (o *ByteArrayDataOutput) Bytes() []byte {
	return o.bytes[:o.pos]
}

func (o *ByteArrayDataOutput) WriteByte(b byte) error {
	assert(o.pos < o.limit)
	o.bytes[o.pos] = b
	o.pos++
	return nil
}

func (o *ByteArrayDataOutput) WriteBytes(b []byte) error {
	assert(o.pos+len(b) <= o.limit)
	copy(o.bytes[o.pos:], b)
	o.pos += len(b)
	return nil
}
