package store

import (
	"fmt"
	"hash"
	"hash/crc32"
	"io"

	"github.com/balzaczyy/gopacked/core/util"
)

// store/IndexInput.java

/*
Abstract base for input from a file in a Directory. A random-access
input stream. Used for all index operations.

IndexInput may only be used from one goroutine, because it is not
thread safe (it keeps internal state like file position). To allow
concurrent use, every IndexInput instance must be cloned before used
in another goroutine.
*/
type IndexInput interface {
	io.Closer
	util.DataInput
	// Returns the current position in this file, where the next read
	// will occur.
	FilePointer() int64
	// Sets current position in this file, where the next read will
	// occur.
	Seek(pos int64) error
	// The number of bytes in the file.
	Length() int64
	// Returns an independent input over the same bytes, positioned
	// where this one currently is.
	Clone() IndexInput
}

type IndexInputImpl struct {
	*util.DataInputImpl
	desc string
}

func newIndexInputImpl(desc string, r util.DataReader) *IndexInputImpl {
	assert2(desc != "", "resourceDescription must not be empty")
	return &IndexInputImpl{DataInputImpl: util.NewDataInput(r), desc: desc}
}

func (in *IndexInputImpl) String() string {
	return in.desc
}

func errReadPastEOF(in interface{}) error {
	return fmt.Errorf("read past EOF: %v: %w", in, io.ErrUnexpectedEOF)
}

// store/ByteArrayDataInput.java

// DataInput backed by a byte array.
// Warning: this class omits all low-level checks.
type ByteArrayDataInput struct {
	*util.DataInputImpl
	bytes []byte
	Pos   int
	limit int
}

func NewByteArrayDataInput(bytes []byte) *ByteArrayDataInput {
	ans := &ByteArrayDataInput{}
	ans.DataInputImpl = util.NewDataInput(ans)
	ans.Reset(bytes)
	return ans
}

func (in *ByteArrayDataInput) Reset(bytes []byte) {
	in.bytes = bytes
	in.Pos = 0
	in.limit = len(bytes)
}

// NOTE: sets pos to 0, which is not right if you had
// called reset w/ non-zero offset!!
func (in *ByteArrayDataInput) Rewind() {
	in.Pos = 0
}

func (in *ByteArrayDataInput) Position() int {
	return in.Pos
}

func (in *ByteArrayDataInput) Length() int {
	return in.limit
}

func (in *ByteArrayDataInput) EOF() bool {
	return in.Pos == in.limit
}

func (in *ByteArrayDataInput) ReadByte() (b byte, err error) {
	if in.Pos >= in.limit {
		return 0, errReadPastEOF("ByteArrayDataInput")
	}
	b = in.bytes[in.Pos]
	in.Pos++
	return b, nil
}

func (in *ByteArrayDataInput) ReadBytes(buf []byte) error {
	if in.Pos+len(buf) > in.limit {
		return errReadPastEOF("ByteArrayDataInput")
	}
	copy(buf, in.bytes[in.Pos:])
	in.Pos += len(buf)
	return nil
}

// store/ChecksumIndexInput.java

/*
Reads bytes through to a primary IndexInput, computing checksum as it
goes. Callers can retrieve the checksum via Checksum(). Only forward
seeks are supported; they are implemented by reading and discarding.
*/
type ChecksumIndexInput struct {
	*IndexInputImpl
	main   IndexInput
	digest hash.Hash32
}

func NewChecksumIndexInput(main IndexInput) *ChecksumIndexInput {
	ans := &ChecksumIndexInput{main: main, digest: newBufferedChecksum(crc32.NewIEEE())}
	ans.IndexInputImpl = newIndexInputImpl(fmt.Sprintf("ChecksumIndexInput(%v)", main), ans)
	return ans
}

func (in *ChecksumIndexInput) ReadByte() (b byte, err error) {
	if b, err = in.main.ReadByte(); err == nil {
		in.digest.Write([]byte{b})
	}
	return b, err
}

func (in *ChecksumIndexInput) ReadBytes(buf []byte) error {
	err := in.main.ReadBytes(buf)
	if err == nil {
		in.digest.Write(buf)
	}
	return err
}

func (in *ChecksumIndexInput) Checksum() int64 {
	return int64(in.digest.Sum32())
}

func (in *ChecksumIndexInput) Close() error {
	return in.main.Close()
}

func (in *ChecksumIndexInput) FilePointer() int64 {
	return in.main.FilePointer()
}

func (in *ChecksumIndexInput) Seek(pos int64) error {
	skip := pos - in.FilePointer()
	if skip < 0 {
		return fmt.Errorf("ChecksumIndexInput cannot seek backwards (pos=%v, fp=%v)", pos, in.FilePointer())
	}
	return in.SkipBytes(skip)
}

func (in *ChecksumIndexInput) Length() int64 {
	return in.main.Length()
}

func (in *ChecksumIndexInput) Clone() IndexInput {
	panic("ChecksumIndexInput does not support cloning")
}

// Input over a byte slice; the slice is shared between clones.
type sliceIndexInput struct {
	*IndexInputImpl
	data []byte
	pos  int
	// called when the original (non-clone) input is closed
	onClose func() error
	isClone bool
}

func newSliceIndexInput(desc string, data []byte, onClose func() error) *sliceIndexInput {
	ans := &sliceIndexInput{data: data, onClose: onClose}
	ans.IndexInputImpl = newIndexInputImpl(desc, ans)
	return ans
}

func (in *sliceIndexInput) ReadByte() (byte, error) {
	if in.pos >= len(in.data) {
		return 0, errReadPastEOF(in)
	}
	b := in.data[in.pos]
	in.pos++
	return b, nil
}

func (in *sliceIndexInput) ReadBytes(buf []byte) error {
	if in.pos+len(buf) > len(in.data) {
		return errReadPastEOF(in)
	}
	copy(buf, in.data[in.pos:])
	in.pos += len(buf)
	return nil
}

func (in *sliceIndexInput) FilePointer() int64 {
	return int64(in.pos)
}

func (in *sliceIndexInput) Seek(pos int64) error {
	if pos < 0 || pos > int64(len(in.data)) {
		return fmt.Errorf("seek to %v out of bounds [0,%v] (resource: %v)", pos, len(in.data), in)
	}
	in.pos = int(pos)
	return nil
}

func (in *sliceIndexInput) Length() int64 {
	return int64(len(in.data))
}

func (in *sliceIndexInput) Clone() IndexInput {
	ans := &sliceIndexInput{data: in.data, pos: in.pos, isClone: true}
	ans.IndexInputImpl = newIndexInputImpl(in.desc, ans)
	return ans
}

func (in *sliceIndexInput) Close() error {
	if in.isClone || in.onClose == nil {
		return nil
	}
	f := in.onClose
	in.onClose = nil
	return f()
}
