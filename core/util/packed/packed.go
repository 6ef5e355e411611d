package packed

import (
	"errors"
	"fmt"
	"math"
	"math/bits"

	"github.com/balzaczyy/gopacked/core/codec"
	"github.com/op/go-logging"
)

// util/packed/PackedInts.java

var log = logging.MustGetLogger("packed")

type DataInput interface {
	ReadByte() (byte, error)
	ReadBytes(buf []byte) error
	ReadShort() (int16, error)
	ReadInt() (int32, error)
	ReadVInt() (int32, error)
	ReadLong() (int64, error)
	ReadString() (string, error)
}

type DataOutput interface {
	WriteByte(b byte) error
	WriteBytes(buf []byte) error
	WriteShort(int16) error
	WriteInt(int32) error
	WriteVInt(int32) error
	WriteLong(int64) error
	WriteString(string) error
}

/*
Simplistic compression for arrays of unsigned int64 values. Each value
is >= 0 and <= a specified maximum value. The values are stored as
packed ints, with each value consuming a fixed number of bits.
*/
var PackedInts = struct {
	FASTEST float32 // At most 700% memory overhead, always select a direct implementation.
	FAST    float32 // At most 50% memory overhead, always select a reasonable fast implementation.
	DEFAULT float32 // At most 25% memory overhead.
	COMPACT float32 // No memory overhead at all, but the returned implementation may be slow.
}{7, 0.5, 0.25, 0}

const (
	// Default amount of memory to use for bulk operations.
	DEFAULT_BUFFER_SIZE = 1024 // 1K

	PACKED_CODEC_NAME    = "PackedInts"
	PACKED_VERSION_START = 0
	VERSION_CURRENT      = PACKED_VERSION_START
)

var (
	// Returned by Writer.Add() and Writer.Finish() once the writer is finished.
	ErrWriterFinished = errors.New("packed: writer already finished")
	// Returned by Writer.Add() when more than valueCount values are added.
	ErrPastEnd = errors.New("packed: writing past end of stream")
)

// Check the validity of a version number
func CheckVersion(version int32) {
	if version < PACKED_VERSION_START {
		panic(fmt.Sprintf("Version is too old, should be at least %v (got %v)", PACKED_VERSION_START, version))
	} else if version > VERSION_CURRENT {
		panic(fmt.Sprintf("Version is too new, should be at most %v (got %v)", VERSION_CURRENT, version))
	}
}

// A format to write packed ints.
type PackedFormat int

const (
	PACKED = PackedFormat(0)
)

func (f PackedFormat) Id() int {
	return int(f)
}

func (f PackedFormat) String() string {
	if f == PACKED {
		return "PACKED"
	}
	return fmt.Sprintf("PackedFormat(%d)", int(f))
}

/*
Computes how many byte blocks are needed to store valueCount values of
size bitsPerValue. Streams are long-aligned: the payload always ends on
a 64-bit word boundary.
*/
func (f PackedFormat) ByteCount(packedIntsVersion int32, valueCount int, bitsPerValue int) int64 {
	return 8 * int64(f.LongCount(packedIntsVersion, valueCount, bitsPerValue))
}

// Computes how many long blocks are needed to store valueCount values
// of size bitsPerValue.
func (f PackedFormat) LongCount(packedIntsVersion int32, valueCount int, bitsPerValue int) int {
	assert(bitsPerValue >= 0 && bitsPerValue <= 64)
	totalBits := int64(valueCount) * int64(bitsPerValue)
	return int((totalBits + 63) >> 6)
}

// Tests whether the provided number of bits per value is supported by
// the format.
func (f PackedFormat) IsSupported(bitsPerValue int) bool {
	return bitsPerValue >= 1 && bitsPerValue <= 64
}

// Simple class that holds a format and a number of bits per value.
type FormatAndBits struct {
	Format       PackedFormat
	BitsPerValue int
}

func (v FormatAndBits) String() string {
	return fmt.Sprintf("FormatAndBits(format=%v bitsPerValue=%v)", v.Format, v.BitsPerValue)
}

/*
Try to find the Format and number of bits per value that would
restore from disk the fastest reader whose overhead is less than
acceptableOverheadRatio.

The acceptableOverheadRatio parameter makes sense for random-access
Readers. In case you only plan to perform sequential access on this
stream later on, you should probably use COMPACT.

If you don't know how many values you are going to write, use
valueCount = -1.
*/
func FastestFormatAndBits(valueCount, bitsPerValue int,
	acceptableOverheadRatio float32) FormatAndBits {
	if acceptableOverheadRatio < PackedInts.COMPACT {
		acceptableOverheadRatio = PackedInts.COMPACT
	}
	if acceptableOverheadRatio > PackedInts.FASTEST {
		acceptableOverheadRatio = PackedInts.FASTEST
	}
	acceptableOverheadRatioValue := acceptableOverheadRatio * float32(bitsPerValue) // in bits

	maxBitsPerValue := bitsPerValue + int(acceptableOverheadRatioValue)

	actualBitsPerValue := bitsPerValue
	if bitsPerValue <= 8 && maxBitsPerValue >= 8 {
		actualBitsPerValue = 8
	} else if bitsPerValue <= 16 && maxBitsPerValue >= 16 {
		actualBitsPerValue = 16
	} else if bitsPerValue <= 32 && maxBitsPerValue >= 32 {
		actualBitsPerValue = 32
	} else if bitsPerValue <= 64 && maxBitsPerValue >= 64 {
		actualBitsPerValue = 64
	}
	return FormatAndBits{PACKED, actualBitsPerValue}
}

/*
Returns how many bits are required to hold values up to and including maxValue
NOTE: This method returns at least 1.
*/
func BitsRequired(maxValue int64) int {
	assert2(maxValue >= 0, "maxValue must be non-negative (got: %v)", maxValue)
	return UnsignedBitsRequired(maxValue)
}

/*
Returns how many bits are required to store v, interpreted as an
unsigned value.
NOTE: This method returns at least 1.
*/
func UnsignedBitsRequired(v int64) int {
	if v == 0 {
		return 1
	}
	return bits.Len64(uint64(v))
}

/*
Calculate the maximum unsigned long that can be expressed with the
given number of bits.

Values are stored in signed 64-bit words, so MaxValue(64) reports the
signed ceiling math.MaxInt64, the same as MaxValue(63). Readers with 64
bits per value still round-trip every int64 bit pattern.
*/
func MaxValue(bitsPerValue int) int64 {
	if bitsPerValue >= 64 {
		return math.MaxInt64
	}
	return (1 << uint(bitsPerValue)) - 1
}

// Returns a mask with the lowest bitsPerValue bits set.
func mask(bitsPerValue int) uint64 {
	if bitsPerValue >= 64 {
		return math.MaxUint64
	}
	return (1 << uint(bitsPerValue)) - 1
}

func checkBitsPerValue(bitsPerValue int) {
	assert2(bitsPerValue >= 1 && bitsPerValue <= 64,
		"bitsPerValue must be in [1,64] (got %v)", bitsPerValue)
}

func checkValueCount(valueCount int) {
	assert2(valueCount >= 0, "valueCount must be non-negative (got %v)", valueCount)
}

// Copy src[srcPos:srcPos+len] into dest[destPos:destPos+len] using at most mem bytes.
func Copy(src PackedIntsReader, srcPos int, dest Mutable, destPos, length, mem int) {
	assert(srcPos+length <= src.Size())
	assert(destPos+length <= dest.Size())
	capacity := mem >> 3
	if capacity == 0 {
		for i := 0; i < length; i++ {
			dest.Set(destPos+i, src.Get(srcPos+i))
		}
		return
	}
	if capacity > length {
		capacity = length
	}
	buf := make([]int64, capacity)
	for length > 0 {
		n := length
		if n > len(buf) {
			n = len(buf)
		}
		read := src.GetBulk(srcPos, buf[:n])
		written := 0
		for written < read {
			written += dest.SetBulk(destPos+written, buf[written:read])
		}
		srcPos += read
		destPos += read
		length -= read
	}
}

// Writes the stream header: codec header, VInt bitsPerValue, VInt valueCount.
func writeHeader(out DataOutput, valueCount, bitsPerValue int) error {
	assert(valueCount >= 0)
	if err := codec.WriteHeader(out, PACKED_CODEC_NAME, VERSION_CURRENT); err != nil {
		return err
	}
	if err := out.WriteVInt(int32(bitsPerValue)); err != nil {
		return err
	}
	return out.WriteVInt(int32(valueCount))
}

// Header of a packed stream.
type Header struct {
	Version      int32
	BitsPerValue int
	ValueCount   int
}

func (h Header) String() string {
	return fmt.Sprintf("Header(version=%v, bitsPerValue=%v, valueCount=%v)",
		h.Version, h.BitsPerValue, h.ValueCount)
}

// Reads and validates the header written by GetWriter() or Mutable.Save().
func ReadHeader(in DataInput) (h Header, err error) {
	if h.Version, err = codec.CheckHeader(in, PACKED_CODEC_NAME, PACKED_VERSION_START, VERSION_CURRENT); err != nil {
		return
	}
	var n int32
	if n, err = in.ReadVInt(); err != nil {
		return
	}
	if n < 0 || n > 64 {
		return h, codec.NewCorruptIndexError("invalid bitsPerValue: %v (resource: %v)", n, in)
	}
	h.BitsPerValue = int(n)
	if n, err = in.ReadVInt(); err != nil {
		return
	}
	if n < 0 {
		return h, codec.NewCorruptIndexError("invalid valueCount: %v (resource: %v)", n, in)
	}
	h.ValueCount = int(n)
	return h, nil
}

func assert(ok bool) {
	assert2(ok, "assert fail")
}

func assert2(ok bool, msg string, args ...interface{}) {
	if !ok {
		panic(fmt.Sprintf(msg, args...))
	}
}
