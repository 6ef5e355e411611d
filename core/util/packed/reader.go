package packed

import (
	"context"
	"fmt"

	"github.com/balzaczyy/gopacked/core/codec"
	"github.com/balzaczyy/gopacked/core/util"
	"golang.org/x/sync/errgroup"
)

/* A reader which has all its values equal to 0 (bitsPerValue = 0). */
type NilReader struct {
	valueCount int
}

func newNilReader(valueCount int) *NilReader {
	checkValueCount(valueCount)
	return &NilReader{valueCount: valueCount}
}

func (r *NilReader) Get(int) int64 { return 0 }

func (r *NilReader) GetBulk(index int, arr []int64) int {
	length := len(arr)
	assert2(length > 0, "len must be > 0 (got %v)", length)
	assert(index >= 0 && index < r.valueCount)
	if r.valueCount-index < length {
		length = r.valueCount - index
	}
	for i := range arr[:length] {
		arr[i] = 0
	}
	return length
}

func (r *NilReader) Size() int {
	return r.valueCount
}

func (r *NilReader) BitsPerValue() int {
	return 0
}

func (r *NilReader) RamBytesUsed() int64 {
	return util.AlignObjectSize(util.NUM_BYTES_OBJECT_HEADER + util.NUM_BYTES_INT)
}

func (r *NilReader) String() string {
	return fmt.Sprintf("NilReader(valueCount=%v)", r.valueCount)
}

// Packed32 is picked over Packed64 only when it saves a 32-bit word.
func usePacked32(valueCount, bitsPerValue int) bool {
	return bitsPerValue <= 32 &&
		4*int64(packed32WordCount(valueCount, bitsPerValue)) < PACKED.ByteCount(VERSION_CURRENT, valueCount, bitsPerValue)
}

/*
Expert: Restore a Reader from a stream without reading metadata at the
beginning of the stream. This method is useful to restore data from
streams which have been created using WriterNoHeader().

Exactly the bytes written by the matching Writer are consumed.
*/
func ReaderNoHeader(in DataInput, format PackedFormat, version int32,
	valueCount, bitsPerValue int) (r PackedIntsReader, err error) {
	CheckVersion(version)
	assert2(format == PACKED, "Unknown format: %v", format)
	if bitsPerValue == 0 {
		return newNilReader(valueCount), nil
	}
	if err = checkPayloadFits(in, version, valueCount, bitsPerValue); err != nil {
		return nil, err
	}
	switch bitsPerValue {
	case 8:
		return asReader(newDirect8FromInput(version, in, valueCount))
	case 16:
		return asReader(newDirect16FromInput(version, in, valueCount))
	case 32:
		return asReader(newDirect32FromInput(version, in, valueCount))
	case 64:
		return asReader(newDirect64FromInput(version, in, valueCount))
	}
	if usePacked32(valueCount, bitsPerValue) {
		return asReader(newPacked32FromInput(version, in, valueCount, bitsPerValue))
	}
	return asReader(newPacked64FromInput(version, in, valueCount, bitsPerValue))
}

type sizedInput interface {
	FilePointer() int64
	Length() int64
}

// Rejects a header whose payload is longer than what is left of in,
// before any storage is allocated for it.
func checkPayloadFits(in DataInput, version int32, valueCount, bitsPerValue int) error {
	sized, ok := in.(sizedInput)
	if !ok {
		return nil
	}
	need := PACKED.ByteCount(version, valueCount, bitsPerValue)
	if left := sized.Length() - sized.FilePointer(); need > left {
		return codec.NewCorruptIndexError(
			"packed payload of %v values at %v bits needs %v bytes, only %v left (resource: %v)",
			valueCount, bitsPerValue, need, left, in)
	}
	return nil
}

// Keeps a typed nil out of the returned interface.
func asReader[T Mutable](m T, err error) (PackedIntsReader, error) {
	if err != nil {
		return nil, err
	}
	return m, nil
}

/*
Restore a Reader from a stream written by GetWriter() or
Mutable.Save().
*/
func GetReader(in DataInput) (r PackedIntsReader, err error) {
	h, err := ReadHeader(in)
	if err != nil {
		return nil, err
	}
	log.Debugf("Reading %v from %v", h, in)
	return ReaderNoHeader(in, PACKED, h.Version, h.ValueCount, h.BitsPerValue)
}

/*
Create a packed integer array with the given amount of values
initialized to 0. The valueCount and the bitsPerValue cannot be changed
after creation. All Mutables known by this factory are kept fully in
RAM.

Positive values of acceptableOverheadRatio will trade space for speed
by selecting a faster but potentially less memory-efficient
implementation. An acceptableOverheadRatio of COMPACT will make sure
that the most memory-efficient implementation is selected whereas
FASTEST will make sure that the fastest implementation is selected.
*/
func MutableFor(valueCount, bitsPerValue int, acceptableOverheadRatio float32) Mutable {
	formatAndBits := FastestFormatAndBits(valueCount, bitsPerValue, acceptableOverheadRatio)
	return MutableForFormat(valueCount, formatAndBits.BitsPerValue, formatAndBits.Format)
}

// Same as MutableFor() with a pre-computed number of bits per value and format.
func MutableForFormat(valueCount, bitsPerValue int, format PackedFormat) Mutable {
	checkValueCount(valueCount)
	checkBitsPerValue(bitsPerValue)
	assert2(format == PACKED, "Unknown format: %v", format)
	switch bitsPerValue {
	case 8:
		return newDirect8(valueCount)
	case 16:
		return newDirect16(valueCount)
	case 32:
		return newDirect32(valueCount)
	case 64:
		return newDirect64(valueCount)
	}
	if usePacked32(valueCount, bitsPerValue) {
		return newPacked32(valueCount, bitsPerValue)
	}
	return newPacked64(valueCount, bitsPerValue)
}

/*
Reads every value of r from workers goroutines, each owning a disjoint
range of indices, and hands them to check. The first error returned by
check, or the cancellation of ctx, stops all workers.
*/
func VerifyConcurrent(ctx context.Context, r PackedIntsReader, workers int,
	check func(index int, value int64) error) error {
	assert2(workers > 0, "workers must be > 0 (got %v)", workers)
	size := r.Size()
	chunk := (size + workers - 1) / workers
	g, ctx := errgroup.WithContext(ctx)
	for from := 0; from < size; from += chunk {
		from := from
		to := from + chunk
		if to > size {
			to = size
		}
		g.Go(func() error {
			for i := from; i < to; i++ {
				if (i-from)&(DEFAULT_BUFFER_SIZE-1) == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				if err := check(i, r.Get(i)); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}
