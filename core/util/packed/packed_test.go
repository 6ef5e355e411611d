package packed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"testing"

	"github.com/balzaczyy/gopacked/core/codec"
	"github.com/balzaczyy/gopacked/core/store"
	. "github.com/balzaczyy/gopacked/test_framework/util"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func randomValue(r *rand.Rand, bitsPerValue int) int64 {
	if bitsPerValue == 64 {
		return int64(r.Uint64())
	}
	return NextLong(r, MaxValue(bitsPerValue))
}

func randomValues(r *rand.Rand, valueCount, bitsPerValue int) []int64 {
	values := make([]int64, valueCount)
	for i := range values {
		values[i] = randomValue(r, bitsPerValue)
	}
	return values
}

// Every in-memory implementation able to hold bitsPerValue bits.
func createMutables(valueCount, bitsPerValue int) []Mutable {
	ans := []Mutable{
		newPacked64(valueCount, bitsPerValue),
		newPacked32(valueCount, bitsPerValue),
	}
	if bitsPerValue <= 8 {
		ans = append(ans, newDirect8(valueCount))
	}
	if bitsPerValue <= 16 {
		ans = append(ans, newDirect16(valueCount))
	}
	if bitsPerValue <= 32 {
		ans = append(ans, newDirect32(valueCount))
	}
	ans = append(ans, newDirect64(valueCount))
	g := NewGrowableWriter(1, valueCount, PackedInts.COMPACT)
	ans = append(ans, g)
	return ans
}

func TestBitsRequiredAndMaxValue(t *testing.T) {
	for bits := 1; bits <= 64; bits++ {
		max := MaxValue(bits)
		require.LessOrEqual(t, BitsRequired(max), bits, "bits=%v", bits)
		if bits < 63 {
			require.Greater(t, BitsRequired(max+1), bits, "bits=%v", bits)
		}
	}
	require.Equal(t, int64(0), MaxValue(0))
	require.Equal(t, int64(1), MaxValue(1))
	require.Equal(t, int64(3), MaxValue(2))
	require.Equal(t, 1, BitsRequired(0))
	require.Equal(t, 1, BitsRequired(1))
	require.Equal(t, 2, BitsRequired(2))
	require.Equal(t, 63, BitsRequired(math.MaxInt64))
	require.Equal(t, 64, UnsignedBitsRequired(-158146830731166066))
	require.Equal(t, 64, UnsignedBitsRequired(-1))
	require.Panics(t, func() { BitsRequired(-1) })
}

// MaxValue(64) reports the signed ceiling, like MaxValue(63).
func TestMaxValue64Boundary(t *testing.T) {
	require.Equal(t, int64(math.MaxInt64), MaxValue(64))
	require.Equal(t, MaxValue(63), MaxValue(64))

	// 64 bits per value still stores every bit pattern
	m := MutableFor(3, 64, PackedInts.COMPACT)
	require.Equal(t, 64, m.BitsPerValue())
	m.Set(0, -1)
	m.Set(1, math.MinInt64)
	m.Set(2, math.MaxInt64)
	require.Equal(t, int64(-1), m.Get(0))
	require.Equal(t, int64(math.MinInt64), m.Get(1))
	require.Equal(t, int64(math.MaxInt64), m.Get(2))
}

func TestByteCount(t *testing.T) {
	r := NewRandom(t)
	for i := 0; i < 10; i++ {
		valueCount := r.Intn(math.MaxInt32-1) + 1
		for bpv := 1; bpv <= 64; bpv++ {
			byteCount := PACKED.ByteCount(VERSION_CURRENT, valueCount, bpv)
			msg := fmt.Sprintf("byteCount=%v, valueCount=%v, bpv=%v", byteCount, valueCount, bpv)
			totalBits := int64(valueCount) * int64(bpv)
			require.GreaterOrEqual(t, byteCount*8, totalBits, msg)
			require.Less(t, (byteCount-8)*8, totalBits, msg)
			require.Zero(t, byteCount%8, msg)
		}
	}
}

func TestFastestFormatAndBits(t *testing.T) {
	require.Equal(t, 5, FastestFormatAndBits(100, 5, PackedInts.COMPACT).BitsPerValue)
	require.Equal(t, 8, FastestFormatAndBits(100, 5, PackedInts.FASTEST).BitsPerValue)
	require.Equal(t, 16, FastestFormatAndBits(100, 13, PackedInts.FAST).BitsPerValue)
	require.Equal(t, 20, FastestFormatAndBits(100, 20, PackedInts.DEFAULT).BitsPerValue)
	require.Equal(t, 32, FastestFormatAndBits(100, 27, PackedInts.FAST).BitsPerValue)
	require.Equal(t, 64, FastestFormatAndBits(100, 63, PackedInts.DEFAULT).BitsPerValue)
	require.Equal(t, PACKED, FastestFormatAndBits(100, 63, PackedInts.DEFAULT).Format)
}

func TestImplementationSelection(t *testing.T) {
	require.IsType(t, &Direct8{}, MutableFor(10, 8, PackedInts.COMPACT))
	require.IsType(t, &Direct8{}, MutableFor(10, 3, PackedInts.FASTEST))
	require.IsType(t, &Direct16{}, MutableFor(10, 16, PackedInts.COMPACT))
	require.IsType(t, &Direct32{}, MutableFor(10, 32, PackedInts.COMPACT))
	require.IsType(t, &Direct64{}, MutableFor(10, 64, PackedInts.COMPACT))
	// 100*5 bits fit in 8 longs or 16 ints: same footprint
	require.IsType(t, &Packed64{}, MutableFor(100, 5, PackedInts.COMPACT))
	// 10*3 bits fit in one int
	require.IsType(t, &Packed32{}, MutableFor(10, 3, PackedInts.COMPACT))
	require.IsType(t, &Packed64{}, MutableFor(10, 33, PackedInts.COMPACT))
	require.Panics(t, func() { MutableFor(10, 0, PackedInts.COMPACT) })
	require.Panics(t, func() { MutableFor(10, 65, PackedInts.COMPACT) })
	require.Panics(t, func() { MutableFor(-1, 5, PackedInts.COMPACT) })
}

func writeValues(t *testing.T, dir store.Directory, name string, bitsPerValue int,
	acceptableOverheadRatio float32, values []int64) (headerEnd, fp int64) {
	out, err := dir.CreateOutput(name, store.IO_CONTEXT_DEFAULT)
	require.NoError(t, err)
	w, err := GetWriter(out, len(values), bitsPerValue, acceptableOverheadRatio)
	require.NoError(t, err)
	headerEnd = out.FilePointer()
	for i, v := range values {
		require.Equal(t, i-1, w.Ord())
		require.NoError(t, w.Add(v))
	}
	require.NoError(t, w.Finish())
	fp = out.FilePointer()
	require.NoError(t, out.Close())
	return
}

func TestRoundTrip(t *testing.T) {
	r := NewRandom(t)
	dir := NewDirectory(t, r)
	for bpv := 1; bpv <= 64; bpv++ {
		valueCount := NextInt(r, 1, 1000)
		values := randomValues(r, valueCount, bpv)
		ratio := []float32{PackedInts.COMPACT, PackedInts.DEFAULT, PackedInts.FAST, PackedInts.FASTEST}[r.Intn(4)]
		name := fmt.Sprintf("packed-%v", bpv)
		headerEnd, fp := writeValues(t, dir, name, bpv, ratio, values)
		actualBits := FastestFormatAndBits(valueCount, bpv, ratio).BitsPerValue
		require.Equal(t, PACKED.ByteCount(VERSION_CURRENT, valueCount, actualBits), fp-headerEnd)

		in, err := dir.OpenInput(name, store.IO_CONTEXT_READ)
		require.NoError(t, err)
		reader, err := GetReader(in)
		require.NoError(t, err)
		require.Equal(t, fp, in.FilePointer(), "bpv=%v, reader=%v", bpv, reader)
		require.Equal(t, valueCount, reader.Size())
		require.Equal(t, actualBits, reader.BitsPerValue())
		for i, v := range values {
			require.Equal(t, v, reader.Get(i), "bpv=%v, index=%v, reader=%v", bpv, i, reader)
		}

		require.NoError(t, in.Seek(0))
		it, err := GetReaderIterator(in)
		require.NoError(t, err)
		require.Equal(t, valueCount, it.Size())
		for i, v := range values {
			next, err := it.Next()
			require.NoError(t, err)
			require.Equal(t, v, next, "bpv=%v, index=%v", bpv, i)
			require.Equal(t, i, it.Ord())
		}
		_, err = it.Next()
		require.Equal(t, io.EOF, err)
		require.Equal(t, fp, in.FilePointer())
		require.NoError(t, in.Close())
	}
}

func TestHundredFiveBitValues(t *testing.T) {
	r := NewRandom(t)
	dir := NewDirectory(t, r)
	values := make([]int64, 100)
	for i := range values {
		values[i] = int64(i % 32)
	}
	headerEnd, fp := writeValues(t, dir, "scenario", 5, PackedInts.COMPACT, values)
	require.Equal(t, int64(64), fp-headerEnd) // ceil(100*5/64)*8

	in, err := dir.OpenInput("scenario", store.IO_CONTEXT_READ)
	require.NoError(t, err)
	defer in.Close()
	reader, err := GetReader(in)
	require.NoError(t, err)
	require.Equal(t, fp, in.FilePointer())
	require.NoError(t, in.Seek(0))
	it, err := GetReaderIterator(in)
	require.NoError(t, err)
	for i, v := range values {
		require.Equal(t, v, reader.Get(i))
		next, err := it.Next()
		require.NoError(t, err)
		require.Equal(t, v, next)
	}
	_, err = it.Next()
	require.Equal(t, io.EOF, err)
}

func TestCrossImplementationEquality(t *testing.T) {
	r := NewRandom(t)
	for bpv := 1; bpv <= 64; bpv++ {
		valueCount := NextInt(r, 1, 300)
		values := randomValues(r, valueCount, bpv)
		mutables := createMutables(valueCount, bpv)
		for _, m := range mutables {
			for i, v := range values {
				m.Set(i, v)
			}
		}
		for i, v := range values {
			for _, m := range mutables {
				require.Equal(t, v, m.Get(i), "bpv=%v, index=%v, impl=%v", bpv, i, m)
			}
		}
	}
}

func TestPackedNeighbourIsolation(t *testing.T) {
	for _, m := range []Mutable{newPacked64(30, 5), newPacked32(30, 5)} {
		m.Set(24, 31)
		m.Set(4, 17)
		require.Equal(t, int64(31), m.Get(24), "%v", m)
		require.Equal(t, int64(17), m.Get(4), "%v", m)
		// index 12 straddles the first two words of both layouts
		m.Set(12, 21)
		m.Set(13, 10)
		m.Set(11, 31)
		require.Equal(t, int64(21), m.Get(12), "%v", m)
		require.Equal(t, int64(10), m.Get(13), "%v", m)
		require.Equal(t, int64(31), m.Get(11), "%v", m)
		m.Set(12, 0)
		require.Equal(t, int64(10), m.Get(13), "%v", m)
		require.Equal(t, int64(31), m.Get(11), "%v", m)
	}
}

func TestRandomWritesDoNotLeak(t *testing.T) {
	r := NewRandom(t)
	for _, bpv := range []int{1, 3, 5, 7, 13, 31, 33, 47, 63} {
		valueCount := NextInt(r, 50, 500)
		expected := make([]int64, valueCount)
		for _, m := range []Mutable{newPacked64(valueCount, bpv), newPacked32(valueCount, bpv)} {
			for i := range expected {
				expected[i] = 0
			}
			for n := 0; n < 4*valueCount; n++ {
				i := r.Intn(valueCount)
				v := randomValue(r, bpv)
				m.Set(i, v)
				expected[i] = v
			}
			for i, v := range expected {
				require.Equal(t, v, m.Get(i), "bpv=%v, index=%v, impl=%v", bpv, i, m)
			}
		}
	}
}

func TestSetTruncates(t *testing.T) {
	d8 := newDirect8(4)
	d8.Set(1, 0x1FF)
	require.Equal(t, int64(0xFF), d8.Get(1))
	require.Zero(t, d8.Get(0))

	d16 := newDirect16(4)
	d16.Set(2, 0x1FFFF)
	require.Equal(t, int64(0xFFFF), d16.Get(2))

	d32 := newDirect32(4)
	d32.Set(3, 0x1FFFFFFFF)
	require.Equal(t, int64(0xFFFFFFFF), d32.Get(3))

	p := newPacked64(4, 5)
	p.Set(1, 0x3F)
	require.Equal(t, int64(0x1F), p.Get(1))
	require.Zero(t, p.Get(0))
	require.Zero(t, p.Get(2))
}

func TestWriterSequencing(t *testing.T) {
	out := store.NewByteArrayDataOutput(make([]byte, 64))
	w, err := GetWriter(out, 2, 7, PackedInts.COMPACT)
	require.NoError(t, err)
	require.Equal(t, 7, w.BitsPerValue())
	require.Equal(t, -1, w.Ord())
	require.NoError(t, w.Add(3))
	require.NoError(t, w.Add(0x1FF)) // truncated to 7 bits
	require.Equal(t, ErrPastEnd, w.Add(1))
	require.NoError(t, w.Finish())
	require.Equal(t, ErrWriterFinished, w.Add(1))
	require.Equal(t, ErrWriterFinished, w.Finish())

	in := store.NewByteArrayDataInput(out.Bytes())
	reader, err := GetReader(in)
	require.NoError(t, err)
	require.Equal(t, int64(3), reader.Get(0))
	require.Equal(t, int64(0x7F), reader.Get(1))
	require.Equal(t, out.Position(), in.Position())
}

func TestFinishPadsMissingValues(t *testing.T) {
	out := store.NewByteArrayDataOutput(make([]byte, 128))
	w, err := GetWriter(out, 20, 9, PackedInts.COMPACT)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		require.NoError(t, w.Add(int64(i+1)))
	}
	require.NoError(t, w.Finish())

	in := store.NewByteArrayDataInput(out.Bytes())
	reader, err := GetReader(in)
	require.NoError(t, err)
	require.Equal(t, 20, reader.Size())
	for i := 0; i < 20; i++ {
		expected := int64(0)
		if i < 5 {
			expected = int64(i + 1)
		}
		require.Equal(t, expected, reader.Get(i))
	}
	require.Equal(t, out.Position(), in.Position())
}

func TestNoHeaderStreams(t *testing.T) {
	r := NewRandom(t)
	for bpv := 0; bpv <= 64; bpv++ {
		valueCount := NextInt(r, 0, 200)
		values := make([]int64, valueCount)
		if bpv > 0 {
			values = randomValues(r, valueCount, bpv)
		}
		out := store.NewByteArrayDataOutput(make([]byte, 8*valueCount+16))
		w := WriterNoHeader(out, PACKED, valueCount, bpv)
		for _, v := range values {
			require.NoError(t, w.Add(v))
		}
		require.NoError(t, w.Finish())
		require.Equal(t, int(PACKED.ByteCount(VERSION_CURRENT, valueCount, bpv)), out.Position())

		in := store.NewByteArrayDataInput(out.Bytes())
		reader, err := ReaderNoHeader(in, PACKED, VERSION_CURRENT, valueCount, bpv)
		require.NoError(t, err)
		require.Equal(t, out.Position(), in.Position())
		in.Rewind()
		it := ReaderIteratorNoHeader(in, PACKED, VERSION_CURRENT, valueCount, bpv)
		for i, v := range values {
			require.Equal(t, v, reader.Get(i), "bpv=%v, index=%v", bpv, i)
			next, err := it.Next()
			require.NoError(t, err)
			require.Equal(t, v, next, "bpv=%v, index=%v", bpv, i)
		}
		_, err = it.Next()
		require.Equal(t, io.EOF, err)
	}
}

func TestNilReader(t *testing.T) {
	out := store.NewByteArrayDataOutput(make([]byte, 64))
	w := WriterNoHeader(out, PACKED, 10, 0)
	require.NoError(t, w.writeHeader())
	require.NoError(t, w.Finish())

	in := store.NewByteArrayDataInput(out.Bytes())
	reader, err := GetReader(in)
	require.NoError(t, err)
	require.IsType(t, &NilReader{}, reader)
	require.Equal(t, 10, reader.Size())
	require.Equal(t, 0, reader.BitsPerValue())
	arr := []int64{7, 7, 7, 7}
	require.Equal(t, 2, reader.GetBulk(8, arr))
	require.Equal(t, []int64{0, 0, 7, 7}, arr)
}

func TestCorruptHeader(t *testing.T) {
	for _, tc := range []struct {
		bpv, valueCount int32
	}{{65, 10}, {-1, 10}, {5, -3}} {
		out := store.NewByteArrayDataOutput(make([]byte, 64))
		require.NoError(t, codec.WriteHeader(out, PACKED_CODEC_NAME, VERSION_CURRENT))
		require.NoError(t, out.WriteVInt(tc.bpv))
		require.NoError(t, out.WriteVInt(tc.valueCount))
		_, err := GetReader(store.NewByteArrayDataInput(out.Bytes()))
		var corrupt *codec.CorruptIndexError
		require.True(t, errors.As(err, &corrupt), "got %v", err)
	}

	// truncated payload
	out := store.NewByteArrayDataOutput(make([]byte, 64))
	require.NoError(t, writeHeader(out, 100, 5))
	require.NoError(t, out.WriteLong(1))
	_, err := GetReader(store.NewByteArrayDataInput(out.Bytes()))
	require.Error(t, err)
}

func TestOversizedValueCountIsRejected(t *testing.T) {
	dir := NewDirectory(t, NewRandom(t))
	for _, bpv := range []int{5, 8, 13, 32, 64} {
		name := fmt.Sprintf("huge%v", bpv)
		out, err := dir.CreateOutput(name, store.IO_CONTEXT_DEFAULT)
		require.NoError(t, err)
		require.NoError(t, writeHeader(out, math.MaxInt32, bpv))
		require.NoError(t, out.WriteLong(1))
		require.NoError(t, out.Close())

		in, err := dir.OpenInput(name, store.IO_CONTEXT_READ)
		require.NoError(t, err)
		_, err = GetReader(in)
		var corrupt *codec.CorruptIndexError
		require.True(t, errors.As(err, &corrupt), "bpv=%v: got %v", bpv, err)
		require.NoError(t, in.Close())
	}
}

func TestWrapAliasesStorage(t *testing.T) {
	bytes := make([]byte, 4)
	d8 := NewDirect8Wrap(bytes)
	d8.Set(2, 200)
	require.Equal(t, byte(200), bytes[2])
	bytes[3] = 9
	require.Equal(t, int64(9), d8.Get(3))

	shorts := []int16{1, 2, 3}
	d16 := NewDirect16Wrap(shorts)
	d16.Set(0, 0xFFFF)
	require.Equal(t, int16(-1), shorts[0])
	require.Equal(t, int64(0xFFFF), d16.Get(0))

	ints := []int32{0, 0}
	d32 := NewDirect32Wrap(ints)
	d32.Set(1, 42)
	require.Equal(t, int32(42), ints[1])

	longs := []int64{0, 0}
	d64 := NewDirect64Wrap(longs)
	d64.Set(0, -42)
	require.Equal(t, int64(-42), longs[0])

	blocks := make([]int64, 1)
	p64 := NewPacked64Wrap(blocks, 12, 5)
	p64.Set(0, 31)
	require.Equal(t, uint64(31)<<59, uint64(blocks[0]))
	blocks[0] = 0
	require.Zero(t, p64.Get(0))

	words := make([]int32, 2)
	p32 := NewPacked32Wrap(words, 6, 10)
	p32.Set(1, 1023)
	require.Equal(t, int32(0x3FF<<12), words[0])
	words[1] = -1
	require.Equal(t, int64(1023), p32.Get(4))
	require.Panics(t, func() { NewPacked64Wrap(make([]int64, 1), 13, 5) })
	require.Panics(t, func() { NewPacked32Wrap(make([]int32, 1), 7, 5) })
}

func TestBulkOperations(t *testing.T) {
	r := NewRandom(t)
	for bpv := 1; bpv <= 64; bpv++ {
		valueCount := NextInt(r, 1, 200)
		values := randomValues(r, valueCount, bpv)
		for _, m := range createMutables(valueCount, bpv) {
			for off := 0; off < valueCount; {
				off += m.SetBulk(off, values[off:])
			}
			buf := make([]int64, NextInt(r, 1, 50))
			for off := 0; off < valueCount; {
				n := m.GetBulk(off, buf)
				require.Greater(t, n, 0)
				require.Equal(t, values[off:off+n], buf[:n], "bpv=%v, impl=%v", bpv, m)
				off += n
			}

			from := r.Intn(valueCount)
			to := NextInt(r, from, valueCount)
			fill := randomValue(r, bpv)
			m.Fill(from, to, fill)
			for i := 0; i < valueCount; i++ {
				expected := values[i]
				if i >= from && i < to {
					expected = fill
				}
				require.Equal(t, expected, m.Get(i), "bpv=%v, index=%v, impl=%v", bpv, i, m)
			}
			m.Clear()
			for i := 0; i < valueCount; i++ {
				require.Zero(t, m.Get(i))
			}
			require.Panics(t, func() { m.GetBulk(0, nil) })
		}
	}
}

func TestSaveAndCopy(t *testing.T) {
	r := NewRandom(t)
	for bpv := 1; bpv <= 64; bpv++ {
		valueCount := NextInt(r, 1, 300)
		values := randomValues(r, valueCount, bpv)
		src := MutableFor(valueCount, bpv, PackedInts.COMPACT)
		for i, v := range values {
			src.Set(i, v)
		}

		out := store.NewByteArrayDataOutput(make([]byte, 8*valueCount+64))
		require.NoError(t, src.Save(out))
		in := store.NewByteArrayDataInput(out.Bytes())
		reader, err := GetReader(in)
		require.NoError(t, err)
		require.Equal(t, src.BitsPerValue(), reader.BitsPerValue())
		require.Equal(t, out.Position(), in.Position())

		dest := MutableFor(valueCount+10, bpv, PackedInts.FASTEST)
		mem := []int{0, 8, 64, DEFAULT_BUFFER_SIZE}[r.Intn(4)]
		Copy(reader, 0, dest, 10, valueCount, mem)
		for i, v := range values {
			require.Equal(t, v, reader.Get(i))
			require.Equal(t, v, dest.Get(i+10))
		}
	}
}

func TestRamBytesUsed(t *testing.T) {
	require.Equal(t, int64(16+8+8)+int64(24+1000), MutableFor(1000, 8, PackedInts.COMPACT).RamBytesUsed())
	p := newPacked64(1000, 5)
	require.Equal(t, p.RamBytesUsed(), newPacked64(1000, 5).RamBytesUsed())
	require.Greater(t, p.RamBytesUsed(), int64(8*len(p.blocks)))
	require.Less(t, newPacked64(1000, 5).RamBytesUsed(), newDirect8(1000).RamBytesUsed())
}

func TestConcurrentReads(t *testing.T) {
	r := NewRandom(t)
	dir := NewDirectory(t, r)
	valueCount := AtLeast(r, 10000)
	bpv := NextInt(r, 1, 63)
	values := randomValues(r, valueCount, bpv)
	writeValues(t, dir, "concurrent", bpv, PackedInts.COMPACT, values)

	in, err := dir.OpenInput("concurrent", store.IO_CONTEXT_READ)
	require.NoError(t, err)
	defer in.Close()
	reader, err := GetReader(in)
	require.NoError(t, err)

	baseline := make([]int64, valueCount)
	for i := range baseline {
		baseline[i] = reader.Get(i)
	}
	got := make([]int64, valueCount)
	var g errgroup.Group
	half := valueCount / 2
	for _, rng := range [][2]int{{0, half}, {half, valueCount}} {
		rng := rng
		g.Go(func() error {
			for i := rng[0]; i < rng[1]; i++ {
				got[i] = reader.Get(i)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	require.Equal(t, baseline, got)
	require.Equal(t, values, got)

	require.NoError(t, VerifyConcurrent(context.Background(), reader, 4, func(i int, v int64) error {
		if v != values[i] {
			return fmt.Errorf("index %v: expected %v, got %v", i, values[i], v)
		}
		return nil
	}))

	broken := errors.New("broken")
	err = VerifyConcurrent(context.Background(), reader, 3, func(i int, v int64) error {
		if i == valueCount-1 {
			return broken
		}
		return nil
	})
	require.ErrorIs(t, err, broken)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, VerifyConcurrent(ctx, reader, 2, func(int, int64) error { return nil }), context.Canceled)
}

func TestGrowableWriter(t *testing.T) {
	w := NewGrowableWriter(1, 100, PackedInts.COMPACT)
	require.Equal(t, 1, w.BitsPerValue())
	w.Set(0, 1)
	require.Equal(t, 1, w.BitsPerValue())
	w.Set(1, 2)
	require.Equal(t, 2, w.BitsPerValue())
	w.Set(2, 1000)
	require.Equal(t, 10, w.BitsPerValue())
	require.Equal(t, []int64{1, 2, 1000}, []int64{w.Get(0), w.Get(1), w.Get(2)})

	w.SetBulk(3, []int64{5, 1 << 40})
	require.Equal(t, 41, w.BitsPerValue())
	require.Equal(t, int64(1<<40), w.Get(4))

	w.Set(99, -1)
	require.Equal(t, 64, w.BitsPerValue())
	require.Equal(t, int64(-1), w.Get(99))
	require.Equal(t, int64(1000), w.Get(2))
	require.Greater(t, w.RamBytesUsed(), w.Mutable().RamBytesUsed())

	out := store.NewByteArrayDataOutput(make([]byte, 1024))
	require.NoError(t, w.Save(out))
	reader, err := GetReader(store.NewByteArrayDataInput(out.Bytes()))
	require.NoError(t, err)
	require.Equal(t, int64(-1), reader.Get(99))
	require.Equal(t, int64(1<<40), reader.Get(4))
}

func TestPackedLongValues(t *testing.T) {
	r := NewRandom(t)
	for _, delta := range []bool{false, true} {
		pageSize := 1 << uint(NextInt(r, 6, 10))
		var b *PackedLongValuesBuilder
		if delta {
			b = NewDeltaPackedBuilder(pageSize, PackedInts.COMPACT)
		} else {
			b = NewPackedBuilder(pageSize, PackedInts.COMPACT)
		}
		count := NextInt(r, 0, 5000)
		values := make([]int64, count)
		base := r.Int63n(1 << 40)
		for i := range values {
			switch r.Intn(4) {
			case 0:
				values[i] = base + r.Int63n(100)
			case 1:
				values[i] = int64(i)
			case 2:
				values[i] = -r.Int63n(1 << 20)
			default:
				values[i] = 0
			}
			b.Add(values[i])
		}
		require.Equal(t, int64(count), b.Size())
		require.Greater(t, b.RamBytesUsed(), int64(0))
		v := b.Build()
		require.Panics(t, func() { b.Add(1) })
		require.Equal(t, int64(count), v.Size())
		for i, expected := range values {
			require.Equal(t, expected, v.Get(int64(i)), "delta=%v, index=%v", delta, i)
		}
		it := v.Iterator()
		for _, expected := range values {
			require.True(t, it.HasNext())
			require.Equal(t, expected, it.Next())
		}
		require.False(t, it.HasNext())
	}
}

func TestDeltaPackedPagesAreNarrow(t *testing.T) {
	b := NewDeltaPackedBuilder(MIN_PAGE_SIZE, PackedInts.COMPACT)
	for i := 0; i < 3*MIN_PAGE_SIZE; i++ {
		b.Add(1<<50 + int64(i%MIN_PAGE_SIZE))
	}
	v := b.Build()
	require.Len(t, v.values, 3)
	for _, page := range v.values {
		require.Equal(t, 6, page.BitsPerValue())
	}

	b = NewDeltaPackedBuilder(MIN_PAGE_SIZE, PackedInts.COMPACT)
	for i := 0; i < 10; i++ {
		b.Add(7)
	}
	v = b.Build()
	require.IsType(t, &NilReader{}, v.values[0])
	require.Equal(t, int64(7), v.Get(9))
	require.Panics(t, func() { NewPackedBuilder(100, PackedInts.COMPACT) })
}
