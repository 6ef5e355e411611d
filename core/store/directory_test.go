package store_test

import (
	"fmt"
	"math"
	"os"
	"testing"

	"github.com/balzaczyy/gopacked/core/codec"
	. "github.com/balzaczyy/gopacked/core/store"
	. "github.com/balzaczyy/gopacked/test_framework/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allDirectories(t *testing.T) map[string]Directory {
	simple, err := NewSimpleFSDirectory(t.TempDir())
	require.NoError(t, err)
	mm, err := NewMMapDirectory(t.TempDir())
	require.NoError(t, err)
	dirs := map[string]Directory{
		"ram":      NewRAMDirectory(),
		"simplefs": simple,
		"mmap":     mm,
	}
	t.Cleanup(func() {
		for _, d := range dirs {
			d.Close()
		}
	})
	return dirs
}

func TestPrimitiveRoundTrip(t *testing.T) {
	for name, dir := range allDirectories(t) {
		t.Run(name, func(t *testing.T) {
			out, err := dir.CreateOutput("a.bin", IO_CONTEXT_DEFAULT)
			require.NoError(t, err)
			require.NoError(t, out.WriteByte(0xAB))
			require.NoError(t, out.WriteShort(-2))
			require.NoError(t, out.WriteInt(math.MinInt32))
			require.NoError(t, out.WriteVInt(16384))
			require.NoError(t, out.WriteVInt(-1))
			require.NoError(t, out.WriteLong(math.MaxInt64))
			require.NoError(t, out.WriteLong(-5))
			require.NoError(t, out.WriteVLong(1<<50))
			require.NoError(t, out.WriteString("hello world"))
			require.NoError(t, out.WriteStringStringMap(map[string]string{"b": "2", "a": "1"}))
			require.NoError(t, out.WriteStringSet(map[string]bool{"x": true}))
			fp := out.FilePointer()
			require.NoError(t, out.Close())

			length, err := dir.FileLength("a.bin")
			require.NoError(t, err)
			assert.Equal(t, fp, length)

			in, err := dir.OpenInput("a.bin", IO_CONTEXT_READ)
			require.NoError(t, err)
			defer in.Close()
			b, err := in.ReadByte()
			require.NoError(t, err)
			assert.Equal(t, byte(0xAB), b)
			s, err := in.ReadShort()
			require.NoError(t, err)
			assert.Equal(t, int16(-2), s)
			i, err := in.ReadInt()
			require.NoError(t, err)
			assert.Equal(t, int32(math.MinInt32), i)
			i, err = in.ReadVInt()
			require.NoError(t, err)
			assert.Equal(t, int32(16384), i)
			i, err = in.ReadVInt()
			require.NoError(t, err)
			assert.Equal(t, int32(-1), i)
			l, err := in.ReadLong()
			require.NoError(t, err)
			assert.Equal(t, int64(math.MaxInt64), l)
			l, err = in.ReadLong()
			require.NoError(t, err)
			assert.Equal(t, int64(-5), l)
			l, err = in.ReadVLong()
			require.NoError(t, err)
			assert.Equal(t, int64(1<<50), l)
			str, err := in.ReadString()
			require.NoError(t, err)
			assert.Equal(t, "hello world", str)
			m, err := in.ReadStringStringMap()
			require.NoError(t, err)
			assert.Equal(t, map[string]string{"a": "1", "b": "2"}, m)
			set, err := in.ReadStringSet()
			require.NoError(t, err)
			assert.Equal(t, map[string]bool{"x": true}, set)
			assert.Equal(t, length, in.FilePointer())

			_, err = in.ReadByte()
			assert.Error(t, err)
		})
	}
}

func TestSeekAndClone(t *testing.T) {
	r := NewRandom(t)
	for name, dir := range allDirectories(t) {
		t.Run(name, func(t *testing.T) {
			// spans several RAM buffers and the exact buffer boundary
			data := make([]byte, 3*RAM_BUFFER_SIZE)
			r.Read(data)
			out, err := dir.CreateOutput("seek.bin", NewIOContext(r))
			require.NoError(t, err)
			require.NoError(t, out.WriteBytes(data))
			require.NoError(t, out.Close())

			in, err := dir.OpenInput("seek.bin", IO_CONTEXT_DEFAULT)
			require.NoError(t, err)
			defer in.Close()
			assert.Equal(t, int64(len(data)), in.Length())

			for i := 0; i < AtLeast(r, 50); i++ {
				pos := r.Intn(len(data))
				require.NoError(t, in.Seek(int64(pos)))
				b, err := in.ReadByte()
				require.NoError(t, err)
				require.Equal(t, data[pos], b, "pos=%v", pos)
			}

			require.NoError(t, in.Seek(int64(len(data))))
			assert.Equal(t, int64(len(data)), in.FilePointer())
			_, err = in.ReadByte()
			assert.Error(t, err)
			assert.Error(t, in.Seek(int64(len(data)+1)))

			require.NoError(t, in.Seek(RAM_BUFFER_SIZE-3))
			clone := in.Clone()
			buf := make([]byte, 10)
			require.NoError(t, clone.ReadBytes(buf))
			assert.Equal(t, data[RAM_BUFFER_SIZE-3:RAM_BUFFER_SIZE+7], buf)
			// the original is unaffected by reads on the clone
			assert.Equal(t, int64(RAM_BUFFER_SIZE-3), in.FilePointer())
			b, err := in.ReadByte()
			require.NoError(t, err)
			assert.Equal(t, data[RAM_BUFFER_SIZE-3], b)
		})
	}
}

func TestChecksumEntireFile(t *testing.T) {
	for name, dir := range allDirectories(t) {
		t.Run(name, func(t *testing.T) {
			out, err := dir.CreateOutput("sum.bin", IO_CONTEXT_DEFAULT)
			require.NoError(t, err)
			require.NoError(t, codec.WriteHeader(out, "Checksum", 0))
			for i := 0; i < 1000; i++ {
				require.NoError(t, out.WriteVInt(int32(i*31)))
			}
			require.NoError(t, codec.WriteFooter(out))
			require.NoError(t, out.Close())

			in, err := dir.OpenInput("sum.bin", IO_CONTEXT_READONCE)
			require.NoError(t, err)
			defer in.Close()
			_, err = codec.CheckHeader(in, "Checksum", 0, 0)
			require.NoError(t, err)
			cs, err := ChecksumEntireFile(in)
			require.NoError(t, err)
			require.NoError(t, in.Seek(in.Length()-8))
			stored, err := in.ReadLong()
			require.NoError(t, err)
			assert.Equal(t, stored, cs)

			raw := in.Clone()
			require.NoError(t, raw.Seek(0))
			cin := NewChecksumIndexInput(raw)
			require.NoError(t, cin.Seek(cin.Length()-codec.FOOTER_LENGTH))
			cs2, err := codec.CheckFooter(cin)
			require.NoError(t, err)
			assert.Equal(t, cs, cs2)
		})
	}
}

func TestCorruptFooterDetected(t *testing.T) {
	dir := NewRAMDirectory()
	defer dir.Close()
	out, err := dir.CreateOutput("bad.bin", IO_CONTEXT_DEFAULT)
	require.NoError(t, err)
	require.NoError(t, out.WriteInt(42))
	require.NoError(t, out.WriteInt(codec.FOOTER_MAGIC))
	require.NoError(t, out.WriteInt(0))
	require.NoError(t, out.WriteLong(12345))
	require.NoError(t, out.Close())

	in, err := dir.OpenInput("bad.bin", IO_CONTEXT_DEFAULT)
	require.NoError(t, err)
	_, err = ChecksumEntireFile(in)
	var corrupt *codec.CorruptIndexError
	assert.ErrorAs(t, err, &corrupt)
}

func TestDirectoryFiles(t *testing.T) {
	for name, dir := range allDirectories(t) {
		t.Run(name, func(t *testing.T) {
			for i := 0; i < 3; i++ {
				out, err := dir.CreateOutput(fmt.Sprintf("_%v.pck", i), IO_CONTEXT_DEFAULT)
				require.NoError(t, err)
				require.NoError(t, out.WriteInt(int32(i)))
				require.NoError(t, out.Close())
			}
			names, err := dir.ListAll()
			require.NoError(t, err)
			assert.Equal(t, []string{"_0.pck", "_1.pck", "_2.pck"}, names)
			assert.True(t, dir.FileExists("_1.pck"))
			require.NoError(t, dir.Sync([]string{"_1.pck"}))

			require.NoError(t, dir.DeleteFile("_1.pck"))
			assert.False(t, dir.FileExists("_1.pck"))
			_, err = dir.OpenInput("_1.pck", IO_CONTEXT_DEFAULT)
			assert.ErrorIs(t, err, os.ErrNotExist)

			dst := NewRAMDirectory()
			defer dst.Close()
			require.NoError(t, CopyFile(dir, "_2.pck", dst, "copy.pck", IO_CONTEXT_DEFAULT))
			in, err := dst.OpenInput("copy.pck", IO_CONTEXT_DEFAULT)
			require.NoError(t, err)
			v, err := in.ReadInt()
			require.NoError(t, err)
			assert.Equal(t, int32(2), v)
		})
	}
}

func TestClosedDirectory(t *testing.T) {
	dir := NewRAMDirectory()
	out, err := dir.CreateOutput("a", IO_CONTEXT_DEFAULT)
	require.NoError(t, err)
	require.NoError(t, out.WriteBytes(make([]byte, 100)))
	require.NoError(t, out.Close())
	assert.Equal(t, int64(RAM_BUFFER_SIZE), dir.RamBytesUsed())

	require.NoError(t, dir.Close())
	require.NoError(t, dir.Close())
	assert.Equal(t, int64(0), dir.RamBytesUsed())
	_, err = dir.ListAll()
	assert.ErrorIs(t, err, ErrAlreadyClosed)
	_, err = dir.CreateOutput("b", IO_CONTEXT_DEFAULT)
	assert.ErrorIs(t, err, ErrAlreadyClosed)
}

func TestTrackingDirectoryWrapper(t *testing.T) {
	dir := NewTrackingDirectoryWrapper(NewRAMDirectory())
	defer dir.Close()
	for _, name := range []string{"b", "a", "c"} {
		out, err := dir.CreateOutput(name, IO_CONTEXT_DEFAULT)
		require.NoError(t, err)
		require.NoError(t, out.Close())
	}
	require.NoError(t, dir.DeleteFile("c"))
	assert.Equal(t, []string{"a", "b"}, dir.CreatedFiles())
	assert.True(t, dir.ContainsFile("a"))
	assert.False(t, dir.ContainsFile("c"))
}

func TestByteArrayDataInputOutput(t *testing.T) {
	buf := make([]byte, 32)
	out := NewByteArrayDataOutput(buf)
	require.NoError(t, out.WriteVInt(300))
	require.NoError(t, out.WriteLong(-1))
	require.NoError(t, out.WriteString("go"))
	n := out.Position()

	in := NewByteArrayDataInput(buf[:n])
	v, err := in.ReadVInt()
	require.NoError(t, err)
	assert.Equal(t, int32(300), v)
	l, err := in.ReadLong()
	require.NoError(t, err)
	assert.Equal(t, int64(-1), l)
	s, err := in.ReadString()
	require.NoError(t, err)
	assert.Equal(t, "go", s)
	assert.True(t, in.EOF())
	_, err = in.ReadByte()
	assert.Error(t, err)
}
