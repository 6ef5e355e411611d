package store

import (
	"bufio"
	"hash"
	"hash/crc32"
	"io"
)

// store/OutputStreamIndexOutput.java

// Implementation class for buffered IndexOutput that writes to a WriteCloser.
type OutputStreamIndexOutput struct {
	*IndexOutputImpl

	crc hash.Hash32
	w   *bufio.Writer
	os  io.WriteCloser

	bytesWritten int64
}

// Creates a new OutputStreamIndexOutput with the given buffer size.
func newOutputStreamIndexOutput(out io.WriteCloser, bufferSize int) *OutputStreamIndexOutput {
	ans := &OutputStreamIndexOutput{
		crc: crc32.NewIEEE(),
		w:   bufio.NewWriterSize(out, bufferSize),
		os:  out,
	}
	ans.IndexOutputImpl = newIndexOutput(ans)
	return ans
}

func (out *OutputStreamIndexOutput) WriteByte(b byte) error {
	if err := out.w.WriteByte(b); err != nil {
		return err
	}
	out.crc.Write([]byte{b})
	out.bytesWritten++
	return nil
}

func (out *OutputStreamIndexOutput) WriteBytes(p []byte) error {
	if _, err := out.w.Write(p); err != nil {
		return err
	}
	out.crc.Write(p)
	out.bytesWritten += int64(len(p))
	return nil
}

func (out *OutputStreamIndexOutput) Close() error {
	err := out.w.Flush()
	if err2 := out.os.Close(); err == nil {
		err = err2
	}
	return err
}

func (out *OutputStreamIndexOutput) FilePointer() int64 {
	return out.bytesWritten
}

func (out *OutputStreamIndexOutput) Checksum() int64 {
	return int64(out.crc.Sum32())
}
