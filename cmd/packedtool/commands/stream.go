package commands

import (
	"io"

	"github.com/balzaczyy/gopacked/core/codec"
	"github.com/balzaczyy/gopacked/core/store"
	"github.com/balzaczyy/gopacked/core/util"
	"github.com/balzaczyy/gopacked/core/util/packed"
)

// Opens a stream written by WritePacked, checksumming every byte read.
func openStream(path string, mmap bool) (in *store.ChecksumIndexInput, closers []io.Closer, err error) {
	dir, name, err := openDirectory(path, mmap)
	if err != nil {
		return nil, nil, err
	}
	raw, err := dir.OpenInput(name, store.IO_CONTEXT_READONCE)
	if err != nil {
		return nil, nil, util.CloseWhileHandlingError(err, dir)
	}
	return store.NewChecksumIndexInput(raw), []io.Closer{raw, dir}, nil
}

// Decodes the stream at path into memory and validates its footer.
func loadStream(path string, mmap bool) (h packed.Header, r packed.PackedIntsReader, err error) {
	in, closers, err := openStream(path, mmap)
	if err != nil {
		return h, nil, err
	}
	defer func() {
		err = util.CloseWhileHandlingError(err, closers...)
	}()
	if h, err = packed.ReadHeader(in); err != nil {
		return h, nil, err
	}
	if err = checkBudget(path, packed.PACKED.ByteCount(h.Version, h.ValueCount, h.BitsPerValue)); err != nil {
		return h, nil, err
	}
	if r, err = packed.ReaderNoHeader(in, packed.PACKED, h.Version, h.ValueCount, h.BitsPerValue); err != nil {
		return h, nil, err
	}
	if _, err = codec.CheckFooter(in); err != nil {
		return h, nil, err
	}
	return h, r, nil
}

// Streams the values at path to fn, in order, and validates the footer.
func iterateStream(path string, mmap bool, fn func(i int, v int64) error) (h packed.Header, err error) {
	in, closers, err := openStream(path, mmap)
	if err != nil {
		return h, err
	}
	defer func() {
		err = util.CloseWhileHandlingError(err, closers...)
	}()
	if h, err = packed.ReadHeader(in); err != nil {
		return h, err
	}
	it := packed.ReaderIteratorNoHeader(in, packed.PACKED, h.Version, h.ValueCount, h.BitsPerValue)
	for {
		i := it.Ord() + 1
		v, err := it.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return h, err
		}
		if err = fn(i, v); err != nil {
			return h, err
		}
	}
	if _, err = codec.CheckFooter(in); err != nil {
		return h, err
	}
	return h, nil
}
