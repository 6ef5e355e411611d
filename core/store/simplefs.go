package store

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

/*
A straightforward implementation of FSDirectory using os.File.ReadAt.
Positional reads let clones share one file handle without locking.
*/
type SimpleFSDirectory struct {
	*FSDirectory
}

func NewSimpleFSDirectory(path string) (d *SimpleFSDirectory, err error) {
	d = &SimpleFSDirectory{}
	if d.FSDirectory, err = newFSDirectory("SimpleFSDirectory", path); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *SimpleFSDirectory) OpenInput(name string, context IOContext) (IndexInput, error) {
	if err := d.EnsureOpen(); err != nil {
		return nil, err
	}
	fpath := filepath.Join(d.path, name)
	log.Debugf("Opening %v...", fpath)
	return newSimpleFSIndexInput(fmt.Sprintf("SimpleFSIndexInput(path='%v')", fpath), fpath, context)
}

// Reads bytes with os.File.ReadAt().
type simpleFSReader struct {
	file *os.File
	desc string
}

func (r *simpleFSReader) readInternal(pos int64, buf []byte) error {
	if _, err := r.file.ReadAt(buf, pos); err != nil {
		if err == io.EOF {
			return errReadPastEOF(r.desc)
		}
		return fmt.Errorf("%w: %v", err, r.desc)
	}
	return nil
}

func newSimpleFSIndexInput(desc, path string, context IOContext) (*BufferedIndexInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	in := newBufferedIndexInput(&simpleFSReader{f, desc}, desc, fi.Size(), context)
	in.closer = f.Close
	return in, nil
}
