package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/edsrzf/mmap-go"
)

/*
File-based Directory implementation that uses mmap for reading.

Mapped files are read-only views shared by all clones of an input. The
mapping is released when the original input is closed; clones must not
be used after that.
*/
type MMapDirectory struct {
	*FSDirectory
}

func NewMMapDirectory(path string) (d *MMapDirectory, err error) {
	d = &MMapDirectory{}
	if d.FSDirectory, err = newFSDirectory("MMapDirectory", path); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *MMapDirectory) OpenInput(name string, context IOContext) (IndexInput, error) {
	if err := d.EnsureOpen(); err != nil {
		return nil, err
	}
	fpath := filepath.Join(d.path, name)
	f, err := os.Open(fpath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	desc := fmt.Sprintf("MMapIndexInput(path='%v')", fpath)
	if fi.Size() == 0 {
		// mmap of an empty file is not portable
		return newSliceIndexInput(desc, nil, nil), nil
	}
	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("mmap %v: %w", fpath, err)
	}
	log.Debugf("Mapped %v (%v bytes)", fpath, len(m))
	return newSliceIndexInput(desc, m, m.Unmap), nil
}
