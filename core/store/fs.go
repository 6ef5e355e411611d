package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

type NoSuchDirectoryError struct {
	msg string
}

func newNoSuchDirectoryError(msg string) *NoSuchDirectoryError {
	return &NoSuchDirectoryError{msg}
}

func (err *NoSuchDirectoryError) Error() string {
	return err.msg
}

/*
Base for Directory implementations that store index files in the file
system. SimpleFSDirectory and MMapDirectory differ only in how they
open files for reading.
*/
type FSDirectory struct {
	*DirectoryImpl
	sync.Mutex
	path           string
	staleFiles     map[string]bool // synchronized, files written, but not yet sync'ed
	staleFilesLock sync.Mutex
}

func newFSDirectory(kind, path string) (*FSDirectory, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if fi, err := os.Stat(abs); err == nil && !fi.IsDir() {
		return nil, newNoSuchDirectoryError(fmt.Sprintf("file '%v' exists but is not a directory", abs))
	}
	return &FSDirectory{
		DirectoryImpl: newDirectoryImpl(fmt.Sprintf("%v@%v", kind, abs)),
		path:          abs,
		staleFiles:    make(map[string]bool),
	}, nil
}

// Opens the default file-system directory for the current platform.
func OpenFSDirectory(path string) (Directory, error) {
	return NewSimpleFSDirectory(path)
}

func FSDirectoryListAll(path string) (paths []string, err error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, newNoSuchDirectoryError(fmt.Sprintf("directory '%v' does not exist", path))
	} else if err != nil {
		return nil, err
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		return nil, newNoSuchDirectoryError(fmt.Sprintf("file '%v' exists but is not a directory", path))
	}
	entries, err := f.ReadDir(0)
	if err != nil {
		return nil, err
	}
	// Exclude subdirs
	for _, e := range entries {
		if !e.IsDir() {
			paths = append(paths, e.Name())
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func (d *FSDirectory) ListAll() (paths []string, err error) {
	if err = d.EnsureOpen(); err != nil {
		return nil, err
	}
	return FSDirectoryListAll(d.path)
}

func (d *FSDirectory) FileExists(name string) bool {
	if d.EnsureOpen() != nil {
		return false
	}
	_, err := os.Stat(filepath.Join(d.path, name))
	return err == nil
}

// Returns the length in bytes of a file in the directory.
func (d *FSDirectory) FileLength(name string) (n int64, err error) {
	if err = d.EnsureOpen(); err != nil {
		return 0, err
	}
	fi, err := os.Stat(filepath.Join(d.path, name))
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}

// Removes an existing file in the directory.
func (d *FSDirectory) DeleteFile(name string) (err error) {
	if err = d.EnsureOpen(); err != nil {
		return err
	}
	if err = os.Remove(filepath.Join(d.path, name)); err == nil {
		d.staleFilesLock.Lock()
		defer d.staleFilesLock.Unlock()
		delete(d.staleFiles, name)
	}
	return
}

// Creates an IndexOutput for the file with the given name.
func (d *FSDirectory) CreateOutput(name string, ctx IOContext) (out IndexOutput, err error) {
	if err = d.EnsureOpen(); err != nil {
		return nil, err
	}
	if err = d.ensureCanWrite(name); err != nil {
		return nil, err
	}
	return newFSIndexOutput(d, name)
}

func (d *FSDirectory) ensureCanWrite(name string) error {
	if err := os.MkdirAll(d.path, 0755); err != nil {
		return fmt.Errorf("Cannot create directory %v: %w", d.path, err)
	}
	filename := filepath.Join(d.path, name)
	if _, err := os.Stat(filename); err == nil {
		if err = os.Remove(filename); err != nil {
			return fmt.Errorf("Cannot overwrite %v/%v: %w", d.path, name, err)
		}
	}
	return nil
}

// Called on closing an open IndexOutput, reporting the name of the
// file that was closed, so that Sync() knows which files are stale.
func (d *FSDirectory) onIndexOutputClosed(name string) {
	d.staleFilesLock.Lock()
	defer d.staleFilesLock.Unlock()
	d.staleFiles[name] = true
}

func (d *FSDirectory) Sync(names []string) (err error) {
	if err = d.EnsureOpen(); err != nil {
		return err
	}
	var toSync []string
	d.staleFilesLock.Lock()
	for _, name := range names {
		if d.staleFiles[name] {
			toSync = append(toSync, name)
		}
	}
	d.staleFilesLock.Unlock()

	for _, name := range toSync {
		if err = fsync(filepath.Join(d.path, name)); err != nil {
			return err
		}
	}

	d.staleFilesLock.Lock()
	for _, name := range toSync {
		delete(d.staleFiles, name)
	}
	d.staleFilesLock.Unlock()
	if len(toSync) > 0 {
		log.Debugf("%v: synced %v file(s)", d, len(toSync))
	}
	return nil
}

func fsync(path string) error {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return err
	}
	err = f.Sync()
	if err2 := f.Close(); err == nil {
		err = err2
	}
	return err
}

func (d *FSDirectory) Close() error {
	d.Lock() // synchronized
	defer d.Unlock()
	d.markClosed()
	return nil
}

// Writes output with os.File.Write([]byte) (int, error)
type FSIndexOutput struct {
	*OutputStreamIndexOutput
	parent *FSDirectory
	name   string
}

func newFSIndexOutput(parent *FSDirectory, name string) (*FSIndexOutput, error) {
	file, err := os.OpenFile(filepath.Join(parent.path, name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return &FSIndexOutput{
		OutputStreamIndexOutput: newOutputStreamIndexOutput(file, CHUNK_SIZE),
		parent:                  parent,
		name:                    name,
	}, nil
}

func (out *FSIndexOutput) Close() error {
	err := out.OutputStreamIndexOutput.Close()
	out.parent.onIndexOutputClosed(out.name)
	return err
}

func (out *FSIndexOutput) String() string {
	return fmt.Sprintf("FSIndexOutput(path='%v')", filepath.Join(out.parent.path, out.name))
}

// The maximum chunk size is 8192 bytes
const CHUNK_SIZE = 8192
