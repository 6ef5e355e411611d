package store

// store/TrackingDirectoryWrapper.java

import (
	"fmt"
	"sort"
	"sync"
)

// A delegating Directory that records which files were written to and deleted.
type TrackingDirectoryWrapper struct {
	Directory
	sync.Mutex
	createdFilenames map[string]bool // synchronized
}

func NewTrackingDirectoryWrapper(other Directory) *TrackingDirectoryWrapper {
	return &TrackingDirectoryWrapper{
		Directory:        other,
		createdFilenames: make(map[string]bool),
	}
}

func (w *TrackingDirectoryWrapper) DeleteFile(name string) error {
	w.Lock()
	delete(w.createdFilenames, name)
	w.Unlock()
	return w.Directory.DeleteFile(name)
}

func (w *TrackingDirectoryWrapper) CreateOutput(name string, ctx IOContext) (IndexOutput, error) {
	w.Lock()
	w.createdFilenames[name] = true
	w.Unlock()
	return w.Directory.CreateOutput(name, ctx)
}

func (w *TrackingDirectoryWrapper) String() string {
	return fmt.Sprintf("TrackingDirectoryWrapper(%v)", w.Directory)
}

// Returns the created files, sorted by name.
func (w *TrackingDirectoryWrapper) CreatedFiles() []string {
	w.Lock()
	defer w.Unlock()
	names := make([]string, 0, len(w.createdFilenames))
	for name := range w.createdFilenames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (w *TrackingDirectoryWrapper) ContainsFile(name string) bool {
	w.Lock()
	defer w.Unlock()
	return w.createdFilenames[name]
}
