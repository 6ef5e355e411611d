package store

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"

	cs "github.com/balzaczyy/gopacked/core/store"
)

// store/MockDirectoryWrapper.java

// Returned by operations a test asked to fail.
var ErrInjected = errors.New("injected failure")

// Names the Directory operations a Failure can be consulted on.
type Op string

const (
	OP_CREATE_OUTPUT = Op("createOutput")
	OP_OPEN_INPUT    = Op("openInput")
	OP_DELETE_FILE   = Op("deleteFile")
)

// Decides whether op on the named file fails; nil lets it proceed.
type Failure func(op Op, name string) error

/*
This is a Directory wrapper that adds methods intended to be used
only by unit tests. It also adds a number of features useful for
testing:

1. When a MockDirectoryWrapper is closed, it returns an error if it
has any open files against it.
2. It simulates some "features" of Windows, such as refusing to
delete open files.
3. Operations can be made to fail, either through a Failure or at
random with SetRandomIOExceptionRate().
*/
type MockDirectoryWrapper struct {
	cs.Directory
	sync.Mutex // simulate Java's synchronized keyword

	randomState       *rand.Rand
	noDeleteOpenFile  bool
	randomIOErrorRate float64
	failures          []Failure

	// open handles per file name
	openFiles map[string]int
	// Only tracked if noDeleteOpenFile is true: if an attempt is made to delete
	// an open file, we enroll it here.
	openFilesDeleted map[string]bool
}

func NewMockDirectoryWrapper(random *rand.Rand, delegate cs.Directory) *MockDirectoryWrapper {
	return &MockDirectoryWrapper{
		Directory:        delegate,
		noDeleteOpenFile: true,
		// must make a private random since our methods are called from
		// different goroutines; else test failures may not be
		// reproducible from the original seed
		randomState:      rand.New(rand.NewSource(random.Int63())),
		openFiles:        make(map[string]int),
		openFilesDeleted: make(map[string]bool),
	}
}

// Emulate Windows whereby deleting an open file is not allowed.
func (w *MockDirectoryWrapper) SetNoDeleteOpenFile(value bool) {
	w.Lock()
	defer w.Unlock()
	w.noDeleteOpenFile = value
}

// If 0.0, no errors will be returned. Else this should be a double
// 0.0 - 1.0; the chance of an open or create failing.
func (w *MockDirectoryWrapper) SetRandomIOExceptionRate(rate float64) {
	w.Lock()
	defer w.Unlock()
	w.randomIOErrorRate = rate
}

// Adds a Failure consulted before every open, create and delete.
func (w *MockDirectoryWrapper) FailOn(fail Failure) {
	w.Lock()
	defer w.Unlock()
	w.failures = append(w.failures, fail)
}

func (w *MockDirectoryWrapper) maybeFail(op Op, name string) error {
	w.Lock()
	defer w.Unlock()
	for _, fail := range w.failures {
		if err := fail(op, name); err != nil {
			return err
		}
	}
	if op != OP_DELETE_FILE && w.randomIOErrorRate > 0 && w.randomState.Float64() < w.randomIOErrorRate {
		return fmt.Errorf("%w: a random IO error (%v %v)", ErrInjected, op, name)
	}
	return nil
}

func (w *MockDirectoryWrapper) CreateOutput(name string, ctx cs.IOContext) (cs.IndexOutput, error) {
	if err := w.maybeFail(OP_CREATE_OUTPUT, name); err != nil {
		return nil, err
	}
	out, err := w.Directory.CreateOutput(name, ctx)
	if err != nil {
		return nil, err
	}
	w.addFileHandle(name)
	return &mockIndexOutput{IndexOutput: out, onClose: func() { w.removeFileHandle(name) }}, nil
}

func (w *MockDirectoryWrapper) OpenInput(name string, ctx cs.IOContext) (cs.IndexInput, error) {
	if err := w.maybeFail(OP_OPEN_INPUT, name); err != nil {
		return nil, err
	}
	in, err := w.Directory.OpenInput(name, ctx)
	if err != nil {
		return nil, err
	}
	w.addFileHandle(name)
	return &mockIndexInput{IndexInput: in, onClose: func() { w.removeFileHandle(name) }}, nil
}

func (w *MockDirectoryWrapper) DeleteFile(name string) error {
	if err := w.maybeFail(OP_DELETE_FILE, name); err != nil {
		return err
	}
	w.Lock()
	if w.openFiles[name] > 0 {
		w.openFilesDeleted[name] = true
		if w.noDeleteOpenFile {
			w.Unlock()
			return fmt.Errorf("MockDirectoryWrapper: file '%v' is still open: cannot delete", name)
		}
	}
	w.Unlock()
	return w.Directory.DeleteFile(name)
}

func (w *MockDirectoryWrapper) addFileHandle(name string) {
	w.Lock()
	defer w.Unlock()
	w.openFiles[name]++
}

func (w *MockDirectoryWrapper) removeFileHandle(name string) {
	w.Lock()
	defer w.Unlock()
	if w.openFiles[name]--; w.openFiles[name] <= 0 {
		delete(w.openFiles, name)
		delete(w.openFilesDeleted, name)
	}
}

// Returns the names of files with open handles, sorted.
func (w *MockDirectoryWrapper) OpenFiles() []string {
	w.Lock()
	defer w.Unlock()
	ans := make([]string, 0, len(w.openFiles))
	for name := range w.openFiles {
		ans = append(ans, name)
	}
	sort.Strings(ans)
	return ans
}

/*
Closes the delegate. An error is returned when files are still open,
the delegate is closed regardless.
*/
func (w *MockDirectoryWrapper) Close() error {
	var leak error
	if open := w.OpenFiles(); len(open) > 0 {
		leak = fmt.Errorf("MockDirectoryWrapper: cannot close: there are still open files: %v",
			strings.Join(open, ", "))
	}
	return errors.Join(leak, w.Directory.Close())
}

func (w *MockDirectoryWrapper) String() string {
	return fmt.Sprintf("MockDirectoryWrapper(%v)", w.Directory)
}

type mockIndexOutput struct {
	cs.IndexOutput
	once    sync.Once
	onClose func()
}

func (out *mockIndexOutput) Close() error {
	defer out.once.Do(out.onClose)
	return out.IndexOutput.Close()
}

func (out *mockIndexOutput) String() string {
	return fmt.Sprint(out.IndexOutput)
}

type mockIndexInput struct {
	cs.IndexInput
	once    sync.Once
	onClose func()
}

func (in *mockIndexInput) Close() error {
	defer in.once.Do(in.onClose)
	return in.IndexInput.Close()
}

func (in *mockIndexInput) String() string {
	return fmt.Sprint(in.IndexInput)
}
