package store

import (
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("store")

// store/IOContext.java

const (
	IO_CONTEXT_TYPE_MERGE   = 1
	IO_CONTEXT_TYPE_READ    = 2
	IO_CONTEXT_TYPE_FLUSH   = 3
	IO_CONTEXT_TYPE_DEFAULT = 4
)

type IOContextType int

var (
	IO_CONTEXT_DEFAULT  = NewIOContextFromType(IOContextType(IO_CONTEXT_TYPE_DEFAULT))
	IO_CONTEXT_READONCE = NewIOContextBool(true)
	IO_CONTEXT_READ     = NewIOContextBool(false)
)

/*
IOContext holds additional details on the merge/search context. A
IOContext object can never be initialized as nil as passed as a
parameter to either OpenInput() or CreateOutput()
*/
type IOContext struct {
	context   IOContextType
	MergeInfo *MergeInfo
	FlushInfo *FlushInfo
	readOnce  bool
}

func NewIOContextForFlush(flushInfo *FlushInfo) IOContext {
	assert(flushInfo != nil)
	return IOContext{
		context:   IOContextType(IO_CONTEXT_TYPE_FLUSH),
		readOnce:  false,
		FlushInfo: flushInfo,
	}
}

func NewIOContextFromType(context IOContextType) IOContext {
	assert2(context != IO_CONTEXT_TYPE_MERGE, "Use NewIOContextForMerge() to create a MERGE IOContext")
	assert2(context != IO_CONTEXT_TYPE_FLUSH, "Use NewIOContextForFlush() to create a FLUSH IOContext")
	return IOContext{
		context:  context,
		readOnce: false,
	}
}

func NewIOContextBool(readOnce bool) IOContext {
	return IOContext{
		context:  IOContextType(IO_CONTEXT_TYPE_READ),
		readOnce: readOnce,
	}
}

func NewIOContextForMerge(mergeInfo *MergeInfo) IOContext {
	assert2(mergeInfo != nil, "MergeInfo must not be nil if context is MERGE")
	return IOContext{
		context:   IOContextType(IO_CONTEXT_TYPE_MERGE),
		MergeInfo: mergeInfo,
		readOnce:  false,
	}
}

func (ctx IOContext) Type() IOContextType {
	return ctx.context
}

func (ctx IOContext) String() string {
	return fmt.Sprintf("IOContext [context=%v, mergeInfo=%v, flushInfo=%v, readOnce=%v]",
		ctx.context, ctx.MergeInfo, ctx.FlushInfo, ctx.readOnce)
}

type FlushInfo struct {
	NumDocs              int
	EstimatedSegmentSize int64
}

type MergeInfo struct {
	TotalDocCount       int
	EstimatedMergeBytes int64
	IsExternal          bool
	MergeMaxNumSegments int
}

func (mi *MergeInfo) String() string {
	return fmt.Sprintf("MergeInfo [totalDocCount=%v, estimatedMergeBytes=%v, isExternal=%v, mergeMaxNumSegments=%v]",
		mi.TotalDocCount, mi.EstimatedMergeBytes, mi.IsExternal, mi.MergeMaxNumSegments)
}

// store/Directory.java

var ErrAlreadyClosed = errors.New("this Directory is closed")

/*
A Directory is a flat list of files. Files may be written once, when
they are created. Once a file is created it may only be opened for
read, or deleted. Random access is permitted both when reading and
writing.
*/
type Directory interface {
	io.Closer
	// Returns an array of strings, one for each file in the directory.
	ListAll() (paths []string, err error)
	// Returns true iff a file with the given name exists.
	FileExists(name string) bool
	// Returns the length of a file in the directory. An error is
	// returned if the file does not exist.
	FileLength(name string) (int64, error)
	// Removes an existing file in the directory.
	DeleteFile(name string) error
	// Creates a new, empty file in the directory with the given name.
	// Returns a stream writing this file.
	CreateOutput(name string, ctx IOContext) (IndexOutput, error)
	// Returns a stream reading an existing file. The returned input
	// is positioned at the start of the file.
	OpenInput(name string, ctx IOContext) (IndexInput, error)
	// Ensure that any writes to these files are moved to stable
	// storage.
	Sync(names []string) error
}

type DirectoryImpl struct {
	isOpen int32 // atomic
	name   string
}

func newDirectoryImpl(name string) *DirectoryImpl {
	return &DirectoryImpl{isOpen: 1, name: name}
}

// Returns ErrAlreadyClosed if this Directory is closed
func (d *DirectoryImpl) EnsureOpen() error {
	if atomic.LoadInt32(&d.isOpen) == 0 {
		return ErrAlreadyClosed
	}
	return nil
}

func (d *DirectoryImpl) markClosed() bool {
	return atomic.CompareAndSwapInt32(&d.isOpen, 1, 0)
}

func (d *DirectoryImpl) String() string {
	return d.name
}

/*
Copies the file src to Directory to under the new file name dest.

If you want to copy the entire source directory to the destination
one, you can do so like this:

	names, _ := from.ListAll()
	for _, file := range names {
		CopyFile(from, file, to, file, IO_CONTEXT_DEFAULT)
	}
*/
func CopyFile(from Directory, src string, to Directory, dest string, ctx IOContext) (err error) {
	var in IndexInput
	if in, err = from.OpenInput(src, ctx); err != nil {
		return err
	}
	defer in.Close()
	var out IndexOutput
	if out, err = to.CreateOutput(dest, ctx); err != nil {
		return err
	}
	if err = out.CopyBytes(in, in.Length()); err != nil {
		out.Close()
		to.DeleteFile(dest)
		return err
	}
	return out.Close()
}

func assert(ok bool) {
	assert2(ok, "assert fail")
}

func assert2(ok bool, msg string, args ...interface{}) {
	if !ok {
		panic(fmt.Sprintf(msg, args...))
	}
}
