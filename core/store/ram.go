package store

import (
	"fmt"
	"hash"
	"hash/crc32"
	"os"
	"sort"
	"sync"
	"sync/atomic"
)

// store/RAMDirectory.java

/*
A memory-resident Directory implementation.

Warning: This class is not intended to work with huge indexes.
Everything beyond several hundred megabytes will waste resources (GC
cycles), because it uses an internal buffer size of 1024 bytes,
producing millions of byte[1024] arrays. This class is optimized for
small memory-resident indexes.

It is recommended to materialize large indexes on disk and use
MMapDirectory.
*/
type RAMDirectory struct {
	*DirectoryImpl

	fileMap     map[string]*RAMFile // synchronized
	fileMapLock sync.RWMutex
	sizeInBytes int64 // atomic
}

func NewRAMDirectory() *RAMDirectory {
	return &RAMDirectory{
		DirectoryImpl: newDirectoryImpl("RAMDirectory"),
		fileMap:       make(map[string]*RAMFile),
	}
}

func (rd *RAMDirectory) ListAll() (names []string, err error) {
	if err = rd.EnsureOpen(); err != nil {
		return nil, err
	}
	rd.fileMapLock.RLock()
	defer rd.fileMapLock.RUnlock()
	names = make([]string, 0, len(rd.fileMap))
	for name := range rd.fileMap {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (rd *RAMDirectory) file(name string) (*RAMFile, bool) {
	rd.fileMapLock.RLock()
	defer rd.fileMapLock.RUnlock()
	f, ok := rd.fileMap[name]
	return f, ok
}

// Returns true iff the named file exists in this directory
func (rd *RAMDirectory) FileExists(name string) bool {
	if rd.EnsureOpen() != nil {
		return false
	}
	_, ok := rd.file(name)
	return ok
}

// Returns the length in bytes of a file in the directory.
func (rd *RAMDirectory) FileLength(name string) (int64, error) {
	if err := rd.EnsureOpen(); err != nil {
		return 0, err
	}
	f, ok := rd.file(name)
	if !ok {
		return 0, fmt.Errorf("%v: %w", name, os.ErrNotExist)
	}
	return f.Length(), nil
}

// Return total size in bytes of all files in this directory. This is
// currently quantized to RAMOutputStream.BUFFER_SIZE.
func (rd *RAMDirectory) RamBytesUsed() int64 {
	return atomic.LoadInt64(&rd.sizeInBytes)
}

// Removes an existing file in the directory
func (rd *RAMDirectory) DeleteFile(name string) error {
	if err := rd.EnsureOpen(); err != nil {
		return err
	}
	rd.fileMapLock.Lock()
	defer rd.fileMapLock.Unlock()
	f, ok := rd.fileMap[name]
	if !ok {
		return fmt.Errorf("%v: %w", name, os.ErrNotExist)
	}
	delete(rd.fileMap, name)
	atomic.AddInt64(&rd.sizeInBytes, -f.detach())
	return nil
}

// Creates a new, empty file in the directory with the given name.
// Returns a stream writing this file.
func (rd *RAMDirectory) CreateOutput(name string, context IOContext) (IndexOutput, error) {
	if err := rd.EnsureOpen(); err != nil {
		return nil, err
	}
	file := newRAMFile(rd)
	rd.fileMapLock.Lock()
	defer rd.fileMapLock.Unlock()
	if existing, ok := rd.fileMap[name]; ok {
		atomic.AddInt64(&rd.sizeInBytes, -existing.detach())
	}
	rd.fileMap[name] = file
	return NewRAMOutputStream(name, file, true), nil
}

func (rd *RAMDirectory) Sync(names []string) error {
	return nil
}

// Returns a stream reading an existing file.
func (rd *RAMDirectory) OpenInput(name string, context IOContext) (IndexInput, error) {
	if err := rd.EnsureOpen(); err != nil {
		return nil, err
	}
	f, ok := rd.file(name)
	if !ok {
		return nil, fmt.Errorf("%v: %w", name, os.ErrNotExist)
	}
	return newRAMInputStream(name, f), nil
}

// Closes the store to future operations, releasing associated memory.
func (rd *RAMDirectory) Close() error {
	if !rd.markClosed() {
		return nil
	}
	rd.fileMapLock.Lock()
	defer rd.fileMapLock.Unlock()
	rd.fileMap = make(map[string]*RAMFile)
	atomic.StoreInt64(&rd.sizeInBytes, 0)
	return nil
}

// store/RAMFile.java

// Represents a file in RAM as a list of []byte buffers.
type RAMFile struct {
	sync.Mutex
	buffers     [][]byte
	length      int64
	directory   *RAMDirectory
	sizeInBytes int64
}

func newRAMFile(directory *RAMDirectory) *RAMFile {
	return &RAMFile{directory: directory}
}

func (rf *RAMFile) Length() int64 {
	rf.Lock()
	defer rf.Unlock()
	return rf.length
}

func (rf *RAMFile) setLength(length int64) {
	rf.Lock()
	defer rf.Unlock()
	rf.length = length
}

func (rf *RAMFile) addBuffer(size int) []byte {
	buffer := make([]byte, size)
	rf.Lock()
	rf.buffers = append(rf.buffers, buffer)
	rf.sizeInBytes += int64(size)
	dir := rf.directory
	rf.Unlock()
	if dir != nil {
		atomic.AddInt64(&dir.sizeInBytes, int64(size))
	}
	return buffer
}

// Unlinks this file from its directory, returning the bytes it held.
func (rf *RAMFile) detach() int64 {
	rf.Lock()
	defer rf.Unlock()
	rf.directory = nil
	return rf.sizeInBytes
}

func (rf *RAMFile) buffer(index int) []byte {
	rf.Lock()
	defer rf.Unlock()
	return rf.buffers[index]
}

func (rf *RAMFile) numBuffers() int {
	rf.Lock()
	defer rf.Unlock()
	return len(rf.buffers)
}

// store/RAMOutputStream.java

const RAM_BUFFER_SIZE = 1024

// A memory-resident IndexOutput implementation.
type RAMOutputStream struct {
	*IndexOutputImpl

	name string
	file *RAMFile

	currentBuffer      []byte
	currentBufferIndex int

	bufferPosition int
	bufferStart    int64
	bufferLength   int
	crc            hash.Hash32
}

func NewRAMOutputStream(name string, f *RAMFile, checksum bool) *RAMOutputStream {
	ans := &RAMOutputStream{name: name, file: f, currentBufferIndex: -1}
	ans.IndexOutputImpl = newIndexOutput(ans)
	if checksum {
		ans.crc = crc32.NewIEEE()
	}
	return ans
}

// Resets this to an empty file.
func (out *RAMOutputStream) Reset() {
	out.currentBuffer = nil
	out.currentBufferIndex = -1
	out.bufferPosition = 0
	out.bufferStart = 0
	out.bufferLength = 0
	out.file.setLength(0)
	if out.crc != nil {
		out.crc.Reset()
	}
}

func (out *RAMOutputStream) Close() error {
	return out.flush()
}

func (out *RAMOutputStream) WriteByte(b byte) error {
	if out.bufferPosition == out.bufferLength {
		out.currentBufferIndex++
		out.switchCurrentBuffer()
	}
	if out.crc != nil {
		out.crc.Write([]byte{b})
	}
	out.currentBuffer[out.bufferPosition] = b
	out.bufferPosition++
	return nil
}

func (out *RAMOutputStream) WriteBytes(buf []byte) error {
	if out.crc != nil {
		out.crc.Write(buf)
	}
	for len(buf) > 0 {
		if out.bufferPosition == out.bufferLength {
			out.currentBufferIndex++
			out.switchCurrentBuffer()
		}
		n := copy(out.currentBuffer[out.bufferPosition:out.bufferLength], buf)
		out.bufferPosition += n
		buf = buf[n:]
	}
	return nil
}

func (out *RAMOutputStream) switchCurrentBuffer() {
	if out.currentBufferIndex == out.file.numBuffers() {
		out.currentBuffer = out.file.addBuffer(RAM_BUFFER_SIZE)
	} else {
		out.currentBuffer = out.file.buffer(out.currentBufferIndex)
	}
	out.bufferPosition = 0
	out.bufferStart = int64(RAM_BUFFER_SIZE) * int64(out.currentBufferIndex)
	out.bufferLength = len(out.currentBuffer)
}

func (out *RAMOutputStream) setFileLength() {
	if pointer := out.bufferStart + int64(out.bufferPosition); pointer > out.file.Length() {
		out.file.setLength(pointer)
	}
}

func (out *RAMOutputStream) flush() error {
	out.setFileLength()
	return nil
}

func (out *RAMOutputStream) FilePointer() int64 {
	if out.currentBufferIndex < 0 {
		return 0
	}
	return out.bufferStart + int64(out.bufferPosition)
}

func (out *RAMOutputStream) Checksum() int64 {
	assert2(out.crc != nil, "internal RAMOutputStream created with checksum disabled")
	return int64(out.crc.Sum32())
}

func (out *RAMOutputStream) String() string {
	return fmt.Sprintf("RAMOutputStream(name=%v)", out.name)
}

// store/RAMInputStream.java

// A memory-resident IndexInput implementation.
type RAMInputStream struct {
	*IndexInputImpl

	file   *RAMFile
	length int64

	currentBuffer      []byte
	currentBufferIndex int

	bufferPosition int
	bufferStart    int64
	bufferLength   int
}

func newRAMInputStream(name string, f *RAMFile) *RAMInputStream {
	ans := &RAMInputStream{file: f, length: f.Length(), currentBufferIndex: -1}
	ans.IndexInputImpl = newIndexInputImpl(fmt.Sprintf("RAMInputStream(name=%v)", name), ans)
	return ans
}

func (in *RAMInputStream) Close() error {
	return nil
}

func (in *RAMInputStream) Length() int64 {
	return in.length
}

func (in *RAMInputStream) ReadByte() (byte, error) {
	if in.bufferPosition >= in.bufferLength {
		in.currentBufferIndex++
		if err := in.switchCurrentBuffer(); err != nil {
			return 0, err
		}
	}
	b := in.currentBuffer[in.bufferPosition]
	in.bufferPosition++
	return b, nil
}

func (in *RAMInputStream) ReadBytes(buf []byte) error {
	for len(buf) > 0 {
		if in.bufferPosition >= in.bufferLength {
			in.currentBufferIndex++
			if err := in.switchCurrentBuffer(); err != nil {
				return err
			}
		}
		n := copy(buf, in.currentBuffer[in.bufferPosition:in.bufferLength])
		in.bufferPosition += n
		buf = buf[n:]
	}
	return nil
}

func (in *RAMInputStream) switchCurrentBuffer() error {
	in.bufferStart = int64(RAM_BUFFER_SIZE) * int64(in.currentBufferIndex)
	if in.bufferStart >= in.length || in.currentBufferIndex >= in.file.numBuffers() {
		// end of file reached, no more buffers left
		return errReadPastEOF(in)
	}
	in.currentBuffer = in.file.buffer(in.currentBufferIndex)
	in.bufferPosition = 0
	bufLength := in.length - in.bufferStart
	if bufLength > RAM_BUFFER_SIZE {
		bufLength = RAM_BUFFER_SIZE
	}
	in.bufferLength = int(bufLength)
	return nil
}

func (in *RAMInputStream) FilePointer() int64 {
	if in.currentBufferIndex < 0 {
		return 0
	}
	return in.bufferStart + int64(in.bufferPosition)
}

func (in *RAMInputStream) Seek(pos int64) error {
	if pos < 0 || pos > in.length {
		return fmt.Errorf("seek to %v out of bounds [0,%v] (resource: %v)", pos, in.length, in)
	}
	idx := int(pos / RAM_BUFFER_SIZE)
	if int64(idx)*RAM_BUFFER_SIZE < in.length {
		if idx != in.currentBufferIndex || in.currentBuffer == nil {
			in.currentBufferIndex = idx
			if err := in.switchCurrentBuffer(); err != nil {
				return err
			}
		}
		in.bufferPosition = int(pos % RAM_BUFFER_SIZE)
		return nil
	}
	// positioned exactly at EOF on a buffer boundary; the next read fails
	in.currentBufferIndex = idx - 1
	in.currentBuffer = nil
	in.bufferStart = pos - RAM_BUFFER_SIZE
	in.bufferPosition = RAM_BUFFER_SIZE
	in.bufferLength = RAM_BUFFER_SIZE
	return nil
}

func (in *RAMInputStream) Clone() IndexInput {
	ans := &RAMInputStream{
		file:               in.file,
		length:             in.length,
		currentBuffer:      in.currentBuffer,
		currentBufferIndex: in.currentBufferIndex,
		bufferPosition:     in.bufferPosition,
		bufferStart:        in.bufferStart,
		bufferLength:       in.bufferLength,
	}
	ans.IndexInputImpl = newIndexInputImpl(in.desc, ans)
	return ans
}
