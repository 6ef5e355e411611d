package store

import (
	"github.com/balzaczyy/gopacked/core/codec"
)

/*
Clones the provided input, reads all bytes from the file, and calls
CheckFooter().

Note that this method may be slow, as it must process the entire file.
*/
func ChecksumEntireFile(input IndexInput) (hash int64, err error) {
	clone := input.Clone()
	if err = clone.Seek(0); err != nil {
		return 0, err
	}
	in := NewChecksumIndexInput(clone)
	assert(in.FilePointer() == 0)
	if in.Length() < codec.FOOTER_LENGTH {
		return 0, codec.NewCorruptIndexError(
			"file too short (%v bytes) to contain a codec footer (resource: %v)", in.Length(), input)
	}
	if err = in.Seek(in.Length() - codec.FOOTER_LENGTH); err != nil {
		return 0, err
	}
	return codec.CheckFooter(in)
}
