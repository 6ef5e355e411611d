package codec

import (
	"fmt"
)

// index/CorruptIndexException.java

// Returned when an index file fails a consistency check.
type CorruptIndexError struct {
	msg string
}

func NewCorruptIndexError(msg string, args ...interface{}) *CorruptIndexError {
	return &CorruptIndexError{fmt.Sprintf(msg, args...)}
}

func (err *CorruptIndexError) Error() string {
	return err.msg
}

// index/IndexFormatTooOldException.java

type IndexFormatTooOldError struct {
	Resource                        string
	Version, MinVersion, MaxVersion int32
}

func (err *IndexFormatTooOldError) Error() string {
	return fmt.Sprintf(
		"Format version is not supported (resource: %v): %v (needs to be between %v and %v). This version only supports streams written with version %v and later.",
		err.Resource, err.Version, err.MinVersion, err.MaxVersion, err.MinVersion)
}

// index/IndexFormatTooNewException.java

type IndexFormatTooNewError struct {
	Resource                        string
	Version, MinVersion, MaxVersion int32
}

func (err *IndexFormatTooNewError) Error() string {
	return fmt.Sprintf(
		"Format version is not supported (resource: %v): %v (needs to be between %v and %v)",
		err.Resource, err.Version, err.MinVersion, err.MaxVersion)
}
