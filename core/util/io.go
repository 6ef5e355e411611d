package util

import (
	"fmt"
	"io"
	"strings"
)

// util/IOUtils.java

// Error aggregating the primary failure with those suppressed while
// closing resources.
type CompoundError struct {
	errs []error
}

func (e *CompoundError) Error() string {
	if len(e.errs) == 1 {
		return e.errs[0].Error()
	}
	msgs := make([]string, 0, len(e.errs)-1)
	for _, err := range e.errs[1:] {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("%v (suppressed: %v)", e.errs[0], strings.Join(msgs, "; "))
}

func (e *CompoundError) Unwrap() []error {
	return e.errs
}

/*
Closes all given io.Closers, suppressing all errors caused by Close
and returning priorErr unchanged when it is not nil. Otherwise the
first error raised by Close is returned with the others attached.
Nil closers are ignored.
*/
func CloseWhileHandlingError(priorErr error, objects ...io.Closer) error {
	var th error
	for _, object := range objects {
		if object == nil {
			continue
		}
		if t := object.Close(); t != nil {
			th = addSuppressed(th, t)
		}
	}
	if priorErr != nil {
		if th != nil {
			return addSuppressed(priorErr, th)
		}
		return priorErr
	}
	return th
}

// Closes all given io.Closers. Each is closed even if an earlier one
// failed; the first failure is returned with the rest attached.
func Close(objects ...io.Closer) error {
	return CloseWhileHandlingError(nil, objects...)
}

func addSuppressed(err error, suppressed error) error {
	if err == nil {
		return suppressed
	}
	assert2(err != suppressed, "Self-suppression not permitted")
	if ce, ok := err.(*CompoundError); ok {
		ce.errs = append(ce.errs, suppressed)
		return ce
	}
	return &CompoundError{[]error{err, suppressed}}
}

type FileDeleter interface {
	DeleteFile(name string) error
}

/*
Deletes all given files, suppressing all errors.

Note that the files should not be nil.
*/
func DeleteFilesIgnoringErrors(dir FileDeleter, files ...string) {
	for _, name := range files {
		dir.DeleteFile(name) // ignore error
	}
}
