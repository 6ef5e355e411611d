package util

import (
	"errors"
)

// store/DataInput.java

/*
Abstract base for performing read operations of the low-level data
types used by index files.

DataInput may only be used from one goroutine, because it is not
thread safe (it keeps internal state like file position). To allow
concurrent use, every DataInput instance must be cloned before used
in another goroutine.
*/
type DataInput interface {
	ReadByte() (b byte, err error)
	ReadBytes(buf []byte) error
	ReadShort() (n int16, err error)
	ReadInt() (n int32, err error)
	ReadVInt() (n int32, err error)
	ReadLong() (n int64, err error)
	ReadVLong() (n int64, err error)
	ReadString() (s string, err error)
	ReadStringStringMap() (m map[string]string, err error)
	ReadStringSet() (m map[string]bool, err error)
}

type DataReader interface {
	/* Reads and returns a single byte.	*/
	ReadByte() (b byte, err error)
	/* Reads a specified number of bytes into an array */
	ReadBytes(buf []byte) error
}

type DataInputImpl struct {
	Reader DataReader
}

func NewDataInput(spi DataReader) *DataInputImpl {
	return &DataInputImpl{Reader: spi}
}

func (in *DataInputImpl) ReadShort() (n int16, err error) {
	var b1, b2 byte
	if b1, err = in.Reader.ReadByte(); err != nil {
		return 0, err
	}
	if b2, err = in.Reader.ReadByte(); err != nil {
		return 0, err
	}
	return (int16(b1) << 8) | int16(b2), nil
}

func (in *DataInputImpl) ReadInt() (n int32, err error) {
	var b byte
	for i := 0; i < 4; i++ {
		if b, err = in.Reader.ReadByte(); err != nil {
			return 0, err
		}
		n = (n << 8) | int32(b)
	}
	return n, nil
}

func (in *DataInputImpl) ReadVInt() (n int32, err error) {
	var b byte
	for shift := uint(0); shift < 28; shift += 7 {
		if b, err = in.Reader.ReadByte(); err != nil {
			return 0, err
		}
		n |= (int32(b) & 0x7F) << shift
		if b < 128 {
			return n, nil
		}
	}
	if b, err = in.Reader.ReadByte(); err != nil {
		return 0, err
	}
	// Warning: the next ands use 0x0F / 0xF0 - beware copy/paste errors:
	n |= (int32(b) & 0x0F) << 28
	if b&0xF0 == 0 {
		return n, nil
	}
	return 0, errors.New("Invalid vInt detected (too many bits)")
}

func (in *DataInputImpl) ReadLong() (n int64, err error) {
	d1, err := in.ReadInt()
	if err != nil {
		return 0, err
	}
	d2, err := in.ReadInt()
	if err != nil {
		return 0, err
	}
	return (int64(d1) << 32) | int64(d2)&0xFFFFFFFF, nil
}

func (in *DataInputImpl) ReadVLong() (n int64, err error) {
	var b byte
	for shift := uint(0); shift <= 56; shift += 7 {
		if b, err = in.Reader.ReadByte(); err != nil {
			return 0, err
		}
		n |= int64(b&0x7F) << shift
		if b < 128 {
			return n, nil
		}
	}
	return 0, errors.New("Invalid vLong detected (negative values disallowed)")
}

func (in *DataInputImpl) ReadString() (s string, err error) {
	length, err := in.ReadVInt()
	if err != nil {
		return "", err
	}
	if length < 0 {
		return "", errors.New("Invalid string length detected (negative)")
	}
	buf := make([]byte, length)
	if err = in.Reader.ReadBytes(buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func (in *DataInputImpl) ReadStringStringMap() (m map[string]string, err error) {
	count, err := in.ReadInt()
	if err != nil {
		return nil, err
	}
	m = make(map[string]string)
	for i := int32(0); i < count; i++ {
		key, err := in.ReadString()
		if err != nil {
			return nil, err
		}
		value, err := in.ReadString()
		if err != nil {
			return nil, err
		}
		m[key] = value
	}
	return m, nil
}

func (in *DataInputImpl) ReadStringSet() (s map[string]bool, err error) {
	count, err := in.ReadInt()
	if err != nil {
		return nil, err
	}
	s = make(map[string]bool)
	for i := int32(0); i < count; i++ {
		key, err := in.ReadString()
		if err != nil {
			return nil, err
		}
		s[key] = true
	}
	return s, nil
}

/*
Skip over numBytes bytes. The contract on this method is that it
should have the same behavior as reading the same number of bytes
into a buffer and discarding its content.
*/
func (in *DataInputImpl) SkipBytes(numBytes int64) error {
	assert2(numBytes >= 0, "numBytes must be >= 0, got %v", numBytes)
	buf := make([]byte, SKIP_BUFFER_SIZE)
	for skipped := int64(0); skipped < numBytes; {
		step := numBytes - skipped
		if step > SKIP_BUFFER_SIZE {
			step = SKIP_BUFFER_SIZE
		}
		if err := in.Reader.ReadBytes(buf[:step]); err != nil {
			return err
		}
		skipped += step
	}
	return nil
}

const SKIP_BUFFER_SIZE = 1024
