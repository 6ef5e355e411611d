package util

import (
	"fmt"
)

// util/RamUsageEstimator.java

// amd64 system
const (
	NUM_BYTES_BOOLEAN = 1
	NUM_BYTES_BYTE    = 1
	NUM_BYTES_SHORT   = 2
	NUM_BYTES_INT     = 4
	NUM_BYTES_FLOAT   = 4
	NUM_BYTES_LONG    = 8

	/* Number of bytes to represent an object reference */
	NUM_BYTES_OBJECT_REF = 8

	// Number of bytes to represent an object header (no fields, no alignments).
	NUM_BYTES_OBJECT_HEADER = 16

	// Number of bytes to represent an array header (no content, but with alignments).
	NUM_BYTES_ARRAY_HEADER = 24

	// A constant specifying the object alignment boundary. Objects will
	// always take a full multiple of this constant, possibly wasting
	// some space.
	NUM_BYTES_OBJECT_ALIGNMENT = 8
)

/* Aligns an object size to be the next multiple of NUM_BYTES_OBJECT_ALIGNMENT */
func AlignObjectSize(size int64) int64 {
	size += NUM_BYTES_OBJECT_ALIGNMENT - 1
	return size - (size % NUM_BYTES_OBJECT_ALIGNMENT)
}

/* Returns the size in bytes of the given slice, header included. */
func SizeOf(arr interface{}) int64 {
	switch a := arr.(type) {
	case []byte:
		return AlignObjectSize(NUM_BYTES_ARRAY_HEADER + int64(len(a)))
	case []int16:
		return AlignObjectSize(NUM_BYTES_ARRAY_HEADER + NUM_BYTES_SHORT*int64(len(a)))
	case []int32:
		return AlignObjectSize(NUM_BYTES_ARRAY_HEADER + NUM_BYTES_INT*int64(len(a)))
	case []int64:
		return AlignObjectSize(NUM_BYTES_ARRAY_HEADER + NUM_BYTES_LONG*int64(len(a)))
	}
	panic(fmt.Sprintf("not supported: %T", arr))
}

/* Returns the shallow size of a slice of references: header plus one reference per slot. */
func ShallowSizeOfRefs(n int) int64 {
	return AlignObjectSize(NUM_BYTES_ARRAY_HEADER + NUM_BYTES_OBJECT_REF*int64(n))
}
