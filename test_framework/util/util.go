package util

import (
	"math/rand"
)

// Returns a random int in [start, end]
func NextInt(r *rand.Rand, start, end int) int {
	return start + r.Intn(end-start+1)
}

// Returns a random int64 in [0, max], max may be math.MaxInt64.
func NextLong(r *rand.Rand, max int64) int64 {
	if max == 1<<63-1 {
		return r.Int63()
	}
	return r.Int63n(max + 1)
}
