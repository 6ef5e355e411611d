package util

import (
	"math"
	"math/rand"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/balzaczyy/gopacked/core/store"
	ts "github.com/balzaczyy/gopacked/test_framework/store"
)

// --------------------------------------------------------------------
// Test groups, system properties and other annotations modifying tests
// --------------------------------------------------------------------
const (
	SYSPROP_NIGHTLY = "tests_nightly"
	SYSPROP_SEED    = "tests_seed"
)

// True if and only if tests are run in verbose mode. If this flag is false
// tests are not expected to print any messages.
var VERBOSE = ("true" == or(os.Getenv("tests_verbose"), "false"))

// A random multiplier which you should use when writing random tests:
// multiply it by the number of iterations to scale your tests (for nightly builds).
var RANDOM_MULTIPLIER = func() int {
	n, err := strconv.Atoi(or(os.Getenv("tests_multiplier"), "1"))
	if err != nil {
		panic(err)
	}
	return n
}()

// Gets the directory to run tests with: "ram", "simplefs", "mmap" or "random"
var TEST_DIRECTORY = or(os.Getenv("tests_directory"), "random")

// Whether or not Nightly tests should run
var TEST_NIGHTLY = ("true" == or(os.Getenv(SYSPROP_NIGHTLY), "false"))

func or(a, b string) string {
	if len(a) > 0 {
		return a
	}
	return b
}

/*
Returns a generator seeded from tests_seed, or from the clock when the
variable is unset. The seed is reported when the test fails, so a
failing run can be replayed with tests_seed=<seed>.
*/
func NewRandom(t testing.TB) *rand.Rand {
	t.Helper()
	seed := time.Now().UnixNano()
	if s := os.Getenv(SYSPROP_SEED); s != "" {
		n, err := strconv.ParseInt(s, 0, 64)
		if err != nil {
			t.Fatalf("invalid %v: %v", SYSPROP_SEED, err)
		}
		seed = n
	}
	t.Cleanup(func() {
		if t.Failed() || VERBOSE {
			t.Logf("random seed: %v=%v", SYSPROP_SEED, seed)
		}
	})
	return rand.New(rand.NewSource(seed))
}

/*
Returns a number of at least i

The actual number returned will be influenced by whether TEST_NIGHTLY
is active and RANDOM_MULTIPLIER, but also with some random fudge.
*/
func AtLeast(random *rand.Rand, i int) int {
	min := i * RANDOM_MULTIPLIER
	if TEST_NIGHTLY {
		min = 2 * min
	}
	max := min + min/2
	return NextInt(random, min, max)
}

/*
Returns true if something should happen rarely,

The actual number returned will be influenced by whether TEST_NIGHTLY
is active and RANDOM_MULTIPLIER
*/
func Rarely(random *rand.Rand) bool {
	p := 1
	if TEST_NIGHTLY {
		p = 10
	}
	p += int(float64(p) * math.Log(float64(RANDOM_MULTIPLIER)))
	if p > 50 {
		p = 50
	}
	min := 100 - p // never more than 50
	return random.Intn(100) >= min
}

/*
Returns a new Directory instance, picked from TEST_DIRECTORY and
wrapped in a MockDirectoryWrapper. File based directories live under
t.TempDir(). The directory is closed when the test completes, failing
the test if files were left open.
*/
func NewDirectory(t testing.TB, r *rand.Rand) *ts.MockDirectoryWrapper {
	t.Helper()
	kind := TEST_DIRECTORY
	if kind == "random" {
		kind = []string{"ram", "simplefs", "mmap"}[r.Intn(3)]
	}
	var d store.Directory
	var err error
	switch kind {
	case "ram":
		d = store.NewRAMDirectory()
	case "simplefs":
		d, err = store.NewSimpleFSDirectory(t.TempDir())
	case "mmap":
		d, err = store.NewMMapDirectory(t.TempDir())
	default:
		t.Fatalf("unknown tests_directory: %v", kind)
	}
	if err != nil {
		t.Fatal(err)
	}
	w := ts.NewMockDirectoryWrapper(r, d)
	if VERBOSE {
		t.Logf("using directory %v", w)
	}
	t.Cleanup(func() {
		if err := w.Close(); err != nil {
			t.Error(err)
		}
	})
	return w
}

// Returns a random IOContext, as a writer or reader would see it.
func NewIOContext(r *rand.Rand) store.IOContext {
	numDocs := r.Intn(4192)
	size := int64(r.Intn(512) * numDocs)
	switch r.Intn(5) {
	case 0:
		return store.IO_CONTEXT_DEFAULT
	case 1:
		return store.IO_CONTEXT_READ
	case 2:
		return store.IO_CONTEXT_READONCE
	case 3:
		return store.NewIOContextForMerge(&store.MergeInfo{
			TotalDocCount:       numDocs,
			EstimatedMergeBytes: size,
			IsExternal:          true,
			MergeMaxNumSegments: -1,
		})
	default:
		return store.NewIOContextForFlush(&store.FlushInfo{
			NumDocs:              numDocs,
			EstimatedSegmentSize: size,
		})
	}
}
