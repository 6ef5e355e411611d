package index

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/balzaczyy/gopacked/core/store"
	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("index")

var (
	// Returned by CheckAbort.Work() once the merge was aborted.
	ErrMergeAborted = errors.New("merge is aborted")
	// Returned when a closed reader is accessed.
	ErrReaderClosed = errors.New("this reader is closed")
)

/*
OneMerge provides the information necessary to perform an individual
primitive merge operation, resulting in a single new segment. It can
be aborted from any goroutine while the merge runs.
*/
type OneMerge struct {
	// Names of the segments being merged.
	Segments []string
	aborted  atomic.Bool
}

func NewOneMerge(segments ...string) *OneMerge {
	return &OneMerge{Segments: segments}
}

// Mark this merge as aborted. If this is called before the merge is
// committed then the merge will not be committed.
func (m *OneMerge) Abort() {
	m.aborted.Store(true)
}

// Returns true if this merge was aborted.
func (m *OneMerge) IsAborted() bool {
	return m.aborted.Load()
}

// Returns ErrMergeAborted (wrapped with the segments and dir) if the
// merge was aborted.
func (m *OneMerge) CheckAborted(dir store.Directory) error {
	if m.IsAborted() {
		return fmt.Errorf("%w: %v (dir=%v)", ErrMergeAborted, m, dir)
	}
	return nil
}

func (m *OneMerge) String() string {
	return fmt.Sprintf("OneMerge%v", m.Segments)
}

// index/MergeState.java#CheckAbort

const DEFAULT_CHECK_ABORT_INTERVAL = 10000.0

/*
Class for recording units of work when merging segments. Work is
accumulated and the merge is only polled for abortion once enough of
it was done, so the check stays cheap in tight loops.
*/
type CheckAbort struct {
	workCount float64
	interval  float64
	merge     *OneMerge
	dir       store.Directory
}

func NewCheckAbort(merge *OneMerge, dir store.Directory, interval float64) *CheckAbort {
	if interval <= 0 {
		interval = DEFAULT_CHECK_ABORT_INTERVAL
	}
	return &CheckAbort{merge: merge, dir: dir, interval: interval}
}

// A CheckAbort that never aborts.
var CHECK_ABORT_NONE = &CheckAbort{interval: DEFAULT_CHECK_ABORT_INTERVAL}

/*
Records the fact that roughly units amount of work have been done
since this method was last called. When adding time-consuming code
into SegmentMerger, you should test different values for units to
ensure that the time in between calls to merge.CheckAborted is up to
~ 1 second.
*/
func (ca *CheckAbort) Work(units float64) error {
	if ca.merge == nil {
		return nil
	}
	ca.workCount += units
	if ca.workCount >= ca.interval {
		ca.workCount = 0
		return ca.merge.CheckAborted(ca.dir)
	}
	return nil
}

func assert(ok bool) {
	assert2(ok, "assert fail")
}

func assert2(ok bool, msg string, args ...interface{}) {
	if !ok {
		panic(fmt.Sprintf(msg, args...))
	}
}
