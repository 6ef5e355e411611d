package index

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	MERGE_RESULT_OK      = "ok"
	MERGE_RESULT_ABORTED = "aborted"
	MERGE_RESULT_FAILED  = "failed"
)

// MergeMetrics holds the Prometheus metrics of segment merges.
type MergeMetrics struct {
	Merges             *prometheus.CounterVec
	DocsMerged         prometheus.Counter
	DeletedDocsDropped prometheus.Counter
	BytesWritten       prometheus.Counter
	Duration           prometheus.Histogram
}

// NewMergeMetrics creates and registers all metrics with the provided registry.
func NewMergeMetrics(reg prometheus.Registerer) *MergeMetrics {
	merges := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gopacked_merges_total",
		Help: "Total segment merges by result",
	}, []string{"result"})

	docsMerged := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gopacked_merge_docs_total",
		Help: "Total live documents written by merges",
	})

	deletedDocs := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gopacked_merge_deleted_docs_total",
		Help: "Total deleted documents dropped by merges",
	})

	bytesWritten := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gopacked_merge_bytes_written_total",
		Help: "Total bytes of segment files written by merges",
	})

	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "gopacked_merge_duration_seconds",
		Help:    "Duration of segment merges",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
	})

	reg.MustRegister(merges, docsMerged, deletedDocs, bytesWritten, duration)

	return &MergeMetrics{
		Merges:             merges,
		DocsMerged:         docsMerged,
		DeletedDocsDropped: deletedDocs,
		BytesWritten:       bytesWritten,
		Duration:           duration,
	}
}

func (m *MergeMetrics) observe(result string, state *MergeState, bytesWritten int64, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Merges.WithLabelValues(result).Inc()
	m.Duration.Observe(elapsed.Seconds())
	if result != MERGE_RESULT_OK {
		return
	}
	m.DocsMerged.Add(float64(state.DocCount))
	deleted := 0
	for _, n := range state.DelCounts {
		deleted += n
	}
	m.DeletedDocsDropped.Add(float64(deleted))
	m.BytesWritten.Add(float64(bytesWritten))
}
