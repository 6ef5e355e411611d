package index

import (
	"fmt"

	"github.com/balzaczyy/gopacked/core/util"
	"github.com/balzaczyy/gopacked/core/util/packed"
)

// index/LiveIndexWriterConfig.java

/*
Holds the configuration used by SegmentMerger. All setter methods
return MergeConfig to allow chaining settings conveniently, for
example:

	conf := NewMergeConfig().
		SetInfoStream(infoStream).
		SetMetrics(metrics)
*/
type MergeConfig struct {
	// Overhead allowed when packing doc maps and merged streams.
	AcceptableOverheadRatio float32
	InfoStream              util.InfoStream
	// Optional; nil disables metrics.
	Metrics *MergeMetrics
	// Units of work between two checks for abortion.
	CheckAbortInterval float64
	// Optional; nil leaves payloads untouched.
	PayloadProcessorProvider PayloadProcessorProvider
}

func NewMergeConfig() *MergeConfig {
	return &MergeConfig{
		AcceptableOverheadRatio: packed.PackedInts.COMPACT,
		InfoStream:              util.NO_OUTPUT,
		CheckAbortInterval:      DEFAULT_CHECK_ABORT_INTERVAL,
	}
}

func (conf *MergeConfig) SetAcceptableOverheadRatio(ratio float32) *MergeConfig {
	assert2(ratio >= packed.PackedInts.COMPACT, "acceptableOverheadRatio must be >= 0 (got %v)", ratio)
	conf.AcceptableOverheadRatio = ratio
	return conf
}

func (conf *MergeConfig) SetInfoStream(infoStream util.InfoStream) *MergeConfig {
	assert2(infoStream != nil, "Cannot set InfoStream implementation to nil. To disable logging use util.NO_OUTPUT")
	conf.InfoStream = infoStream
	return conf
}

func (conf *MergeConfig) SetMetrics(metrics *MergeMetrics) *MergeConfig {
	conf.Metrics = metrics
	return conf
}

func (conf *MergeConfig) SetCheckAbortInterval(interval float64) *MergeConfig {
	assert2(interval > 0, "checkAbortInterval must be > 0 (got %v)", interval)
	conf.CheckAbortInterval = interval
	return conf
}

func (conf *MergeConfig) SetPayloadProcessorProvider(provider PayloadProcessorProvider) *MergeConfig {
	conf.PayloadProcessorProvider = provider
	return conf
}

func (conf *MergeConfig) String() string {
	return fmt.Sprintf("acceptableOverheadRatio=%v\ninfoStream=%T\nmetrics=%v\ncheckAbortInterval=%v\npayloadProcessorProvider=%T\n",
		conf.AcceptableOverheadRatio, conf.InfoStream, conf.Metrics != nil, conf.CheckAbortInterval, conf.PayloadProcessorProvider)
}
