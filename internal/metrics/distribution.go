package metrics

import (
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// DistributionQuantiles are the tail points read from the HDR histogram.
var DistributionQuantiles = []float64{50, 75, 90, 95, 99, 99.9, 99.99, 100}

// Quantile is one point of the HDR latency distribution.
type Quantile struct {
	Quantile float64       `json:"quantile" yaml:"quantile"`
	Value    time.Duration `json:"-" yaml:"-"`
	ValueMs  float64       `json:"value_ms" yaml:"value_ms"`
}

// newHistogram tracks latencies from 1µs up to 60s with 3 significant figures.
func newHistogram() *hdrhistogram.Histogram {
	return hdrhistogram.New(1, 60_000_000, 3)
}

// distribution records sample into a histogram and reads the tail ladder.
// Values outside the trackable range are clamped.
func distribution(sample []time.Duration) []Quantile {
	if len(sample) == 0 {
		return nil
	}
	h := newHistogram()
	for _, latency := range sample {
		us := latency.Microseconds()
		if us < h.LowestTrackableValue() {
			us = h.LowestTrackableValue()
		}
		if us > h.HighestTrackableValue() {
			us = h.HighestTrackableValue()
		}
		_ = h.RecordValue(us)
	}

	out := make([]Quantile, len(DistributionQuantiles))
	for i, q := range DistributionQuantiles {
		out[i] = Quantile{
			Quantile: q,
			Value:    time.Duration(h.ValueAtQuantile(q)) * time.Microsecond,
		}
	}
	return out
}
