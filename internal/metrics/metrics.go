package metrics

import (
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/torosent/httpperf/internal/runner"
)

// PercentileLevels lists the percentiles every report carries, in order.
var PercentileLevels = []int{10, 20, 30, 40, 50, 60, 70, 80, 90, 91, 92, 93, 94, 95, 96, 97, 98, 99}

// Percentile is one interpolated point of the latency distribution.
type Percentile struct {
	P       int           `json:"p" yaml:"p"`
	Value   time.Duration `json:"-" yaml:"-"`
	ValueMs float64       `json:"value_ms" yaml:"value_ms"`
}

// Metrics is the aggregate of every worker of one run. Durations are kept as
// time.Duration for callers and mirrored as milliseconds for JSON and YAML.
type Metrics struct {
	RunID                 string         `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	ThreadCount           int            `json:"thread_count" yaml:"thread_count"`
	RequestCountPerThread int            `json:"request_count_per_thread" yaml:"request_count_per_thread"`
	TotalRequestCount     int            `json:"total_request_count" yaml:"total_request_count"`
	TotalFailedRequests   int            `json:"total_failed_requests" yaml:"total_failed_requests"`
	TotalTransportErrors  int            `json:"total_transport_errors" yaml:"total_transport_errors"`
	ValidationFailures    map[string]int `json:"validation_failures,omitempty" yaml:"validation_failures,omitempty"`
	StatusCodes           []StatusBucket `json:"status_codes,omitempty" yaml:"status_codes,omitempty"`
	ErrorKinds            []ErrorBucket  `json:"error_kinds,omitempty" yaml:"error_kinds,omitempty"`
	RequestsPerSecond     float64        `json:"requests_per_second" yaml:"requests_per_second"`

	TotalTestTime time.Duration `json:"-" yaml:"-"`
	RequestDelay  time.Duration `json:"-" yaml:"-"`
	Min           time.Duration `json:"-" yaml:"-"`
	Max           time.Duration `json:"-" yaml:"-"`
	Mean          time.Duration `json:"-" yaml:"-"`
	StdDev        time.Duration `json:"-" yaml:"-"`

	TotalTestTimeMs float64 `json:"total_test_time_ms" yaml:"total_test_time_ms"`
	RequestDelayMs  float64 `json:"request_delay_ms" yaml:"request_delay_ms"`
	MinMs           float64 `json:"min_latency_ms" yaml:"min_latency_ms"`
	MaxMs           float64 `json:"max_latency_ms" yaml:"max_latency_ms"`
	MeanMs          float64 `json:"mean_latency_ms" yaml:"mean_latency_ms"`
	StdDevMs        float64 `json:"stddev_latency_ms" yaml:"stddev_latency_ms"`

	Percentiles  []Percentile `json:"percentiles" yaml:"percentiles"`
	Distribution []Quantile   `json:"distribution,omitempty" yaml:"distribution,omitempty"`
}

// Aggregate combines worker results into one Metrics value. All workers
// must share the same request count and delay.
func Aggregate(results []runner.WorkerResult) (Metrics, error) {
	if len(results) == 0 {
		return Metrics{}, errors.New("no worker results to aggregate")
	}

	first := results[0]
	m := Metrics{
		ThreadCount:           len(results),
		RequestCountPerThread: first.RequestCount,
		RequestDelay:          first.RequestDelay,
		ValidationFailures:    map[string]int{},
	}

	statuses := map[int]int{}
	kinds := map[string]int{}
	var runTime time.Duration
	sample := make([]time.Duration, 0, len(results)*first.RequestCount)

	for _, r := range results {
		if r.RequestCount != first.RequestCount {
			return Metrics{}, fmt.Errorf("worker %d sent %d requests, worker %d sent %d", r.ID, r.RequestCount, first.ID, first.RequestCount)
		}
		if r.RequestDelay != first.RequestDelay {
			return Metrics{}, fmt.Errorf("worker %d used delay %s, worker %d used %s", r.ID, r.RequestDelay, first.ID, first.RequestDelay)
		}
		runTime += r.RunTime
		m.TotalFailedRequests += r.FailedRequests
		m.TotalTransportErrors += r.TransportErrors
		for name, n := range r.ValidationFailures {
			m.ValidationFailures[name] += n
		}
		for code, n := range r.StatusCodes {
			statuses[code] += n
		}
		for kind, n := range r.ErrorKinds {
			kinds[FriendlyErrorName(kind)] += n
		}
		sample = append(sample, r.Latencies...)
	}

	m.TotalRequestCount = m.ThreadCount * m.RequestCountPerThread
	m.TotalTestTime = runTime / time.Duration(m.ThreadCount)
	m.RequestsPerSecond = float64(m.TotalRequestCount) / max(1, m.TotalTestTime.Seconds())
	m.StatusCodes = FlattenStatusBuckets(statuses)
	m.ErrorKinds = FlattenErrorBuckets(kinds)
	if len(m.ValidationFailures) == 0 {
		m.ValidationFailures = nil
	}

	s := summarize(sample)
	m.Min, m.Max, m.Mean, m.StdDev = s.min, s.max, s.mean, s.stddev
	m.Percentiles = make([]Percentile, len(PercentileLevels))
	for i, p := range PercentileLevels {
		m.Percentiles[i] = Percentile{P: p, Value: s.percentile(p)}
	}
	m.Distribution = distribution(sample)

	m.fillMillis()
	return m, nil
}

// Percentile returns the value recorded for p, if p is one of
// PercentileLevels.
func (m Metrics) Percentile(p int) (time.Duration, bool) {
	for _, pc := range m.Percentiles {
		if pc.P == p {
			return pc.Value, true
		}
	}
	return 0, false
}

// FailureRate is TotalFailedRequests over TotalRequestCount, 0 for an empty run.
func (m Metrics) FailureRate() float64 {
	if m.TotalRequestCount == 0 {
		return 0
	}
	return float64(m.TotalFailedRequests) / float64(m.TotalRequestCount)
}

// ValidationFailureNames returns the failing validation names sorted.
func (m Metrics) ValidationFailureNames() []string {
	return sortedKeys(maps.Keys(m.ValidationFailures))
}

func (m *Metrics) fillMillis() {
	m.TotalTestTimeMs = Millis(m.TotalTestTime)
	m.RequestDelayMs = Millis(m.RequestDelay)
	m.MinMs = Millis(m.Min)
	m.MaxMs = Millis(m.Max)
	m.MeanMs = Millis(m.Mean)
	m.StdDevMs = Millis(m.StdDev)
	for i := range m.Percentiles {
		m.Percentiles[i].ValueMs = Millis(m.Percentiles[i].Value)
	}
	for i := range m.Distribution {
		m.Distribution[i].ValueMs = Millis(m.Distribution[i].Value)
	}
}

// Millis converts d to fractional milliseconds.
func Millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
