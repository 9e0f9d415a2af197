package threshold

import (
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/torosent/httpperf/internal/metrics"
)

// Threshold represents a performance assertion that can pass or fail.
type Threshold struct {
	Metric    string  // "latency", "failed" or "requests"
	Aggregate string  // e.g. "p95", "avg", "stddev", "rate", "count"
	Operator  string  // e.g. "<", "<=", ">", ">=", "=="
	Value     float64 // The threshold value to compare against
	Raw       string  // Original threshold string for display
}

// Result represents the outcome of evaluating a threshold.
type Result struct {
	Threshold Threshold
	Actual    float64
	Pass      bool
	Message   string
}

// Evaluator evaluates thresholds against aggregated metrics.
type Evaluator struct {
	thresholds []Threshold
}

// NewEvaluator creates a new threshold evaluator.
func NewEvaluator(thresholds []Threshold) *Evaluator {
	return &Evaluator{
		thresholds: thresholds,
	}
}

// Evaluate checks all thresholds against m.
func (e *Evaluator) Evaluate(m metrics.Metrics) []Result {
	if len(e.thresholds) == 0 {
		return nil
	}

	results := make([]Result, 0, len(e.thresholds))
	for _, t := range e.thresholds {
		results = append(results, e.evaluateOne(t, m))
	}
	return results
}

// Failed counts the results that did not pass.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if !r.Pass {
			n++
		}
	}
	return n
}

func (e *Evaluator) evaluateOne(t Threshold, m metrics.Metrics) Result {
	actual, err := extractMetricValue(t, m)
	if err != nil {
		return Result{
			Threshold: t,
			Pass:      false,
			Message:   fmt.Sprintf("error: %v", err),
		}
	}

	pass := compareValues(actual, t.Operator, t.Value)
	status := "✓"
	if !pass {
		status = "✗"
	}

	return Result{
		Threshold: t,
		Actual:    actual,
		Pass:      pass,
		Message:   fmt.Sprintf("%s %s: %.3f %s %.3f", status, t.Raw, actual, t.Operator, t.Value),
	}
}

var thresholdPattern = regexp.MustCompile(`^([a-z_]+):([a-z0-9]+)\s*([<>=!]+)\s*([0-9.]+)$`)

// Parse parses a threshold string into a Threshold struct.
// Supported formats:
// - "latency:p95 < 5"        (latency percentile in ms, p10..p90 by 10 and p91..p99)
// - "latency:avg < 2"        (also min, max, stddev; all in ms)
// - "failed:rate < 0.01"     (failure rate as decimal)
// - "failed:count == 0"      (failed attempts)
// - "requests:rate > 1000"   (requests per second)
// - "requests:count >= 6"    (total requests)
func Parse(s string) (Threshold, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Threshold{}, fmt.Errorf("empty threshold string")
	}

	matches := thresholdPattern.FindStringSubmatch(s)
	if matches == nil {
		return Threshold{}, fmt.Errorf("invalid threshold format: %q (expected format: metric:aggregate operator value, e.g., 'latency:p99 < 5')", s)
	}

	metric := matches[1]
	aggregate := matches[2]
	operator := matches[3]
	valueStr := matches[4]

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return Threshold{}, fmt.Errorf("invalid threshold value %q: %v", valueStr, err)
	}

	if !isValidMetric(metric) {
		return Threshold{}, fmt.Errorf("unsupported metric: %q (supported: latency, failed, requests)", metric)
	}
	if !isValidAggregate(metric, aggregate) {
		return Threshold{}, fmt.Errorf("unsupported aggregate %q for %s", aggregate, metric)
	}
	if !isValidOperator(operator) {
		return Threshold{}, fmt.Errorf("unsupported operator: %q (supported: <, <=, >, >=, ==)", operator)
	}

	return Threshold{
		Metric:    metric,
		Aggregate: aggregate,
		Operator:  operator,
		Value:     value,
		Raw:       s,
	}, nil
}

// ParseMultiple parses multiple threshold strings.
func ParseMultiple(thresholds []string) ([]Threshold, error) {
	if len(thresholds) == 0 {
		return nil, nil
	}

	result := make([]Threshold, 0, len(thresholds))
	var errors []string

	for i, s := range thresholds {
		t, err := Parse(s)
		if err != nil {
			errors = append(errors, fmt.Sprintf("threshold[%d]: %v", i, err))
			continue
		}
		result = append(result, t)
	}

	if len(errors) > 0 {
		return nil, fmt.Errorf("threshold parsing errors: %s", strings.Join(errors, "; "))
	}

	return result, nil
}

func isValidMetric(metric string) bool {
	return slices.Contains([]string{"latency", "failed", "requests"}, metric)
}

func isValidAggregate(metric, aggregate string) bool {
	switch metric {
	case "latency":
		if _, ok := percentileLevel(aggregate); ok {
			return true
		}
		return slices.Contains([]string{"avg", "mean", "min", "max", "stddev"}, aggregate)
	default:
		return aggregate == "count" || aggregate == "rate"
	}
}

func isValidOperator(operator string) bool {
	return slices.Contains([]string{"<", "<=", ">", ">=", "=="}, operator)
}

// percentileLevel maps "p95" to 95 when 95 is a reported level.
func percentileLevel(aggregate string) (int, bool) {
	digits, ok := strings.CutPrefix(aggregate, "p")
	if !ok {
		return 0, false
	}
	p, err := strconv.Atoi(digits)
	if err != nil || !slices.Contains(metrics.PercentileLevels, p) {
		return 0, false
	}
	return p, true
}

func extractMetricValue(t Threshold, m metrics.Metrics) (float64, error) {
	switch t.Metric {
	case "latency":
		return extractLatencyMetric(t.Aggregate, m)
	case "failed":
		return extractFailureMetric(t.Aggregate, m)
	case "requests":
		return extractRequestMetric(t.Aggregate, m)
	default:
		return 0, fmt.Errorf("unknown metric: %s", t.Metric)
	}
}

func extractLatencyMetric(aggregate string, m metrics.Metrics) (float64, error) {
	if p, ok := percentileLevel(aggregate); ok {
		v, found := m.Percentile(p)
		if !found {
			return 0, fmt.Errorf("percentile %d not recorded", p)
		}
		return metrics.Millis(v), nil
	}
	switch aggregate {
	case "avg", "mean":
		return metrics.Millis(m.Mean), nil
	case "min":
		return metrics.Millis(m.Min), nil
	case "max":
		return metrics.Millis(m.Max), nil
	case "stddev":
		return metrics.Millis(m.StdDev), nil
	default:
		return 0, fmt.Errorf("unsupported aggregate %q for latency", aggregate)
	}
}

func extractFailureMetric(aggregate string, m metrics.Metrics) (float64, error) {
	switch aggregate {
	case "count":
		return float64(m.TotalFailedRequests), nil
	case "rate":
		return m.FailureRate(), nil
	default:
		return 0, fmt.Errorf("unsupported aggregate %q for failed (use 'count' or 'rate')", aggregate)
	}
}

func extractRequestMetric(aggregate string, m metrics.Metrics) (float64, error) {
	switch aggregate {
	case "count":
		return float64(m.TotalRequestCount), nil
	case "rate":
		return m.RequestsPerSecond, nil
	default:
		return 0, fmt.Errorf("unsupported aggregate %q for requests (use 'count' or 'rate')", aggregate)
	}
}

func compareValues(actual float64, operator string, expected float64) bool {
	epsilon := 1e-9

	switch operator {
	case "<":
		return actual < expected
	case "<=":
		return actual <= expected || math.Abs(actual-expected) < epsilon
	case ">":
		return actual > expected
	case ">=":
		return actual >= expected || math.Abs(actual-expected) < epsilon
	case "==":
		return math.Abs(actual-expected) < epsilon
	default:
		return false
	}
}
