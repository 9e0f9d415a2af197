package output

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/torosent/httpperf/internal/metrics"
	"github.com/torosent/httpperf/internal/threshold"
)

// Report is the structured document written by PrintJSONReport and
// PrintYAMLReport.
type Report struct {
	metrics.Metrics `yaml:",inline"`
	Thresholds      *ThresholdSummary `json:"thresholds,omitempty" yaml:"thresholds,omitempty"`
}

// ThresholdSummary contains summary information about threshold evaluation.
type ThresholdSummary struct {
	Total   int                   `json:"total" yaml:"total"`
	Passed  int                   `json:"passed" yaml:"passed"`
	Failed  int                   `json:"failed" yaml:"failed"`
	Results []ThresholdResultJSON `json:"results" yaml:"results"`
}

// ThresholdResultJSON is the serialized form of a threshold evaluation.
type ThresholdResultJSON struct {
	Threshold string  `json:"threshold" yaml:"threshold"`
	Metric    string  `json:"metric" yaml:"metric"`
	Aggregate string  `json:"aggregate" yaml:"aggregate"`
	Operator  string  `json:"operator" yaml:"operator"`
	Expected  float64 `json:"expected" yaml:"expected"`
	Actual    float64 `json:"actual" yaml:"actual"`
	Pass      bool    `json:"pass" yaml:"pass"`
}

// NewReport pairs m with its threshold results. results may be nil.
func NewReport(m metrics.Metrics, results []threshold.Result) Report {
	return Report{Metrics: m, Thresholds: summarizeThresholds(results)}
}

// PrintReport writes the fixed-format text report.
func PrintReport(w io.Writer, m metrics.Metrics) {
	fmt.Fprintln(w, "\nCurrent test metrics:")
	if m.RunID != "" {
		fmt.Fprintf(w, "Run ID: %s\n", m.RunID)
	}
	fmt.Fprintf(w, "Thread Count: %d\n", m.ThreadCount)
	fmt.Fprintf(w, "Total Request Count: %d\n", m.TotalRequestCount)
	fmt.Fprintf(w, "Request Count Per Thread: %d\n", m.RequestCountPerThread)
	fmt.Fprintf(w, "Total Test Time: %s\n", m.TotalTestTime)
	fmt.Fprintf(w, "Request Delay: %s\n", m.RequestDelay)
	fmt.Fprintf(w, "Total Failed Requests: %d\n", m.TotalFailedRequests)
	fmt.Fprintf(w, "Requests Per Second: %.2f\n", m.RequestsPerSecond)

	fmt.Fprintln(w, "\nLatency:")
	fmt.Fprintf(w, "  Average:            %s\n", m.Mean)
	fmt.Fprintf(w, "  Min:                %s\n", m.Min)
	fmt.Fprintf(w, "  Max:                %s\n", m.Max)
	fmt.Fprintf(w, "  Standard Deviation: %s\n", m.StdDev)
	for _, p := range m.Percentiles {
		fmt.Fprintf(w, "  %-20s%s\n", fmt.Sprintf("P%d:", p.P), p.Value)
	}

	if len(m.Distribution) > 0 {
		fmt.Fprintln(w, "\nLatency Distribution (HDR):")
		for _, q := range m.Distribution {
			fmt.Fprintf(w, "  %7.3f%%  %s\n", q.Quantile, q.Value)
		}
	}

	if len(m.StatusCodes) > 0 {
		fmt.Fprintln(w, "\nStatus Codes:")
		for _, row := range m.StatusCodes {
			fmt.Fprintf(w, "  %d %s: %d\n", row.Code, row.Text, row.Count)
		}
	}

	if m.TotalFailedRequests > 0 {
		fmt.Fprintln(w, "\nFailures:")
		fmt.Fprintf(w, "  Transport Errors: %d\n", m.TotalTransportErrors)
		for _, row := range m.ErrorKinds {
			fmt.Fprintf(w, "    %s: %d\n", row.Kind, row.Count)
		}
		for _, name := range m.ValidationFailureNames() {
			fmt.Fprintf(w, "  Validation %s: %d\n", name, m.ValidationFailures[name])
		}
	}
}

// PrintThresholds writes one line per threshold result.
func PrintThresholds(w io.Writer, results []threshold.Result) {
	if len(results) == 0 {
		return
	}
	summary := summarizeThresholds(results)
	fmt.Fprintf(w, "\nThresholds (%d/%d passed):\n", summary.Passed, summary.Total)
	for _, r := range results {
		fmt.Fprintf(w, "  %s\n", r.Message)
	}
}

// PrintJSONReport outputs a JSON-formatted report.
func PrintJSONReport(w io.Writer, report Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// PrintYAMLReport outputs a YAML-formatted report.
func PrintYAMLReport(w io.Writer, report Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return err
	}
	return enc.Close()
}

func summarizeThresholds(results []threshold.Result) *ThresholdSummary {
	if len(results) == 0 {
		return nil
	}
	summary := &ThresholdSummary{
		Total:   len(results),
		Results: make([]ThresholdResultJSON, len(results)),
	}
	for i, tr := range results {
		summary.Results[i] = ThresholdResultJSON{
			Threshold: tr.Threshold.Raw,
			Metric:    tr.Threshold.Metric,
			Aggregate: tr.Threshold.Aggregate,
			Operator:  tr.Threshold.Operator,
			Expected:  tr.Threshold.Value,
			Actual:    tr.Actual,
			Pass:      tr.Pass,
		}
		if tr.Pass {
			summary.Passed++
		} else {
			summary.Failed++
		}
	}
	return summary
}
