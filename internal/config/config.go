package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/torosent/httpperf/internal/pacing"
	"github.com/torosent/httpperf/internal/request"
)

// unsetCount marks a request count that was never configured.
const unsetCount = -1

type Config struct {
	Threads                int           `mapstructure:"threads"`
	Count                  int           `mapstructure:"count"`
	TargetURL              string        `mapstructure:"url"`
	Method                 string        `mapstructure:"method"`
	DataPath               string        `mapstructure:"data_path"`
	ExpectedPath           string        `mapstructure:"expected_path"`
	ResponseCodeValidation bool          `mapstructure:"response_code_validation"`
	ResponseDataValidation bool          `mapstructure:"response_data_validation"`
	JSONSubsetPath         string        `mapstructure:"json_subset_validation"`
	RequestDelay           string        `mapstructure:"request_delay"`
	SSLEnabled             bool          `mapstructure:"ssl_enabled"`
	CAFile                 string        `mapstructure:"ca_file"`
	Timeout                time.Duration `mapstructure:"timeout"`
	JSONOutput             bool          `mapstructure:"json_output"`
	YAMLOutput             bool          `mapstructure:"yaml_output"`
	HTMLOutput             string        `mapstructure:"html_output"`
	LogErrors              bool          `mapstructure:"log_errors"`
	Thresholds             []string      `mapstructure:"thresholds"`
	Tracing                TracingConfig `mapstructure:"tracing"`
	ConfigFile             string        `mapstructure:"-"`
}

type TracingConfig struct {
	Endpoint    string  `mapstructure:"endpoint"`     // OTLP collector address; empty disables export
	Protocol    string  `mapstructure:"protocol"`     // "grpc" (default) or "http"
	ServiceName string  `mapstructure:"service_name"` // defaults to OTEL_SERVICE_NAME, then "httpperf"
	SampleRate  float64 `mapstructure:"sample_rate"`  // 0.0 - 1.0
	Insecure    bool    `mapstructure:"insecure"`     // plaintext connection to the collector
	Propagate   *bool   `mapstructure:"propagate"`    // inject traceparent; defaults to Enabled()
}

// Enabled reports whether spans should be exported.
func (t TracingConfig) Enabled() bool {
	return strings.TrimSpace(t.Endpoint) != "" || os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != ""
}

// ShouldPropagate reports whether outgoing requests carry trace headers.
func (t TracingConfig) ShouldPropagate() bool {
	if t.Propagate != nil {
		return *t.Propagate
	}
	return t.Enabled()
}

type ValidationError struct {
	issues []string
}

func (e ValidationError) Error() string {
	if len(e.issues) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(e.issues, "; "))
}

func (e ValidationError) Issues() []string {
	return append([]string(nil), e.issues...)
}

// Delay parses RequestDelay. An empty delay is zero.
func (c Config) Delay() (pacing.Delay, error) {
	return pacing.Parse(c.RequestDelay)
}

// RequestMethod parses Method.
func (c Config) RequestMethod() (request.Method, error) {
	return request.ParseMethod(c.Method)
}

func (c Config) Validate() error {
	var issues []string

	if c.Threads < 1 {
		issues = append(issues, "threads is required and must be >= 1 (use --help for usage information)")
	}
	if c.Count == unsetCount {
		issues = append(issues, "count is required")
	} else if c.Count < 0 {
		issues = append(issues, "count must be >= 0")
	}
	if strings.TrimSpace(c.TargetURL) == "" {
		issues = append(issues, "url is required")
	}

	method, err := c.RequestMethod()
	switch {
	case strings.TrimSpace(c.Method) == "":
		issues = append(issues, "method is required")
	case err != nil:
		issues = append(issues, err.Error())
	case method == request.MethodPost && strings.TrimSpace(c.DataPath) == "":
		issues = append(issues, "data-path is required for POST")
	case method == request.MethodGet && strings.TrimSpace(c.DataPath) != "":
		issues = append(issues, "data-path is only valid for POST")
	}
	if c.ResponseDataValidation && method == request.MethodGet && strings.TrimSpace(c.ExpectedPath) == "" {
		issues = append(issues, "response-data-validation with GET requires expected-path")
	}
	if !c.ResponseDataValidation && strings.TrimSpace(c.ExpectedPath) != "" {
		issues = append(issues, "expected-path requires response-data-validation")
	}

	if _, err := c.Delay(); err != nil {
		issues = append(issues, err.Error())
	}
	if c.Timeout < 0 {
		issues = append(issues, "timeout must be >= 0")
	}
	if c.JSONOutput && c.YAMLOutput {
		issues = append(issues, "json-output and yaml-output are mutually exclusive")
	}

	issues = append(issues, validateTracingConfig(c.Tracing)...)

	if len(issues) > 0 {
		return ValidationError{issues: issues}
	}
	return nil
}

// Warnings lists settings that are valid but risky.
func (c Config) Warnings() []string {
	var warnings []string
	if c.SSLEnabled {
		warnings = append(warnings, "TLS certificate and hostname verification is DISABLED (ssl-enabled). Only use this against servers you control.")
	}
	if c.Threads > highThreadCount {
		warnings = append(warnings, fmt.Sprintf("High thread count configured (%d workers, each spinning a CPU core while pacing). Ensure you have authorization to test the target system.", c.Threads))
	}
	return warnings
}

const highThreadCount = 500

func validateTracingConfig(t TracingConfig) []string {
	var issues []string
	if t.SampleRate < 0 || t.SampleRate > 1 {
		issues = append(issues, fmt.Sprintf("tracing: sample_rate must be between 0.0 and 1.0, got %g", t.SampleRate))
	}
	switch strings.ToLower(strings.TrimSpace(t.Protocol)) {
	case "", "grpc", "http":
	default:
		issues = append(issues, fmt.Sprintf("tracing: protocol must be 'grpc' or 'http', got %q", t.Protocol))
	}
	return issues
}
