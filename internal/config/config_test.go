package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/torosent/httpperf/internal/config"
	"github.com/torosent/httpperf/internal/pacing"
	"github.com/torosent/httpperf/internal/request"
)

func TestParseFlagsDefaults(t *testing.T) {
	loader := config.NewLoader()

	cfg, err := loader.Load([]string{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.TargetURL != "" {
		t.Errorf("TargetURL = %q, want empty", cfg.TargetURL)
	}
	if cfg.Threads != 0 {
		t.Errorf("Threads = %d, want 0", cfg.Threads)
	}
	if cfg.Timeout != 0 {
		t.Errorf("Timeout = %s, want 0", cfg.Timeout)
	}
	if cfg.Tracing.Protocol != "grpc" {
		t.Errorf("Tracing.Protocol = %q, want grpc", cfg.Tracing.Protocol)
	}
	if cfg.Tracing.SampleRate != 1.0 {
		t.Errorf("Tracing.SampleRate = %v, want 1.0", cfg.Tracing.SampleRate)
	}
	if cfg.JSONOutput || cfg.YAMLOutput {
		t.Errorf("structured output enabled by default")
	}
}

func TestParseFlagsShortForms(t *testing.T) {
	cfg, err := config.NewLoader().Load([]string{
		"-u", "http://localhost:8080/items",
		"-m", "post",
		"-d", "./bodies",
		"-c", "1000",
		"-t", "8",
		"-r",
		"-s",
		"-j", "golden.json",
		"--request-delay", "0.5",
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.TargetURL != "http://localhost:8080/items" {
		t.Errorf("TargetURL = %q", cfg.TargetURL)
	}
	if cfg.Method != "POST" {
		t.Errorf("Method = %q, want POST", cfg.Method)
	}
	if cfg.DataPath != "./bodies" {
		t.Errorf("DataPath = %q, want ./bodies", cfg.DataPath)
	}
	if cfg.Count != 1000 || cfg.Threads != 8 {
		t.Errorf("Count, Threads = %d, %d, want 1000, 8", cfg.Count, cfg.Threads)
	}
	if !cfg.ResponseCodeValidation || !cfg.SSLEnabled {
		t.Errorf("ResponseCodeValidation, SSLEnabled = %v, %v, want true, true", cfg.ResponseCodeValidation, cfg.SSLEnabled)
	}
	if cfg.JSONSubsetPath != "golden.json" {
		t.Errorf("JSONSubsetPath = %q, want golden.json", cfg.JSONSubsetPath)
	}
	d, err := cfg.Delay()
	if err != nil {
		t.Fatalf("Delay() error = %v", err)
	}
	if d.Duration() != 500*time.Microsecond {
		t.Errorf("Delay().Duration() = %v, want 500µs", d.Duration())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoadHelp(t *testing.T) {
	_, err := config.NewLoader().Load([]string{"--help"})
	if !errors.Is(err, config.ErrHelpRequested) {
		t.Fatalf("Load(--help) error = %v, want ErrHelpRequested", err)
	}
}

func TestLoadRejectsPositionalArgs(t *testing.T) {
	if _, err := config.NewLoader().Load([]string{"-t", "1", "extra"}); err == nil {
		t.Fatal("Load() expected error for positional argument")
	}
}

func TestLoadConfigFileJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(`{
		"url": "https://api.example.com/ping",
		"method": "GET",
		"threads": 4,
		"count": 250,
		"request_delay": "1.25",
		"timeout": "45s",
		"json_output": true,
		"thresholds": ["latency:p95 < 10", "failed:rate < 0.01"]
	}`), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := config.NewLoader().Load([]string{"--config", path, "-t", "16"})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.TargetURL != "https://api.example.com/ping" {
		t.Errorf("TargetURL = %q", cfg.TargetURL)
	}
	if cfg.Threads != 16 {
		t.Errorf("Threads = %d, want 16 (flag overrides file)", cfg.Threads)
	}
	if cfg.Count != 250 {
		t.Errorf("Count = %d, want 250", cfg.Count)
	}
	if cfg.Timeout != 45*time.Second {
		t.Errorf("Timeout = %s, want 45s", cfg.Timeout)
	}
	if !cfg.JSONOutput {
		t.Errorf("JSONOutput = false, want true")
	}
	if len(cfg.Thresholds) != 2 {
		t.Errorf("Thresholds len = %d, want 2", len(cfg.Thresholds))
	}
	if cfg.ConfigFile != path {
		t.Errorf("ConfigFile = %q, want %q", cfg.ConfigFile, path)
	}
}

func TestLoadConfigFileYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `url: http://localhost:9000/items
method: POST
data_path: ./bodies
response_data_validation: true
threads: 2
count: 10
tracing:
  endpoint: localhost:4318
  protocol: http
  insecure: true
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := config.NewLoader().Load([]string{"--config", path})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Method != "POST" || cfg.DataPath != "./bodies" {
		t.Errorf("Method, DataPath = %q, %q", cfg.Method, cfg.DataPath)
	}
	if !cfg.ResponseDataValidation {
		t.Errorf("ResponseDataValidation = false, want true")
	}
	if cfg.Tracing.Endpoint != "localhost:4318" || cfg.Tracing.Protocol != "http" || !cfg.Tracing.Insecure {
		t.Errorf("Tracing = %+v", cfg.Tracing)
	}
	if !cfg.Tracing.Enabled() || !cfg.Tracing.ShouldPropagate() {
		t.Errorf("tracing should be enabled and propagating")
	}
}

func TestLoadMissingConfigFile(t *testing.T) {
	_, err := config.NewLoader().Load([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")})
	if err == nil {
		t.Fatal("Load() expected error for missing config file")
	}
}

func TestValidateRequiredFields(t *testing.T) {
	cfg, err := config.NewLoader().Load(nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	err = cfg.Validate()
	var verr config.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Validate() error = %v, want ValidationError", err)
	}

	joined := strings.Join(verr.Issues(), "\n")
	for _, want := range []string{"threads", "count", "url", "method"} {
		if !strings.Contains(joined, want) {
			t.Errorf("issues %q missing %q", joined, want)
		}
	}
}

func TestValidate(t *testing.T) {
	valid := func() config.Config {
		return config.Config{
			Threads:   1,
			Count:     10,
			TargetURL: "http://localhost/ping",
			Method:    "GET",
			Tracing:   config.TracingConfig{SampleRate: 1},
		}
	}

	tests := []struct {
		name   string
		mutate func(*config.Config)
		issue  string
	}{
		{"zero count is allowed", func(c *config.Config) { c.Count = 0 }, ""},
		{"negative count", func(c *config.Config) { c.Count = -5 }, "count must be >= 0"},
		{"unknown method", func(c *config.Config) { c.Method = "PUT" }, "PUT"},
		{"post without data", func(c *config.Config) { c.Method = "POST" }, "data-path is required"},
		{"get with data", func(c *config.Config) { c.DataPath = "bodies" }, "only valid for POST"},
		{"get data validation without fixture", func(c *config.Config) { c.ResponseDataValidation = true }, "requires expected-path"},
		{"fixture without data validation", func(c *config.Config) { c.ExpectedPath = "x" }, "requires response-data-validation"},
		{"bad delay", func(c *config.Config) { c.RequestDelay = "1.2.3" }, "delay"},
		{"long fraction", func(c *config.Config) { c.RequestDelay = "1.1234567" }, "delay"},
		{"negative timeout", func(c *config.Config) { c.Timeout = -time.Second }, "timeout"},
		{"both outputs", func(c *config.Config) { c.JSONOutput, c.YAMLOutput = true, true }, "mutually exclusive"},
		{"sample rate", func(c *config.Config) { c.Tracing.SampleRate = 2 }, "sample_rate"},
		{"protocol", func(c *config.Config) { c.Tracing.Protocol = "udp" }, "protocol"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.issue == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want issue containing %q", tt.issue)
			}
			if !strings.Contains(err.Error(), tt.issue) {
				t.Errorf("Validate() = %v, want issue containing %q", err, tt.issue)
			}
		})
	}
}

func TestWarnings(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
		want []string
	}{
		{"none", config.Config{Threads: 4}, nil},
		{"ssl", config.Config{Threads: 4, SSLEnabled: true}, []string{"verification is DISABLED"}},
		{"threads", config.Config{Threads: 501}, []string{"501 workers"}},
		{"both", config.Config{Threads: 1000, SSLEnabled: true}, []string{"verification is DISABLED", "1000 workers"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.cfg.Warnings()
			if len(got) != len(tt.want) {
				t.Fatalf("Warnings() = %q, want %d entries", got, len(tt.want))
			}
			for i, want := range tt.want {
				if !strings.Contains(got[i], want) {
					t.Errorf("Warnings()[%d] = %q, want it to contain %q", i, got[i], want)
				}
			}
		})
	}
}

func TestDelayErrorIsInvalidDelay(t *testing.T) {
	cfg := config.Config{RequestDelay: "abc"}
	if _, err := cfg.Delay(); !errors.Is(err, pacing.ErrInvalidDelay) {
		t.Fatalf("Delay() error = %v, want ErrInvalidDelay", err)
	}
}

func TestRequestMethod(t *testing.T) {
	cfg := config.Config{Method: "POST"}
	m, err := cfg.RequestMethod()
	if err != nil {
		t.Fatalf("RequestMethod() error = %v", err)
	}
	if m != request.MethodPost {
		t.Errorf("RequestMethod() = %v, want POST", m)
	}
}
