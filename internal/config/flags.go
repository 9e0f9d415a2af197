package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// newFlagCommand creates a cobra command with all flags configured.
func newFlagCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "httpperf",
		Short:         "Fire HTTP requests from concurrent workers and report latency statistics",
		Example:       "  httpperf -u http://localhost:8080/ping -m GET -c 500000 -t 64\n  httpperf -u http://localhost:8080/items -m POST -d ./bodies -c 1000 -t 8 -r",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.SetOut(os.Stdout)
	configureFlags(cmd.Flags())
	return cmd
}

// configureFlags sets up all CLI flags on the provided flag set.
func configureFlags(flags *pflag.FlagSet) {
	// Required
	flags.IntP("threads", "t", 0, "Number of workers to run (required)")
	flags.IntP("count", "c", 0, "Number of requests each worker sends (required)")
	flags.StringP("url", "u", "", "URL to send requests to (required)")
	flags.StringP("method", "m", "", "HTTP method to use: GET or POST (required)")

	// Request source
	flags.StringP("data-path", "d", "", "Directory of files to POST; each file is posted as its own request")
	flags.String("expected-path", "", "File holding the expected response body for GET requests")

	// Validation
	flags.BoolP("response-code-validation", "r", false, "Check that every response has status 200")
	flags.Bool("response-data-validation", false, "Check that every response body equals its expected fixture (<body>.expected, or --expected-path for GET)")
	flags.StringP("json-subset-validation", "j", "", "Path to a JSON object that must be a subset of every response (single level key/value maps)")

	// Pacing and transport
	flags.String("request-delay", "", "Busy-wait delay between requests as millis[.fraction], e.g. 0.250 for 250µs")
	flags.BoolP("ssl-enabled", "s", false, "Accept any TLS certificate and skip hostname verification")
	flags.String("ca-file", "", "PEM bundle added to the trusted roots")
	flags.Duration("timeout", 0, "Per-request client timeout (0 means none)")

	// Output
	flags.Bool("json-output", false, "Emit the report as JSON")
	flags.Bool("yaml-output", false, "Emit the report as YAML")
	flags.String("html-output", "", "Also write an HTML report to this path")
	flags.Bool("log-errors", false, "Log failed requests to stderr")
	flags.StringSlice("threshold", nil, "Performance thresholds (repeatable, e.g. 'latency:p99 < 5')")
	flags.String("config", "", "Path to configuration file (JSON or YAML)")

	// Tracing
	flags.String("tracing-endpoint", "", "OTLP collector endpoint; enables tracing")
	flags.String("tracing-protocol", "grpc", "OTLP protocol: grpc or http")
	flags.String("tracing-service-name", "", "Service name reported to the collector")
	flags.Float64("tracing-sample-rate", 1.0, "Fraction of attempts to trace (0.0 - 1.0)")
	flags.Bool("tracing-insecure", false, "Use a plaintext connection to the collector")
	flags.Bool("tracing-propagate", true, "Inject W3C traceparent headers when tracing is enabled")
}

// displayHelp prints the help message for a command.
func displayHelp(cmd *cobra.Command) {
	writeUsage(cmd.OutOrStdout(), cmd)
}

func writeUsage(out io.Writer, cmd *cobra.Command) {
	fmt.Fprintf(out, "Usage: %s\n\nExamples:\n%s\n\nFlags:\n", cmd.UseLine(), cmd.Example)
	fs := cmd.Flags()
	fs.SetOutput(out)
	fs.PrintDefaults()
}

// PrintUsage writes the flag usage to w.
func PrintUsage(w io.Writer) {
	writeUsage(w, newFlagCommand())
}

// applyFlagOverrides applies command-line flag values to the config,
// overriding values from the config file.
func applyFlagOverrides(cfg *Config, fs *pflag.FlagSet) error {
	if fs.Changed("threads") {
		val, err := fs.GetInt("threads")
		if err != nil {
			return err
		}
		cfg.Threads = val
	}
	if fs.Changed("count") {
		val, err := fs.GetInt("count")
		if err != nil {
			return err
		}
		cfg.Count = val
	}
	if fs.Changed("url") {
		val, err := fs.GetString("url")
		if err != nil {
			return err
		}
		cfg.TargetURL = strings.TrimSpace(val)
	}
	if fs.Changed("method") {
		val, err := fs.GetString("method")
		if err != nil {
			return err
		}
		cfg.Method = val
	}

	stringFlags := []struct {
		name string
		dst  *string
	}{
		{"data-path", &cfg.DataPath},
		{"expected-path", &cfg.ExpectedPath},
		{"json-subset-validation", &cfg.JSONSubsetPath},
		{"request-delay", &cfg.RequestDelay},
		{"ca-file", &cfg.CAFile},
		{"html-output", &cfg.HTMLOutput},
		{"tracing-endpoint", &cfg.Tracing.Endpoint},
		{"tracing-protocol", &cfg.Tracing.Protocol},
		{"tracing-service-name", &cfg.Tracing.ServiceName},
	}
	for _, f := range stringFlags {
		if !fs.Changed(f.name) {
			continue
		}
		val, err := fs.GetString(f.name)
		if err != nil {
			return err
		}
		*f.dst = strings.TrimSpace(val)
	}

	boolFlags := []struct {
		name string
		dst  *bool
	}{
		{"response-code-validation", &cfg.ResponseCodeValidation},
		{"response-data-validation", &cfg.ResponseDataValidation},
		{"ssl-enabled", &cfg.SSLEnabled},
		{"json-output", &cfg.JSONOutput},
		{"yaml-output", &cfg.YAMLOutput},
		{"log-errors", &cfg.LogErrors},
		{"tracing-insecure", &cfg.Tracing.Insecure},
	}
	for _, f := range boolFlags {
		if !fs.Changed(f.name) {
			continue
		}
		val, err := fs.GetBool(f.name)
		if err != nil {
			return err
		}
		*f.dst = val
	}

	if fs.Changed("tracing-propagate") {
		val, err := fs.GetBool("tracing-propagate")
		if err != nil {
			return err
		}
		cfg.Tracing.Propagate = &val
	}
	if fs.Changed("tracing-sample-rate") {
		val, err := fs.GetFloat64("tracing-sample-rate")
		if err != nil {
			return err
		}
		cfg.Tracing.SampleRate = val
	}
	if fs.Changed("timeout") {
		val, err := fs.GetDuration("timeout")
		if err != nil {
			return err
		}
		cfg.Timeout = val
	}
	if fs.Changed("threshold") {
		val, err := fs.GetStringSlice("threshold")
		if err != nil {
			return err
		}
		cfg.Thresholds = val
	}

	return nil
}
