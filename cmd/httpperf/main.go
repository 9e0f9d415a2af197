package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/torosent/httpperf/internal/config"
	"github.com/torosent/httpperf/internal/httpclient"
	"github.com/torosent/httpperf/internal/metrics"
	"github.com/torosent/httpperf/internal/output"
	"github.com/torosent/httpperf/internal/request"
	"github.com/torosent/httpperf/internal/runner"
	"github.com/torosent/httpperf/internal/threshold"
	"github.com/torosent/httpperf/internal/tracing"
	"github.com/torosent/httpperf/internal/validation"
)

const tracingShutdownTimeout = 5 * time.Second

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	loader := config.NewLoader()
	cfg, err := loader.Load(args)
	if err != nil {
		if errors.Is(err, config.ErrHelpRequested) {
			return nil
		}
		return err
	}
	if err := cfg.Validate(); err != nil {
		var verr config.ValidationError
		if errors.As(err, &verr) {
			config.PrintUsage(stderr)
		}
		return err
	}
	for _, warning := range cfg.Warnings() {
		fmt.Fprintf(stderr, "WARNING: %s\n", warning)
	}

	thresholds, err := threshold.ParseMultiple(cfg.Thresholds)
	if err != nil {
		return err
	}

	requests, err := loadRequests(cfg)
	if err != nil {
		return err
	}
	validations, err := buildValidations(cfg)
	if err != nil {
		return err
	}
	delay, err := cfg.Delay()
	if err != nil {
		return err
	}

	runID := ulid.Make().String()
	provider, err := tracing.Init(ctx, cfg.Tracing, runID)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), tracingShutdownTimeout)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintf(stderr, "[httpperf] tracing shutdown: %v\n", err)
		}
	}()

	opts := runner.Options{
		Workers:           cfg.Threads,
		RequestsPerWorker: cfg.Count,
		Requests:          requests,
		Validations:       validations,
		Delay:             delay,
		Client: httpclient.Options{
			Timeout: cfg.Timeout,
			TLS: httpclient.TLSOptions{
				TrustAll: cfg.SSLEnabled,
				CAFile:   cfg.CAFile,
			},
		},
		Tracer:    provider.Tracer(),
		Propagate: provider.ShouldPropagate(),
	}
	var failureLog *stderrFailureLogger
	if cfg.LogErrors {
		failureLog = newFailureLogger(stderr, failureLogRate, failureLogBurst)
		opts.Logger = failureLog
	}

	r, err := runner.New(opts)
	if err != nil {
		return err
	}
	result := r.Run(ctx)
	if failureLog != nil {
		failureLog.Close()
	}

	m, err := metrics.Aggregate(result.Workers)
	if err != nil {
		return err
	}
	m.RunID = runID

	results := threshold.NewEvaluator(thresholds).Evaluate(m)
	report := output.NewReport(m, results)

	switch {
	case cfg.JSONOutput:
		if err := output.PrintJSONReport(stdout, report); err != nil {
			return err
		}
	case cfg.YAMLOutput:
		if err := output.PrintYAMLReport(stdout, report); err != nil {
			return err
		}
	default:
		output.PrintReport(stdout, m)
		output.PrintThresholds(stdout, results)
	}

	if cfg.HTMLOutput != "" {
		if err := writeHTMLReport(cfg, report, len(requests)); err != nil {
			return err
		}
	}

	if failed := threshold.Failed(results); failed > 0 {
		return fmt.Errorf("%d of %d thresholds failed", failed, len(results))
	}
	return nil
}

func loadRequests(cfg *config.Config) ([]*request.Request, error) {
	method, err := cfg.RequestMethod()
	if err != nil {
		return nil, err
	}
	if method == request.MethodPost {
		return request.LoadPostDir(cfg.TargetURL, cfg.DataPath, cfg.ResponseDataValidation)
	}
	return request.LoadGet(cfg.TargetURL, cfg.ExpectedPath)
}

func buildValidations(cfg *config.Config) (validation.Set, error) {
	var set validation.Set
	if cfg.ResponseCodeValidation {
		set = append(set, validation.StatusCode{})
	}
	if cfg.ResponseDataValidation {
		set = append(set, validation.ExactBody{})
	}
	if cfg.JSONSubsetPath != "" {
		golden, err := os.ReadFile(cfg.JSONSubsetPath)
		if err != nil {
			return nil, fmt.Errorf("json subset validation: %w", err)
		}
		subset, err := validation.NewJSONSubset(golden)
		if err != nil {
			return nil, fmt.Errorf("json subset validation: %w", err)
		}
		set = append(set, subset)
	}
	return set, nil
}

func writeHTMLReport(cfg *config.Config, report output.Report, requestCount int) error {
	f, err := os.Create(cfg.HTMLOutput)
	if err != nil {
		return fmt.Errorf("html report: %w", err)
	}
	err = output.GenerateHTMLReport(f, report, output.ReportMetadata{
		TargetURL: cfg.TargetURL,
		Method:    cfg.Method,
		Requests:  requestCount,
	})
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	return err
}
