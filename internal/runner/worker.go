package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/torosent/httpperf/internal/httpclient"
	"github.com/torosent/httpperf/internal/pacing"
	"github.com/torosent/httpperf/internal/request"
	"github.com/torosent/httpperf/internal/tracing"
	"github.com/torosent/httpperf/internal/validation"
)

// WorkerResult is the outcome of one worker. It is written only by the
// owning worker and read only after the worker has been joined.
type WorkerResult struct {
	ID                 int
	RequestCount       int
	Latencies          []time.Duration // one entry per attempt, in attempt order
	RunTime            time.Duration
	FailedRequests     int
	TransportErrors    int
	ValidationFailures map[string]int // failing validation name -> attempts
	StatusCodes        map[int]int    // response status -> attempts that got a response
	ErrorKinds         map[string]int // transport error type -> attempts
	RequestDelay       time.Duration
}

// Worker executes a fixed number of attempts over its own HTTP client.
type Worker struct {
	id           int
	count        int
	requests     []*request.Request
	validations  validation.Set
	delay        time.Duration
	client       *http.Client
	maxBodyBytes int64
	logger       FailureLogger
	tracer       trace.Tracer
	propagate    bool
}

// NewWorker builds a worker and its client. opts is used as given; Runner
// callers get normalized options.
func NewWorker(id int, opts Options) (*Worker, error) {
	opts.normalize()
	if opts.RequestsPerWorker < 0 {
		return nil, errors.New("requests per worker must be >= 0")
	}
	if err := checkRequests(opts.Requests); err != nil {
		return nil, err
	}
	client, err := opts.ClientFactory(opts.Client)
	if err != nil {
		return nil, fmt.Errorf("worker %d: http client: %w", id, err)
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("httpperf")
	}
	return &Worker{
		id:           id,
		count:        opts.RequestsPerWorker,
		requests:     opts.Requests,
		validations:  opts.Validations,
		delay:        opts.Delay.Duration(),
		client:       client,
		maxBodyBytes: opts.MaxBodyBytes,
		logger:       opts.Logger,
		tracer:       tracer,
		propagate:    opts.Propagate,
	}, nil
}

// Run performs every attempt and returns the finished result. Cancelling
// ctx does not stop the worker; ctx only carries tracing state.
func (w *Worker) Run(ctx context.Context) WorkerResult {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithoutCancel(ctx)

	res := WorkerResult{
		ID:                 w.id,
		RequestCount:       w.count,
		Latencies:          make([]time.Duration, w.count),
		ValidationFailures: map[string]int{},
		StatusCodes:        map[int]int{},
		ErrorKinds:         map[string]int{},
		RequestDelay:       w.delay,
	}

	start := time.Now()
	for i := 0; i < w.count; i++ {
		req := w.requests[i%len(w.requests)]

		pacing.Spin(time.Now(), w.delay)

		latency, status, err := w.attempt(ctx, i, req)
		res.Latencies[i] = latency
		if status != 0 {
			res.StatusCodes[status]++
		}
		if err == nil {
			continue
		}

		res.FailedRequests++
		var vErr *ValidationError
		if errors.As(err, &vErr) {
			for _, name := range vErr.Names {
				res.ValidationFailures[name]++
			}
		} else {
			res.TransportErrors++
			res.ErrorKinds[errorKind(err)]++
		}
		if w.logger != nil {
			w.logger.LogFailure(&AttemptError{Worker: w.id, Attempt: i, Request: req.String(), Err: err})
		}
	}
	httpclient.Close(w.client)
	res.RunTime = time.Since(start)
	return res
}

// attempt issues req once and returns its latency and the response status
// (0 without a response). A non-nil error marks the attempt failed:
// *ValidationError for failed checks, anything else is a transport fault.
func (w *Worker) attempt(ctx context.Context, index int, req *request.Request) (latency time.Duration, status int, err error) {
	ctx, span := tracing.StartAttemptSpan(ctx, w.tracer, string(req.Method()), req.URL(), w.id, index)
	defer func() { tracing.EndAttemptSpan(span, status, err) }()

	var prepare []func(*http.Request)
	if w.propagate {
		prepare = append(prepare, func(r *http.Request) { tracing.InjectHTTPHeaders(ctx, r.Header) })
	}

	begin := time.Now()
	resp, err := req.Do(ctx, w.client, prepare...)
	latency = time.Since(begin)
	if err != nil {
		return latency, 0, err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()
	status = resp.StatusCode

	if len(w.validations) == 0 {
		return latency, status, nil
	}

	body, err := readBody(resp.Body, w.maxBodyBytes)
	if err != nil {
		return latency, status, err
	}
	failed := w.validations.Failed(req, &validation.Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	})
	if len(failed) > 0 {
		return latency, status, &ValidationError{StatusCode: resp.StatusCode, Names: failed}
	}
	return latency, status, nil
}

// errorKind names the type of the innermost error net/http reports, so
// a refused connection and a timeout land in different buckets.
func errorKind(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		err = urlErr.Err
	}
	return fmt.Sprintf("%T", err)
}

func checkRequests(requests []*request.Request) error {
	if len(requests) == 0 {
		return errors.New("at least one request is required")
	}
	for i, req := range requests {
		if req == nil {
			return fmt.Errorf("requests[%d] is nil", i)
		}
	}
	return nil
}

func readBody(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("response body exceeds %d bytes", limit)
	}
	return data, nil
}
