package runner

import (
	"net/http"

	"go.opentelemetry.io/otel/trace"

	"github.com/torosent/httpperf/internal/httpclient"
	"github.com/torosent/httpperf/internal/pacing"
	"github.com/torosent/httpperf/internal/request"
	"github.com/torosent/httpperf/internal/validation"
)

// DefaultMaxBodyBytes caps how much of a response body is buffered for
// validation.
const DefaultMaxBodyBytes = 10 << 20

// FailureLogger receives every failed attempt. Implementations must be safe
// for concurrent use since all workers share one logger.
type FailureLogger interface {
	LogFailure(err error)
}

// Options configure a Runner and the workers it builds.
type Options struct {
	Workers           int                // number of concurrent workers (>= 1)
	RequestsPerWorker int                // attempts each worker performs (>= 0)
	Requests          []*request.Request // replayed cyclically, shared read-only
	Validations       validation.Set     // applied to every response, shared read-only
	Delay             pacing.Delay       // busy-wait between attempts
	Client            httpclient.Options // per-worker client settings
	MaxBodyBytes      int64              // buffered body limit (0 means DefaultMaxBodyBytes)
	Logger            FailureLogger      // optional
	Tracer            trace.Tracer       // optional, no-op when nil
	Propagate         bool               // inject W3C trace headers

	// ClientFactory builds each worker's client. Defaults to
	// httpclient.NewClient.
	ClientFactory func(httpclient.Options) (*http.Client, error)
}

func (o *Options) normalize() {
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if o.ClientFactory == nil {
		o.ClientFactory = httpclient.NewClient
	}
}
