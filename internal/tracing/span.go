package tracing

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// validationFailure matches errors that list failing validation names, so
// spans can carry them without this package importing the runner.
type validationFailure interface {
	error
	FailedValidations() []string
}

// StartAttemptSpan starts a client span for one attempt of a worker.
func StartAttemptSpan(ctx context.Context, tracer trace.Tracer, method, url string, worker, attempt int) (context.Context, trace.Span) {
	ctx, span := tracer.Start(ctx, "http "+method,
		trace.WithSpanKind(trace.SpanKindClient),
	)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.full", url),
			attribute.Int("httpperf.worker", worker),
			attribute.Int("httpperf.attempt", attempt),
		)
	}
	return ctx, span
}

// EndAttemptSpan records the response status and outcome, then ends span.
// A zero status means no response was received.
func EndAttemptSpan(span trace.Span, status int, err error) {
	if status > 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", status))
	}
	if err != nil {
		var vf validationFailure
		if errors.As(err, &vf) {
			span.SetAttributes(attribute.String("httpperf.failed_validations", strings.Join(vf.FailedValidations(), ",")))
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// InjectHTTPHeaders injects W3C trace context into HTTP headers.
func InjectHTTPHeaders(ctx context.Context, headers http.Header) {
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(headers))
}
