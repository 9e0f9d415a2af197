// Package runner executes a fixed volume of HTTP attempts from concurrent
// workers.
//
// Each [Worker] owns its own *http.Client and performs exactly
// RequestsPerWorker attempts, replaying the configured requests cyclically
// (attempt i sends Requests[i % len(Requests)]). Before every attempt the
// worker busy-waits for the configured [pacing.Delay]; latency is measured
// around client.Do only.
//
// # Basic Usage
//
//	r, err := runner.New(runner.Options{
//		Workers:           8,
//		RequestsPerWorker: 1000,
//		Requests:          reqs,
//		Validations:       validation.Set{validation.StatusCode{}},
//	})
//	if err != nil {
//		return err
//	}
//	result := r.Run(ctx)
//
// [Runner.Run] releases every worker through a start gate so they begin
// together, then joins them. Each worker writes only its own
// [WorkerResult] slot, which is read after the join.
//
// # Failures
//
// An attempt fails when the transport returns an error, the body cannot be
// read, or any validation rejects the response. Failures are counted and
// passed to the optional [FailureLogger] wrapped in an [AttemptError]; a
// worker never stops early. Validation failures carry a [ValidationError]
// naming every failing check.
//
// The context passed to Run carries tracing state only. Cancelling it does
// not stop workers.
package runner
