package main

import (
	"fmt"
	"io"
	"sync"

	"golang.org/x/time/rate"
)

const (
	failureLogRate  = rate.Limit(10)
	failureLogBurst = 10
)

// stderrFailureLogger prints failed attempts, dropping lines beyond the rate
// limit and counting what it dropped.
type stderrFailureLogger struct {
	mu         sync.Mutex
	w          io.Writer
	limiter    *rate.Limiter
	suppressed int
}

func newFailureLogger(w io.Writer, limit rate.Limit, burst int) *stderrFailureLogger {
	return &stderrFailureLogger{
		w:       w,
		limiter: rate.NewLimiter(limit, burst),
	}
}

func (l *stderrFailureLogger) LogFailure(err error) {
	if err == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.limiter.Allow() {
		l.suppressed++
		return
	}
	fmt.Fprintf(l.w, "[httpperf] request failed: %v\n", err)
}

// Close reports how many failures were not printed.
func (l *stderrFailureLogger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.suppressed > 0 {
		fmt.Fprintf(l.w, "[httpperf] %d more failures not logged\n", l.suppressed)
		l.suppressed = 0
	}
}
