// Package validation implements the correctness checks applied to every
// completed attempt.
//
// A [Validation] is stateless and never modifies the request or response it
// inspects. Checks are composed into an ordered [Set]; an attempt passes only
// when every check in the set passes, and the set reports every failing
// check rather than the first one.
package validation

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/torosent/httpperf/internal/request"
)

// ErrMissingExpected is returned by Prepare when a check needs expected
// response data that a request does not carry.
var ErrMissingExpected = errors.New("request has no expected response data")

// Response is the completed response a validation inspects. The body has
// already been drained by the worker.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Validation is a single pass/fail check of an attempt.
type Validation interface {
	Name() string
	Check(req *request.Request, resp *Response) bool
}

// requestChecker is implemented by validations that place requirements on
// the requests they will see.
type requestChecker interface {
	CheckRequests(requests []*request.Request) error
}

// Set is an ordered list of validations.
type Set []Validation

// Failed runs every validation against the attempt and returns the names of
// those that failed, in set order. A nil result means the attempt passed.
// A validation that panics counts as failed.
func (s Set) Failed(req *request.Request, resp *Response) []string {
	var failed []string
	for _, v := range s {
		if !safeCheck(v, req, resp) {
			failed = append(failed, v.Name())
		}
	}
	return failed
}

func safeCheck(v Validation, req *request.Request, resp *Response) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return v.Check(req, resp)
}

// Names lists the validations in order.
func (s Set) Names() []string {
	names := make([]string, len(s))
	for i, v := range s {
		names[i] = v.Name()
	}
	return names
}

// Prepare verifies, before any traffic, that every validation can be applied
// to every request.
func Prepare(requests []*request.Request, set Set) error {
	for _, v := range set {
		if v == nil {
			return errors.New("validation set contains a nil validation")
		}
		checker, ok := v.(requestChecker)
		if !ok {
			continue
		}
		if err := checker.CheckRequests(requests); err != nil {
			return fmt.Errorf("%s: %w", v.Name(), err)
		}
	}
	return nil
}
