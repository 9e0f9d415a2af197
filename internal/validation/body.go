package validation

import (
	"bytes"
	"fmt"

	"github.com/torosent/httpperf/internal/request"
)

// ExactBody passes when the response body equals the expected response
// attached to the request.
type ExactBody struct{}

func (ExactBody) Name() string { return "exact_body" }

func (ExactBody) Check(req *request.Request, resp *Response) bool {
	if req == nil || resp == nil {
		return false
	}
	expected, ok := req.Expected()
	if !ok {
		return false
	}
	return bytes.Equal(resp.Body, expected)
}

// CheckRequests rejects request lists in which any request lacks expected
// data.
func (ExactBody) CheckRequests(requests []*request.Request) error {
	for i, req := range requests {
		if _, ok := req.Expected(); !ok {
			return fmt.Errorf("requests[%d] (%s): %w", i, req, ErrMissingExpected)
		}
	}
	return nil
}
