package validation

import (
	"net/http"

	"github.com/torosent/httpperf/internal/request"
)

// StatusCode passes when the response status is 200 OK.
type StatusCode struct{}

func (StatusCode) Name() string { return "status_code" }

func (StatusCode) Check(_ *request.Request, resp *Response) bool {
	return resp != nil && resp.StatusCode == http.StatusOK
}
