// Package request describes the HTTP calls a load test replays.
//
// A [Request] is built once by the driver and then shared read-only by every
// worker. Expected response data is attached during construction with
// [Request.WithExpected], which returns a new value, so a request a worker
// can see never changes.
package request

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Method is the closed set of HTTP methods a request may use.
type Method string

const (
	MethodGet  Method = http.MethodGet
	MethodPost Method = http.MethodPost
)

// ParseMethod normalizes a method name and rejects anything but GET or POST.
func ParseMethod(s string) (Method, error) {
	switch Method(strings.ToUpper(strings.TrimSpace(s))) {
	case MethodGet:
		return MethodGet, nil
	case MethodPost:
		return MethodPost, nil
	default:
		return "", fmt.Errorf("unsupported method %q (use GET or POST)", s)
	}
}

// Request is an immutable description of one HTTP call.
type Request struct {
	method   Method
	url      string
	body     []byte
	expected []byte
	hasBody  bool
	hasExp   bool
}

// NewGet builds a GET request for target.
func NewGet(target string) (*Request, error) {
	return New(MethodGet, target, nil)
}

// NewPost builds a POST request for target carrying body.
func NewPost(target string, body []byte) (*Request, error) {
	return New(MethodPost, target, body)
}

// New builds a request. The body is copied; GET requests must not carry one.
func New(method Method, target string, body []byte) (*Request, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return nil, errors.New("target URL is required")
	}
	u, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("invalid target URL %q: %w", target, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid target URL %q: scheme must be http or https", target)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid target URL %q: host is required", target)
	}

	switch method {
	case MethodGet:
		if len(body) > 0 {
			return nil, errors.New("GET requests cannot carry a body")
		}
	case MethodPost:
	default:
		return nil, fmt.Errorf("unsupported method %q", method)
	}

	r := &Request{method: method, url: target}
	if method == MethodPost {
		r.body = bytes.Clone(body)
		if r.body == nil {
			r.body = []byte{}
		}
		r.hasBody = true
	}
	return r, nil
}

// WithExpected returns a copy of r that carries the expected response body.
func (r *Request) WithExpected(expected []byte) *Request {
	clone := *r
	clone.expected = bytes.Clone(expected)
	if clone.expected == nil {
		clone.expected = []byte{}
	}
	clone.hasExp = true
	return &clone
}

func (r *Request) Method() Method { return r.method }

func (r *Request) URL() string { return r.url }

// Body returns the request payload and whether one is set. The returned
// slice must not be modified.
func (r *Request) Body() ([]byte, bool) { return r.body, r.hasBody }

// Expected returns the expected response body and whether one is attached.
// The returned slice must not be modified.
func (r *Request) Expected() ([]byte, bool) { return r.expected, r.hasExp }

// Build creates the *http.Request for one attempt. Each call gets a fresh
// body reader so the same Request can be replayed concurrently.
func (r *Request) Build(ctx context.Context) (*http.Request, error) {
	if r == nil {
		return nil, errors.New("request cannot be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var req *http.Request
	var err error
	if r.hasBody {
		req, err = http.NewRequestWithContext(ctx, string(r.method), r.url, bytes.NewReader(r.body))
	} else {
		req, err = http.NewRequestWithContext(ctx, string(r.method), r.url, nil)
	}
	if err != nil {
		return nil, err
	}
	return req, nil
}

// Do executes the request with client. Each prepare func runs on the built
// request before it is sent. The caller owns the returned response and must
// close its body.
func (r *Request) Do(ctx context.Context, client *http.Client, prepare ...func(*http.Request)) (*http.Response, error) {
	req, err := r.Build(ctx)
	if err != nil {
		return nil, err
	}
	for _, fn := range prepare {
		fn(req)
	}
	return client.Do(req)
}

func (r *Request) String() string {
	if r == nil {
		return "<nil>"
	}
	return string(r.method) + " " + r.url
}
