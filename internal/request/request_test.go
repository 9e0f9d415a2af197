package request_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/torosent/httpperf/internal/request"
)

func TestParseMethod(t *testing.T) {
	tests := []struct {
		in      string
		want    request.Method
		wantErr bool
	}{
		{in: "GET", want: request.MethodGet},
		{in: " post ", want: request.MethodPost},
		{in: "get", want: request.MethodGet},
		{in: "PUT", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := request.ParseMethod(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseMethod(%q) error = nil, want error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseMethod(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMethod(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewRejectsInvalidInput(t *testing.T) {
	if _, err := request.NewGet(""); err == nil {
		t.Error("NewGet(\"\") error = nil, want error")
	}
	if _, err := request.NewGet("ftp://example.com"); err == nil {
		t.Error("NewGet(ftp) error = nil, want error")
	}
	if _, err := request.NewGet("http://"); err == nil {
		t.Error("NewGet(no host) error = nil, want error")
	}
	if _, err := request.New(request.MethodGet, "http://example.com", []byte("x")); err == nil {
		t.Error("New(GET with body) error = nil, want error")
	}
	if _, err := request.New("DELETE", "http://example.com", nil); err == nil {
		t.Error("New(DELETE) error = nil, want error")
	}
}

func TestWithExpectedLeavesOriginalUntouched(t *testing.T) {
	base, err := request.NewPost("http://example.com/items", []byte(`{"a":1}`))
	if err != nil {
		t.Fatalf("NewPost() error = %v", err)
	}
	withExp := base.WithExpected([]byte("ok"))

	if _, ok := base.Expected(); ok {
		t.Error("base.Expected() ok = true, want false")
	}
	got, ok := withExp.Expected()
	if !ok || string(got) != "ok" {
		t.Errorf("Expected() = %q, %v; want \"ok\", true", got, ok)
	}
	body, ok := withExp.Body()
	if !ok || string(body) != `{"a":1}` {
		t.Errorf("Body() = %q, %v; want original body", body, ok)
	}
}

func TestNewPostCopiesBody(t *testing.T) {
	payload := []byte("hello")
	req, err := request.NewPost("http://example.com", payload)
	if err != nil {
		t.Fatalf("NewPost() error = %v", err)
	}
	payload[0] = 'j'
	body, _ := req.Body()
	if string(body) != "hello" {
		t.Errorf("Body() = %q, want %q", body, "hello")
	}
}

func TestDoSendsMethodAndBody(t *testing.T) {
	var mu sync.Mutex
	var gotMethod, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		mu.Lock()
		gotMethod = r.Method
		gotBody = string(data)
		mu.Unlock()
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	req, err := request.NewPost(server.URL, []byte("payload"))
	if err != nil {
		t.Fatalf("NewPost() error = %v", err)
	}

	for i := 0; i < 2; i++ {
		resp, err := req.Do(context.Background(), server.Client())
		if err != nil {
			t.Fatalf("Do() error = %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			t.Errorf("StatusCode = %d, want %d", resp.StatusCode, http.StatusCreated)
		}
		mu.Lock()
		if gotMethod != http.MethodPost {
			t.Errorf("method = %q, want POST", gotMethod)
		}
		if gotBody != "payload" {
			t.Errorf("body = %q, want payload on attempt %d", gotBody, i)
		}
		mu.Unlock()
	}
}

func TestDoAppliesPrepareFuncs(t *testing.T) {
	headers := make(chan string, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers <- r.Header.Get("X-Attempt")
	}))
	defer server.Close()

	req, err := request.NewGet(server.URL)
	if err != nil {
		t.Fatalf("NewGet() error = %v", err)
	}
	resp, err := req.Do(context.Background(), server.Client(), func(r *http.Request) {
		r.Header.Set("X-Attempt", "7")
	})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	resp.Body.Close()

	if got := <-headers; got != "7" {
		t.Errorf("X-Attempt = %q, want %q", got, "7")
	}

	// The header belongs to that attempt only.
	built, err := req.Build(context.Background())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if got := built.Header.Get("X-Attempt"); got != "" {
		t.Errorf("rebuilt X-Attempt = %q, want empty", got)
	}
}

func TestLoadGet(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "golden.txt")
	if err := os.WriteFile(path, []byte("pong"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	reqs, err := request.LoadGet("http://example.com/ping", path)
	if err != nil {
		t.Fatalf("LoadGet() error = %v", err)
	}
	if len(reqs) != 1 {
		t.Fatalf("len = %d, want 1", len(reqs))
	}
	exp, ok := reqs[0].Expected()
	if !ok || string(exp) != "pong" {
		t.Errorf("Expected() = %q, %v; want pong, true", exp, ok)
	}

	if _, err := request.LoadGet("http://example.com", filepath.Join(dir, "missing")); err == nil {
		t.Error("LoadGet(missing fixture) error = nil, want error")
	}
}

func TestLoadPostDir(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"b.json":          `{"id":2}`,
		"a.json":          `{"id":1}`,
		"a.json.expected": "one",
		"b.json.expected": "two",
		".hidden":         "skip",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile(%s) error = %v", name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "nested"), 0o755); err != nil {
		t.Fatalf("Mkdir() error = %v", err)
	}

	reqs, err := request.LoadPostDir("http://example.com", dir, true)
	if err != nil {
		t.Fatalf("LoadPostDir() error = %v", err)
	}
	if len(reqs) != 2 {
		t.Fatalf("len = %d, want 2", len(reqs))
	}
	wantBodies := []string{`{"id":1}`, `{"id":2}`}
	wantExpected := []string{"one", "two"}
	for i, req := range reqs {
		body, _ := req.Body()
		if string(body) != wantBodies[i] {
			t.Errorf("reqs[%d] body = %q, want %q", i, body, wantBodies[i])
		}
		exp, ok := req.Expected()
		if !ok || string(exp) != wantExpected[i] {
			t.Errorf("reqs[%d] expected = %q, want %q", i, exp, wantExpected[i])
		}
	}
}

func TestLoadPostDirErrors(t *testing.T) {
	if _, err := request.LoadPostDir("http://example.com", "", false); err == nil {
		t.Error("LoadPostDir(empty path) error = nil, want error")
	}
	empty := t.TempDir()
	if _, err := request.LoadPostDir("http://example.com", empty, false); err == nil {
		t.Error("LoadPostDir(empty dir) error = nil, want error")
	}

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "body"), []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := request.LoadPostDir("http://example.com", dir, true); err == nil {
		t.Error("LoadPostDir(missing expected fixture) error = nil, want error")
	}
}
