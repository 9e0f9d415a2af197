package validation_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/torosent/httpperf/internal/request"
	"github.com/torosent/httpperf/internal/validation"
)

type fixedValidation struct {
	name string
	pass bool
}

func (f fixedValidation) Name() string { return f.name }

func (f fixedValidation) Check(*request.Request, *validation.Response) bool { return f.pass }

func mustGet(t *testing.T) *request.Request {
	t.Helper()
	req, err := request.NewGet("http://example.com")
	if err != nil {
		t.Fatalf("NewGet() error = %v", err)
	}
	return req
}

func TestStatusCode(t *testing.T) {
	req := mustGet(t)
	v := validation.StatusCode{}
	if !v.Check(req, &validation.Response{StatusCode: 200}) {
		t.Error("Check(200) = false, want true")
	}
	for _, code := range []int{201, 204, 301, 404, 500} {
		if v.Check(req, &validation.Response{StatusCode: code}) {
			t.Errorf("Check(%d) = true, want false", code)
		}
	}
}

func TestExactBody(t *testing.T) {
	req := mustGet(t).WithExpected([]byte("hello"))
	v := validation.ExactBody{}

	if !v.Check(req, &validation.Response{Body: []byte("hello")}) {
		t.Error("Check(equal body) = false, want true")
	}
	if v.Check(req, &validation.Response{Body: []byte("hello ")}) {
		t.Error("Check(different body) = true, want false")
	}
	if v.Check(mustGet(t), &validation.Response{Body: []byte("hello")}) {
		t.Error("Check(no expected data) = true, want false")
	}
}

func TestPrepareRejectsMissingExpected(t *testing.T) {
	reqs := []*request.Request{mustGet(t).WithExpected([]byte("x")), mustGet(t)}
	err := validation.Prepare(reqs, validation.Set{validation.StatusCode{}, validation.ExactBody{}})
	if err == nil {
		t.Fatal("Prepare() error = nil, want error")
	}
	if !errors.Is(err, validation.ErrMissingExpected) {
		t.Errorf("Prepare() error = %v, want ErrMissingExpected", err)
	}

	if err := validation.Prepare(reqs[:1], validation.Set{validation.ExactBody{}}); err != nil {
		t.Errorf("Prepare(all expected) error = %v", err)
	}
	if err := validation.Prepare(reqs, validation.Set{validation.StatusCode{}}); err != nil {
		t.Errorf("Prepare(status only) error = %v", err)
	}
}

func TestJSONSubset(t *testing.T) {
	v, err := validation.NewJSONSubset([]byte(`{"status":"ok"}`))
	if err != nil {
		t.Fatalf("NewJSONSubset() error = %v", err)
	}
	req := mustGet(t)

	tests := []struct {
		name string
		body string
		want bool
	}{
		{name: "superset", body: `{"status":"ok","extra":1}`, want: true},
		{name: "exact", body: `{"status":"ok"}`, want: true},
		{name: "wrong value", body: `{"status":"fail"}`, want: false},
		{name: "missing key", body: `{"other":"ok"}`, want: false},
		{name: "wrong type", body: `{"status":1}`, want: false},
		{name: "malformed", body: `{"status":`, want: false},
		{name: "array", body: `[{"status":"ok"}]`, want: false},
		{name: "empty", body: ``, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := v.Check(req, &validation.Response{StatusCode: 200, Body: []byte(tt.body)})
			if got != tt.want {
				t.Errorf("Check(%s) = %v, want %v", tt.body, got, tt.want)
			}
		})
	}
}

func TestJSONSubsetValueKinds(t *testing.T) {
	v, err := validation.NewJSONSubset([]byte(`{"n":1.5,"b":true,"z":null,"o":{"k":[1,2]}}`))
	if err != nil {
		t.Fatalf("NewJSONSubset() error = %v", err)
	}
	req := mustGet(t)
	pass := `{"z":null,"b":true,"n":1.50,"o":{"k":[1,2]},"x":"y"}`
	if !v.Check(req, &validation.Response{Body: []byte(pass)}) {
		t.Errorf("Check(%s) = false, want true", pass)
	}
	fail := `{"z":null,"b":false,"n":1.5,"o":{"k":[1,2]}}`
	if v.Check(req, &validation.Response{Body: []byte(fail)}) {
		t.Errorf("Check(%s) = true, want false", fail)
	}
	nested := `{"z":null,"b":true,"n":1.5,"o":{"k":[2,1]}}`
	if v.Check(req, &validation.Response{Body: []byte(nested)}) {
		t.Errorf("Check(%s) = true, want false", nested)
	}
}

func TestJSONSubsetLargeIntegers(t *testing.T) {
	v, err := validation.NewJSONSubset([]byte(`{"id":9007199254740993,"ids":[18446744073709551617]}`))
	if err != nil {
		t.Fatalf("NewJSONSubset() error = %v", err)
	}
	req := mustGet(t)

	tests := []struct {
		body string
		want bool
	}{
		{`{"id":9007199254740993,"ids":[18446744073709551617]}`, true},
		{`{"id":9007199254740993.0,"ids":[1.8446744073709551617e19]}`, true},
		{`{"id":9007199254740992,"ids":[18446744073709551617]}`, false},
		{`{"id":9007199254740993,"ids":[18446744073709551616]}`, false},
	}
	for _, tt := range tests {
		if got := v.Check(req, &validation.Response{Body: []byte(tt.body)}); got != tt.want {
			t.Errorf("Check(%s) = %v, want %v", tt.body, got, tt.want)
		}
	}
}

func TestNewJSONSubsetRejectsNonObject(t *testing.T) {
	for _, golden := range []string{`not json`, `[1,2]`, `"ok"`} {
		if _, err := validation.NewJSONSubset([]byte(golden)); err == nil {
			t.Errorf("NewJSONSubset(%s) error = nil, want error", golden)
		}
	}
}

func TestSetFailedReportsEveryFailure(t *testing.T) {
	req := mustGet(t)
	resp := &validation.Response{StatusCode: 500}

	var empty validation.Set
	if got := empty.Failed(req, resp); got != nil {
		t.Errorf("empty.Failed() = %v, want nil", got)
	}

	set := validation.Set{
		fixedValidation{name: "first", pass: false},
		fixedValidation{name: "second", pass: true},
		fixedValidation{name: "third", pass: false},
	}
	got := set.Failed(req, resp)
	want := []string{"first", "third"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Failed() = %v, want %v", got, want)
	}
	if names := set.Names(); !reflect.DeepEqual(names, []string{"first", "second", "third"}) {
		t.Errorf("Names() = %v", names)
	}
}

type panickingValidation struct{}

func (panickingValidation) Name() string { return "panics" }

func (panickingValidation) Check(*request.Request, *validation.Response) bool { panic("boom") }

func TestSetFailedTreatsPanicAsFailure(t *testing.T) {
	set := validation.Set{panickingValidation{}, fixedValidation{name: "after", pass: false}}
	got := set.Failed(mustGet(t), &validation.Response{StatusCode: 200})
	want := []string{"panics", "after"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Failed() = %v, want %v", got, want)
	}
}
