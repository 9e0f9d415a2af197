package validation

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/tidwall/gjson"

	"github.com/torosent/httpperf/internal/request"
)

// JSONSubset passes when the response is a JSON object that contains every
// key of the golden object with an equal value.
type JSONSubset struct {
	golden gjson.Result
}

// NewJSONSubset parses golden, which must be a JSON object.
func NewJSONSubset(golden []byte) (*JSONSubset, error) {
	if !gjson.ValidBytes(golden) {
		return nil, errors.New("golden data is not valid JSON")
	}
	parsed := gjson.ParseBytes(golden)
	if !parsed.IsObject() {
		return nil, fmt.Errorf("golden data must be a JSON object, got %s", parsed.Type)
	}
	return &JSONSubset{golden: parsed}, nil
}

func (*JSONSubset) Name() string { return "json_subset" }

func (v *JSONSubset) Check(_ *request.Request, resp *Response) bool {
	if v == nil || resp == nil || !gjson.ValidBytes(resp.Body) {
		return false
	}
	actual := gjson.ParseBytes(resp.Body)
	if !actual.IsObject() {
		return false
	}

	fields := actual.Map()
	ok := true
	v.golden.ForEach(func(key, want gjson.Result) bool {
		got, present := fields[key.String()]
		if !present || !jsonEqual(want, got) {
			ok = false
			return false
		}
		return true
	})
	return ok
}

// numberEqual compares the literal values so integers beyond float64
// precision stay distinct.
func numberEqual(a, b gjson.Result) bool {
	x, _, errA := big.ParseFloat(a.Raw, 10, numberPrecision, big.ToNearestEven)
	y, _, errB := big.ParseFloat(b.Raw, 10, numberPrecision, big.ToNearestEven)
	if errA != nil || errB != nil {
		return a.Num == b.Num
	}
	return x.Cmp(y) == 0
}

const numberPrecision = 256

func jsonEqual(a, b gjson.Result) bool {
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case gjson.Null, gjson.True, gjson.False:
		return true
	case gjson.Number:
		return numberEqual(a, b)
	case gjson.String:
		return a.Str == b.Str
	}

	switch {
	case a.IsObject() && b.IsObject():
		am, bm := a.Map(), b.Map()
		if len(am) != len(bm) {
			return false
		}
		for k, av := range am {
			bv, ok := bm[k]
			if !ok || !jsonEqual(av, bv) {
				return false
			}
		}
		return true
	case a.IsArray() && b.IsArray():
		aa, ba := a.Array(), b.Array()
		if len(aa) != len(ba) {
			return false
		}
		for i := range aa {
			if !jsonEqual(aa[i], ba[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
