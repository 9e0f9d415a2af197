package metrics

import (
	"net/http"
	"sort"
)

// StatusBucket is the number of responses that carried one status code.
type StatusBucket struct {
	Code  int    `json:"code" yaml:"code"`
	Text  string `json:"text,omitempty" yaml:"text,omitempty"`
	Count int    `json:"count" yaml:"count"`
}

// ErrorBucket is the number of transport failures of one kind.
type ErrorBucket struct {
	Kind  string `json:"kind" yaml:"kind"`
	Count int    `json:"count" yaml:"count"`
}

// FlattenStatusBuckets converts a status->count map into rows sorted by
// descending count, then by code for stability.
func FlattenStatusBuckets(buckets map[int]int) []StatusBucket {
	if len(buckets) == 0 {
		return nil
	}
	rows := make([]StatusBucket, 0, len(buckets))
	for code, count := range buckets {
		rows = append(rows, StatusBucket{Code: code, Text: http.StatusText(code), Count: count})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count == rows[j].Count {
			return rows[i].Code < rows[j].Code
		}
		return rows[i].Count > rows[j].Count
	})
	return rows
}

// FlattenErrorBuckets converts a kind->count map into rows sorted by
// descending count, then by kind.
func FlattenErrorBuckets(buckets map[string]int) []ErrorBucket {
	if len(buckets) == 0 {
		return nil
	}
	rows := make([]ErrorBucket, 0, len(buckets))
	for kind, count := range buckets {
		rows = append(rows, ErrorBucket{Kind: kind, Count: count})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count == rows[j].Count {
			return rows[i].Kind < rows[j].Kind
		}
		return rows[i].Count > rows[j].Count
	})
	return rows
}
