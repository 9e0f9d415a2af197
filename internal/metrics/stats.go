package metrics

import (
	"iter"
	"math"
	"slices"
	"time"
)

type summary struct {
	sorted []time.Duration
	min    time.Duration
	max    time.Duration
	mean   time.Duration
	stddev time.Duration
}

// summarize sorts a copy of sample and computes the population moments.
// An empty sample yields all zeros.
func summarize(sample []time.Duration) summary {
	if len(sample) == 0 {
		return summary{}
	}
	sorted := slices.Clone(sample)
	slices.Sort(sorted)

	var sum float64
	for _, v := range sorted {
		sum += float64(v)
	}
	n := float64(len(sorted))
	mean := sum / n

	var sq float64
	for _, v := range sorted {
		d := float64(v) - mean
		sq += d * d
	}

	return summary{
		sorted: sorted,
		min:    sorted[0],
		max:    sorted[len(sorted)-1],
		mean:   time.Duration(math.Round(mean)),
		stddev: time.Duration(math.Round(math.Sqrt(sq / n))),
	}
}

// percentile interpolates linearly between the closest ranks, with rank
// p/100*(n-1).
func (s summary) percentile(p int) time.Duration {
	n := len(s.sorted)
	if n == 0 {
		return 0
	}
	rank := float64(p) / 100 * float64(n-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if hi >= n {
		hi = n - 1
	}
	frac := rank - float64(lo)
	v := float64(s.sorted[lo]) + (float64(s.sorted[hi])-float64(s.sorted[lo]))*frac
	return time.Duration(math.Round(v))
}

func sortedKeys(keys iter.Seq[string]) []string {
	out := slices.Collect(keys)
	slices.Sort(out)
	return out
}
