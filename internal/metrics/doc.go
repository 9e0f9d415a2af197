// Package metrics aggregates finished worker results into run statistics.
//
// [Aggregate] is called once after every worker has been joined:
//
//	result := r.Run(ctx)
//	m, err := metrics.Aggregate(result.Workers)
//
// The combined latency sample of all workers yields min, max, mean and
// population standard deviation, plus interpolated percentiles at
// [PercentileLevels] (rank p/100*(n-1)). An HDR histogram of the same sample
// provides the tail ladder in [Metrics.Distribution].
//
// Requests per second is TotalRequestCount divided by the mean worker run
// time in seconds, with the divisor floored at one second.
package metrics
