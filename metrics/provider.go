// Package metrics is largely a wrapper around the standard go-kit
// Provider type, narrowed to the three instrument kinds the
// routemetrics middleware records.
//
// It is extracted like this for convenience. See the Provider
// documentation for more information.
package metrics

import (
	"github.com/go-kit/kit/metrics"
)

// Provider represents the different types of metrics that a provider
// can expose. We duplicate the definition from go-kit for 2 reasons:
//
//  1. A little copying never hurt anyone (and in copying, we avoid the
//     need to import and vendor all of go-kit's supported providers)
//  2. It provides us an extension mechanism for provider capabilities
//     go-kit doesn't model, such as metric descriptions.
type Provider interface {
	NewCounter(name string) metrics.Counter
	NewGauge(name string) metrics.Gauge
	NewHistogram(name string, buckets int) metrics.Histogram
	Stop()
}

// Describer is an optional interface a Provider may implement to
// receive one-time metric descriptions (unit and help text) before any
// observations are recorded. Providers that have no notion of metric
// metadata simply don't implement it.
type Describer interface {
	DescribeCounter(name, unit, help string)
	DescribeGauge(name, unit, help string)
	DescribeHistogram(name, unit, help string)
}

// SecondsDurationBuckets are the standard HTTP request duration
// buckets, measured in seconds. They are tailored to broadly measure
// the response time of a network service; most real deployments will
// want buckets customized to their own latency profile.
var SecondsDurationBuckets = []float64{
	0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0,
}
