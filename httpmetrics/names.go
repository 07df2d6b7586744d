package httpmetrics

import (
	"github.com/joeshaw/envdecode"

	"github.com/Ptrskay3/routemetrics/metrics"
)

// DefaultPrefix is prepended to metric names unless WithPrefix is
// used.
const DefaultPrefix = "axum"

const (
	requestsTotalSuffix    = "http_requests_total"
	requestsDurationSuffix = "http_requests_duration_seconds"
	requestsPendingSuffix  = "http_requests_pending"
	responseBodySizeSuffix = "http_response_body_size"
)

// metricNames holds the fully resolved metric names a built middleware
// reports under.
type metricNames struct {
	requestsTotal    string
	requestsDuration string
	requestsPending  string
	responseBodySize string
}

// nameOverrides renames individual metrics from the environment. An
// explicit WithPrefix call takes precedence over these.
type nameOverrides struct {
	RequestsTotal    string `env:"ROUTEMETRICS_REQUESTS_TOTAL"`
	RequestsDuration string `env:"ROUTEMETRICS_REQUESTS_DURATION_SECONDS"`
	RequestsPending  string `env:"ROUTEMETRICS_REQUESTS_PENDING"`
	ResponseBodySize string `env:"ROUTEMETRICS_RESPONSE_BODY_SIZE"`
}

func resolveNames(prefix string, prefixExplicit bool) metricNames {
	n := metricNames{
		requestsTotal:    prefix + "_" + requestsTotalSuffix,
		requestsDuration: prefix + "_" + requestsDurationSuffix,
		requestsPending:  prefix + "_" + requestsPendingSuffix,
		responseBodySize: prefix + "_" + responseBodySizeSuffix,
	}
	if prefixExplicit {
		return n
	}

	var o nameOverrides
	if err := envdecode.Decode(&o); err != nil {
		// ErrNoTargetFieldsAreSet just means nothing is overridden.
		return n
	}
	if o.RequestsTotal != "" {
		n.requestsTotal = o.RequestsTotal
	}
	if o.RequestsDuration != "" {
		n.requestsDuration = o.RequestsDuration
	}
	if o.RequestsPending != "" {
		n.requestsPending = o.RequestsPending
	}
	if o.ResponseBodySize != "" {
		n.responseBodySize = o.ResponseBodySize
	}
	return n
}

// describe registers name, unit and help metadata with providers that
// care about it.
func (n metricNames) describe(d metrics.Describer, trackBodySize bool) {
	d.DescribeCounter(n.requestsTotal, "requests",
		"Total number of HTTP requests processed, labeled by method, endpoint and status.")
	d.DescribeHistogram(n.requestsDuration, "seconds",
		"HTTP request latency in seconds, labeled by method, endpoint and status.")
	d.DescribeGauge(n.requestsPending, "requests",
		"Number of HTTP requests currently being processed, labeled by method and endpoint.")
	if trackBodySize {
		d.DescribeHistogram(n.responseBodySize, "bytes",
			"HTTP response body size in bytes, labeled by method and endpoint.")
	}
}
