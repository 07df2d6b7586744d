package httpmetrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-kit/kit/metrics"

	"github.com/Ptrskay3/routemetrics/metricsregistry"
)

// histogramBuckets is the go-kit approximate bucket count for
// providers that compute quantiles themselves.
const histogramBuckets = 50

// instruments bundles the shared instruments one middleware reports
// through. Created once at Build and used by every request.
type instruments struct {
	requests metrics.Counter
	duration metrics.Histogram
	pending  metrics.Gauge
	bodySize metrics.Histogram // nil unless body size tracking is enabled
}

func newInstruments(reg metricsregistry.Registry, names metricNames, trackBodySize bool) *instruments {
	ins := &instruments{
		requests: reg.GetOrRegisterCounter(names.requestsTotal),
		duration: reg.GetOrRegisterHistogram(names.requestsDuration, histogramBuckets),
		pending:  reg.GetOrRegisterGauge(names.requestsPending),
	}
	if trackBodySize {
		ins.bodySize = reg.GetOrRegisterHistogram(names.responseBodySize, histogramBuckets)
	}
	return ins
}

// measurement tracks one request from start to completion. It is owned
// by exactly one in-flight request and needs no locking.
//
// The label values are captured once at start and reused for every
// recorder call the measurement makes, so a concurrent router re-match
// can never split one request's metrics across label sets.
type measurement struct {
	ins       *instruments
	method    string
	endpoint  string
	start     time.Time
	bodyBytes int64
	status    string
	completed bool
	released  bool
}

// start opens a measurement and increments the pending gauge. The
// caller must guarantee release runs on every exit path, normally via
// defer, so the gauge decrement is paired with this increment even
// when the handler panics or the connection is torn down.
func (ins *instruments) start(method, endpoint string) *measurement {
	ins.pending.With("method", method, "endpoint", endpoint).Add(1)
	return &measurement{
		ins:      ins,
		method:   method,
		endpoint: endpoint,
		start:    time.Now(),
	}
}

// Write accumulates response body chunk sizes. It implements io.Writer
// so the measurement can be attached as a tee to the response writer;
// it never fails and never blocks.
func (m *measurement) Write(p []byte) (int, error) {
	m.bodyBytes += int64(len(p))
	return len(p), nil
}

// complete marks the response as finished with the given status code.
// A zero status means the handler never wrote a header, which net/http
// treats as 200.
func (m *measurement) complete(status int) {
	if status == 0 {
		status = http.StatusOK
	}
	m.status = strconv.Itoa(status)
	m.completed = true
}

// release closes out the measurement: it decrements the pending gauge
// exactly once and, when the request completed normally, records the
// duration histogram, the request counter and (if enabled) the body
// size histogram. An aborted request only gets the gauge decrement.
func (m *measurement) release() {
	if m.released {
		return
	}
	m.released = true

	m.ins.pending.With("method", m.method, "endpoint", m.endpoint).Add(-1)

	if !m.completed {
		return
	}

	elapsed := time.Since(m.start).Seconds()
	m.ins.duration.With("method", m.method, "endpoint", m.endpoint, "status", m.status).Observe(elapsed)
	m.ins.requests.With("method", m.method, "endpoint", m.endpoint, "status", m.status).Add(1)
	if m.ins.bodySize != nil {
		m.ins.bodySize.With("method", m.method, "endpoint", m.endpoint).Observe(float64(m.bodyBytes))
	}
}
