package httpmetrics

import (
	"testing"
	"time"

	"github.com/Ptrskay3/routemetrics/metrics/testmetrics"
	"github.com/Ptrskay3/routemetrics/metricsregistry"
)

func testInstruments(t *testing.T, trackBodySize bool) (*instruments, *testmetrics.Provider) {
	t.Helper()

	p := testmetrics.NewProvider(t)
	names := resolveNames(DefaultPrefix, true)
	return newInstruments(metricsregistry.New(p), names, trackBodySize), p
}

func TestMeasurementCompleted(t *testing.T) {
	ins, p := testInstruments(t, false)

	before := time.Now()
	m := ins.start("GET", "/users/{id}")
	p.CheckGauge("axum_http_requests_pending", 1, "method", "GET", "endpoint", "/users/{id}")

	m.complete(200)
	m.release()
	elapsed := time.Since(before).Seconds()

	p.CheckGauge("axum_http_requests_pending", 0, "method", "GET", "endpoint", "/users/{id}")
	p.CheckCounter("axum_http_requests_total", 1, "method", "GET", "endpoint", "/users/{id}", "status", "200")
	p.CheckObservationCount("axum_http_requests_duration_seconds", 1, "method", "GET", "endpoint", "/users/{id}", "status", "200")
	p.CheckObservationsMinMax("axum_http_requests_duration_seconds", 0, elapsed, "method", "GET", "endpoint", "/users/{id}", "status", "200")
}

func TestMeasurementAborted(t *testing.T) {
	ins, p := testInstruments(t, false)

	m := ins.start("GET", "/slow")
	m.release()

	// The gauge pair still closes, but an aborted request records no
	// counter or duration observation.
	p.CheckGauge("axum_http_requests_pending", 0, "method", "GET", "endpoint", "/slow")
	p.CheckCounter("axum_http_requests_total", 0)
	p.CheckNoCounter("axum_http_requests_total", "method", "GET", "endpoint", "/slow", "status", "200")
	p.CheckNoObservations("axum_http_requests_duration_seconds", "method", "GET", "endpoint", "/slow", "status", "200")
}

func TestMeasurementReleaseIdempotent(t *testing.T) {
	ins, p := testInstruments(t, false)

	m := ins.start("GET", "/once")
	m.complete(204)
	m.release()
	m.release()

	p.CheckGauge("axum_http_requests_pending", 0, "method", "GET", "endpoint", "/once")
	p.CheckCounter("axum_http_requests_total", 1, "method", "GET", "endpoint", "/once", "status", "204")
}

func TestMeasurementBodySize(t *testing.T) {
	ins, p := testInstruments(t, true)

	m := ins.start("GET", "/stream")
	for _, chunk := range []string{"hello", " ", "world!"} {
		if n, err := m.Write([]byte(chunk)); err != nil || n != len(chunk) {
			t.Fatalf("Write = (%d, %v), want (%d, nil)", n, err, len(chunk))
		}
	}
	m.complete(200)
	m.release()

	p.CheckObservations("axum_http_response_body_size", []float64{12}, "method", "GET", "endpoint", "/stream")
}

func TestMeasurementBodySizeDisabled(t *testing.T) {
	ins, p := testInstruments(t, false)

	m := ins.start("GET", "/stream")
	m.Write([]byte("hello"))
	m.complete(200)
	m.release()

	p.CheckNoObservations("axum_http_response_body_size", "method", "GET", "endpoint", "/stream")
}

func TestMeasurementDefaultStatus(t *testing.T) {
	ins, p := testInstruments(t, false)

	// No Write or WriteHeader means OK.
	m := ins.start("GET", "/empty")
	m.complete(0)
	m.release()

	p.CheckCounter("axum_http_requests_total", 1, "method", "GET", "endpoint", "/empty", "status", "200")
}

func TestConcurrentMeasurements(t *testing.T) {
	ins, p := testInstruments(t, false)

	m1 := ins.start("GET", "/a")
	m2 := ins.start("GET", "/a")
	m3 := ins.start("POST", "/a")
	p.CheckGauge("axum_http_requests_pending", 2, "method", "GET", "endpoint", "/a")
	p.CheckGauge("axum_http_requests_pending", 1, "method", "POST", "endpoint", "/a")

	m2.complete(200)
	m2.release()
	p.CheckGauge("axum_http_requests_pending", 1, "method", "GET", "endpoint", "/a")

	m1.complete(500)
	m1.release()
	m3.release()

	p.CheckGauge("axum_http_requests_pending", 0, "method", "GET", "endpoint", "/a")
	p.CheckGauge("axum_http_requests_pending", 0, "method", "POST", "endpoint", "/a")
	p.CheckCounter("axum_http_requests_total", 1, "method", "GET", "endpoint", "/a", "status", "200")
	p.CheckCounter("axum_http_requests_total", 1, "method", "GET", "endpoint", "/a", "status", "500")
}
