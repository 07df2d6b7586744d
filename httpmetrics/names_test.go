package httpmetrics

import (
	"testing"
)

func TestResolveNamesDefault(t *testing.T) {
	n := resolveNames(DefaultPrefix, false)

	if n.requestsTotal != "axum_http_requests_total" {
		t.Fatalf("requestsTotal = %q", n.requestsTotal)
	}
	if n.requestsDuration != "axum_http_requests_duration_seconds" {
		t.Fatalf("requestsDuration = %q", n.requestsDuration)
	}
	if n.requestsPending != "axum_http_requests_pending" {
		t.Fatalf("requestsPending = %q", n.requestsPending)
	}
	if n.responseBodySize != "axum_http_response_body_size" {
		t.Fatalf("responseBodySize = %q", n.responseBodySize)
	}
}

func TestResolveNamesFromEnvironment(t *testing.T) {
	t.Setenv("ROUTEMETRICS_REQUESTS_TOTAL", "custom_requests_total")
	t.Setenv("ROUTEMETRICS_REQUESTS_PENDING", "custom_pending")

	n := resolveNames(DefaultPrefix, false)

	if n.requestsTotal != "custom_requests_total" {
		t.Fatalf("requestsTotal = %q", n.requestsTotal)
	}
	if n.requestsPending != "custom_pending" {
		t.Fatalf("requestsPending = %q", n.requestsPending)
	}

	// Unset names keep their defaults.
	if n.requestsDuration != "axum_http_requests_duration_seconds" {
		t.Fatalf("requestsDuration = %q", n.requestsDuration)
	}
}

func TestResolveNamesExplicitPrefixWinsOverEnvironment(t *testing.T) {
	t.Setenv("ROUTEMETRICS_REQUESTS_TOTAL", "custom_requests_total")

	n := resolveNames("pref", true)

	if n.requestsTotal != "pref_http_requests_total" {
		t.Fatalf("requestsTotal = %q", n.requestsTotal)
	}
}
