// Package httpmetrics provides middleware for collecting per-endpoint
// metrics about http servers.
//
// For every request passing through the middleware, servers report:
//
//	{prefix}_http_requests_total - counter of requests, labeled by method, endpoint and status
//	{prefix}_http_requests_duration_seconds - histogram of request latency, labeled by method, endpoint and status
//	{prefix}_http_requests_pending - gauge of in-flight requests, labeled by method and endpoint
//	{prefix}_http_response_body_size - histogram of response body bytes, labeled by method and endpoint (opt-in)
//
// The endpoint label defaults to the route pattern the router matched
// (e.g. a request to GET /users/42 handled by /users/{id} is labeled
// /users/{id}), so label cardinality stays bounded by the number of
// registered routes. Builder options can relabel groups of routes
// under one alias, exclude routes from reporting entirely, or switch
// to literal request paths.
//
// Metrics are reported through a metrics.Provider, so the same layer
// works against prometheus, a test recorder, or a no-op backend.
package httpmetrics
