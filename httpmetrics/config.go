package httpmetrics

// EndpointLabel determines how the endpoint label is derived from a
// request.
type EndpointLabel int

const (
	// LabelMatchedPath reports the route pattern the router matched
	// for the request, falling back to the literal request path when
	// no route matched. This is the default.
	LabelMatchedPath EndpointLabel = iota

	// LabelExact reports the literal request path. Beware that this
	// makes label cardinality proportional to distinct request paths,
	// not registered routes.
	LabelExact

	// LabelIgnore never attaches an endpoint label; requests reaching
	// this mode are skipped entirely.
	LabelIgnore
)

// OverlapPolicy decides what Build does when two group aliases claim
// the same route pattern.
type OverlapPolicy int

const (
	// OverlapWarn keeps the pattern in the first-declared group, drops
	// it from later groups, and logs a warning. This is the default.
	OverlapWarn OverlapPolicy = iota

	// OverlapReject makes Build return an error instead.
	OverlapReject
)

// config is the immutable label configuration a built middleware
// carries. It is shared by reference across all in-flight requests and
// never mutated after Build.
type config struct {
	names         metricNames
	label         EndpointLabel
	ignore        *patternSet
	groups        []group
	matcher       RouteMatcher
	trackBodySize bool
}

// group relabels every route pattern in its set under one alias
// endpoint name.
type group struct {
	alias    string
	patterns *patternSet
}
