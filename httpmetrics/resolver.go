package httpmetrics

// labelDecision is the outcome of resolving a request against the
// label configuration: either skip metrics for the request entirely,
// or report it under endpoint.
type labelDecision struct {
	skip     bool
	endpoint string
}

// resolve decides the endpoint label for one request. It is a pure
// function of the request path, the pattern the router matched (empty
// when no route matched) and the immutable config; rules are checked
// in fixed order and the first hit wins:
//
//  1. ignore patterns, matched against both the literal path and the
//     matched pattern
//  2. group patterns, matched against the matched pattern (or the
//     literal path in LabelExact mode)
//  3. the configured EndpointLabel mode
//
// Unmatched input degrades to labeling with the literal path, never an
// error.
func (c *config) resolve(path, pattern string) labelDecision {
	if c.ignore.matchesPattern(pattern) || c.ignore.matchesPath(path) {
		return labelDecision{skip: true}
	}

	for _, g := range c.groups {
		var hit bool
		switch {
		case c.label == LabelExact:
			hit = g.patterns.matchesPath(path)
		case pattern != "":
			hit = g.patterns.matchesPattern(pattern)
		default:
			// No route matched; fall back to the literal path so
			// grouping still works behind un-routed handlers.
			hit = g.patterns.matchesPath(path)
		}
		if hit {
			return labelDecision{endpoint: g.alias}
		}
	}

	switch c.label {
	case LabelExact:
		return labelDecision{endpoint: path}
	case LabelIgnore:
		return labelDecision{skip: true}
	default:
		if pattern != "" {
			return labelDecision{endpoint: pattern}
		}
		return labelDecision{endpoint: path}
	}
}
