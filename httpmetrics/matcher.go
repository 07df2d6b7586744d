package httpmetrics

import (
	"net/http"

	"github.com/go-chi/chi"
)

// A RouteMatcher resolves a concrete request path to the route pattern
// the router would serve it with, ahead of the router actually running.
// Matching follows the router's own semantics: the most specific
// registered pattern wins and static segments beat parameterized ones.
type RouteMatcher interface {
	Match(method, path string) (pattern string, ok bool)
}

type chiMatcher struct {
	routes chi.Routes
}

// NewRouteMatcher adapts a chi router into a RouteMatcher. The router
// may still be empty when the matcher is created; routes registered
// later are visible to subsequent Match calls.
func NewRouteMatcher(routes chi.Routes) RouteMatcher {
	return &chiMatcher{routes: routes}
}

// Match implements RouteMatcher.
func (m *chiMatcher) Match(method, path string) (string, bool) {
	rctx := chi.NewRouteContext()
	if !m.routes.Match(rctx, method, path) {
		return "", false
	}
	return rctx.RoutePattern(), true
}

var stubHandler = http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})

// patternSet holds route patterns for rule evaluation. Rules can be
// checked two ways: set membership against an already-matched route
// pattern, or trie matching against a literal request path.
type patternSet struct {
	patterns map[string]struct{}
	mux      *chi.Mux
}

// newPatternSet builds a set from deduplicated patterns. Patterns must
// be valid chi route patterns starting with "/"; the builder validates
// this before calling.
func newPatternSet(patterns []string) *patternSet {
	s := &patternSet{
		patterns: make(map[string]struct{}, len(patterns)),
		mux:      chi.NewRouter(),
	}
	for _, p := range patterns {
		s.patterns[p] = struct{}{}
		s.mux.Handle(p, stubHandler)
	}
	return s
}

func (s *patternSet) empty() bool {
	return s == nil || len(s.patterns) == 0
}

// matchesPattern reports whether pattern is literally one of the
// set's patterns.
func (s *patternSet) matchesPattern(pattern string) bool {
	if s.empty() || pattern == "" {
		return false
	}
	_, ok := s.patterns[pattern]
	return ok
}

// matchesPath reports whether the literal request path matches any of
// the set's patterns.
func (s *patternSet) matchesPath(path string) bool {
	if s.empty() || path == "" {
		return false
	}
	rctx := chi.NewRouteContext()
	return s.mux.Match(rctx, http.MethodGet, path)
}
