package httpmetrics

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/Ptrskay3/routemetrics/metrics"
	"github.com/Ptrskay3/routemetrics/metricsregistry"
)

// Builder assembles the label configuration for a metrics middleware.
// All With* methods return the builder for chaining; Build finalizes
// it into an immutable configuration.
//
//	mw, err := httpmetrics.NewBuilder().
//		WithRoutes(r).
//		WithIgnorePatterns("/metrics", "/healthz").
//		WithGroupPatternsAs("/foo", "/foo/{bar}", "/foo/{bar}/{baz}").
//		Build(provider)
type Builder struct {
	prefix         string
	prefixExplicit bool
	ignore         []string
	groups         []builderGroup
	label          EndpointLabel
	overlap        OverlapPolicy
	trackBodySize  bool
	skipInit       bool
	matcher        RouteMatcher
	logger         logrus.FieldLogger
}

type builderGroup struct {
	alias    string
	patterns []string
}

// NewBuilder returns a Builder with the default configuration:
// matched-path endpoint labels, the "axum" metric prefix, no ignore or
// group rules, body size tracking off and metric initialization on.
func NewBuilder() *Builder {
	return &Builder{
		prefix:  DefaultPrefix,
		label:   LabelMatchedPath,
		overlap: OverlapWarn,
	}
}

// WithPrefix replaces the default metric name prefix. An explicit
// prefix takes precedence over environment-based metric renaming.
func (b *Builder) WithPrefix(prefix string) *Builder {
	b.prefix = prefix
	b.prefixExplicit = true
	return b
}

// WithIgnorePattern skips reporting for requests matching the route
// pattern. Ignore rules are checked before any group rule and
// short-circuit: an ignored route is never reachable by a group.
func (b *Builder) WithIgnorePattern(pattern string) *Builder {
	b.ignore = append(b.ignore, pattern)
	return b
}

// WithIgnorePatterns skips reporting for requests matching any of the
// route patterns. Equivalent to calling WithIgnorePattern repeatedly.
func (b *Builder) WithIgnorePatterns(patterns ...string) *Builder {
	b.ignore = append(b.ignore, patterns...)
	return b
}

// WithGroupPatternsAs reports every route matching one of patterns
// under the alias endpoint name instead of its own. Commonly useful
// for parameterized route families:
//
//	WithGroupPatternsAs("/users", "/users/{id}", "/users/{id}/posts")
//
// When two groups claim the same pattern the configured OverlapPolicy
// decides between first-declared-wins and rejecting the build.
func (b *Builder) WithGroupPatternsAs(alias string, patterns ...string) *Builder {
	for i := range b.groups {
		if b.groups[i].alias == alias {
			b.groups[i].patterns = append(b.groups[i].patterns, patterns...)
			return b
		}
	}
	b.groups = append(b.groups, builderGroup{alias: alias, patterns: patterns})
	return b
}

// WithEndpointLabelType determines how endpoint labels are derived.
// See EndpointLabel.
func (b *Builder) WithEndpointLabelType(label EndpointLabel) *Builder {
	b.label = label
	return b
}

// WithOverlapPolicy determines how Build treats a route pattern
// claimed by more than one group.
func (b *Builder) WithOverlapPolicy(policy OverlapPolicy) *Builder {
	b.overlap = policy
	return b
}

// EnableResponseBodySize turns on the response body size histogram.
func (b *Builder) EnableResponseBodySize() *Builder {
	b.trackBodySize = true
	return b
}

// NoInitializeMetrics skips registering metric descriptions (names,
// units and help text) with the provider at Build time.
func (b *Builder) NoInitializeMetrics() *Builder {
	b.skipInit = true
	return b
}

// WithRoutes attaches the chi router whose patterns the middleware
// matches requests against. Without it the middleware sees no matched
// patterns and LabelMatchedPath degrades to literal paths.
func (b *Builder) WithRoutes(routes chi.Routes) *Builder {
	b.matcher = NewRouteMatcher(routes)
	return b
}

// WithRouteMatcher attaches a custom RouteMatcher instead of a chi
// router.
func (b *Builder) WithRouteMatcher(m RouteMatcher) *Builder {
	b.matcher = m
	return b
}

// WithLogger sets the logger used for builder diagnostics. Defaults to
// the standard logrus logger.
func (b *Builder) WithLogger(logger logrus.FieldLogger) *Builder {
	b.logger = logger
	return b
}

// Build validates the accumulated configuration and returns the
// middleware. The returned configuration is immutable; the builder can
// be discarded afterwards.
func (b *Builder) Build(p metrics.Provider) (func(http.Handler) http.Handler, error) {
	logger := b.logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	if err := validatePatterns(b.ignore); err != nil {
		return nil, err
	}

	cfg := &config{
		names:         resolveNames(b.prefix, b.prefixExplicit),
		label:         b.label,
		ignore:        newPatternSet(b.ignore),
		matcher:       b.matcher,
		trackBodySize: b.trackBodySize,
	}

	seen := make(map[string]string, len(b.groups))
	for _, g := range b.groups {
		if err := validatePatterns(g.patterns); err != nil {
			return nil, err
		}

		patterns := make([]string, 0, len(g.patterns))
		for _, pat := range g.patterns {
			owner, taken := seen[pat]
			if taken && owner == g.alias {
				continue
			}
			if taken {
				if b.overlap == OverlapReject {
					return nil, errors.Errorf("pattern %q claimed by groups %q and %q", pat, owner, g.alias)
				}
				logger.WithFields(logrus.Fields{
					"pattern": pat,
					"kept":    owner,
					"dropped": g.alias,
				}).Warn("group pattern overlap, first-declared group wins")
				continue
			}
			seen[pat] = g.alias
			patterns = append(patterns, pat)
		}
		if len(patterns) == 0 {
			continue
		}
		cfg.groups = append(cfg.groups, group{alias: g.alias, patterns: newPatternSet(patterns)})
	}

	if !b.skipInit {
		if d, ok := p.(metrics.Describer); ok {
			cfg.names.describe(d, cfg.trackBodySize)
		}
	}

	ins := newInstruments(metricsregistry.New(p), cfg.names, cfg.trackBodySize)
	return cfg.middleware(ins), nil
}

// MustBuild is Build, panicking on configuration errors.
func (b *Builder) MustBuild(p metrics.Provider) func(http.Handler) http.Handler {
	mw, err := b.Build(p)
	if err != nil {
		panic(err)
	}
	return mw
}

func validatePatterns(patterns []string) error {
	for _, p := range patterns {
		if p == "" || !strings.HasPrefix(p, "/") {
			return errors.Errorf("route pattern %q must begin with /", p)
		}
	}
	return nil
}
