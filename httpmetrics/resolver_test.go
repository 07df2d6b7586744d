package httpmetrics

import (
	"testing"

	"github.com/go-chi/chi"
)

func testConfig(label EndpointLabel) *config {
	return &config{
		label:  label,
		ignore: newPatternSet([]string{"/health", "/internal/{secret}"}),
		groups: []group{
			{alias: "/grouped", patterns: newPatternSet([]string{"/foo/{bar}", "/foo/{bar}/{baz}"})},
		},
	}
}

func TestResolveMatchedPath(t *testing.T) {
	cfg := testConfig(LabelMatchedPath)

	tests := []struct {
		name     string
		path     string
		pattern  string
		skip     bool
		endpoint string
	}{
		{"ignored by matched pattern", "/health", "/health", true, ""},
		{"ignored by literal path without route", "/internal/xyz", "", true, ""},
		{"grouped by matched pattern", "/foo/1", "/foo/{bar}", false, "/grouped"},
		{"grouped by deeper pattern", "/foo/1/2", "/foo/{bar}/{baz}", false, "/grouped"},
		{"grouped by path when no route matched", "/foo/1", "", false, "/grouped"},
		{"matched pattern label", "/users/42", "/users/{id}", false, "/users/{id}"},
		{"literal path fallback", "/users/42", "", false, "/users/42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec := cfg.resolve(tt.path, tt.pattern)
			if dec.skip != tt.skip {
				t.Fatalf("skip = %v, want %v", dec.skip, tt.skip)
			}
			if dec.endpoint != tt.endpoint {
				t.Fatalf("endpoint = %q, want %q", dec.endpoint, tt.endpoint)
			}
		})
	}
}

func TestResolveExact(t *testing.T) {
	cfg := testConfig(LabelExact)

	// Group rules are evaluated against the literal path in exact
	// mode; everything else reports the literal path too.
	if dec := cfg.resolve("/foo/1", "/foo/{bar}"); dec.endpoint != "/grouped" {
		t.Fatalf("endpoint = %q, want %q", dec.endpoint, "/grouped")
	}
	if dec := cfg.resolve("/users/42", "/users/{id}"); dec.endpoint != "/users/42" {
		t.Fatalf("endpoint = %q, want %q", dec.endpoint, "/users/42")
	}
	if dec := cfg.resolve("/health", ""); !dec.skip {
		t.Fatal("want ignored path to skip")
	}
}

func TestResolveIgnoreMode(t *testing.T) {
	cfg := testConfig(LabelIgnore)

	if dec := cfg.resolve("/users/42", "/users/{id}"); !dec.skip {
		t.Fatal("want skip in ignore mode")
	}

	// Group aliases still win over the label mode.
	if dec := cfg.resolve("/foo/1", "/foo/{bar}"); dec.skip || dec.endpoint != "/grouped" {
		t.Fatalf("got (%v, %q), want group alias", dec.skip, dec.endpoint)
	}
}

func TestResolveIgnoreBeatsGroup(t *testing.T) {
	cfg := &config{
		label:  LabelMatchedPath,
		ignore: newPatternSet([]string{"/foo/{bar}"}),
		groups: []group{
			{alias: "/grouped", patterns: newPatternSet([]string{"/foo/{bar}"})},
		},
	}

	if dec := cfg.resolve("/foo/1", "/foo/{bar}"); !dec.skip {
		t.Fatal("ignore rule must short-circuit before group rules")
	}
}

func TestRouteMatcher(t *testing.T) {
	// Routes registered after the matcher is created are still
	// visible, and static segments beat parameterized ones.
	r := chi.NewRouter()
	m := NewRouteMatcher(r)

	if _, found := m.Match("GET", "/users/42"); found {
		t.Fatal("match on empty router")
	}

	r.Get("/users/{id}", stubHandler)
	r.Get("/users/me", stubHandler)

	pattern, found := m.Match("GET", "/users/42")
	if !found || pattern != "/users/{id}" {
		t.Fatalf("got (%q, %v), want (%q, true)", pattern, found, "/users/{id}")
	}

	pattern, found = m.Match("GET", "/users/me")
	if !found || pattern != "/users/me" {
		t.Fatalf("got (%q, %v), want (%q, true)", pattern, found, "/users/me")
	}
}
