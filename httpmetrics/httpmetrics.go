package httpmetrics

import (
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/Ptrskay3/routemetrics/metrics"
)

// New returns an HTTP middleware which captures request metrics with
// the default configuration and reports them to the given provider.
// Use NewBuilder for ignore rules, grouping, or route-pattern labels.
func New(p metrics.Provider) func(http.Handler) http.Handler {
	return NewBuilder().MustBuild(p)
}

// middleware wires the request lifecycle around the next handler.
func (c *config) middleware(ins *instruments) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var pattern string
			if c.matcher != nil {
				if p, ok := c.matcher.Match(r.Method, r.URL.Path); ok {
					pattern = p
				}
			}

			dec := c.resolve(r.URL.Path, pattern)
			if dec.skip {
				next.ServeHTTP(w, r)
				return
			}

			m := ins.start(r.Method, dec.endpoint)
			// The deferred release pairs the pending gauge decrement
			// with the increment in start, even when next panics or
			// the connection is aborted mid-stream.
			defer m.release()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			if c.trackBodySize {
				ww.Tee(m)
			}

			next.ServeHTTP(ww, r)
			m.complete(ww.Status())
		})
	}
}
