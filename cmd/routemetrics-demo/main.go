// Command routemetrics-demo runs a small HTTP server instrumented with
// the httpmetrics middleware, exposing its prometheus metrics on
// /metrics.
package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/joeshaw/envdecode"
	"github.com/oklog/run"
	"github.com/sirupsen/logrus"

	"github.com/Ptrskay3/routemetrics/httpmetrics"
	"github.com/Ptrskay3/routemetrics/metrics/provider/prom"
)

type config struct {
	Port     int    `env:"PORT,default=8080"`
	LogLevel string `env:"LOG_LEVEL,default=info"`
}

func main() {
	var cfg config
	envdecode.MustStrictDecode(&cfg)

	if l, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(l)
	}
	logger := logrus.WithField("app", "routemetrics-demo")

	provider := prom.New()

	r := chi.NewRouter()
	mw, err := httpmetrics.NewBuilder().
		WithRoutes(r).
		WithIgnorePatterns("/metrics", "/healthz").
		WithGroupPatternsAs("/users", "/users/{id}", "/users/{id}/posts").
		EnableResponseBodySize().
		WithLogger(logger).
		Build(provider)
	if err != nil {
		logger.WithError(err).Fatal("invalid metric layer configuration")
	}
	r.Use(mw)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "ok")
	})
	r.Get("/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "user "+chi.URLParam(r, "id"))
	})
	r.Get("/users/{id}/posts", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "posts for "+chi.URLParam(r, "id"))
	})
	r.Get("/slow", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(250 * time.Millisecond)
		io.WriteString(w, "done")
	})
	r.Handle("/metrics", provider.Handler())

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	var g run.Group

	g.Add(func() error {
		logger.WithField("addr", srv.Addr).Info("listening")
		return srv.ListenAndServe()
	}, func(error) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.WithError(err).Warn("shutdown")
		}
	})

	sig := make(chan os.Signal, 1)
	g.Add(func() error {
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		if s := <-sig; s != nil {
			logger.Infoln("received signal", s)
		}
		return nil
	}, func(error) {
		signal.Stop(sig)
		select {
		case sig <- nil:
		default:
		}
	})

	if err := g.Run(); err != nil && err != http.ErrServerClosed {
		logger.WithError(err).Fatal()
	}
	provider.Stop()
}
