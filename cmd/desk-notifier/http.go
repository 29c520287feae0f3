package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/BearBump/WriteDesk/config"
	"github.com/BearBump/WriteDesk/internal/metrics"
	"github.com/BearBump/WriteDesk/internal/services/notifier"
	"github.com/go-chi/chi/v5"
)

type notifierHTTPOpts struct {
	httpAddr string
	onListen func(httpAddr string)

	notifier *notifier.Notifier
	metrics  *metrics.Registry
	cfg      *config.Config
}

func newOpsRouter(opts notifierHTTPOpts) chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/stats", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if opts.notifier == nil {
			_, _ = w.Write([]byte(`{"error":"notifier not wired"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(opts.notifier.Stats())
	})

	r.Get("/config", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if opts.cfg == nil {
			_, _ = w.Write([]byte(`{"error":"config not wired"}`))
			return
		}
		// Без секретов: только то, что нужно для отладки доставки.
		out := map[string]any{
			"topic":           orderTopic(opts.cfg),
			"consumerGroup":   consumerGroup(opts.cfg),
			"mailMode":        opts.cfg.Mail.Mode,
			"from":            opts.cfg.Mail.From,
			"adminRecipients": len(notifierConfig(opts.cfg).AdminTo),
			"retryAttempts":   opts.cfg.Mail.RetryAttempts,
		}
		_ = json.NewEncoder(w).Encode(out)
	})

	r.Method(http.MethodGet, "/metrics", opts.metrics.Handler())
	return r
}

func runNotifierHTTPServer(ctx context.Context, opts notifierHTTPOpts) error {
	if opts.httpAddr == "" {
		opts.httpAddr = ":8082"
	}

	lis, err := net.Listen("tcp", opts.httpAddr)
	if err != nil {
		return err
	}
	if opts.onListen != nil {
		opts.onListen(lis.Addr().String())
	}

	srv := &http.Server{Handler: newOpsRouter(opts), ReadHeaderTimeout: 10 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		_ = lis.Close()
	}()

	slog.Info("notifier ops server listening", "addr", lis.Addr().String())
	if err := srv.Serve(lis); err != nil && err != http.ErrServerClosed {
		return err
	}
	return ctx.Err()
}
