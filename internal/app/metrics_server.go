package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vk/bstgraph/internal/ctxlog"
)

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

func (a *App) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", a.healthHandler)
	mux.Handle("/metrics", promhttp.HandlerFor(a.promReg, promhttp.HandlerOpts{}))
	return mux
}

// startMetricsServer serves /metrics and /health on the configured address
// in the background. The returned function shuts the server down.
func (a *App) startMetricsServer(ctx context.Context) func() {
	logger := ctxlog.FromContext(ctx)
	if a.config.MetricsAddr == "" {
		logger.Debug("Metrics server not started: disabled")
		return func() {}
	}

	srv := &http.Server{
		Addr:              a.config.MetricsAddr,
		Handler:           a.handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("Metrics server starting", "address", a.config.MetricsAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server failed unexpectedly", "error", err)
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Metrics server shutdown failed", "error", err)
			return
		}
		logger.Debug("Metrics server shut down gracefully.")
	}
}
