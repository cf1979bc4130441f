package prometheus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/KiloProjects/cfp/internal/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	enabled = config.GenFlag[bool]("integrations.prometheus.enabled", false, "Enable Prometheus metrics")
	port    = config.GenFlag[int]("integrations.prometheus.port", 8071, "Prometheus metrics port")
)

var (
	TalksSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "cfp",
		Name:      "talks_submitted_total",
		Help:      "Number of talks successfully saved",
	})

	// SubmissionsRejected is labeled by reason: closed, invalid or storage
	SubmissionsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cfp",
		Name:      "submissions_rejected_total",
		Help:      "Number of talk submissions that did not result in a saved talk",
	}, []string{"reason"})

	// EmailsSent is labeled by result: sent, failed or disabled
	EmailsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cfp",
		Name:      "notification_emails_total",
		Help:      "Notification emails by delivery result",
	}, []string{"result"})
)

// Serve exposes /metrics until ctx is cancelled. It returns immediately if metrics are disabled.
func Serve(ctx context.Context) error {
	if !enabled.Value() {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port.Value()),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()
	slog.InfoContext(ctx, "Serving Prometheus metrics", slog.Int("port", port.Value()))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.ErrorContext(ctx, "Error with Prometheus metrics", slog.Any("err", err))
		return err
	}
	return nil
}
