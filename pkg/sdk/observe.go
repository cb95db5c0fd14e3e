package cuemusic

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/AndiJegeni/cuemusic/internal/domain"
)

// Operation status labels.
const (
	statusOK          = "ok"
	statusNotFound    = "not_found"
	statusInvalid     = "invalid"
	statusQuotaDenied = "quota_denied"
	statusError       = "error"
)

// sdkMetrics holds prometheus metrics registered for the SDK.
type sdkMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

func newSDKMetrics(reg prometheus.Registerer) (*sdkMetrics, error) {
	m := &sdkMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cuemusic",
			Subsystem: "sdk",
			Name:      "operations_total",
			Help:      "Total SDK operations by type and status.",
		}, []string{"operation", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "cuemusic",
			Subsystem: "sdk",
			Name:      "operation_duration_seconds",
			Help:      "SDK operation duration in seconds.",
			Buckets:   []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"operation"}),
	}
	if err := registerOrReuse(reg, &m.operations); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.duration); err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse registers a collector or reuses an existing one,
// so several clients can share a registerer.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			existing, ok := are.ExistingCollector.(T)
			if !ok {
				return fmt.Errorf("cuemusic: metric already registered with incompatible type: %T", are.ExistingCollector)
			}
			*c = existing
			return nil
		}
		return fmt.Errorf("cuemusic: register metric: %w", err)
	}
	return nil
}

// statusOf maps an operation error to its metric label.
func statusOf(err error) string {
	switch {
	case err == nil:
		return statusOK
	case errors.Is(err, domain.ErrSearchQuotaExceeded):
		return statusQuotaDenied
	case errors.Is(err, domain.ErrNotFound):
		return statusNotFound
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrAlreadyExists):
		return statusInvalid
	default:
		return statusError
	}
}

// observer provides logging and metrics for SDK operations.
type observer struct {
	logger  *slog.Logger
	metrics *sdkMetrics
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	var m *sdkMetrics
	if reg != nil {
		var err error
		m, err = newSDKMetrics(reg)
		if err != nil {
			return nil, err
		}
	}
	return &observer{logger: logger, metrics: m}, nil
}

func (o *observer) observe(ctx context.Context, op string, start time.Time, err error) {
	if o == nil {
		return
	}
	dur := time.Since(start)
	status := statusOf(err)

	if o.metrics != nil {
		o.metrics.operations.WithLabelValues(op, status).Inc()
		o.metrics.duration.WithLabelValues(op).Observe(dur.Seconds())
	}

	if o.logger == nil {
		return
	}
	userID := userFromContext(ctx).UserID()
	switch status {
	case statusOK:
		o.logger.DebugContext(ctx, "operation completed",
			"op", op, "user_id", userID, "duration", dur)
	case statusError:
		o.logger.ErrorContext(ctx, "operation failed",
			"op", op, "user_id", userID, "duration", dur, "error", err)
	default:
		o.logger.InfoContext(ctx, "operation rejected",
			"op", op, "user_id", userID, "status", status, "error", err)
	}
}
