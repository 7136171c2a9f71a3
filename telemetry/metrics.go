// Package telemetry provides Prometheus metrics and correlation-id aware logging helpers.
package telemetry

import (
	"context"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	once sync.Once

	// Counters
	CommandsHandled  *prometheus.CounterVec
	CallbacksHandled *prometheus.CounterVec
	AccountsAdded    prometheus.Counter
	AccountsRemoved  prometheus.Counter
	RemoteErrors     prometheus.Counter

	// Gauges
	ActiveAccountsGauge prometheus.Gauge
)

// Init registers metrics (idempotent).
func Init() {
	once.Do(func() {
		CommandsHandled = promauto.NewCounterVec(prometheus.CounterOpts{Name: "bot_commands_handled_total", Help: "Number of chat commands handled, by command"}, []string{"command"})
		CallbacksHandled = promauto.NewCounterVec(prometheus.CounterOpts{Name: "bot_callbacks_handled_total", Help: "Number of inline button callbacks handled, by kind"}, []string{"kind"})
		AccountsAdded = promauto.NewCounter(prometheus.CounterOpts{Name: "bot_accounts_added_total", Help: "Number of accounts registered"})
		AccountsRemoved = promauto.NewCounter(prometheus.CounterOpts{Name: "bot_accounts_removed_total", Help: "Number of accounts deactivated"})
		RemoteErrors = promauto.NewCounter(prometheus.CounterOpts{Name: "bot_sheet_errors_total", Help: "Number of failed Google Sheets operations (degraded to local)"})
		ActiveAccountsGauge = promauto.NewGauge(prometheus.GaugeOpts{Name: "bot_active_accounts", Help: "Current number of active accounts"})
	})
}

// CountCommand increments the per-command counter if metrics are initialized.
func CountCommand(command string) {
	if CommandsHandled != nil {
		CommandsHandled.WithLabelValues(command).Inc()
	}
}

// CountCallback increments the per-kind callback counter.
func CountCallback(kind string) {
	if CallbacksHandled != nil {
		CallbacksHandled.WithLabelValues(kind).Inc()
	}
}

// CountRemoteError records a failed sheet operation.
func CountRemoteError() {
	if RemoteErrors != nil {
		RemoteErrors.Inc()
	}
}

// SetActiveAccounts records the current active account count.
func SetActiveAccounts(n int) {
	if ActiveAccountsGauge != nil {
		ActiveAccountsGauge.Set(float64(n))
	}
}

// Correlation ID helpers ----------------------------------------------------
type corrKeyType struct{}

var corrKey corrKeyType

// WithCorrelation returns a new context embedding correlation id (if absent) and the id.
func WithCorrelation(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, corrKey, id)
}

// GetCorrelation returns correlation id or empty string.
func GetCorrelation(ctx context.Context) string {
	v := ctx.Value(corrKey)
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// LoggerWithCorr returns a logger with corr attribute if present.
func LoggerWithCorr(ctx context.Context) *slog.Logger {
	if id := GetCorrelation(ctx); id != "" {
		return slog.Default().With(slog.String("corr", id))
	}
	return slog.Default()
}
