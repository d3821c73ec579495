package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/polkiloo/printdesk/internal/adapter/gateway"
	"github.com/polkiloo/printdesk/internal/domain/model"
	"github.com/polkiloo/printdesk/internal/telemetry"
)

// StatusFetcher lists payment attempts for a gateway order. Any failure is
// logged and reported as an empty list: the caller cannot confirm payment yet
// and must not conclude that it failed.
type StatusFetcher struct {
	client  gateway.Client
	metrics *telemetry.Metrics
	logger  *slog.Logger
}

// NewStatusFetcher constructs StatusFetcher.
func NewStatusFetcher(client gateway.Client, metrics *telemetry.Metrics, logger *slog.Logger) *StatusFetcher {
	return &StatusFetcher{client: client, metrics: metrics, logger: logger}
}

// Attempts returns the payment attempts the gateway reports for gatewayOrderID.
func (f *StatusFetcher) Attempts(ctx context.Context, gatewayOrderID string) []model.PaymentAttempt {
	started := time.Now()
	attempts, err := f.client.FetchPayments(ctx, gatewayOrderID)
	f.metrics.RecordGatewayFetch(ctx, time.Since(started).Seconds(), err == nil)
	if err != nil {
		var limited gateway.TooManyRequestsError
		if errors.As(err, &limited) {
			f.logger.Warn("gateway rate limited payment lookup",
				slog.String("gateway_order_id", gatewayOrderID),
				slog.Duration("retry_after", limited.RetryAfter),
			)
			return nil
		}
		f.logger.Warn("payment status lookup failed",
			slog.String("gateway_order_id", gatewayOrderID),
			slog.String("error", err.Error()),
		)
		return nil
	}
	return attempts
}

// classifyAttempts picks the first successful attempt. When none succeeded,
// allFailed reports whether every attempt is terminally failed.
func classifyAttempts(attempts []model.PaymentAttempt) (success *model.PaymentAttempt, allFailed bool) {
	allFailed = len(attempts) > 0
	for i := range attempts {
		if attempts[i].Successful() {
			return &attempts[i], false
		}
		if !attempts[i].TerminallyFailed() {
			allFailed = false
		}
	}
	return nil, allFailed
}
