package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the reconciliation instruments.
type Metrics struct {
	paymentsReconciled    metric.Int64Counter
	amountMismatches      metric.Int64Counter
	sideEffectFailures    metric.Int64Counter
	printJobsCreated      metric.Int64Counter
	gatewayFetchDurations metric.Float64Histogram
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.paymentsReconciled, err = meter.Int64Counter(
		"payments_reconciled_total",
		metric.WithDescription("Payment reconciliation attempts by source and outcome"),
		metric.WithUnit("{payment}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create payments_reconciled_total counter: %w", err)
	}

	m.amountMismatches, err = meter.Int64Counter(
		"payment_amount_mismatch_total",
		metric.WithDescription("Captured payments whose amount differs from the order amount"),
		metric.WithUnit("{payment}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create payment_amount_mismatch_total counter: %w", err)
	}

	m.sideEffectFailures, err = meter.Int64Counter(
		"side_effect_failures_total",
		metric.WithDescription("Post-payment side effects that returned an error"),
		metric.WithUnit("{failure}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create side_effect_failures_total counter: %w", err)
	}

	m.printJobsCreated, err = meter.Int64Counter(
		"print_jobs_created_total",
		metric.WithDescription("Print jobs created for paid orders"),
		metric.WithUnit("{job}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create print_jobs_created_total counter: %w", err)
	}

	m.gatewayFetchDurations, err = meter.Float64Histogram(
		"gateway_fetch_duration_seconds",
		metric.WithDescription("Duration of payment status lookups against the gateway"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create gateway_fetch_duration_seconds histogram: %w", err)
	}

	return m, nil
}

func (m *Metrics) RecordReconciled(ctx context.Context, source, outcome string) {
	m.paymentsReconciled.Add(ctx, 1, metric.WithAttributes(
		attribute.String("source", source),
		attribute.String("outcome", outcome),
	))
}

func (m *Metrics) RecordAmountMismatch(ctx context.Context, source string) {
	m.amountMismatches.Add(ctx, 1, metric.WithAttributes(attribute.String("source", source)))
}

func (m *Metrics) RecordSideEffectFailure(ctx context.Context, effect string) {
	m.sideEffectFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("effect", effect)))
}

func (m *Metrics) RecordPrintJobCreated(ctx context.Context) {
	m.printJobsCreated.Add(ctx, 1)
}

func (m *Metrics) RecordGatewayFetch(ctx context.Context, durationSeconds float64, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	m.gatewayFetchDurations.Record(ctx, durationSeconds, metric.WithAttributes(attribute.String("status", status)))
}
