package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"

	"github.com/polkiloo/printdesk/internal/config"
)

// Module provides the meter provider and reconciliation metrics.
var Module = fx.Options(
	fx.Provide(newProvider),
	fx.Provide(newMeter),
	fx.Provide(NewMetrics),
)

func newProvider(lc fx.Lifecycle, cfg *config.Config) (*sdkmetric.MeterProvider, error) {
	mp, err := NewMeterProvider(context.Background(), Config{
		ServiceName:    ServiceName,
		ServiceVersion: ServiceVersion,
		OTLPEndpoint:   cfg.OTLPEndpoint,
	})
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{OnStop: mp.Shutdown})
	return mp, nil
}

func newMeter(mp *sdkmetric.MeterProvider) metric.Meter {
	return mp.Meter("github.com/polkiloo/printdesk")
}
