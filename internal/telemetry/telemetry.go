package telemetry

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const (
	ServiceName    = "printdesk"
	ServiceVersion = "1.0.0"
)

var ErrMissingServiceName = errors.New("service name is required")

type Config struct {
	ServiceName    string
	ServiceVersion string
	OTLPEndpoint   string
}

type Option func(*options)

type options struct {
	reader sdkmetric.Reader
}

// WithReader replaces the OTLP periodic reader, mostly for tests.
func WithReader(reader sdkmetric.Reader) Option {
	return func(o *options) {
		o.reader = reader
	}
}

// NewMeterProvider builds a meter provider exporting over OTLP gRPC when an
// endpoint is configured. Without an endpoint or reader, instruments still work
// but nothing is exported.
func NewMeterProvider(ctx context.Context, cfg Config, opts ...Option) (*sdkmetric.MeterProvider, error) {
	if cfg.ServiceName == "" {
		return nil, ErrMissingServiceName
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
		),
		resource.WithFromEnv(),
	)
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}

	providerOpts := []sdkmetric.Option{sdkmetric.WithResource(res)}

	switch {
	case o.reader != nil:
		providerOpts = append(providerOpts, sdkmetric.WithReader(o.reader))
	case cfg.OTLPEndpoint != "":
		exporter, err := otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpoint(cfg.OTLPEndpoint),
			otlpmetricgrpc.WithInsecure(),
		)
		if err != nil {
			return nil, fmt.Errorf("create metric exporter: %w", err)
		}
		providerOpts = append(providerOpts, sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)))
	}

	return sdkmetric.NewMeterProvider(providerOpts...), nil
}
