package usecase

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/polkiloo/printdesk/internal/domain/model"
	"github.com/polkiloo/printdesk/internal/pkg/payment"
	"github.com/polkiloo/printdesk/internal/telemetry"
	testhelpers "github.com/polkiloo/printdesk/internal/test"
)

const testSecret = "gateway-secret"

// syncBuffer guards log output written from concurrent tests.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type engineFixture struct {
	orders     *testhelpers.OrderRepositoryStub
	jobs       *testhelpers.PrintJobRepositoryStub
	gateway    *testhelpers.GatewayStub
	dispatcher *testhelpers.DispatcherStub
	verifier   *payment.Verifier
	reader     *sdkmetric.ManualReader
	logs       *syncBuffer
	engine     *ReconcileUseCase
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	metrics, err := telemetry.NewMetrics(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test"))
	require.NoError(t, err)

	f := &engineFixture{
		orders:     testhelpers.NewOrderRepositoryStub(),
		jobs:       testhelpers.NewPrintJobRepositoryStub(),
		gateway:    testhelpers.NewGatewayStub(),
		dispatcher: &testhelpers.DispatcherStub{},
		verifier:   payment.NewVerifier(testSecret),
		reader:     reader,
		logs:       &syncBuffer{},
	}
	logger := slog.New(slog.NewJSONHandler(f.logs, nil))
	f.engine = NewReconcileUseCase(
		f.orders,
		f.verifier,
		NewStatusFetcher(f.gateway, metrics, logger),
		NewPrintJobEffect(f.jobs, metrics, logger),
		NewNotificationEffect(f.dispatcher),
		metrics,
		logger,
	)
	return f
}

func pages(n int) *int { return &n }

// putFileOrder stores an unpaid file order linked to gatewayOrderID.
func (f *engineFixture) putFileOrder(gatewayOrderID string) *model.Order {
	return f.orders.Put(model.Order{
		GatewayOrderID: gatewayOrderID,
		Type:           model.OrderTypeFile,
		Customer:       model.Customer{Name: "Asha", Email: "asha@example.com", Phone: "+911234567890"},
		FileURLs:       []string{"https://files.local/thesis.pdf"},
		FileNames:      []string{"Thesis"},
		Options:        model.PrintingOptions{PageSize: "A4", ColorMode: model.ColorModeBW, Copies: 2, PageCount: pages(10)},
		Amount:         14950,
		Currency:       "INR",
	})
}

// counter sums the data points of an int64 counter whose attributes include attrs.
func (f *engineFixture) counter(t *testing.T, name string, attrs ...attribute.KeyValue) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, f.reader.Collect(context.Background(), &rm))

	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
		points:
			for _, dp := range sum.DataPoints {
				for _, kv := range attrs {
					v, ok := dp.Attributes.Value(kv.Key)
					if !ok || v.Emit() != kv.Value.Emit() {
						continue points
					}
				}
				total += dp.Value
			}
		}
	}
	return total
}
