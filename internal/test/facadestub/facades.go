// Package facadestub provides application facade stubs for HTTP and worker tests.
package facadestub

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/polkiloo/printdesk/internal/domain/model"
	"github.com/polkiloo/printdesk/internal/usecase"
)

// AuthFacadeStub simulates admin authentication.
type AuthFacadeStub struct {
	AuthenticateFn func(context.Context, string, string) (string, error)
	ParseFn        func(string) (int64, error)
}

// Authenticate returns token for successful authentication scenarios.
func (s AuthFacadeStub) Authenticate(ctx context.Context, login, password string) (string, error) {
	if s.AuthenticateFn != nil {
		return s.AuthenticateFn(ctx, login, password)
	}
	return "token", nil
}

// ParseToken returns stored identifier for authenticated admin.
func (s AuthFacadeStub) ParseToken(token string) (int64, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return 1, nil
}

// SampleOrder returns a paid file order used by HTTP tests.
func SampleOrder() *model.Order {
	pageCount := 10
	return &model.Order{
		ID:               7,
		PublicID:         "PRN-20250101-000007",
		GatewayOrderID:   "go_1",
		GatewayPaymentID: "pay_1",
		PaymentStatus:    model.PaymentStatusCompleted,
		Status:           model.OrderStatusPending,
		Type:             model.OrderTypeFile,
		Customer:         model.Customer{Name: "Asha", Email: "asha@example.com", Phone: "+911234567890"},
		FileURLs:         []string{"https://files.local/a.pdf", "https://files.local/b.pdf"},
		FileNames:        []string{"Thesis"},
		Options:          model.PrintingOptions{PageSize: "A4", ColorMode: model.ColorModeBW, Copies: 2, PageCount: &pageCount},
		Amount:           14950,
		Currency:         "INR",
		CreatedAt:        time.Unix(0, 0).UTC(),
		UpdatedAt:        time.Unix(0, 0).UTC(),
	}
}

// StorefrontFacadeStub provides controllable behaviour for storefront endpoints.
type StorefrontFacadeStub struct {
	CheckoutFn func(context.Context, usecase.CheckoutInput) (*usecase.CheckoutResult, error)
	CallbackFn func(context.Context, string, string, string) (*model.Order, error)
	LookupFn   func(context.Context, string) (*model.Order, error)
}

// Checkout delegates to provided function or returns a linked sample order.
func (s StorefrontFacadeStub) Checkout(ctx context.Context, in usecase.CheckoutInput) (*usecase.CheckoutResult, error) {
	if s.CheckoutFn != nil {
		return s.CheckoutFn(ctx, in)
	}
	order := SampleOrder()
	return &usecase.CheckoutResult{
		Order:        order,
		GatewayOrder: &model.GatewayOrder{ID: order.GatewayOrderID, Amount: order.Amount, Currency: order.Currency},
		KeyID:        "key_test",
	}, nil
}

// PaymentCallback delegates to provided function or returns the paid sample order.
func (s StorefrontFacadeStub) PaymentCallback(ctx context.Context, gatewayOrderID, gatewayPaymentID, signature string) (*model.Order, error) {
	if s.CallbackFn != nil {
		return s.CallbackFn(ctx, gatewayOrderID, gatewayPaymentID, signature)
	}
	return SampleOrder(), nil
}

// OrderByPublicID delegates to provided function or returns the sample order.
func (s StorefrontFacadeStub) OrderByPublicID(ctx context.Context, publicID string) (*model.Order, error) {
	if s.LookupFn != nil {
		return s.LookupFn(ctx, publicID)
	}
	return SampleOrder(), nil
}

// AdminOrderFacadeStub simulates back-office order operations.
type AdminOrderFacadeStub struct {
	OrderFn    func(context.Context, int64) (*model.Order, error)
	PollFn     func(context.Context, int64) (*usecase.PollResult, error)
	StatusFn   func(context.Context, int64, model.OrderStatus) (*model.Order, error)
	CancelFn   func(context.Context, int64) (*model.Order, error)
	DeleteFn   func(context.Context, int64) error
	PrintJobFn func(context.Context, int64) (*model.PrintJob, error)
}

func (s AdminOrderFacadeStub) Order(ctx context.Context, id int64) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, id)
	}
	return SampleOrder(), nil
}

func (s AdminOrderFacadeStub) PollPayment(ctx context.Context, id int64) (*usecase.PollResult, error) {
	if s.PollFn != nil {
		return s.PollFn(ctx, id)
	}
	return &usecase.PollResult{Order: SampleOrder(), PaymentStatus: model.PaymentOutcomeCompleted, OrderUpdated: true}, nil
}

func (s AdminOrderFacadeStub) UpdateOrderStatus(ctx context.Context, id int64, status model.OrderStatus) (*model.Order, error) {
	if s.StatusFn != nil {
		return s.StatusFn(ctx, id, status)
	}
	order := SampleOrder()
	order.Status = status
	return order, nil
}

func (s AdminOrderFacadeStub) CancelOrder(ctx context.Context, id int64) (*model.Order, error) {
	if s.CancelFn != nil {
		return s.CancelFn(ctx, id)
	}
	order := SampleOrder()
	order.PaymentStatus = model.PaymentStatusPending
	order.Status = model.OrderStatusCancelled
	return order, nil
}

func (s AdminOrderFacadeStub) DeleteOrder(ctx context.Context, id int64) error {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, id)
	}
	return nil
}

func (s AdminOrderFacadeStub) PrintJob(ctx context.Context, orderID int64) (*model.PrintJob, error) {
	if s.PrintJobFn != nil {
		return s.PrintJobFn(ctx, orderID)
	}
	order := SampleOrder()
	return &model.PrintJob{
		ID:                "8c0f5d0e-3b7a-4b8c-9a55-2f0e6a9f1e11",
		OrderID:           order.ID,
		PublicOrderID:     order.PublicID,
		Customer:          order.Customer,
		FileURLs:          order.FileURLs,
		Options:           order.Options,
		EstimatedDuration: 10,
		Status:            model.PrintJobStatusPending,
		CreatedAt:         time.Unix(0, 0).UTC(),
	}, nil
}

// HealthFacadeStub reports a configured health error.
type HealthFacadeStub struct {
	Err error
}

func (s HealthFacadeStub) Health(context.Context) error { return s.Err }

// PrintdeskFacadeStub aggregates facade dependencies for HTTP layer tests.
type PrintdeskFacadeStub struct {
	AuthFacadeStub
	StorefrontFacadeStub
	AdminOrderFacadeStub
	HealthFacadeStub
}

// SweeperFacadeStub mimics sweeper interactions with the application facade.
type SweeperFacadeStub struct {
	Batches    [][]model.Order
	OrdersFn   func(context.Context, int, time.Duration) ([]model.Order, error)
	PollFn     func(context.Context, *model.Order) (*usecase.PollResult, error)
	RedriveFn  func(context.Context, int) (int, error)
	Polled     []string
	Redrives   int
	Windows    []time.Duration
	mu         sync.Mutex
	batchCalls int32
}

// Lock exposes internal mutex for external synchronization.
func (s *SweeperFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *SweeperFacadeStub) Unlock() { s.mu.Unlock() }

// OrdersAwaitingPayment returns batches from configured queue.
func (s *SweeperFacadeStub) OrdersAwaitingPayment(ctx context.Context, limit int, window time.Duration) ([]model.Order, error) {
	s.mu.Lock()
	s.Windows = append(s.Windows, window)
	s.mu.Unlock()
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, limit, window)
	}
	call := atomic.AddInt32(&s.batchCalls, 1)
	if int(call) <= len(s.Batches) {
		return s.Batches[call-1], nil
	}
	return nil, nil
}

// PollGatewayOrder records the polled gateway order id.
func (s *SweeperFacadeStub) PollGatewayOrder(ctx context.Context, order *model.Order) (*usecase.PollResult, error) {
	s.mu.Lock()
	s.Polled = append(s.Polled, order.GatewayOrderID)
	s.mu.Unlock()
	if s.PollFn != nil {
		return s.PollFn(ctx, order)
	}
	return &usecase.PollResult{Order: order, PaymentStatus: model.PaymentOutcomePending}, nil
}

// RedriveFulfillment counts re-drive passes.
func (s *SweeperFacadeStub) RedriveFulfillment(ctx context.Context, limit int) (int, error) {
	s.mu.Lock()
	s.Redrives++
	s.mu.Unlock()
	if s.RedriveFn != nil {
		return s.RedriveFn(ctx, limit)
	}
	return 0, nil
}
