package test

import (
	"context"
	"fmt"
	"sync"

	"github.com/polkiloo/printdesk/internal/adapter/gateway"
	"github.com/polkiloo/printdesk/internal/adapter/notify"
	"github.com/polkiloo/printdesk/internal/domain/model"
)

// GatewayStub is an in-memory payment gateway.
type GatewayStub struct {
	mu       sync.Mutex
	payments map[string][]model.PaymentAttempt
	created  int

	CreateFn func(context.Context, gateway.CreateOrderRequest) (*model.GatewayOrder, error)
	FetchFn  func(context.Context, string) ([]model.PaymentAttempt, error)
	Key      string
	// Requests records every CreateOrder request.
	Requests []gateway.CreateOrderRequest
	// Fetches counts FetchPayments calls.
	Fetches int
}

// NewGatewayStub constructs gateway stub without payments.
func NewGatewayStub() *GatewayStub {
	return &GatewayStub{payments: make(map[string][]model.PaymentAttempt), Key: "key_test"}
}

// SetPayments replaces the attempts reported for gatewayOrderID.
func (g *GatewayStub) SetPayments(gatewayOrderID string, attempts ...model.PaymentAttempt) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.payments[gatewayOrderID] = attempts
}

// CreateOrder returns sequential gateway ids go_1, go_2, ...
func (g *GatewayStub) CreateOrder(ctx context.Context, req gateway.CreateOrderRequest) (*model.GatewayOrder, error) {
	g.mu.Lock()
	g.Requests = append(g.Requests, req)
	g.mu.Unlock()
	if g.CreateFn != nil {
		return g.CreateFn(ctx, req)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.created++
	return &model.GatewayOrder{
		ID:       fmt.Sprintf("go_%d", g.created),
		Amount:   req.Amount,
		Currency: req.Currency,
		Receipt:  req.Receipt,
		Status:   "created",
	}, nil
}

// FetchPayments returns configured attempts.
func (g *GatewayStub) FetchPayments(ctx context.Context, gatewayOrderID string) ([]model.PaymentAttempt, error) {
	g.mu.Lock()
	g.Fetches++
	g.mu.Unlock()
	if g.FetchFn != nil {
		return g.FetchFn(ctx, gatewayOrderID)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]model.PaymentAttempt(nil), g.payments[gatewayOrderID]...), nil
}

// KeyID returns the configured public key id.
func (g *GatewayStub) KeyID() string { return g.Key }

// DispatcherStub records published events.
type DispatcherStub struct {
	mu     sync.Mutex
	Events []notify.OrderPaidEvent
	Err    error
}

// OrderPaid records event unless Err is set.
func (d *DispatcherStub) OrderPaid(ctx context.Context, event notify.OrderPaidEvent) error {
	if d.Err != nil {
		return d.Err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Events = append(d.Events, event)
	return nil
}

// Count returns the number of published events.
func (d *DispatcherStub) Count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.Events)
}

var (
	_ gateway.Client    = (*GatewayStub)(nil)
	_ notify.Dispatcher = (*DispatcherStub)(nil)
)
