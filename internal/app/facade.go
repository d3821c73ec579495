package app

import (
	"context"
	"time"

	"github.com/polkiloo/printdesk/internal/domain/model"
	"github.com/polkiloo/printdesk/internal/usecase"
)

// HealthChecker reports whether backing storage is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// PrintdeskFacade is the single entry point used by HTTP handlers and the
// payment sweeper.
type PrintdeskFacade struct {
	auth      *usecase.AuthUseCase
	orders    *usecase.OrderUseCase
	reconcile *usecase.ReconcileUseCase
	health    HealthChecker
}

func NewPrintdeskFacade(auth *usecase.AuthUseCase, orders *usecase.OrderUseCase, reconcile *usecase.ReconcileUseCase, health HealthChecker) *PrintdeskFacade {
	return &PrintdeskFacade{auth: auth, orders: orders, reconcile: reconcile, health: health}
}

func (f *PrintdeskFacade) EnsureAdmin(ctx context.Context, login, password string) error {
	return f.auth.EnsureAdmin(ctx, login, password)
}

func (f *PrintdeskFacade) Authenticate(ctx context.Context, login, password string) (string, error) {
	_, token, err := f.auth.Authenticate(ctx, login, password)
	return token, err
}

func (f *PrintdeskFacade) ParseToken(token string) (int64, error) {
	return f.auth.ParseToken(token)
}

func (f *PrintdeskFacade) Checkout(ctx context.Context, in usecase.CheckoutInput) (*usecase.CheckoutResult, error) {
	return f.orders.Checkout(ctx, in)
}

func (f *PrintdeskFacade) PaymentCallback(ctx context.Context, gatewayOrderID, gatewayPaymentID, signature string) (*model.Order, error) {
	return f.reconcile.HandleCallback(ctx, gatewayOrderID, gatewayPaymentID, signature)
}

func (f *PrintdeskFacade) OrderByPublicID(ctx context.Context, publicID string) (*model.Order, error) {
	return f.orders.GetByPublicID(ctx, publicID)
}

func (f *PrintdeskFacade) Order(ctx context.Context, id int64) (*model.Order, error) {
	return f.orders.Get(ctx, id)
}

func (f *PrintdeskFacade) PollPayment(ctx context.Context, id int64) (*usecase.PollResult, error) {
	return f.reconcile.PollOrder(ctx, id)
}

func (f *PrintdeskFacade) UpdateOrderStatus(ctx context.Context, id int64, status model.OrderStatus) (*model.Order, error) {
	return f.orders.AdvanceStatus(ctx, id, status)
}

func (f *PrintdeskFacade) CancelOrder(ctx context.Context, id int64) (*model.Order, error) {
	return f.orders.Cancel(ctx, id)
}

func (f *PrintdeskFacade) DeleteOrder(ctx context.Context, id int64) error {
	return f.orders.Delete(ctx, id)
}

func (f *PrintdeskFacade) PrintJob(ctx context.Context, orderID int64) (*model.PrintJob, error) {
	return f.orders.PrintJob(ctx, orderID)
}

func (f *PrintdeskFacade) Health(ctx context.Context) error {
	return f.health.HealthCheck(ctx)
}

func (f *PrintdeskFacade) OrdersAwaitingPayment(ctx context.Context, limit int, window time.Duration) ([]model.Order, error) {
	return f.orders.AwaitingPayment(ctx, limit, window)
}

func (f *PrintdeskFacade) PollGatewayOrder(ctx context.Context, order *model.Order) (*usecase.PollResult, error) {
	return f.reconcile.Poll(ctx, order)
}

func (f *PrintdeskFacade) RedriveFulfillment(ctx context.Context, limit int) (int, error) {
	return f.reconcile.RedriveFulfillment(ctx, limit)
}
