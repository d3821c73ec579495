package repository

import (
	"context"
	"time"

	"github.com/polkiloo/printdesk/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
//
// MarkPaid is the single point where payment completion is written. It must be
// a conditional write that only succeeds while the stored payment status is not
// completed, so concurrent callers cannot both observe a transition.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) (*model.Order, error)
	GetByID(ctx context.Context, id int64) (*model.Order, error)
	GetByPublicID(ctx context.Context, publicID string) (*model.Order, error)
	GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*model.Order, error)
	AttachGatewayOrder(ctx context.Context, id int64, gatewayOrderID string) error
	// MarkPaid returns the updated order and true when this call performed the
	// transition, or nil and false when the order was already completed.
	MarkPaid(ctx context.Context, gatewayOrderID, gatewayPaymentID string) (*model.Order, bool, error)
	// UpdateStatus writes next only if the stored status still equals expected.
	UpdateStatus(ctx context.Context, id int64, expected, next model.OrderStatus) (*model.Order, error)
	// Cancel succeeds only while the order is unpaid and not terminal.
	Cancel(ctx context.Context, id int64) (*model.Order, error)
	Delete(ctx context.Context, id int64) error
	// SelectAwaitingPayment claims unpaid orders for the payment sweeper.
	SelectAwaitingPayment(ctx context.Context, limit int, window time.Duration) ([]model.Order, error)
	// ListPaidWithoutPrintJob finds paid file orders whose print job was never created.
	ListPaidWithoutPrintJob(ctx context.Context, limit int) ([]model.Order, error)
}
