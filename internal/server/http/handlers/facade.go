package handlers

import (
	"context"

	"github.com/polkiloo/printdesk/internal/domain/model"
	"github.com/polkiloo/printdesk/internal/usecase"
)

// AuthFacade describes admin authentication capabilities required by handlers.
type AuthFacade interface {
	Authenticate(ctx context.Context, login, password string) (string, error)
	ParseToken(token string) (int64, error)
}

// StorefrontFacade covers the customer-facing and gateway-facing endpoints.
type StorefrontFacade interface {
	Checkout(ctx context.Context, in usecase.CheckoutInput) (*usecase.CheckoutResult, error)
	PaymentCallback(ctx context.Context, gatewayOrderID, gatewayPaymentID, signature string) (*model.Order, error)
	OrderByPublicID(ctx context.Context, publicID string) (*model.Order, error)
}

// AdminOrderFacade covers back-office order management.
type AdminOrderFacade interface {
	Order(ctx context.Context, id int64) (*model.Order, error)
	PollPayment(ctx context.Context, id int64) (*usecase.PollResult, error)
	UpdateOrderStatus(ctx context.Context, id int64, status model.OrderStatus) (*model.Order, error)
	CancelOrder(ctx context.Context, id int64) (*model.Order, error)
	DeleteOrder(ctx context.Context, id int64) error
	PrintJob(ctx context.Context, orderID int64) (*model.PrintJob, error)
}

// HealthFacade reports whether dependencies are reachable.
type HealthFacade interface {
	Health(ctx context.Context) error
}

// PrintdeskFacade aggregates the full set of operations used across handlers.
type PrintdeskFacade interface {
	AuthFacade
	StorefrontFacade
	AdminOrderFacade
	HealthFacade
}
