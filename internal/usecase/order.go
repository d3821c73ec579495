package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/polkiloo/printdesk/internal/adapter/gateway"
	domainErrors "github.com/polkiloo/printdesk/internal/domain/errors"
	"github.com/polkiloo/printdesk/internal/domain/model"
	"github.com/polkiloo/printdesk/internal/domain/repository"
)

const defaultCurrency = "INR"

// CheckoutInput is what the storefront submits when a customer pays.
type CheckoutInput struct {
	Type      model.OrderType
	Customer  model.Customer
	FileURLs  []string
	FileNames []string
	Options   model.PrintingOptions
	Amount    string
	Currency  string
}

// CheckoutResult carries what the client needs to open the gateway payment form.
type CheckoutResult struct {
	Order        *model.Order
	GatewayOrder *model.GatewayOrder
	KeyID        string
}

// OrderUseCase encapsulates order lifecycle logic.
type OrderUseCase struct {
	orders  repository.OrderRepository
	jobs    repository.PrintJobRepository
	gateway gateway.Client
	logger  *slog.Logger
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository, jobs repository.PrintJobRepository, client gateway.Client, logger *slog.Logger) *OrderUseCase {
	return &OrderUseCase{orders: orders, jobs: jobs, gateway: client, logger: logger}
}

// Checkout stores a new order and registers it with the gateway. If the gateway
// rejects the order the stored row is removed again.
func (u *OrderUseCase) Checkout(ctx context.Context, in CheckoutInput) (*CheckoutResult, error) {
	amount, err := model.ParseAmount(in.Amount)
	if err != nil {
		return nil, domainErrors.ErrInvalidAmount
	}
	if err := validateCheckout(in); err != nil {
		return nil, err
	}

	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = defaultCurrency
	}

	order, err := u.orders.Create(ctx, &model.Order{
		Type:      in.Type,
		Customer:  in.Customer,
		FileURLs:  in.FileURLs,
		FileNames: in.FileNames,
		Options:   in.Options,
		Amount:    amount,
		Currency:  currency,
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	gwOrder, err := u.gateway.CreateOrder(ctx, gateway.CreateOrderRequest{
		Amount:   order.Amount,
		Currency: order.Currency,
		Receipt:  order.PublicID,
		Notes:    map[string]string{"order_id": order.PublicID, "order_type": string(order.Type)},
	})
	if err != nil {
		u.discard(ctx, order)
		return nil, fmt.Errorf("register order %s with gateway: %w", order.PublicID, err)
	}

	if err := u.orders.AttachGatewayOrder(ctx, order.ID, gwOrder.ID); err != nil {
		u.discard(ctx, order)
		return nil, fmt.Errorf("link order %s to gateway order %s: %w", order.PublicID, gwOrder.ID, err)
	}
	order.GatewayOrderID = gwOrder.ID

	u.logger.Info("order checked out",
		slog.String("order", order.PublicID),
		slog.String("gateway_order_id", gwOrder.ID),
		slog.Int64("amount", order.Amount),
	)
	return &CheckoutResult{Order: order, GatewayOrder: gwOrder, KeyID: u.gateway.KeyID()}, nil
}

func (u *OrderUseCase) discard(ctx context.Context, order *model.Order) {
	if err := u.orders.Delete(ctx, order.ID); err != nil {
		u.logger.Error("failed to discard unregistered order",
			slog.String("order", order.PublicID),
			slog.String("error", err.Error()),
		)
	}
}

func validateCheckout(in CheckoutInput) error {
	switch in.Type {
	case model.OrderTypeFile:
		if len(in.FileURLs) == 0 {
			return fmt.Errorf("file order without files: %w", domainErrors.ErrInvalidOrder)
		}
	case model.OrderTypeTemplate:
	default:
		return fmt.Errorf("unknown order type %q: %w", in.Type, domainErrors.ErrInvalidOrder)
	}
	if strings.TrimSpace(in.Customer.Name) == "" || strings.TrimSpace(in.Customer.Email) == "" {
		return fmt.Errorf("customer name and email are required: %w", domainErrors.ErrInvalidOrder)
	}
	return nil
}

// Get returns the order with the given storage id.
func (u *OrderUseCase) Get(ctx context.Context, id int64) (*model.Order, error) {
	return u.orders.GetByID(ctx, id)
}

// GetByPublicID returns the order with the given customer-facing id.
func (u *OrderUseCase) GetByPublicID(ctx context.Context, publicID string) (*model.Order, error) {
	return u.orders.GetByPublicID(ctx, strings.TrimSpace(publicID))
}

// AdvanceStatus moves an order forward in fulfillment. Cancellation is routed
// through Cancel because it also depends on the payment status.
func (u *OrderUseCase) AdvanceStatus(ctx context.Context, id int64, next model.OrderStatus) (*model.Order, error) {
	if !next.Valid() {
		return nil, fmt.Errorf("unknown status %q: %w", next, domainErrors.ErrInvalidTransition)
	}
	if next == model.OrderStatusCancelled {
		return u.Cancel(ctx, id)
	}

	current, err := u.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanAdvanceTo(next) {
		return nil, fmt.Errorf("%s -> %s: %w", current.Status, next, domainErrors.ErrInvalidTransition)
	}
	return u.orders.UpdateStatus(ctx, id, current.Status, next)
}

// Cancel cancels an unpaid order that has not reached a terminal status.
func (u *OrderUseCase) Cancel(ctx context.Context, id int64) (*model.Order, error) {
	order, err := u.orders.Cancel(ctx, id)
	if err != nil {
		return nil, err
	}
	u.logger.Info("order cancelled", slog.String("order", order.PublicID))
	return order, nil
}

// Delete removes the order and its print job.
func (u *OrderUseCase) Delete(ctx context.Context, id int64) error {
	return u.orders.Delete(ctx, id)
}

// AwaitingPayment claims up to limit unpaid orders created within window for
// the payment sweeper.
func (u *OrderUseCase) AwaitingPayment(ctx context.Context, limit int, window time.Duration) ([]model.Order, error) {
	return u.orders.SelectAwaitingPayment(ctx, limit, window)
}

// PrintJob returns the print job of the order with the given id.
func (u *OrderUseCase) PrintJob(ctx context.Context, orderID int64) (*model.PrintJob, error) {
	job, err := u.jobs.GetByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			if _, getErr := u.orders.GetByID(ctx, orderID); getErr != nil {
				return nil, getErr
			}
		}
		return nil, err
	}
	return job, nil
}
