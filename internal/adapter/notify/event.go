package notify

import (
	"time"

	"github.com/google/uuid"

	"github.com/polkiloo/printdesk/internal/domain/model"
)

const EventOrderPaid = "order.paid"

// OrderPaidEvent is published once per payment completion.
type OrderPaidEvent struct {
	EventID       string                `json:"event_id"`
	Type          string                `json:"type"`
	OrderID       int64                 `json:"order_id"`
	PublicOrderID string                `json:"public_order_id"`
	Customer      model.Customer        `json:"customer"`
	Amount        string                `json:"amount"`
	AmountMinor   int64                 `json:"amount_minor"`
	Currency      string                `json:"currency"`
	OrderType     model.OrderType       `json:"order_type"`
	FileNames     []string              `json:"file_names,omitempty"`
	Options       model.PrintingOptions `json:"printing_options"`
	PaymentStatus model.PaymentStatus   `json:"payment_status"`
	OrderStatus   model.OrderStatus     `json:"order_status"`
	OccurredAt    time.Time             `json:"occurred_at"`
}

// NewOrderPaidEvent snapshots the order for downstream consumers.
func NewOrderPaidEvent(order *model.Order, now time.Time) OrderPaidEvent {
	return OrderPaidEvent{
		EventID:       uuid.NewString(),
		Type:          EventOrderPaid,
		OrderID:       order.ID,
		PublicOrderID: order.PublicID,
		Customer:      order.Customer,
		Amount:        model.FormatAmount(order.Amount),
		AmountMinor:   order.Amount,
		Currency:      order.Currency,
		OrderType:     order.Type,
		FileNames:     order.FileNames,
		Options:       order.Options,
		PaymentStatus: order.PaymentStatus,
		OrderStatus:   order.Status,
		OccurredAt:    now.UTC(),
	}
}
