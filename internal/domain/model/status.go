package model

var fulfillmentRank = map[OrderStatus]int{
	OrderStatusPending:    0,
	OrderStatusProcessing: 1,
	OrderStatusPrinting:   2,
	OrderStatusDispatched: 3,
	OrderStatusDelivered:  4,
}

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	if s == OrderStatusCancelled {
		return true
	}
	_, ok := fulfillmentRank[s]
	return ok
}

// Terminal reports whether no further transitions are allowed from s.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanAdvanceTo reports whether an administrator may move an order from s to next.
// Intermediate states may be skipped, but fulfillment never moves backwards.
// Cancellation is checked separately because it depends on payment status.
func (s OrderStatus) CanAdvanceTo(next OrderStatus) bool {
	if s.Terminal() || next == OrderStatusCancelled {
		return false
	}
	from, ok := fulfillmentRank[s]
	if !ok {
		return false
	}
	to, ok := fulfillmentRank[next]
	if !ok {
		return false
	}
	return to > from
}

// CanCancel reports whether the order may be cancelled without a refund workflow.
func (o *Order) CanCancel() bool {
	return !o.Status.Terminal() && o.PaymentStatus != PaymentStatusCompleted
}

// Valid reports whether s is a known payment status.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed:
		return true
	}
	return false
}
