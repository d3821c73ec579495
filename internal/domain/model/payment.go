package model

import "time"

// GatewayPaymentStatus is the state of one payment attempt as reported by the gateway.
type GatewayPaymentStatus string

const (
	GatewayPaymentCreated    GatewayPaymentStatus = "created"
	GatewayPaymentAuthorized GatewayPaymentStatus = "authorized"
	GatewayPaymentCaptured   GatewayPaymentStatus = "captured"
	GatewayPaymentRefunded   GatewayPaymentStatus = "refunded"
	GatewayPaymentFailed     GatewayPaymentStatus = "failed"
)

// PaymentAttempt is one payment try against a gateway order.
type PaymentAttempt struct {
	ID               string
	Amount           int64
	Currency         string
	Status           GatewayPaymentStatus
	Captured         bool
	Method           string
	ErrorCode        string
	ErrorDescription string
	CreatedAt        time.Time
}

// Successful reports whether the gateway confirmed capture of funds.
func (a PaymentAttempt) Successful() bool {
	return a.Status == GatewayPaymentCaptured && a.Captured
}

// TerminallyFailed reports whether the attempt can no longer succeed.
func (a PaymentAttempt) TerminallyFailed() bool {
	return a.Status == GatewayPaymentFailed
}

// GatewayOrder is the checkout attempt registered with the gateway.
type GatewayOrder struct {
	ID       string
	Amount   int64
	Currency string
	Receipt  string
	Status   string
}

// PaymentSource identifies which reconciliation path observed a payment.
type PaymentSource string

const (
	PaymentSourceCallback PaymentSource = "callback"
	PaymentSourcePoll     PaymentSource = "poll"
)

// PaymentOutcome summarizes a reconciliation attempt for callers.
type PaymentOutcome string

const (
	PaymentOutcomePending   PaymentOutcome = "pending"
	PaymentOutcomeCompleted PaymentOutcome = "completed"
	PaymentOutcomeFailed    PaymentOutcome = "failed"
)
