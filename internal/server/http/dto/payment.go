package dto

// CallbackRequest is posted by the payment gateway, as JSON or as a form.
type CallbackRequest struct {
	GatewayOrderID   string `json:"gateway_order_id" form:"gateway_order_id" binding:"required"`
	GatewayPaymentID string `json:"gateway_payment_id" form:"gateway_payment_id" binding:"required"`
	Signature        string `json:"signature" form:"signature" binding:"required"`
}

// CallbackResponse confirms a reconciled payment.
type CallbackResponse struct {
	OrderID       string `json:"order_id"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	PaymentStatus string `json:"payment_status"`
}

// PollResponse reports the outcome of a payment status poll.
type PollResponse struct {
	PaymentStatus string `json:"payment_status"`
	OrderUpdated  bool   `json:"order_updated"`
}
