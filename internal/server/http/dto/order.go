package dto

import "time"

// Customer is the contact block of a checkout.
type Customer struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone"`
}

// PrintingOptions mirrors the storefront print configuration form.
type PrintingOptions struct {
	PageSize   string         `json:"page_size"`
	ColorMode  string         `json:"color_mode" binding:"omitempty,oneof=bw color mixed"`
	Sides      string         `json:"sides"`
	Copies     int            `json:"copies" binding:"gte=0"`
	PageCount  *int           `json:"page_count,omitempty" binding:"omitempty,gte=1"`
	ColorPages map[int]bool   `json:"color_pages,omitempty"`
	Services   map[int]string `json:"services,omitempty"`
}

// CheckoutRequest creates an order and its gateway order.
type CheckoutRequest struct {
	Type      string          `json:"order_type" binding:"required,oneof=file template"`
	Customer  Customer        `json:"customer"`
	FileURLs  []string        `json:"file_urls"`
	FileNames []string        `json:"file_names"`
	Options   PrintingOptions `json:"printing_options"`
	Amount    string          `json:"amount" binding:"required"`
	Currency  string          `json:"currency"`
}

// CheckoutResponse carries what the client needs to open the payment form.
type CheckoutResponse struct {
	OrderID        string `json:"order_id"`
	GatewayOrderID string `json:"gateway_order_id"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	KeyID          string `json:"key_id"`
}

// OrderResponse is the admin view of an order. The singular file fields are
// kept for older clients and always mirror the first element of the lists.
type OrderResponse struct {
	ID               int64           `json:"id"`
	OrderID          string          `json:"order_id"`
	GatewayOrderID   string          `json:"gateway_order_id,omitempty"`
	GatewayPaymentID string          `json:"gateway_payment_id,omitempty"`
	PaymentStatus    string          `json:"payment_status"`
	OrderStatus      string          `json:"order_status"`
	OrderType        string          `json:"order_type"`
	Customer         Customer        `json:"customer"`
	FileURL          string          `json:"file_url"`
	FileName         string          `json:"file_name"`
	FileURLs         []string        `json:"file_urls"`
	FileNames        []string        `json:"file_names"`
	Options          PrintingOptions `json:"printing_options"`
	Amount           string          `json:"amount"`
	Currency         string          `json:"currency"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// PublicOrderResponse is what customers see when tracking an order.
type PublicOrderResponse struct {
	OrderID       string    `json:"order_id"`
	PaymentStatus string    `json:"payment_status"`
	OrderStatus   string    `json:"order_status"`
	OrderType     string    `json:"order_type"`
	FileNames     []string  `json:"file_names"`
	Amount        string    `json:"amount"`
	Currency      string    `json:"currency"`
	CreatedAt     time.Time `json:"created_at"`
}

// StatusUpdateRequest advances an order in fulfillment.
type StatusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
}

// PrintJobResponse describes the print job of a paid order.
type PrintJobResponse struct {
	ID                string          `json:"id"`
	OrderID           string          `json:"order_id"`
	Customer          Customer        `json:"customer"`
	FileURLs          []string        `json:"file_urls"`
	Options           PrintingOptions `json:"printing_options"`
	EstimatedDuration int             `json:"estimated_duration"`
	Status            string          `json:"status"`
	CreatedAt         time.Time       `json:"created_at"`
}
