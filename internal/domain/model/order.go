package model

import (
	"fmt"
	"time"
)

// PaymentStatus describes whether the customer's payment has been confirmed.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// OrderStatus describes fulfillment lifecycle.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusPrinting   OrderStatus = "printing"
	OrderStatusDispatched OrderStatus = "dispatched"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// OrderType distinguishes uploaded-file orders from template orders.
type OrderType string

const (
	OrderTypeFile     OrderType = "file"
	OrderTypeTemplate OrderType = "template"
)

// ColorMode selects how pages are printed.
type ColorMode string

const (
	ColorModeBW    ColorMode = "bw"
	ColorModeColor ColorMode = "color"
	ColorModeMixed ColorMode = "mixed"
)

// PrintingOptions captures how the customer wants the files printed.
type PrintingOptions struct {
	PageSize  string    `json:"page_size"`
	ColorMode ColorMode `json:"color_mode"`
	Sides     string    `json:"sides"`
	Copies    int       `json:"copies"`
	PageCount *int      `json:"page_count,omitempty"`
	// ColorPages maps 1-based page numbers to true when the page is printed in color.
	ColorPages map[int]bool `json:"color_pages,omitempty"`
	// Services maps file index to an optional finishing service (binding, lamination).
	Services map[int]string `json:"services,omitempty"`
}

// IsColor reports whether any part of the job is printed in color.
func (o PrintingOptions) IsColor() bool {
	switch o.ColorMode {
	case ColorModeColor:
		return true
	case ColorModeMixed:
		for _, color := range o.ColorPages {
			if color {
				return true
			}
		}
	}
	return false
}

// Customer holds contact details captured at checkout.
type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Order describes a customer purchase and its payment/fulfillment state.
type Order struct {
	ID               int64
	PublicID         string
	GatewayOrderID   string
	GatewayPaymentID string
	PaymentStatus    PaymentStatus
	Status           OrderStatus
	Type             OrderType
	Customer         Customer
	FileURL          string
	FileName         string
	FileURLs         []string
	FileNames        []string
	Options          PrintingOptions
	Amount           int64
	Currency         string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// PlaceholderFileName names a file whose display name was never recorded.
func PlaceholderFileName(index int) string {
	return fmt.Sprintf("Document %d", index+1)
}

// Normalize repairs file/name parity and keeps the legacy singular fields in sync
// with the plural ones. File references are never dropped.
func (o *Order) Normalize() {
	if len(o.FileURLs) == 0 && o.FileURL != "" {
		o.FileURLs = []string{o.FileURL}
	}
	if len(o.FileNames) == 0 && o.FileName != "" {
		o.FileNames = []string{o.FileName}
	}

	switch {
	case len(o.FileNames) > len(o.FileURLs):
		o.FileNames = o.FileNames[:len(o.FileURLs)]
	case len(o.FileNames) < len(o.FileURLs):
		names := make([]string, len(o.FileURLs))
		copy(names, o.FileNames)
		for i := len(o.FileNames); i < len(names); i++ {
			names[i] = PlaceholderFileName(i)
		}
		o.FileNames = names
	}

	if len(o.FileURLs) > 0 {
		o.FileURL = o.FileURLs[0]
		o.FileName = o.FileNames[0]
	} else {
		o.FileURL = ""
		o.FileName = ""
	}
}

// IsPaid reports whether payment has been confirmed.
func (o *Order) IsPaid() bool {
	return o.PaymentStatus == PaymentStatusCompleted
}

// NeedsPrintJob reports whether a paid order should spawn a print job.
func (o *Order) NeedsPrintJob() bool {
	return o.Type == OrderTypeFile && len(o.FileURLs) > 0
}
