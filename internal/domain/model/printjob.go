package model

import "time"

// PrintJobStatus is advanced by the print-dispatch subsystem.
type PrintJobStatus string

const (
	PrintJobStatusPending PrintJobStatus = "pending"
)

// PrintJob is the fulfillment unit spawned by a paid file order.
type PrintJob struct {
	ID                string
	OrderID           int64
	PublicOrderID     string
	Customer          Customer
	FileURLs          []string
	Options           PrintingOptions
	EstimatedDuration int
	Status            PrintJobStatus
	CreatedAt         time.Time
}
