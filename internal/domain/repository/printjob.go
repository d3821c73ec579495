package repository

import (
	"context"

	"github.com/polkiloo/printdesk/internal/domain/model"
)

// PrintJobRepository stores at most one print job per order.
type PrintJobRepository interface {
	GetByOrderID(ctx context.Context, orderID int64) (*model.PrintJob, error)
	// CreateIfAbsent inserts job unless one already exists for the order. It
	// returns the stored job and whether this call created it.
	CreateIfAbsent(ctx context.Context, job *model.PrintJob) (*model.PrintJob, bool, error)
}
