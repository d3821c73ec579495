package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/printdesk/internal/domain/errors"
	"github.com/polkiloo/printdesk/internal/domain/model"
)

type printJobRepository struct {
	storage *Storage
}

func (r *printJobRepository) GetByOrderID(ctx context.Context, orderID int64) (*model.PrintJob, error) {
	const query = `SELECT id::text, order_id, public_order_id, customer_name, customer_email, customer_phone,
                       file_urls, printing_options, estimated_duration, status, created_at
                   FROM print_jobs WHERE order_id=$1`
	var (
		job     model.PrintJob
		options []byte
	)
	err := r.storage.pool.QueryRow(ctx, query, orderID).Scan(
		&job.ID, &job.OrderID, &job.PublicOrderID,
		&job.Customer.Name, &job.Customer.Email, &job.Customer.Phone,
		&job.FileURLs, &options, &job.EstimatedDuration, &job.Status, &job.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	if len(options) > 0 {
		if err := json.Unmarshal(options, &job.Options); err != nil {
			return nil, fmt.Errorf("decode printing options of print job %s: %w", job.ID, err)
		}
	}
	return &job, nil
}

// CreateIfAbsent relies on the unique order_id constraint so that concurrent
// callers create at most one job per order.
func (r *printJobRepository) CreateIfAbsent(ctx context.Context, job *model.PrintJob) (*model.PrintJob, bool, error) {
	options, err := json.Marshal(job.Options)
	if err != nil {
		return nil, false, fmt.Errorf("encode printing options: %w", err)
	}

	const query = `INSERT INTO print_jobs (id, order_id, public_order_id, customer_name, customer_email,
                       customer_phone, file_urls, printing_options, estimated_duration, status)
                   VALUES ($1::uuid, $2, $3, $4, $5, $6, $7, $8, $9, $10)
                   ON CONFLICT (order_id) DO NOTHING
                   RETURNING created_at`

	created := *job
	err = r.storage.pool.QueryRow(ctx, query,
		job.ID, job.OrderID, job.PublicOrderID,
		job.Customer.Name, job.Customer.Email, job.Customer.Phone,
		job.FileURLs, options, job.EstimatedDuration, job.Status,
	).Scan(&created.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			existing, err := r.GetByOrderID(ctx, job.OrderID)
			if err != nil {
				return nil, false, err
			}
			return existing, false, nil
		}
		return nil, false, err
	}
	return &created, true, nil
}
