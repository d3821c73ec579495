package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	domainErrors "github.com/polkiloo/printdesk/internal/domain/errors"
	"github.com/polkiloo/printdesk/internal/domain/model"
)

type orderRepository struct {
	storage *Storage
}

const orderColumns = `id, public_id, COALESCE(gateway_order_id, ''), COALESCE(gateway_payment_id, ''),
    payment_status, order_status, order_type, customer_name, customer_email, customer_phone,
    COALESCE(file_url, ''), COALESCE(file_name, ''), file_urls, file_names, printing_options,
    amount, currency, created_at, updated_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var (
		o       model.Order
		options []byte
	)
	err := row.Scan(
		&o.ID, &o.PublicID, &o.GatewayOrderID, &o.GatewayPaymentID,
		&o.PaymentStatus, &o.Status, &o.Type,
		&o.Customer.Name, &o.Customer.Email, &o.Customer.Phone,
		&o.FileURL, &o.FileName, &o.FileURLs, &o.FileNames, &options,
		&o.Amount, &o.Currency, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(options) > 0 {
		if err := json.Unmarshal(options, &o.Options); err != nil {
			return nil, fmt.Errorf("decode printing options of order %d: %w", o.ID, err)
		}
	}
	o.Normalize()
	return &o, nil
}

func collectOrders(rows pgx.Rows) ([]model.Order, error) {
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func nullIfEmpty(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	order.Normalize()
	options, err := json.Marshal(order.Options)
	if err != nil {
		return nil, fmt.Errorf("encode printing options: %w", err)
	}

	query := `INSERT INTO orders (public_id, order_type, customer_name, customer_email, customer_phone,
                  file_url, file_name, file_urls, file_names, printing_options, amount, currency)
              VALUES ('PRN-' || to_char(NOW(), 'YYYYMMDD') || '-' || lpad(nextval('order_number_seq')::text, 6, '0'),
                  $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
              RETURNING ` + orderColumns

	fileURLs := order.FileURLs
	if fileURLs == nil {
		fileURLs = []string{}
	}
	fileNames := order.FileNames
	if fileNames == nil {
		fileNames = []string{}
	}

	return scanOrder(r.storage.pool.QueryRow(ctx, query,
		order.Type, order.Customer.Name, order.Customer.Email, order.Customer.Phone,
		nullIfEmpty(order.FileURL), nullIfEmpty(order.FileName), fileURLs, fileNames, options,
		order.Amount, order.Currency,
	))
}

func (r *orderRepository) getOne(ctx context.Context, where string, arg any) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE ` + where
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	return r.getOne(ctx, `id=$1`, id)
}

func (r *orderRepository) GetByPublicID(ctx context.Context, publicID string) (*model.Order, error) {
	return r.getOne(ctx, `public_id=$1`, publicID)
}

func (r *orderRepository) GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*model.Order, error) {
	return r.getOne(ctx, `gateway_order_id=$1`, gatewayOrderID)
}

func (r *orderRepository) AttachGatewayOrder(ctx context.Context, id int64, gatewayOrderID string) error {
	const query = `UPDATE orders SET gateway_order_id=$2, updated_at=NOW()
                   WHERE id=$1 AND (gateway_order_id IS NULL OR gateway_order_id=$2)`
	tag, err := r.storage.pool.Exec(ctx, query, id, gatewayOrderID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domainErrors.ErrAlreadyExists
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return fmt.Errorf("order %d already linked to another gateway order: %w", id, domainErrors.ErrAlreadyExists)
	}
	return nil
}

func (r *orderRepository) MarkPaid(ctx context.Context, gatewayOrderID, gatewayPaymentID string) (*model.Order, bool, error) {
	query := `UPDATE orders
              SET payment_status='completed',
                  gateway_payment_id=$2,
                  order_status=CASE WHEN order_status='cancelled' THEN order_status ELSE 'pending' END,
                  updated_at=NOW()
              WHERE gateway_order_id=$1 AND payment_status <> 'completed'
              RETURNING ` + orderColumns
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, gatewayOrderID, gatewayPaymentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return order, true, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id int64, expected, next model.OrderStatus) (*model.Order, error) {
	query := `UPDATE orders SET order_status=$3, updated_at=NOW()
              WHERE id=$1 AND order_status=$2
              RETURNING ` + orderColumns
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, id, expected, next))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if _, err := r.GetByID(ctx, id); err != nil {
				return nil, err
			}
			return nil, domainErrors.ErrStatusConflict
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) Cancel(ctx context.Context, id int64) (*model.Order, error) {
	query := `UPDATE orders SET order_status='cancelled', updated_at=NOW()
              WHERE id=$1 AND payment_status <> 'completed' AND order_status NOT IN ('delivered', 'cancelled')
              RETURNING ` + orderColumns
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			current, err := r.GetByID(ctx, id)
			if err != nil {
				return nil, err
			}
			if current.IsPaid() {
				return nil, domainErrors.ErrCannotCancelPaid
			}
			return nil, domainErrors.ErrInvalidTransition
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.storage.pool.Exec(ctx, `DELETE FROM orders WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *orderRepository) SelectAwaitingPayment(ctx context.Context, limit int, window time.Duration) ([]model.Order, error) {
	selectQuery := `SELECT ` + orderColumns + `
                    FROM orders
                    WHERE payment_status IN ('pending', 'failed')
                      AND gateway_order_id IS NOT NULL
                      AND created_at > $2
                    ORDER BY last_polled_at NULLS FIRST, id
                    LIMIT $1
                    FOR UPDATE SKIP LOCKED`
	cutoff := time.Now().Add(-window)

	var orders []model.Order
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, selectQuery, limit, cutoff)
		if err != nil {
			return err
		}
		orders, err = collectOrders(rows)
		if err != nil {
			return err
		}
		if len(orders) == 0 {
			return nil
		}

		ids := make([]int64, len(orders))
		for i := range orders {
			ids[i] = orders[i].ID
		}
		_, err = tx.Exec(ctx, `UPDATE orders SET last_polled_at=NOW() WHERE id = ANY($1)`, ids)
		return err
	})
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) ListPaidWithoutPrintJob(ctx context.Context, limit int) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + `
              FROM orders
              WHERE payment_status='completed'
                AND order_type='file'
                AND cardinality(file_urls) > 0
                AND NOT EXISTS (SELECT 1 FROM print_jobs j WHERE j.order_id = orders.id)
              ORDER BY updated_at
              LIMIT $1`
	rows, err := r.storage.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}
