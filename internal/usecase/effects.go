package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/polkiloo/printdesk/internal/adapter/notify"
	domainErrors "github.com/polkiloo/printdesk/internal/domain/errors"
	"github.com/polkiloo/printdesk/internal/domain/model"
	"github.com/polkiloo/printdesk/internal/domain/repository"
	"github.com/polkiloo/printdesk/internal/telemetry"
)

// SideEffect is work triggered by a payment completion. Implementations must
// be idempotent: the sweeper may run them again for the same order.
type SideEffect interface {
	Name() string
	Apply(ctx context.Context, order *model.Order) error
}

// PrintJobEffect creates the print job of a paid file order.
type PrintJobEffect struct {
	jobs    repository.PrintJobRepository
	metrics *telemetry.Metrics
	logger  *slog.Logger
}

// NewPrintJobEffect constructs PrintJobEffect.
func NewPrintJobEffect(jobs repository.PrintJobRepository, metrics *telemetry.Metrics, logger *slog.Logger) *PrintJobEffect {
	return &PrintJobEffect{jobs: jobs, metrics: metrics, logger: logger}
}

func (e *PrintJobEffect) Name() string { return "print_job" }

// Apply creates a job unless the order needs none or already has one.
func (e *PrintJobEffect) Apply(ctx context.Context, order *model.Order) error {
	if !order.NeedsPrintJob() {
		return nil
	}

	if _, err := e.jobs.GetByOrderID(ctx, order.ID); err == nil {
		return nil
	} else if !errors.Is(err, domainErrors.ErrNotFound) {
		return fmt.Errorf("lookup print job for order %d: %w", order.ID, err)
	}

	_, minutes := EstimateDuration(order.Options)
	job, created, err := e.jobs.CreateIfAbsent(ctx, &model.PrintJob{
		ID:                uuid.NewString(),
		OrderID:           order.ID,
		PublicOrderID:     order.PublicID,
		Customer:          order.Customer,
		FileURLs:          append([]string(nil), order.FileURLs...),
		Options:           order.Options,
		EstimatedDuration: minutes,
		Status:            model.PrintJobStatusPending,
	})
	if err != nil {
		return fmt.Errorf("create print job for order %d: %w", order.ID, err)
	}
	if created {
		e.metrics.RecordPrintJobCreated(ctx)
		e.logger.Info("print job created",
			slog.String("order", order.PublicID),
			slog.String("job_id", job.ID),
			slog.Int("estimated_minutes", job.EstimatedDuration),
		)
	}
	return nil
}

// NotificationEffect publishes the order-paid event.
type NotificationEffect struct {
	dispatcher notify.Dispatcher
	now        func() time.Time
}

// NewNotificationEffect constructs NotificationEffect.
func NewNotificationEffect(dispatcher notify.Dispatcher) *NotificationEffect {
	return &NotificationEffect{dispatcher: dispatcher, now: time.Now}
}

func (e *NotificationEffect) Name() string { return "notification" }

func (e *NotificationEffect) Apply(ctx context.Context, order *model.Order) error {
	if err := e.dispatcher.OrderPaid(ctx, notify.NewOrderPaidEvent(order, e.now())); err != nil {
		return fmt.Errorf("dispatch order paid event for %s: %w", order.PublicID, err)
	}
	return nil
}
