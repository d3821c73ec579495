package usecase

import (
	"context"
	"fmt"
	"log/slog"

	domainErrors "github.com/polkiloo/printdesk/internal/domain/errors"
	"github.com/polkiloo/printdesk/internal/domain/model"
	"github.com/polkiloo/printdesk/internal/domain/repository"
	"github.com/polkiloo/printdesk/internal/telemetry"
)

// SignatureVerifier checks gateway callback signatures.
type SignatureVerifier interface {
	Verify(gatewayOrderID, gatewayPaymentID, signature string) bool
}

// Reconciliation outcomes reported to metrics.
const (
	outcomeCompleted = "completed"
	outcomeReplay    = "replay"
	outcomeLostRace  = "already_applied"
	outcomePending   = "pending"
	outcomeFailed    = "failed"
	outcomeRejected  = "rejected"
)

// PollResult reports what a status poll observed.
type PollResult struct {
	Order         *model.Order
	PaymentStatus model.PaymentOutcome
	OrderUpdated  bool
}

// candidatePayment is a payment that the gateway claims captured funds for an order.
type candidatePayment struct {
	id       string
	amount   int64
	currency string
	// amountKnown is false on the callback path, which carries no amount.
	amountKnown bool
}

// ReconcileUseCase applies payment observations from the gateway callback and
// from status polling. Both paths converge on a single conditional write, so
// a payment completes an order at most once no matter how many observers race.
type ReconcileUseCase struct {
	orders   repository.OrderRepository
	verifier SignatureVerifier
	fetcher  *StatusFetcher
	printJob *PrintJobEffect
	effects  []SideEffect
	metrics  *telemetry.Metrics
	logger   *slog.Logger
}

// NewReconcileUseCase constructs ReconcileUseCase. Side effects run in the
// order print job, notification.
func NewReconcileUseCase(
	orders repository.OrderRepository,
	verifier SignatureVerifier,
	fetcher *StatusFetcher,
	printJob *PrintJobEffect,
	notification *NotificationEffect,
	metrics *telemetry.Metrics,
	logger *slog.Logger,
) *ReconcileUseCase {
	return &ReconcileUseCase{
		orders:   orders,
		verifier: verifier,
		fetcher:  fetcher,
		printJob: printJob,
		effects:  []SideEffect{printJob, notification},
		metrics:  metrics,
		logger:   logger,
	}
}

// HandleCallback applies a signed payment notification. The signature is
// checked before anything is read or written.
func (u *ReconcileUseCase) HandleCallback(ctx context.Context, gatewayOrderID, gatewayPaymentID, signature string) (*model.Order, error) {
	source := string(model.PaymentSourceCallback)
	if !u.verifier.Verify(gatewayOrderID, gatewayPaymentID, signature) {
		u.metrics.RecordReconciled(ctx, source, outcomeRejected)
		u.logger.Warn("payment callback signature rejected",
			slog.String("gateway_order_id", gatewayOrderID),
			slog.String("gateway_payment_id", gatewayPaymentID),
		)
		return nil, domainErrors.ErrInvalidSignature
	}

	order, err := u.orders.GetByGatewayOrderID(ctx, gatewayOrderID)
	if err != nil {
		return nil, fmt.Errorf("gateway order %s: %w", gatewayOrderID, err)
	}

	order, _, err = u.apply(ctx, model.PaymentSourceCallback, order, candidatePayment{id: gatewayPaymentID})
	return order, err
}

// PollOrder asks the gateway for the payment status of the order with the given id.
func (u *ReconcileUseCase) PollOrder(ctx context.Context, orderID int64) (*PollResult, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.GatewayOrderID == "" {
		return nil, domainErrors.ErrNoGatewayOrder
	}
	return u.Poll(ctx, order)
}

// Poll reconciles order against the payment attempts listed by the gateway.
// Failed attempts never change the stored payment status: a later attempt
// against the same gateway order may still succeed. Store errors while
// recording a capture are reported as pending so the next poll retries.
func (u *ReconcileUseCase) Poll(ctx context.Context, order *model.Order) (*PollResult, error) {
	source := string(model.PaymentSourcePoll)
	if order.IsPaid() {
		return &PollResult{Order: order, PaymentStatus: model.PaymentOutcomeCompleted}, nil
	}

	success, allFailed := classifyAttempts(u.fetcher.Attempts(ctx, order.GatewayOrderID))
	if success == nil {
		outcome := model.PaymentOutcomePending
		if allFailed {
			outcome = model.PaymentOutcomeFailed
			u.metrics.RecordReconciled(ctx, source, outcomeFailed)
		} else {
			u.metrics.RecordReconciled(ctx, source, outcomePending)
		}
		return &PollResult{Order: order, PaymentStatus: outcome}, nil
	}

	updated, applied, err := u.apply(ctx, model.PaymentSourcePoll, order, candidatePayment{
		id:          success.ID,
		amount:      success.Amount,
		currency:    success.Currency,
		amountKnown: true,
	})
	if err != nil {
		u.metrics.RecordReconciled(ctx, source, outcomePending)
		u.logger.Warn("payment write inconclusive, order left pending",
			slog.String("order", order.PublicID),
			slog.String("gateway_payment_id", success.ID),
			slog.String("error", err.Error()),
		)
		return &PollResult{Order: order, PaymentStatus: model.PaymentOutcomePending}, nil
	}
	return &PollResult{Order: updated, PaymentStatus: model.PaymentOutcomeCompleted, OrderUpdated: applied}, nil
}

// apply records payment as the completion of order. It reports whether this
// call performed the transition.
func (u *ReconcileUseCase) apply(ctx context.Context, src model.PaymentSource, order *model.Order, payment candidatePayment) (*model.Order, bool, error) {
	source := string(src)
	if order.IsPaid() && order.GatewayPaymentID == payment.id {
		u.metrics.RecordReconciled(ctx, source, outcomeReplay)
		return order, false, nil
	}

	updated, won, err := u.orders.MarkPaid(ctx, order.GatewayOrderID, payment.id)
	if err != nil {
		return nil, false, fmt.Errorf("mark order %s paid: %w", order.PublicID, err)
	}
	if !won {
		u.metrics.RecordReconciled(ctx, source, outcomeLostRace)
		current, err := u.orders.GetByGatewayOrderID(ctx, order.GatewayOrderID)
		if err != nil {
			// The payment is already recorded; only the reload failed.
			u.logger.Warn("reload of completed order failed",
				slog.String("order", order.PublicID),
				slog.String("error", err.Error()),
			)
			stale := *order
			stale.PaymentStatus = model.PaymentStatusCompleted
			return &stale, false, nil
		}
		if current.GatewayPaymentID != payment.id {
			u.logger.Warn("order already completed by another payment",
				slog.String("order", current.PublicID),
				slog.String("stored_payment_id", current.GatewayPaymentID),
				slog.String("gateway_payment_id", payment.id),
			)
		}
		return current, false, nil
	}

	u.metrics.RecordReconciled(ctx, source, outcomeCompleted)
	u.logger.Info("payment completed",
		slog.String("order", updated.PublicID),
		slog.String("gateway_payment_id", payment.id),
		slog.String("source", source),
	)

	if payment.amountKnown && (payment.amount != updated.Amount || (payment.currency != "" && payment.currency != updated.Currency)) {
		u.metrics.RecordAmountMismatch(ctx, source)
		u.logger.Warn("captured amount differs from order amount",
			slog.String("order", updated.PublicID),
			slog.Int64("order_amount", updated.Amount),
			slog.String("order_currency", updated.Currency),
			slog.Int64("captured_amount", payment.amount),
			slog.String("captured_currency", payment.currency),
		)
	}

	if updated.Status == model.OrderStatusCancelled {
		u.logger.Warn("payment captured for cancelled order, refund required",
			slog.String("order", updated.PublicID),
			slog.String("gateway_payment_id", payment.id),
		)
	}

	u.runEffects(ctx, updated)
	return updated, true, nil
}

func (u *ReconcileUseCase) runEffects(ctx context.Context, order *model.Order) {
	for _, effect := range u.effects {
		if err := effect.Apply(ctx, order); err != nil {
			u.metrics.RecordSideEffectFailure(ctx, effect.Name())
			u.logger.Error("post-payment side effect failed",
				slog.String("effect", effect.Name()),
				slog.String("order", order.PublicID),
				slog.String("error", err.Error()),
			)
		}
	}
}

// RedriveFulfillment creates missing print jobs for paid orders. It returns
// the number of orders that were examined.
func (u *ReconcileUseCase) RedriveFulfillment(ctx context.Context, limit int) (int, error) {
	orders, err := u.orders.ListPaidWithoutPrintJob(ctx, limit)
	if err != nil {
		return 0, err
	}
	for i := range orders {
		if err := u.printJob.Apply(ctx, &orders[i]); err != nil {
			u.metrics.RecordSideEffectFailure(ctx, u.printJob.Name())
			u.logger.Error("print job re-drive failed",
				slog.String("order", orders[i].PublicID),
				slog.String("error", err.Error()),
			)
		}
	}
	return len(orders), nil
}
