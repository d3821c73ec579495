package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/polkiloo/printdesk/internal/domain/model"
	"github.com/polkiloo/printdesk/internal/usecase"
)

// SweeperFacade exposes the subset of application functionality required by the sweeper.
type SweeperFacade interface {
	OrdersAwaitingPayment(ctx context.Context, limit int, window time.Duration) ([]model.Order, error)
	PollGatewayOrder(ctx context.Context, order *model.Order) (*usecase.PollResult, error)
	RedriveFulfillment(ctx context.Context, limit int) (int, error)
}

// PaymentSweeper periodically polls the gateway for unpaid orders whose
// callback may have been lost, and re-drives fulfillment for paid orders
// missing a print job.
type PaymentSweeper struct {
	facade       SweeperFacade
	pollInterval time.Duration
	window       time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewPaymentSweeper constructs the sweeper worker pool.
func NewPaymentSweeper(facade SweeperFacade, pollInterval, window time.Duration, batchSize, workers int, logger *slog.Logger) *PaymentSweeper {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &PaymentSweeper{
		facade:       facade,
		pollInterval: pollInterval,
		window:       window,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
	}
}

// Start launches background processing. It is a no-op while already running;
// a stopped sweeper may be started again.
func (s *PaymentSweeper) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	jobs := make(chan model.Order, s.batchSize*s.workers)

	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go s.worker(runCtx, jobs)
	}

	s.wg.Add(1)
	go s.dispatch(runCtx, jobs)
}

// Stop waits for all workers to finish.
func (s *PaymentSweeper) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *PaymentSweeper) dispatch(ctx context.Context, jobs chan model.Order) {
	defer s.wg.Done()
	defer close(jobs)
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx, jobs)
		}
	}
}

func (s *PaymentSweeper) sweep(ctx context.Context, jobs chan<- model.Order) {
	orders, err := s.facade.OrdersAwaitingPayment(ctx, s.batchSize, s.window)
	if err != nil {
		s.logger.Error("select orders awaiting payment failed", slog.String("error", err.Error()))
	}
	for _, order := range orders {
		select {
		case <-ctx.Done():
			return
		case jobs <- order:
		}
	}

	examined, err := s.facade.RedriveFulfillment(ctx, s.batchSize)
	if err != nil {
		s.logger.Error("fulfillment re-drive failed", slog.String("error", err.Error()))
		return
	}
	if examined > 0 {
		s.logger.Info("fulfillment re-driven", slog.Int("orders", examined))
	}
}

func (s *PaymentSweeper) worker(ctx context.Context, jobs <-chan model.Order) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case order, ok := <-jobs:
			if !ok {
				return
			}
			s.handleOrder(ctx, order)
		}
	}
}

func (s *PaymentSweeper) handleOrder(ctx context.Context, order model.Order) {
	res, err := s.facade.PollGatewayOrder(ctx, &order)
	if err != nil {
		s.logger.Error("payment poll failed",
			slog.String("order", order.PublicID),
			slog.String("gateway_order", order.GatewayOrderID),
			slog.String("error", err.Error()),
		)
		return
	}
	if res.OrderUpdated {
		s.logger.Info("payment recovered by sweeper", slog.String("order", order.PublicID))
	}
}
