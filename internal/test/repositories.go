package test

import (
	"context"
	"fmt"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/printdesk/internal/domain/errors"
	"github.com/polkiloo/printdesk/internal/domain/model"
	"github.com/polkiloo/printdesk/internal/domain/repository"
)

// AdminRepositoryStub stores admins in-memory for tests.
type AdminRepositoryStub struct {
	Admins map[string]*model.Admin
	ByID   map[int64]*model.Admin
	Next   int64
	Err    error
}

// NewAdminRepositoryStub constructs stub repository with initialized maps.
func NewAdminRepositoryStub() *AdminRepositoryStub {
	return &AdminRepositoryStub{
		Admins: make(map[string]*model.Admin),
		ByID:   make(map[int64]*model.Admin),
		Next:   1,
	}
}

// Create registers admin unless already exists or stub has explicit error.
func (s *AdminRepositoryStub) Create(ctx context.Context, login, passwordHash string) (*model.Admin, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if _, exists := s.Admins[login]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	admin := &model.Admin{ID: s.Next, Login: login, PasswordHash: passwordHash, CreatedAt: time.Now()}
	s.Next++
	s.Admins[login] = admin
	s.ByID[admin.ID] = admin
	return admin, nil
}

// GetByLogin fetches admin by login or returns not found.
func (s *AdminRepositoryStub) GetByLogin(ctx context.Context, login string) (*model.Admin, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if admin, ok := s.Admins[login]; ok {
		return admin, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches admin by identifier or returns not found.
func (s *AdminRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Admin, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if admin, ok := s.ByID[id]; ok {
		return admin, nil
	}
	return nil, domainErrors.ErrNotFound
}

// OrderRepositoryStub keeps orders in memory and mirrors the conditional
// writes of the SQL repository under a single mutex.
type OrderRepositoryStub struct {
	mu     sync.Mutex
	orders map[int64]*model.Order
	next   int64

	// Err, when set, is returned by every operation.
	Err error
	// LookupErr, when set, is returned by GetByGatewayOrderID.
	LookupErr error
	// MarkPaidCalls counts conditional payment writes.
	MarkPaidCalls int
	// MarkPaidWins counts conditional payment writes that changed a row.
	MarkPaidWins int
	// Polled records order ids handed out by SelectAwaitingPayment.
	Polled []int64
}

// NewOrderRepositoryStub constructs an empty in-memory order repository.
func NewOrderRepositoryStub() *OrderRepositoryStub {
	return &OrderRepositoryStub{orders: make(map[int64]*model.Order), next: 1}
}

func (s *OrderRepositoryStub) snapshot(o *model.Order) *model.Order {
	cp := *o
	cp.FileURLs = append([]string(nil), o.FileURLs...)
	cp.FileNames = append([]string(nil), o.FileNames...)
	cp.Normalize()
	return &cp
}

// Put stores order as-is, assigning an id when missing.
func (s *OrderRepositoryStub) Put(order model.Order) *model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	if order.ID == 0 {
		order.ID = s.next
	}
	if order.ID >= s.next {
		s.next = order.ID + 1
	}
	if order.PaymentStatus == "" {
		order.PaymentStatus = model.PaymentStatusPending
	}
	if order.Status == "" {
		order.Status = model.OrderStatusPending
	}
	if order.PublicID == "" {
		order.PublicID = fmt.Sprintf("PRN-20250101-%06d", order.ID)
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	order.UpdatedAt = order.CreatedAt
	stored := order
	s.orders[order.ID] = &stored
	return s.snapshot(&stored)
}

func (s *OrderRepositoryStub) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	o := *order
	o.ID = 0
	o.PaymentStatus = model.PaymentStatusPending
	o.Status = model.OrderStatusPending
	o.Normalize()
	return s.Put(o), nil
}

func (s *OrderRepositoryStub) find(match func(*model.Order) bool) (*model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if match(o) {
			return s.snapshot(o), nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

func (s *OrderRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	return s.find(func(o *model.Order) bool { return o.ID == id })
}

func (s *OrderRepositoryStub) GetByPublicID(ctx context.Context, publicID string) (*model.Order, error) {
	return s.find(func(o *model.Order) bool { return o.PublicID == publicID })
}

func (s *OrderRepositoryStub) GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*model.Order, error) {
	if s.LookupErr != nil {
		return nil, s.LookupErr
	}
	return s.find(func(o *model.Order) bool { return gatewayOrderID != "" && o.GatewayOrderID == gatewayOrderID })
}

func (s *OrderRepositoryStub) AttachGatewayOrder(ctx context.Context, id int64, gatewayOrderID string) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.ID != id && o.GatewayOrderID == gatewayOrderID {
			return domainErrors.ErrAlreadyExists
		}
	}
	o, ok := s.orders[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	if o.GatewayOrderID != "" && o.GatewayOrderID != gatewayOrderID {
		return domainErrors.ErrAlreadyExists
	}
	o.GatewayOrderID = gatewayOrderID
	return nil
}

func (s *OrderRepositoryStub) MarkPaid(ctx context.Context, gatewayOrderID, gatewayPaymentID string) (*model.Order, bool, error) {
	if s.Err != nil {
		return nil, false, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.MarkPaidCalls++
	for _, o := range s.orders {
		if o.GatewayOrderID != gatewayOrderID || o.PaymentStatus == model.PaymentStatusCompleted {
			continue
		}
		o.PaymentStatus = model.PaymentStatusCompleted
		o.GatewayPaymentID = gatewayPaymentID
		if o.Status != model.OrderStatusCancelled {
			o.Status = model.OrderStatusPending
		}
		o.UpdatedAt = time.Now()
		s.MarkPaidWins++
		return s.snapshot(o), true, nil
	}
	return nil, false, nil
}

func (s *OrderRepositoryStub) UpdateStatus(ctx context.Context, id int64, expected, next model.OrderStatus) (*model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	if o.Status != expected {
		return nil, domainErrors.ErrStatusConflict
	}
	o.Status = next
	o.UpdatedAt = time.Now()
	return s.snapshot(o), nil
}

func (s *OrderRepositoryStub) Cancel(ctx context.Context, id int64) (*model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	if o.IsPaid() {
		return nil, domainErrors.ErrCannotCancelPaid
	}
	if o.Status.Terminal() {
		return nil, domainErrors.ErrInvalidTransition
	}
	o.Status = model.OrderStatusCancelled
	return s.snapshot(o), nil
}

func (s *OrderRepositoryStub) Delete(ctx context.Context, id int64) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[id]; !ok {
		return domainErrors.ErrNotFound
	}
	delete(s.orders, id)
	return nil
}

func (s *OrderRepositoryStub) SelectAwaitingPayment(ctx context.Context, limit int, window time.Duration) ([]model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := time.Now().Add(-window)
	var result []model.Order
	for id := int64(1); id < s.next && len(result) < limit; id++ {
		o, ok := s.orders[id]
		if !ok || o.IsPaid() || o.GatewayOrderID == "" || o.CreatedAt.Before(cutoff) {
			continue
		}
		result = append(result, *s.snapshot(o))
		s.Polled = append(s.Polled, id)
	}
	return result, nil
}

func (s *OrderRepositoryStub) ListPaidWithoutPrintJob(ctx context.Context, limit int) ([]model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []model.Order
	for id := int64(1); id < s.next && len(result) < limit; id++ {
		o, ok := s.orders[id]
		if !ok || !o.IsPaid() || !o.NeedsPrintJob() {
			continue
		}
		result = append(result, *s.snapshot(o))
	}
	return result, nil
}

// PrintJobRepositoryStub keeps at most one job per order in memory.
type PrintJobRepositoryStub struct {
	mu   sync.Mutex
	jobs map[int64]*model.PrintJob

	Err error
	Inserts int
}

// NewPrintJobRepositoryStub constructs an empty in-memory print job repository.
func NewPrintJobRepositoryStub() *PrintJobRepositoryStub {
	return &PrintJobRepositoryStub{jobs: make(map[int64]*model.PrintJob)}
}

// Count returns the number of stored jobs.
func (s *PrintJobRepositoryStub) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

func (s *PrintJobRepositoryStub) GetByOrderID(ctx context.Context, orderID int64) (*model.PrintJob, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.jobs[orderID]; ok {
		cp := *job
		return &cp, nil
	}
	return nil, domainErrors.ErrNotFound
}

func (s *PrintJobRepositoryStub) CreateIfAbsent(ctx context.Context, job *model.PrintJob) (*model.PrintJob, bool, error) {
	if s.Err != nil {
		return nil, false, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.jobs[job.OrderID]; ok {
		cp := *existing
		return &cp, false, nil
	}
	stored := *job
	stored.CreatedAt = time.Now()
	s.jobs[job.OrderID] = &stored
	s.Inserts++
	cp := stored
	return &cp, true, nil
}

var (
	_ repository.AdminRepository    = (*AdminRepositoryStub)(nil)
	_ repository.OrderRepository    = (*OrderRepositoryStub)(nil)
	_ repository.PrintJobRepository = (*PrintJobRepositoryStub)(nil)
)
