//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	testpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	domainErrors "github.com/polkiloo/printdesk/internal/domain/errors"
	"github.com/polkiloo/printdesk/internal/domain/model"
	"github.com/polkiloo/printdesk/internal/storage/postgres"
)

func setupStorage(t *testing.T) *postgres.Storage {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := testpostgres.Run(ctx,
		"postgres:16-alpine",
		testpostgres.WithDatabase("printdesk"),
		testpostgres.WithUsername("test"),
		testpostgres.WithPassword("test"),
		testpostgres.BasicWaitStrategies(),
		testpostgres.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").WithOccurrence(2)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	storage, err := postgres.New(ctx, connStr, slog.New(slog.NewJSONHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("failed to open storage: %v", err)
	}
	t.Cleanup(storage.Close)
	return storage
}

func newFileOrder() *model.Order {
	return &model.Order{
		Type:      model.OrderTypeFile,
		Customer:  model.Customer{Name: "Asha", Email: "asha@example.com", Phone: "+911234567890"},
		FileURLs:  []string{"https://files.local/a.pdf", "https://files.local/b.pdf"},
		FileNames: []string{"Thesis"},
		Options:   model.PrintingOptions{PageSize: "A4", ColorMode: model.ColorModeBW, Copies: 1},
		Amount:    14950,
		Currency:  "INR",
	}
}

func TestOrderLifecycle(t *testing.T) {
	storage := setupStorage(t)
	orders := storage.Orders()
	ctx := context.Background()

	first, err := orders.Create(ctx, newFileOrder())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := orders.Create(ctx, newFileOrder())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if first.PublicID == second.PublicID {
		t.Fatalf("public ids must be unique, both %s", first.PublicID)
	}
	if len(first.FileNames) != 2 || first.FileNames[1] != "Document 2" {
		t.Fatalf("expected padded names, got %v", first.FileNames)
	}

	if err := orders.AttachGatewayOrder(ctx, first.ID, "go_first"); err != nil {
		t.Fatalf("attach: %v", err)
	}
	if err := orders.AttachGatewayOrder(ctx, second.ID, "go_first"); !errors.Is(err, domainErrors.ErrAlreadyExists) {
		t.Fatalf("expected duplicate gateway order rejected, got %v", err)
	}

	awaiting, err := orders.SelectAwaitingPayment(ctx, 10, time.Hour)
	if err != nil || len(awaiting) != 1 || awaiting[0].ID != first.ID {
		t.Fatalf("unexpected awaiting batch %v err=%v", awaiting, err)
	}

	if _, err := orders.UpdateStatus(ctx, first.ID, model.OrderStatusPending, model.OrderStatusPrinting); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if _, err := orders.UpdateStatus(ctx, first.ID, model.OrderStatusPending, model.OrderStatusDispatched); !errors.Is(err, domainErrors.ErrStatusConflict) {
		t.Fatalf("expected stale transition to conflict, got %v", err)
	}

	if _, err := orders.Cancel(ctx, second.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if err := orders.Delete(ctx, second.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := orders.GetByID(ctx, second.ID); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected deleted order to be gone, got %v", err)
	}
}

func TestConcurrentMarkPaidHasSingleWinner(t *testing.T) {
	storage := setupStorage(t)
	orders := storage.Orders()
	ctx := context.Background()

	order, err := orders.Create(ctx, newFileOrder())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := orders.AttachGatewayOrder(ctx, order.ID, "go_race"); err != nil {
		t.Fatalf("attach: %v", err)
	}

	const callers = 8
	var (
		wg   sync.WaitGroup
		wins atomic.Int32
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, won, err := orders.MarkPaid(ctx, "go_race", "pay_race")
			if err != nil {
				t.Errorf("mark paid: %v", err)
				return
			}
			if won {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	if wins.Load() != 1 {
		t.Fatalf("expected exactly one winner, got %d", wins.Load())
	}

	stored, err := orders.GetByID(ctx, order.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !stored.IsPaid() || stored.GatewayPaymentID != "pay_race" {
		t.Fatalf("unexpected stored order %+v", stored)
	}

	pending, err := orders.ListPaidWithoutPrintJob(ctx, 10)
	if err != nil || len(pending) != 1 {
		t.Fatalf("expected paid order awaiting a print job, got %v err=%v", pending, err)
	}
}

func TestConcurrentPrintJobCreation(t *testing.T) {
	storage := setupStorage(t)
	ctx := context.Background()

	order, err := storage.Orders().Create(ctx, newFileOrder())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	const callers = 8
	var (
		wg      sync.WaitGroup
		created atomic.Int32
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, isNew, err := storage.PrintJobs().CreateIfAbsent(ctx, &model.PrintJob{
				ID:            uuid.NewString(),
				OrderID:       order.ID,
				PublicOrderID: order.PublicID,
				Customer:      order.Customer,
				FileURLs:      order.FileURLs,
				Options:       order.Options,
				Status:        model.PrintJobStatusPending,
			})
			if err != nil {
				t.Errorf("create print job: %v", err)
				return
			}
			if isNew {
				created.Add(1)
			}
		}()
	}
	wg.Wait()

	if created.Load() != 1 {
		t.Fatalf("expected exactly one print job, got %d", created.Load())
	}
	if _, err := storage.PrintJobs().GetByOrderID(ctx, order.ID); err != nil {
		t.Fatalf("get print job: %v", err)
	}
}
