package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/printdesk/internal/config"
	testhelpers "github.com/polkiloo/printdesk/internal/test"
	"github.com/polkiloo/printdesk/internal/test/facadestub"
	"github.com/polkiloo/printdesk/internal/worker"
)

func newTestSweeper() *worker.PaymentSweeper {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return worker.NewPaymentSweeper(&facadestub.SweeperFacadeStub{}, 10*time.Millisecond, time.Hour, 1, 1, logger)
}

func TestNewHTTPServer(t *testing.T) {
	cfg := &config.Config{RunAddress: ":9999"}
	router := gin.New()
	server := newHTTPServer(serverParams{Config: cfg, Router: router})
	if server.Addr != ":9999" {
		t.Fatalf("expected address :9999, got %q", server.Addr)
	}
	if server.Handler != router {
		t.Fatalf("expected handler to be router")
	}
}

func TestNewPaymentSweeperUsesConfig(t *testing.T) {
	sweeper := newPaymentSweeper(workerParams{
		Facade: &PrintdeskFacade{},
		Config: &config.Config{PaymentPollInterval: 15 * time.Second, PaymentSweepWindow: time.Hour, MaxOrdersBatch: 3, WorkerPoolSize: 4},
		Logger: slog.New(slog.NewJSONHandler(io.Discard, nil)),
	})
	if sweeper == nil {
		t.Fatal("expected payment sweeper instance")
	}
}

func TestRegisterLifecycleStartStop(t *testing.T) {
	recorder := &testhelpers.LifecycleRecorder{}
	shutdowner := &testhelpers.ShutdownerStub{Called: make(chan struct{}, 1)}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	server := &http.Server{Addr: "127.0.0.1:0", Handler: http.NewServeMux()}
	fix := newFacadeFixture(t)
	cfg := &config.Config{ShutdownTimeout: 100 * time.Millisecond, AdminLogin: "admin", AdminPassword: "secret"}

	registerLifecycle(lifecycleParams{
		Lifecycle:  recorder,
		Shutdowner: shutdowner,
		Logger:     logger,
		Server:     server,
		Sweeper:    newTestSweeper(),
		Facade:     fix.facade,
		Config:     cfg,
	})

	if len(recorder.Hooks) != 1 {
		t.Fatalf("expected one hook registered, got %d", len(recorder.Hooks))
	}

	hook := recorder.Hooks[0]
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := hook.OnStart(ctx); err != nil {
		t.Fatalf("on start failed: %v", err)
	}
	if _, err := fix.admins.GetByLogin(ctx, "admin"); err != nil {
		t.Fatalf("expected bootstrap admin to be created: %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = hook.OnStop(context.Background())
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected on stop to finish")
	}
}

func TestRegisterLifecycleFailsWhenAdminBootstrapFails(t *testing.T) {
	recorder := &testhelpers.LifecycleRecorder{}
	fix := newFacadeFixture(t)
	fix.admins.Err = errors.New("db down")

	registerLifecycle(lifecycleParams{
		Lifecycle:  recorder,
		Shutdowner: &testhelpers.ShutdownerStub{},
		Logger:     slog.New(slog.NewJSONHandler(io.Discard, nil)),
		Server:     &http.Server{Addr: "127.0.0.1:0"},
		Sweeper:    newTestSweeper(),
		Facade:     fix.facade,
		Config:     &config.Config{AdminLogin: "admin", AdminPassword: "secret"},
	})

	if err := recorder.Hooks[0].OnStart(context.Background()); err == nil {
		t.Fatal("expected start to fail when admin cannot be bootstrapped")
	}
}

func TestRegisterLifecycleShutdownOnServerError(t *testing.T) {
	recorder := &testhelpers.LifecycleRecorder{}
	shutdowner := &testhelpers.ShutdownerStub{Called: make(chan struct{}, 1)}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	server := &http.Server{Addr: "bad addr"}

	registerLifecycle(lifecycleParams{
		Lifecycle:  recorder,
		Shutdowner: shutdowner,
		Logger:     logger,
		Server:     server,
		Sweeper:    newTestSweeper(),
		Facade:     newFacadeFixture(t).facade,
		Config:     &config.Config{ShutdownTimeout: time.Second},
	})

	hook := recorder.Hooks[0]
	if err := hook.OnStart(context.Background()); err != nil {
		t.Fatalf("on start returned error: %v", err)
	}

	select {
	case <-shutdowner.Called:
	case <-time.After(time.Second):
		t.Fatal("expected shutdown to be triggered on server error")
	}

	_ = hook.OnStop(context.Background())
}

func TestLifecycleRecorderAppend(t *testing.T) {
	recorder := &testhelpers.LifecycleRecorder{}
	hook := fx.Hook{}
	recorder.Append(hook)
	if len(recorder.Hooks) != 1 {
		t.Fatalf("expected hook to be appended")
	}
}
