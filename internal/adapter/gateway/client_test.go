package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/polkiloo/printdesk/internal/domain/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewHTTPClient(srv.URL, Options{KeyID: "key_1", KeySecret: "secret_1", Timeout: time.Second}, testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return client
}

func TestNewHTTPClientValidatesURL(t *testing.T) {
	if _, err := NewHTTPClient("://bad-url", Options{}, testLogger()); err == nil {
		t.Fatal("expected error for invalid url")
	}
	if _, err := NewHTTPClient("/relative", Options{}, testLogger()); err == nil {
		t.Fatal("expected error for relative url")
	}
}

func TestCreateOrderSendsAuthenticatedRequest(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/orders" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "key_1" || pass != "secret_1" {
			t.Errorf("unexpected basic auth %q %q", user, pass)
		}
		var body orderRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body.Amount != 14950 || body.Currency != "INR" || body.Receipt != "PRN-20250101-000001" {
			t.Errorf("unexpected body %+v", body)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"go_1","amount":14950,"currency":"INR","receipt":"PRN-20250101-000001","status":"created"}`))
	})

	order, err := client.CreateOrder(context.Background(), CreateOrderRequest{
		Amount:   14950,
		Currency: "INR",
		Receipt:  "PRN-20250101-000001",
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if order.ID != "go_1" || order.Amount != 14950 || order.Status != "created" {
		t.Fatalf("unexpected order %+v", order)
	}
	if client.KeyID() != "key_1" {
		t.Fatalf("unexpected key id %q", client.KeyID())
	}
}

func TestCreateOrderRejectsMissingID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"amount":100}`))
	})
	if _, err := client.CreateOrder(context.Background(), CreateOrderRequest{Amount: 100}); err == nil {
		t.Fatal("expected error for order without id")
	}
}

func TestFetchPaymentsMapsAttempts(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/orders/go_1/payments" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"count":2,"items":[
			{"id":"pay_0","amount":14950,"currency":"INR","status":"failed","captured":false,"method":"card","error_code":"BAD_REQUEST_ERROR","error_description":"declined","created_at":1735689600},
			{"id":"pay_1","amount":14950,"currency":"INR","status":"captured","captured":true,"method":"upi","created_at":1735689700}
		]}`))
	})

	attempts, err := client.FetchPayments(context.Background(), "go_1")
	if err != nil {
		t.Fatalf("fetch payments: %v", err)
	}
	if len(attempts) != 2 {
		t.Fatalf("expected 2 attempts, got %d", len(attempts))
	}
	if !attempts[0].TerminallyFailed() || attempts[0].ErrorCode != "BAD_REQUEST_ERROR" {
		t.Fatalf("unexpected first attempt %+v", attempts[0])
	}
	if !attempts[1].Successful() || attempts[1].Method != "upi" {
		t.Fatalf("unexpected second attempt %+v", attempts[1])
	}
	if attempts[1].Status != model.GatewayPaymentCaptured {
		t.Fatalf("unexpected status %s", attempts[1].Status)
	}
	if attempts[1].CreatedAt.Unix() != 1735689700 {
		t.Fatalf("unexpected created time %v", attempts[1].CreatedAt)
	}
}

func TestFetchPaymentsEmptyOrderID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request must not be sent")
	})
	if _, err := client.FetchPayments(context.Background(), ""); !errors.Is(err, ErrOrderUnknown) {
		t.Fatalf("expected ErrOrderUnknown, got %v", err)
	}
}

func TestHTTPClientStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		wantErr    error
	}{
		{"not found", http.StatusNotFound, ErrOrderUnknown},
		{"unauthorized", http.StatusUnauthorized, ErrUnauthorized},
		{"forbidden", http.StatusForbidden, ErrUnauthorized},
		{"too many requests", http.StatusTooManyRequests, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
			})

			_, err := client.FetchPayments(context.Background(), "go_1")
			if tt.statusCode == http.StatusTooManyRequests {
				var tm TooManyRequestsError
				if !errors.As(err, &tm) {
					t.Fatalf("expected TooManyRequestsError, got %v", err)
				}
				if tm.RetryAfter != 5*time.Second {
					t.Fatalf("expected retry after 5s, got %v", tm.RetryAfter)
				}
			} else if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestHTTPClientLogsServerErrors(t *testing.T) {
	var buf strings.Builder
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, err := NewHTTPClient(srv.URL, Options{}, logger)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	if _, err := client.FetchPayments(context.Background(), "go_1"); err == nil {
		t.Fatal("expected error from server")
	}
	if !strings.Contains(buf.String(), "gateway request failed") {
		t.Fatalf("expected error log, got %q", buf.String())
	}
}

func TestHTTPClientDecodeError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	})
	if _, err := client.FetchPayments(context.Background(), "go_1"); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestHTTPClientHonoursTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer srv.Close()

	client, err := NewHTTPClient(srv.URL, Options{Timeout: 50 * time.Millisecond}, testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	if _, err := client.FetchPayments(context.Background(), "go_1"); err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestHTTPClientRateLimiterRespectsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items":[]}`))
	}))
	defer srv.Close()

	client, err := NewHTTPClient(srv.URL, Options{RPS: 0.001, Burst: 1}, testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	if _, err := client.FetchPayments(context.Background(), "go_1"); err != nil {
		t.Fatalf("first request should use the burst: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := client.FetchPayments(ctx, "go_1"); err == nil {
		t.Fatal("expected rate limiter to reject request")
	}
}

func TestParseRetryAfter(t *testing.T) {
	httpTime := time.Now().Add(2 * time.Second).UTC().Format(http.TimeFormat)

	cases := []struct {
		header string
		min    time.Duration
		max    time.Duration
	}{
		{"", 5 * time.Second, 5 * time.Second},
		{"3", 3 * time.Second, 3 * time.Second},
		{"garbage", 5 * time.Second, 5 * time.Second},
		{httpTime, 0, 3 * time.Second},
	}

	for _, tc := range cases {
		got := parseRetryAfter(tc.header)
		if got < tc.min || got > tc.max {
			t.Errorf("parseRetryAfter(%q) = %v, want between %v and %v", tc.header, got, tc.min, tc.max)
		}
	}
}
