package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/polkiloo/printdesk/internal/domain/model"
)

// ErrOrderUnknown indicates the gateway has no order with the requested id.
var ErrOrderUnknown = errors.New("gateway order not found")

// ErrUnauthorized indicates the configured key pair was rejected.
var ErrUnauthorized = errors.New("gateway rejected credentials")

// TooManyRequestsError represents rate limiting signal from the gateway.
type TooManyRequestsError struct {
	RetryAfter time.Duration
}

func (e TooManyRequestsError) Error() string {
	return fmt.Sprintf("too many requests, retry after %s", e.RetryAfter)
}

// Client exposes the gateway operations the storefront relies on.
type Client interface {
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*model.GatewayOrder, error)
	FetchPayments(ctx context.Context, gatewayOrderID string) ([]model.PaymentAttempt, error)
	KeyID() string
}

// CreateOrderRequest describes a checkout attempt registered with the gateway.
type CreateOrderRequest struct {
	Amount   int64
	Currency string
	Receipt  string
	Notes    map[string]string
}

// Options tune the HTTP client.
type Options struct {
	KeyID     string
	KeySecret string
	Timeout   time.Duration
	RPS       float64
	Burst     int
}

// HTTPClient implements Client via the gateway REST API.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	limiter    *rate.Limiter
	keyID      string
	keySecret  string
	logger     *slog.Logger
}

type orderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type orderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type paymentResponse struct {
	ID               string `json:"id"`
	Amount           int64  `json:"amount"`
	Currency         string `json:"currency"`
	Status           string `json:"status"`
	Captured         bool   `json:"captured"`
	Method           string `json:"method"`
	ErrorCode        string `json:"error_code"`
	ErrorDescription string `json:"error_description"`
	CreatedAt        int64  `json:"created_at"`
}

type paymentsResponse struct {
	Count int               `json:"count"`
	Items []paymentResponse `json:"items"`
}

// NewHTTPClient creates a gateway client with bounded timeout and client-side rate limit.
func NewHTTPClient(baseURL string, opts Options, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse gateway url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("gateway url must be absolute")
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	limit := rate.Inf
	if opts.RPS > 0 {
		limit = rate.Limit(opts.RPS)
	}
	burst := opts.Burst
	if burst <= 0 {
		burst = 1
	}

	return &HTTPClient{
		baseURL:    parsed,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, burst),
		keyID:      opts.KeyID,
		keySecret:  opts.KeySecret,
		logger:     logger,
	}, nil
}

// KeyID returns the public key id handed to the checkout widget.
func (c *HTTPClient) KeyID() string {
	return c.keyID
}

// CreateOrder registers a new gateway order for the given amount in minor units.
func (c *HTTPClient) CreateOrder(ctx context.Context, in CreateOrderRequest) (*model.GatewayOrder, error) {
	body, err := json.Marshal(orderRequest{
		Amount:   in.Amount,
		Currency: in.Currency,
		Receipt:  in.Receipt,
		Notes:    in.Notes,
	})
	if err != nil {
		return nil, err
	}

	var data orderResponse
	if err := c.do(ctx, http.MethodPost, "/v1/orders", bytes.NewReader(body), &data); err != nil {
		return nil, err
	}
	if data.ID == "" {
		return nil, fmt.Errorf("gateway returned order without id")
	}

	return &model.GatewayOrder{
		ID:       data.ID,
		Amount:   data.Amount,
		Currency: data.Currency,
		Receipt:  data.Receipt,
		Status:   data.Status,
	}, nil
}

// FetchPayments lists payment attempts recorded against a gateway order.
func (c *HTTPClient) FetchPayments(ctx context.Context, gatewayOrderID string) ([]model.PaymentAttempt, error) {
	if gatewayOrderID == "" {
		return nil, ErrOrderUnknown
	}

	var data paymentsResponse
	p := path.Join("/v1/orders", gatewayOrderID, "payments")
	if err := c.do(ctx, http.MethodGet, p, nil, &data); err != nil {
		return nil, err
	}

	attempts := make([]model.PaymentAttempt, 0, len(data.Items))
	for _, item := range data.Items {
		attempt := model.PaymentAttempt{
			ID:               item.ID,
			Amount:           item.Amount,
			Currency:         item.Currency,
			Status:           model.GatewayPaymentStatus(item.Status),
			Captured:         item.Captured,
			Method:           item.Method,
			ErrorCode:        item.ErrorCode,
			ErrorDescription: item.ErrorDescription,
		}
		if item.CreatedAt > 0 {
			attempt.CreatedAt = time.Unix(item.CreatedAt, 0).UTC()
		}
		attempts = append(attempts, attempt)
	}
	return attempts, nil
}

func (c *HTTPClient) do(ctx context.Context, method, p string, body io.Reader, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("gateway rate limit: %w", err)
	}

	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, p)

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		payload, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(payload, out); err != nil {
			return fmt.Errorf("decode gateway response: %w", err)
		}
		return nil
	case http.StatusNotFound:
		return ErrOrderUnknown
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusTooManyRequests:
		return TooManyRequestsError{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	default:
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("gateway request failed",
			slog.String("method", method),
			slog.String("path", p),
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(payload)),
		)
		return fmt.Errorf("gateway error: %s", resp.Status)
	}
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 5 * time.Second
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}
	return 5 * time.Second
}
