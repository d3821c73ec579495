package router

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	pkgAuth "github.com/polkiloo/printdesk/internal/pkg/auth"
	"github.com/polkiloo/printdesk/internal/server/http/handlers"
	"github.com/polkiloo/printdesk/internal/test/facadestub"
)

func newTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	facade := facadestub.PrintdeskFacadeStub{
		AuthFacadeStub: facadestub.AuthFacadeStub{ParseFn: func(token string) (int64, error) {
			if token != "token" {
				return 0, pkgAuth.ErrInvalidToken
			}
			return 1, nil
		}},
	}
	return Setup(facade, logger)
}

func serve(engine *gin.Engine, method, path string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	return resp
}

func TestSetupPublicRoutes(t *testing.T) {
	engine := newTestEngine()
	jsonHeaders := map[string]string{"Content-Type": "application/json"}

	if resp := serve(engine, http.MethodGet, "/healthz", nil, nil); resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 for healthz, got %d", resp.Code)
	}

	callback := []byte(`{"gateway_order_id":"go_1","gateway_payment_id":"pay_1","signature":"abc"}`)
	if resp := serve(engine, http.MethodPost, "/api/payments/callback", callback, jsonHeaders); resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 for callback, got %d", resp.Code)
	}

	if resp := serve(engine, http.MethodGet, "/api/orders/PRN-20250101-000007", nil, nil); resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 for order lookup, got %d", resp.Code)
	}

	login, _ := json.Marshal(map[string]string{"login": "admin", "password": "pass"})
	if resp := serve(engine, http.MethodPost, "/api/admin/login", login, jsonHeaders); resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 for login, got %d", resp.Code)
	}
}

func TestSetupAdminRoutesRequireToken(t *testing.T) {
	engine := newTestEngine()
	auth := map[string]string{"Authorization": "Bearer token", "Content-Type": "application/json"}

	routes := []struct {
		method string
		path   string
		body   []byte
		status int
	}{
		{http.MethodGet, "/api/admin/orders/7", nil, http.StatusOK},
		{http.MethodPost, "/api/admin/orders/7/payment/poll", nil, http.StatusOK},
		{http.MethodPatch, "/api/admin/orders/7/status", []byte(`{"status":"processing"}`), http.StatusOK},
		{http.MethodPost, "/api/admin/orders/7/cancel", nil, http.StatusOK},
		{http.MethodDelete, "/api/admin/orders/7", nil, http.StatusNoContent},
		{http.MethodGet, "/api/admin/orders/7/print-job", nil, http.StatusOK},
	}

	for _, rt := range routes {
		if resp := serve(engine, rt.method, rt.path, rt.body, nil); resp.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s without token: expected 401, got %d", rt.method, rt.path, resp.Code)
		}
		if resp := serve(engine, rt.method, rt.path, rt.body, auth); resp.Code != rt.status {
			t.Fatalf("%s %s: expected %d, got %d", rt.method, rt.path, rt.status, resp.Code)
		}
	}
}

func TestSetupHealthUnavailable(t *testing.T) {
	gin.SetMode(gin.TestMode)
	facade := facadestub.PrintdeskFacadeStub{HealthFacadeStub: facadestub.HealthFacadeStub{Err: errors.New("db down")}}
	engine := Setup(facade, slog.New(slog.NewJSONHandler(io.Discard, nil)))

	if resp := serve(engine, http.MethodGet, "/healthz", nil, nil); resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", resp.Code)
	}
}

var _ handlers.PrintdeskFacade = facadestub.PrintdeskFacadeStub{}
