package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func setupRouter(checks ...Check) *gin.Engine {
	h := NewHealthHandler(checks...)
	r := gin.New()
	r.GET("/healthz", h.Health)
	r.HEAD("/healthz", h.Health)
	r.OPTIONS("/healthz", h.Health)
	return r
}

func okCheck(name string) Check {
	return Check{Name: name, Ping: func(ctx context.Context) error { return nil }}
}

func failingCheck(name string) Check {
	return Check{Name: name, Ping: func(ctx context.Context) error { return errors.New("down") }}
}

func TestHealth_GET(t *testing.T) {
	t.Parallel()

	router := setupRouter(okCheck("database"))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var response struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if response.Status != "ok" {
		t.Errorf("expected status 'ok', got %q", response.Status)
	}
	if response.Checks["database"] != "ok" {
		t.Errorf("expected database check 'ok', got %q", response.Checks["database"])
	}

	if w.Header().Get("Cache-Control") != "no-store" {
		t.Errorf("expected Cache-Control 'no-store', got %q", w.Header().Get("Cache-Control"))
	}
}

func TestHealth_GET_Degraded(t *testing.T) {
	t.Parallel()

	router := setupRouter(okCheck("database"), failingCheck("redis"))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)

	router.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status %d, got %d", http.StatusServiceUnavailable, w.Code)
	}

	var response struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if response.Status != "degraded" {
		t.Errorf("expected status 'degraded', got %q", response.Status)
	}
	if response.Checks["redis"] != "unavailable" {
		t.Errorf("expected redis 'unavailable', got %q", response.Checks["redis"])
	}
}

func TestHealth_HEAD(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		checks         []Check
		expectedStatus int
	}{
		{"healthy", []Check{okCheck("database")}, http.StatusOK},
		{"unhealthy", []Check{failingCheck("database")}, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router := setupRouter(tt.checks...)
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodHead, "/healthz", nil)

			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			// HEAD should have no body
			if w.Body.Len() != 0 {
				t.Errorf("expected empty body for HEAD request, got %d bytes", w.Body.Len())
			}
		})
	}
}

func TestHealth_OPTIONS(t *testing.T) {
	t.Parallel()

	router := setupRouter(failingCheck("database"))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/healthz", nil)

	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("expected status %d, got %d", http.StatusNoContent, w.Code)
	}
	if w.Header().Get("Cache-Control") != "no-store" {
		t.Errorf("expected Cache-Control 'no-store', got %q", w.Header().Get("Cache-Control"))
	}
}

func TestHealth_NoChecks(t *testing.T) {
	t.Parallel()

	router := setupRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if body := w.Body.String(); body != `{"status":"ok"}` {
		t.Errorf("unexpected body %s", body)
	}
}
