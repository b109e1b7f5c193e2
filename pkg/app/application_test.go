package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	imagehandler "coursework/internal/images/handler"
	"coursework/pkg/config"
	httputil "coursework/pkg/http"
	"coursework/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type routeHandler struct {
	method string
	path   string
	status int
}

func (h routeHandler) RegisterRoutes(router *httprouter.Router) {
	router.Handle(h.method, h.path, func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		_ = httputil.WriteJSON(w, h.status, map[string]string{"route": h.path})
	})
}

type multiHandler []routeHandler

func (m multiHandler) RegisterRoutes(router *httprouter.Router) {
	for _, h := range m {
		h.RegisterRoutes(router)
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Port:               "3000",
		Log:                logger.Discard(),
		CORSAllowedOrigins: []string{"*"},
		RateLimitRequests:  2,
		RateLimitWindow:    time.Minute,
		RequestTimeout:     5 * time.Second,
		IdempotencyTTL:     time.Hour,
		MaxRequestSize:     1024,
		ReadTimeout:        5 * time.Second,
		WriteTimeout:       5 * time.Second,
		IdleTimeout:        5 * time.Second,
		ShutdownTimeout:    5 * time.Second,
	}
}

func newTestApp(t *testing.T) *Application {
	t.Helper()
	a := NewApplication()
	a.SetApp(testConfig(),
		multiHandler{
			{http.MethodGet, "/", http.StatusOK},
			{http.MethodGet, "/health", http.StatusOK},
		},
		routeHandler{http.MethodGet, "/lessons", http.StatusOK},
		routeHandler{http.MethodPost, "/orders", http.StatusCreated},
	)
	t.Cleanup(a.runHooks)
	return a
}

func do(t *testing.T, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRouting(t *testing.T) {
	h := newTestApp(t).Handler()

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
		wantRoute  string
	}{
		{"root goes to status router", http.MethodGet, "/", http.StatusOK, "/"},
		{"health goes to status router", http.MethodGet, "/health", http.StatusOK, "/health"},
		{"app route", http.MethodGet, "/lessons", http.StatusOK, "/lessons"},
		{"unknown route", http.MethodGet, "/nope", http.StatusNotFound, ""},
		{"wrong method", http.MethodDelete, "/lessons", http.StatusMethodNotAllowed, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, httptest.NewRequest(tt.method, tt.path, nil))
			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, w.Code)
			}

			var body map[string]string
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatalf("expected JSON body: %v", err)
			}
			if tt.wantRoute != "" && body["route"] != tt.wantRoute {
				t.Errorf("expected route %s, got %v", tt.wantRoute, body)
			}
			if tt.wantRoute == "" && body["error"] == "" {
				t.Errorf("expected error body, got %v", body)
			}
		})
	}
}

func TestImagePathsReachImageHandlerUncleaned(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "maths.png"), []byte("\x89PNG\r\n\x1a\nfake"), 0o644); err != nil {
		t.Fatal(err)
	}

	a := NewApplication()
	a.SetApp(testConfig(),
		routeHandler{http.MethodGet, "/", http.StatusOK},
		imagehandler.NewImageHandler(root, logger.Discard()),
	)
	t.Cleanup(a.runHooks)
	h := a.Handler()

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{"existing image", "/images/maths.png", http.StatusOK},
		{"parent segments", "/images/../../etc/passwd", http.StatusForbidden},
		{"nested parent segments", "/images/a/../../../etc/passwd", http.StatusForbidden},
		{"encoded parent segments", "/images/%2e%2e/%2e%2e/etc/passwd", http.StatusForbidden},
		{"missing image", "/images/nope.png", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d (location %q)", tt.wantStatus, w.Code, w.Header().Get("Location"))
			}
		})
	}
}

func TestMiddlewareApplied(t *testing.T) {
	h := newTestApp(t).Handler()

	w := do(t, h, httptest.NewRequest(http.MethodGet, "/lessons", nil))
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected a request id header")
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("expected CORS header on app routes")
	}

	w = do(t, h, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("expected CORS header on status routes")
	}
}

func TestContentTypeEnforced(t *testing.T) {
	h := newTestApp(t).Handler()

	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{}`))
	w := do(t, h, req)
	if w.Code != http.StatusUnsupportedMediaType {
		t.Errorf("expected status 415, got %d", w.Code)
	}
}

func TestOrderRateLimitByBodyPhone(t *testing.T) {
	h := newTestApp(t).Handler()

	post := func(phone string) int {
		req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{"phone":"`+phone+`"}`))
		req.Header.Set("Content-Type", "application/json")
		return do(t, h, req).Code
	}

	if post("07700900123") != http.StatusCreated || post("+447700900123") != http.StatusCreated {
		t.Fatal("first requests should pass")
	}
	if code := post("07700 900123"); code != http.StatusTooManyRequests {
		t.Errorf("expected status 429 for the same normalized phone, got %d", code)
	}
	if code := post("07700900999"); code != http.StatusCreated {
		t.Errorf("other phones are not limited, got %d", code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestApp(t).Handler()

	do(t, h, httptest.NewRequest(http.MethodGet, "/lessons", nil))
	w := do(t, h, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "coursework_http_requests_total") {
		t.Error("expected request counter in exposition")
	}
}

func TestShutdownHooksRunInReverse(t *testing.T) {
	a := NewApplication()
	a.SetApp(testConfig(), multiHandler{}, routeHandler{http.MethodGet, "/lessons", http.StatusOK})

	var order []string
	a.OnShutdown("store", func(ctx context.Context) error {
		order = append(order, "store")
		return nil
	})
	a.OnShutdown("producer", func(ctx context.Context) error {
		order = append(order, "producer")
		return errors.New("flush failed")
	})
	a.OnShutdown("telemetry", func(ctx context.Context) error {
		order = append(order, "telemetry")
		return nil
	})

	a.runHooks()

	if strings.Join(order, ",") != "telemetry,producer,store" {
		t.Errorf("unexpected shutdown order %v", order)
	}
}
