package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"coursework/pkg/logger"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type mockPinger struct {
	pingFunc func(ctx context.Context, rp *readpref.ReadPref) error
}

func (m *mockPinger) Ping(ctx context.Context, rp *readpref.ReadPref) error {
	if m.pingFunc != nil {
		return m.pingFunc(ctx, rp)
	}
	return nil
}

func newRouter(p Pinger) *httprouter.Router {
	router := httprouter.New()
	NewStatusHandler(p, time.Second, logger.Discard()).RegisterRoutes(router)
	return router
}

func TestRoot(t *testing.T) {
	router := newRouter(&mockPinger{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var body map[string]string
	_ = json.NewDecoder(w.Body).Decode(&body)
	if body["message"] != RootMessage {
		t.Errorf("unexpected body %v", body)
	}
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		pingErr    error
		wantStatus int
		wantBody   string
	}{
		{"store reachable", nil, http.StatusOK, StatusOK},
		{"store down", errors.New("server selection timeout"), http.StatusInternalServerError, StatusError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hadDeadline bool
			router := newRouter(&mockPinger{
				pingFunc: func(ctx context.Context, rp *readpref.ReadPref) error {
					_, hadDeadline = ctx.Deadline()
					return tt.pingErr
				},
			})

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			var body HealthResponse
			_ = json.NewDecoder(w.Body).Decode(&body)
			if body.Status != tt.wantBody {
				t.Errorf("expected status %q, got %q", tt.wantBody, body.Status)
			}
			if !hadDeadline {
				t.Error("ping must run with a deadline")
			}
		})
	}
}
