package handler

import (
	"context"
	"net/http"
	"time"

	httputil "coursework/pkg/http"
	"coursework/pkg/logger"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	StatusOK    = "ok"
	StatusError = "error"

	RootMessage = "Coursework Backend API is running!"
)

type HealthResponse struct {
	Status string `json:"status"`
}

// Pinger is satisfied by *mongo.Client and by the store.
type Pinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

type StatusHandler struct {
	store   Pinger
	timeout time.Duration
	log     *logger.Logger
}

func NewStatusHandler(store Pinger, timeout time.Duration, log *logger.Logger) *StatusHandler {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &StatusHandler{
		store:   store,
		timeout: timeout,
		log:     log,
	}
}

func (h *StatusHandler) Root(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := httputil.WriteMessage(w, http.StatusOK, RootMessage); err != nil {
		h.log.Error("failed to write message response", "handler", "Root", "operation", "WriteMessage", "error", err)
	}
}

func (h *StatusHandler) Health(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.store.Ping(ctx, readpref.Primary()); err != nil {
		h.log.Error("Database health check failed",
			"error", err,
			"path", r.URL.Path,
		)
		if writeErr := httputil.WriteJSON(w, http.StatusInternalServerError, HealthResponse{
			Status: StatusError,
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Health", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteJSON(w, http.StatusOK, HealthResponse{
		Status: StatusOK,
	}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Health", "operation", "WriteJSON", "error", err)
	}
}

func (h *StatusHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/", h.Root)
	router.GET("/health", h.Health)
}
