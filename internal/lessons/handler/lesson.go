package handler

import (
	"encoding/json"
	"net/http"

	"coursework/internal/lessons/service"
	apperrors "coursework/pkg/errors"
	httputil "coursework/pkg/http"
	"coursework/pkg/logger"
	"coursework/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type LessonHandler struct {
	service service.LessonService
	log     *logger.Logger
}

func NewLessonHandler(service service.LessonService, log *logger.Logger) *LessonHandler {
	return &LessonHandler{
		service: service,
		log:     log,
	}
}

func (h *LessonHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	lessons, err := h.service.GetAll(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, lessons); err != nil {
		h.log.Error("failed to write success response", "handler", "GetAll", "operation", "WriteSuccess", "error", err)
	}
}

func (h *LessonHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	lesson, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, lesson); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

// Update applies a partial update. Fields outside the allow-list make the
// whole body invalid.
func (h *LessonHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var update model.LessonUpdate
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&update); err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("Invalid request body").WithDetails(map[string]any{
			"error": err.Error(),
		})); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := h.service.Update(r.Context(), id, &update); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteMessage(w, http.StatusOK, "Lesson updated successfully"); err != nil {
		h.log.Error("failed to write message response", "handler", "Update", "operation", "WriteMessage", "error", err)
	}
}

func (h *LessonHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/lessons", h.GetAll)
	router.GET("/lessons/:id", h.GetByID)
	router.PUT("/lessons/:id", h.Update)
}
