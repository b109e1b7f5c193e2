package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "coursework/pkg/errors"
)

func TestWriteError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"invalid input", apperrors.InvalidInput("name is required"), http.StatusBadRequest, "name is required"},
		{"not found", apperrors.NotFoundWithID("Lesson", "x"), http.StatusNotFound, "Lesson not found"},
		{"insufficient capacity", apperrors.InsufficientCapacity("not enough spaces"), http.StatusConflict, "not enough spaces"},
		{"store unavailable", apperrors.StoreUnavailable("Failed to fetch lessons", errors.New("timeout")), http.StatusInternalServerError, "Failed to fetch lessons"},
		{"plain error", errors.New("leaky detail"), http.StatusInternalServerError, "Internal server error"},
		{"code without status", &apperrors.AppError{Code: apperrors.CodeNotFound, Message: "gone"}, http.StatusNotFound, "gone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			if err := WriteError(w, tt.err); err != nil {
				t.Fatalf("WriteError returned error: %v", err)
			}

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if ct := w.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("expected application/json, got %q", ct)
			}

			var body ErrorResponse
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode body: %v", err)
			}
			if body.Error != tt.wantBody {
				t.Errorf("expected error %q, got %q", tt.wantBody, body.Error)
			}
		})
	}
}

func TestWriteError_HidesDetailsOnServerErrors(t *testing.T) {
	w := httptest.NewRecorder()
	err := apperrors.Internal("Failed to roll back reservation", errors.New("x")).
		WithDetails(map[string]any{"lesson_ids": []string{"a"}})

	_ = WriteError(w, err)

	var body ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Details != nil {
		t.Errorf("expected no details on 500, got %v", body.Details)
	}
}

func TestWriteCreated(t *testing.T) {
	w := httptest.NewRecorder()
	if err := WriteCreated(w, map[string]string{"id": "1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
}
