package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"coursework/pkg/config"
	apperrors "coursework/pkg/errors"
	"coursework/pkg/logger"
	"coursework/pkg/model"
)

type mockSearchRepository struct {
	searchFunc func(ctx context.Context, term string) ([]*model.Lesson, error)
}

func (m *mockSearchRepository) Search(ctx context.Context, term string) ([]*model.Lesson, error) {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, term)
	}
	return []*model.Lesson{}, nil
}

func TestSearch(t *testing.T) {
	cfg := &config.Config{Log: logger.Discard()}

	var received string
	repo := &mockSearchRepository{
		searchFunc: func(ctx context.Context, term string) ([]*model.Lesson, error) {
			received = term
			if term == "boom" {
				return nil, fmt.Errorf("failed to search lessons: %w", context.DeadlineExceeded)
			}
			if term == "corrupt" {
				return nil, errors.New("decode failure")
			}
			return []*model.Lesson{{ID: "1", Subject: "Mathematics"}}, nil
		},
	}
	svc := NewSearchService(repo, cfg)

	tests := []struct {
		name     string
		term     string
		wantCode string
		wantTerm string
	}{
		{"match", "math", "", "math"},
		{"trimmed", "  math  ", "", "math"},
		{"empty", "", apperrors.CodeInvalidInput, ""},
		{"blank", "   ", apperrors.CodeInvalidInput, ""},
		{"too long", strings.Repeat("a", 101), apperrors.CodeInvalidInput, ""},
		{"store timeout", "boom", apperrors.CodeStoreUnavailable, "boom"},
		{"store fault", "corrupt", apperrors.CodeInternal, "corrupt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			received = ""
			lessons, err := svc.Search(context.Background(), tt.term)

			if received != tt.wantTerm {
				t.Errorf("expected repository term %q, got %q", tt.wantTerm, received)
			}
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if len(lessons) != 1 {
					t.Errorf("expected 1 lesson, got %d", len(lessons))
				}
				return
			}

			var appErr *apperrors.AppError
			if !errors.As(err, &appErr) || appErr.Code != tt.wantCode {
				t.Errorf("expected %s, got %v", tt.wantCode, err)
			}
		})
	}
}
