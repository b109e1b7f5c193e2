package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	lessonserrors "coursework/internal/lessons/errors"
	"coursework/internal/lessons/validator"
	"coursework/pkg/config"
	apperrors "coursework/pkg/errors"
	"coursework/pkg/logger"
	"coursework/pkg/model"
)

type mockLessonRepository struct {
	findAllFunc      func(ctx context.Context) ([]*model.Lesson, error)
	findByIDFunc     func(ctx context.Context, id string) (*model.Lesson, error)
	updateFieldsFunc func(ctx context.Context, id string, update *model.LessonUpdate) error
}

func (m *mockLessonRepository) FindAll(ctx context.Context) ([]*model.Lesson, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx)
	}
	return []*model.Lesson{}, nil
}

func (m *mockLessonRepository) FindByID(ctx context.Context, id string) (*model.Lesson, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, lessonserrors.ErrNotFound
}

func (m *mockLessonRepository) MissingIDs(ctx context.Context, ids []string) ([]string, error) {
	return nil, nil
}

func (m *mockLessonRepository) UpdateFields(ctx context.Context, id string, update *model.LessonUpdate) error {
	if m.updateFieldsFunc != nil {
		return m.updateFieldsFunc(ctx, id, update)
	}
	return nil
}

func (m *mockLessonRepository) DecrementCapacity(ctx context.Context, id string, amount int) (*model.Lesson, error) {
	return nil, nil
}

func (m *mockLessonRepository) IncrementCapacity(ctx context.Context, id string, amount int) error {
	return nil
}

func newTestService(repo *mockLessonRepository) LessonService {
	log := logger.Discard()
	cfg := &config.Config{
		Log:          log,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
	return NewLessonService(repo, validator.NewLessonValidator(), cfg)
}

func codeOf(t *testing.T, err error) string {
	t.Helper()
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T: %v", err, err)
	}
	return appErr.Code
}

func TestGetAll(t *testing.T) {
	t.Run("returns lessons", func(t *testing.T) {
		svc := newTestService(&mockLessonRepository{
			findAllFunc: func(ctx context.Context) ([]*model.Lesson, error) {
				return []*model.Lesson{{ID: "1", Subject: "Maths"}, {ID: "2", Subject: "Art"}}, nil
			},
		})
		lessons, err := svc.GetAll(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(lessons) != 2 {
			t.Errorf("expected 2 lessons, got %d", len(lessons))
		}
	})

	t.Run("store timeout is StoreUnavailable", func(t *testing.T) {
		svc := newTestService(&mockLessonRepository{
			findAllFunc: func(ctx context.Context) ([]*model.Lesson, error) {
				return nil, fmt.Errorf("failed to query lessons: %w", context.DeadlineExceeded)
			},
		})
		_, err := svc.GetAll(context.Background())
		if code := codeOf(t, err); code != apperrors.CodeStoreUnavailable {
			t.Errorf("expected %s, got %s", apperrors.CodeStoreUnavailable, code)
		}
	})
}

func TestGetByID(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		repoErr  error
		wantCode string
	}{
		{"found", "65a1b2c3d4e5f6a7b8c9d0e1", nil, ""},
		{"empty id", "", nil, apperrors.CodeInvalidInput},
		{"not found", "65a1b2c3d4e5f6a7b8c9d0e1", lessonserrors.ErrNotFound, apperrors.CodeNotFound},
		{"malformed id", "nope", lessonserrors.ErrInvalidID, apperrors.CodeNotFound},
		{"decode failure", "65a1b2c3d4e5f6a7b8c9d0e1", errors.New("decode"), apperrors.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(&mockLessonRepository{
				findByIDFunc: func(ctx context.Context, id string) (*model.Lesson, error) {
					if tt.repoErr != nil {
						return nil, fmt.Errorf("%w: %s", tt.repoErr, id)
					}
					return &model.Lesson{ID: id, Subject: "Maths"}, nil
				},
			})

			lesson, err := svc.GetByID(context.Background(), tt.id)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if lesson.ID != tt.id {
					t.Errorf("expected id %s, got %s", tt.id, lesson.ID)
				}
				return
			}
			if code := codeOf(t, err); code != tt.wantCode {
				t.Errorf("expected %s, got %s", tt.wantCode, code)
			}
		})
	}
}

func TestUpdate(t *testing.T) {
	price := 150.0

	t.Run("passes sanitized allow-listed fields", func(t *testing.T) {
		var got *model.LessonUpdate
		svc := newTestService(&mockLessonRepository{
			updateFieldsFunc: func(ctx context.Context, id string, update *model.LessonUpdate) error {
				got = update
				return nil
			},
		})

		subject := "  Advanced   Maths "
		err := svc.Update(context.Background(), "65a1b2c3d4e5f6a7b8c9d0e1", &model.LessonUpdate{
			Subject: &subject,
			Price:   &price,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if *got.Subject != "Advanced Maths" {
			t.Errorf("expected sanitized subject, got %q", *got.Subject)
		}
		if got.Spaces != nil || got.Location != nil {
			t.Error("untouched fields must stay nil")
		}
	})

	t.Run("empty update is rejected before the store", func(t *testing.T) {
		called := false
		svc := newTestService(&mockLessonRepository{
			updateFieldsFunc: func(ctx context.Context, id string, update *model.LessonUpdate) error {
				called = true
				return nil
			},
		})

		err := svc.Update(context.Background(), "65a1b2c3d4e5f6a7b8c9d0e1", &model.LessonUpdate{})
		if code := codeOf(t, err); code != apperrors.CodeInvalidInput {
			t.Errorf("expected %s, got %s", apperrors.CodeInvalidInput, code)
		}
		if called {
			t.Error("repository must not be called for an invalid update")
		}
	})

	t.Run("negative spaces rejected", func(t *testing.T) {
		spaces := -1
		svc := newTestService(&mockLessonRepository{})
		err := svc.Update(context.Background(), "65a1b2c3d4e5f6a7b8c9d0e1", &model.LessonUpdate{Spaces: &spaces})
		if code := codeOf(t, err); code != apperrors.CodeInvalidInput {
			t.Errorf("expected %s, got %s", apperrors.CodeInvalidInput, code)
		}
	})

	t.Run("unknown lesson", func(t *testing.T) {
		svc := newTestService(&mockLessonRepository{
			updateFieldsFunc: func(ctx context.Context, id string, update *model.LessonUpdate) error {
				return fmt.Errorf("%w: %s", lessonserrors.ErrNotFound, id)
			},
		})
		err := svc.Update(context.Background(), "65a1b2c3d4e5f6a7b8c9d0e1", &model.LessonUpdate{Price: &price})
		if code := codeOf(t, err); code != apperrors.CodeNotFound {
			t.Errorf("expected %s, got %s", apperrors.CodeNotFound, code)
		}
	})

	t.Run("store unavailable", func(t *testing.T) {
		svc := newTestService(&mockLessonRepository{
			updateFieldsFunc: func(ctx context.Context, id string, update *model.LessonUpdate) error {
				return fmt.Errorf("failed to update lesson: %w", context.DeadlineExceeded)
			},
		})
		err := svc.Update(context.Background(), "65a1b2c3d4e5f6a7b8c9d0e1", &model.LessonUpdate{Price: &price})
		if code := codeOf(t, err); code != apperrors.CodeStoreUnavailable {
			t.Errorf("expected %s, got %s", apperrors.CodeStoreUnavailable, code)
		}
	})
}
