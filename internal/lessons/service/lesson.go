package service

import (
	"context"
	"errors"

	lessonserrors "coursework/internal/lessons/errors"
	"coursework/internal/lessons/repository"
	"coursework/internal/lessons/validator"
	"coursework/pkg/config"
	apperrors "coursework/pkg/errors"
	"coursework/pkg/model"
	"coursework/pkg/sanitizer"
)

type LessonService interface {
	GetAll(ctx context.Context) ([]*model.Lesson, error)
	GetByID(ctx context.Context, id string) (*model.Lesson, error)
	Update(ctx context.Context, id string, update *model.LessonUpdate) error
}

type lessonService struct {
	repo      repository.LessonRepository
	validator *validator.LessonValidator
	cfg       *config.Config
}

func NewLessonService(
	repo repository.LessonRepository,
	validator *validator.LessonValidator,
	cfg *config.Config,
) LessonService {
	return &lessonService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *lessonService) GetAll(ctx context.Context) ([]*model.Lesson, error) {
	lessons, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to get all lessons", "error", err)
		return nil, apperrors.FromStore("Failed to retrieve lessons", err)
	}
	return lessons, nil
}

// GetByID treats a malformed id like an unknown one: no lesson has it.
func (s *lessonService) GetByID(ctx context.Context, id string) (*model.Lesson, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Lesson ID cannot be empty")
	}

	lesson, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, lessonserrors.ErrNotFound) || errors.Is(err, lessonserrors.ErrInvalidID) {
			return nil, apperrors.NotFoundWithID("Lesson", id)
		}
		s.cfg.Log.Error("Failed to get lesson by ID",
			"id", id,
			"error", err,
		)
		return nil, apperrors.FromStore("Failed to retrieve lesson", err)
	}

	return lesson, nil
}

func (s *lessonService) Update(ctx context.Context, id string, update *model.LessonUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Lesson ID cannot be empty")
	}

	s.sanitizeUpdate(update)
	if err := s.validator.Validate(update); err != nil {
		s.cfg.Log.Warn("Lesson update validation failed",
			"id", id,
			"error", err,
		)
		return apperrors.InvalidInput("Lesson update validation failed").WithDetails(map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.repo.UpdateFields(ctx, id, update); err != nil {
		if errors.Is(err, lessonserrors.ErrNotFound) || errors.Is(err, lessonserrors.ErrInvalidID) {
			return apperrors.NotFoundWithID("Lesson", id)
		}
		s.cfg.Log.Error("Failed to update lesson",
			"id", id,
			"error", err,
		)
		return apperrors.FromStore("Failed to update lesson", err)
	}

	s.cfg.Log.Info("Lesson updated successfully",
		"id", id,
		"fields", len(update.Fields()),
	)
	return nil
}

func (s *lessonService) sanitizeUpdate(update *model.LessonUpdate) {
	if update == nil {
		return
	}
	for _, field := range []*string{update.Subject, update.Location, update.Image, update.Icon} {
		if field != nil {
			*field = sanitizer.TrimAndNormalize(*field)
		}
	}
}
