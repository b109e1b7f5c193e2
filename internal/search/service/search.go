package service

import (
	"context"
	"fmt"
	"unicode/utf8"

	"coursework/internal/search/repository"
	"coursework/pkg/config"
	apperrors "coursework/pkg/errors"
	"coursework/pkg/model"
	"coursework/pkg/sanitizer"
)

const maxTermLength = 100

type SearchService interface {
	Search(ctx context.Context, term string) ([]*model.Lesson, error)
}

type searchService struct {
	repo repository.SearchRepository
	cfg  *config.Config
}

func NewSearchService(repo repository.SearchRepository, cfg *config.Config) SearchService {
	return &searchService{
		repo: repo,
		cfg:  cfg,
	}
}

func (s *searchService) Search(ctx context.Context, term string) ([]*model.Lesson, error) {
	term = sanitizer.TrimAndNormalize(term)
	if term == "" {
		return nil, apperrors.InvalidInput("Search term is required")
	}
	if utf8.RuneCountInString(term) > maxTermLength {
		return nil, apperrors.InvalidInput(fmt.Sprintf("Search term must be at most %d characters", maxTermLength))
	}

	lessons, err := s.repo.Search(ctx, term)
	if err != nil {
		s.cfg.Log.Error("Failed to search lessons",
			"term", term,
			"error", err,
		)
		return nil, apperrors.FromStore("Failed to search lessons", err)
	}

	s.cfg.Log.Debug("Lesson search completed", "term", term, "results", len(lessons))
	return lessons, nil
}
