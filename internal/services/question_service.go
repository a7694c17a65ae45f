package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/challenge-service/internal/models"
	"github.com/SAP-F-2025/challenge-service/internal/repositories"
)

type questionService struct {
	repo   repositories.QuestionRepository
	logger *slog.Logger
}

func NewQuestionService(repo repositories.QuestionRepository, logger *slog.Logger) QuestionService {
	return &questionService{
		repo:   repo,
		logger: logger,
	}
}

func (s *questionService) GetByID(ctx context.Context, id string) (*QuestionResponse, error) {
	q, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, fmt.Errorf("%w: %s", ErrQuestionNotFound, id)
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	return toQuestionResponse(q), nil
}

func (s *questionService) List(ctx context.Context, filters repositories.QuestionFilters) (*QuestionListResponse, error) {
	if filters.Limit < 0 || filters.Offset < 0 {
		return nil, fmt.Errorf("%w: limit and offset must not be negative", ErrBadRequest)
	}

	questions, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}

	resp := &QuestionListResponse{
		Questions: make([]*QuestionResponse, 0, len(questions)),
		Total:     total,
	}
	for _, q := range questions {
		resp.Questions = append(resp.Questions, toQuestionResponse(q))
	}
	return resp, nil
}

func toQuestionResponse(q *models.Question) *QuestionResponse {
	return &QuestionResponse{
		ID:         q.ID,
		Kind:       q.Kind,
		Title:      q.Title,
		Content:    q.Content,
		Options:    q.Options,
		StorageKey: q.StorageKey(),
	}
}
