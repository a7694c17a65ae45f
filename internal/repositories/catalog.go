package repositories

import (
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/challenge-service/internal/validator"
)

// LoadCatalog loads, validates and indexes every question under path.
func LoadCatalog(path string, v *validator.Validator, logger *slog.Logger) (QuestionRepository, error) {
	questions, err := LoadQuestions(path)
	if err != nil {
		return nil, err
	}
	if err := v.ValidateCatalog(questions); err != nil {
		return nil, fmt.Errorf("invalid question catalog %s: %w", path, err)
	}

	logger.Info("Question catalog loaded", "path", path, "questions", len(questions))
	return NewQuestionCatalog(questions), nil
}
