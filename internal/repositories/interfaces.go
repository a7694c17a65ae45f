package repositories

import (
	"errors"

	"github.com/SAP-F-2025/challenge-service/internal/models"
)

var ErrRecordNotFound = errors.New("record not found")

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrRecordNotFound)
}

// ===== SHARED FILTER STRUCTS =====

type QuestionFilters struct {
	Kind   *models.QuestionKind `json:"kind" form:"kind"`
	Limit  int                  `json:"limit" form:"limit"`
	Offset int                  `json:"offset" form:"offset"`
}
