package services

import (
	"context"

	"github.com/SAP-F-2025/challenge-service/internal/challenge"
	"github.com/SAP-F-2025/challenge-service/internal/models"
	"github.com/SAP-F-2025/challenge-service/internal/repositories"
)

// ===== QUESTION SERVICE =====

type QuestionService interface {
	GetByID(ctx context.Context, id string) (*QuestionResponse, error)
	List(ctx context.Context, filters repositories.QuestionFilters) (*QuestionListResponse, error)
}

// QuestionResponse never carries the reference answer.
type QuestionResponse struct {
	ID         string              `json:"id"`
	Kind       models.QuestionKind `json:"kind"`
	Title      string              `json:"title"`
	Content    string              `json:"content,omitempty"`
	Options    []models.Option     `json:"options,omitempty"`
	StorageKey string              `json:"storage_key"`
}

type QuestionListResponse struct {
	Questions []*QuestionResponse `json:"questions"`
	Total     int64               `json:"total"`
}

// ===== CHALLENGE SERVICE =====

// ChallengeService owns the widgets mounted on the page, keyed by question id.
type ChallengeService interface {
	Mount(ctx context.Context, questionID string) (*ChallengeResponse, error)
	Get(ctx context.Context, questionID string) (*ChallengeResponse, error)
	Select(ctx context.Context, questionID string, req *SelectAnswerRequest) (*ChallengeResponse, error)
	Submit(ctx context.Context, questionID string) (*ChallengeResponse, error)
	Reset(ctx context.Context, questionID string) (*ChallengeResponse, error)
	Unmount(ctx context.Context, questionID string) error
	Mounted() []string
	Shutdown(ctx context.Context) error
}

type SelectAnswerRequest struct {
	Value string `json:"value" validate:"max=10000"`
}

// ChallengeResponse wraps the widget snapshot. Accepted is false when the
// operation was a policy no-op (locked, completed, empty or invalid input).
type ChallengeResponse struct {
	Accepted bool               `json:"accepted"`
	Correct  *bool              `json:"correct,omitempty"`
	State    challenge.Snapshot `json:"state"`
}
