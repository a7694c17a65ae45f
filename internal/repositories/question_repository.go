package repositories

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/challenge-service/internal/models"
)

// QuestionRepository serves the immutable question catalog
type QuestionRepository interface {
	GetByID(ctx context.Context, id string) (*models.Question, error)
	List(ctx context.Context, filters QuestionFilters) ([]*models.Question, int64, error)
	Count() int
}

type questionCatalog struct {
	byID  map[string]*models.Question
	order []*models.Question
}

// NewQuestionCatalog indexes questions by id, keeping their load order for listing.
// Later duplicates replace earlier ones; validate the catalog first to reject them.
func NewQuestionCatalog(questions []*models.Question) QuestionRepository {
	c := &questionCatalog{byID: make(map[string]*models.Question, len(questions))}
	for _, q := range questions {
		if _, exists := c.byID[q.ID]; !exists {
			c.order = append(c.order, q)
		} else {
			for i, existing := range c.order {
				if existing.ID == q.ID {
					c.order[i] = q
				}
			}
		}
		c.byID[q.ID] = q
	}
	return c
}

func (c *questionCatalog) GetByID(_ context.Context, id string) (*models.Question, error) {
	q, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("question %q: %w", id, ErrRecordNotFound)
	}
	return q, nil
}

func (c *questionCatalog) List(_ context.Context, filters QuestionFilters) ([]*models.Question, int64, error) {
	matched := make([]*models.Question, 0, len(c.order))
	for _, q := range c.order {
		if filters.Kind != nil && q.Kind != *filters.Kind {
			continue
		}
		matched = append(matched, q)
	}

	total := int64(len(matched))
	if filters.Offset > 0 {
		if filters.Offset >= len(matched) {
			return []*models.Question{}, total, nil
		}
		matched = matched[filters.Offset:]
	}
	if filters.Limit > 0 && filters.Limit < len(matched) {
		matched = matched[:filters.Limit]
	}
	return matched, total, nil
}

func (c *questionCatalog) Count() int {
	return len(c.order)
}
