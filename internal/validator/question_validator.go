package validator

import (
	"fmt"

	"github.com/SAP-F-2025/challenge-service/internal/models"
)

// QuestionValidator checks the rules struct tags cannot express
type QuestionValidator struct{}

func NewQuestionValidator() *QuestionValidator {
	return &QuestionValidator{}
}

// ValidateQuestion checks options and the reference answer against the kind
func (v *QuestionValidator) ValidateQuestion(q *models.Question) ValidationErrors {
	var errs ValidationErrors

	switch q.Kind {
	case models.KindSingle, models.KindMultiple:
		if len(q.Options) == 0 {
			errs = append(errs, ValidationError{Field: "options", Message: "are required for choice questions", Value: q.ID})
		}
		errs = append(errs, v.validateOptionKeys(q)...)
	case models.KindFill:
		if len(q.Options) > 0 {
			errs = append(errs, ValidationError{Field: "options", Message: "must be empty for fill questions", Value: q.ID})
		}
	}

	errs = append(errs, v.validateReference(q)...)
	return errs
}

// ValidateUniqueIDs reports every question id used more than once
func (v *QuestionValidator) ValidateUniqueIDs(questions []*models.Question) ValidationErrors {
	var errs ValidationErrors
	seen := make(map[string]bool, len(questions))
	for _, q := range questions {
		if seen[q.ID] {
			errs = append(errs, ValidationError{Field: "id", Message: "is duplicated", Value: q.ID, Rule: "unique"})
			continue
		}
		seen[q.ID] = true
	}
	return errs
}

func (v *QuestionValidator) validateOptionKeys(q *models.Question) ValidationErrors {
	var errs ValidationErrors
	seen := make(map[string]bool, len(q.Options))
	for _, opt := range q.Options {
		if seen[opt.Key] {
			errs = append(errs, ValidationError{Field: "options", Message: fmt.Sprintf("key %q is duplicated", opt.Key), Value: q.ID})
		}
		seen[opt.Key] = true
	}
	return errs
}

func (v *QuestionValidator) validateReference(q *models.Question) ValidationErrors {
	answer := q.Answer
	if answer.Multi != (q.Kind == models.KindMultiple) {
		return ValidationErrors{{Field: "answer", Message: "shape does not match question kind", Value: q.ID}}
	}
	if answer.IsEmpty() {
		return ValidationErrors{{Field: "answer", Message: "is required", Value: q.ID, Rule: "required"}}
	}

	var errs ValidationErrors
	switch q.Kind {
	case models.KindSingle:
		if !q.HasOption(answer.Text) {
			errs = append(errs, ValidationError{Field: "answer", Message: fmt.Sprintf("%q is not an option", answer.Text), Value: q.ID})
		}
	case models.KindMultiple:
		seen := make(map[string]bool, len(answer.Keys))
		for _, key := range answer.Keys {
			if !q.HasOption(key) {
				errs = append(errs, ValidationError{Field: "answer", Message: fmt.Sprintf("%q is not an option", key), Value: q.ID})
			}
			if seen[key] {
				errs = append(errs, ValidationError{Field: "answer", Message: fmt.Sprintf("%q is listed twice", key), Value: q.ID})
			}
			seen[key] = true
		}
	}
	return errs
}
