package services

import (
	"errors"

	apperrors "github.com/SAP-F-2025/challenge-service/internal/errors"
	"github.com/SAP-F-2025/challenge-service/internal/repositories"
	"github.com/SAP-F-2025/challenge-service/internal/store"
)

// ===== COMMON SERVICE ERRORS =====

var (
	ErrNotFound         = errors.New("resource not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// Question specific errors
	ErrQuestionNotFound = errors.New("question not found")

	// Challenge specific errors
	ErrChallengeNotMounted = errors.New("challenge is not mounted")
	ErrInvalidSelection    = errors.New("selection value is required")
	ErrStateNotPersisted   = errors.New("challenge state could not be saved")
)

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// ===== ERROR HELPERS =====

func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrQuestionNotFound) ||
		errors.Is(err, ErrChallengeNotMounted) ||
		repositories.IsNotFoundError(err) ||
		store.IsNotFound(err)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) || errors.Is(err, ErrBadRequest) || errors.Is(err, ErrInvalidSelection) {
		return true
	}
	var ve apperrors.ValidationErrors
	return errors.As(err, &ve)
}

// IsPersistence checks if error came from the attempt store
func IsPersistence(err error) bool {
	return errors.Is(err, ErrStateNotPersisted)
}
