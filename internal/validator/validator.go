package validator

import (
	"reflect"
	"strings"

	"github.com/SAP-F-2025/challenge-service/internal/models"
	"github.com/go-playground/validator/v10"
)

// Validator combines struct tag validation with question business rules
type Validator struct {
	structValidator   *validator.Validate
	questionValidator *QuestionValidator
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()
	registerCustomValidators(structValidator)

	return &Validator{
		structValidator:   structValidator,
		questionValidator: NewQuestionValidator(),
	}
}

// ValidateStruct validates struct tags and converts failures to ValidationErrors
func (v *Validator) ValidateStruct(s interface{}) error {
	if err := v.structValidator.Struct(s); err != nil {
		if errs := ToValidationErrors(err); len(errs) > 0 {
			return errs
		}
		return err
	}
	return nil
}

// Validate performs complete validation of a question (struct + business rules)
func (v *Validator) Validate(q *models.Question) error {
	if err := v.ValidateStruct(q); err != nil {
		return err
	}
	if errs := v.questionValidator.ValidateQuestion(q); len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateCatalog validates every question and the uniqueness of their ids
func (v *Validator) ValidateCatalog(questions []*models.Question) error {
	for _, q := range questions {
		if err := v.Validate(q); err != nil {
			return err
		}
	}
	if errs := v.questionValidator.ValidateUniqueIDs(questions); len(errs) > 0 {
		return errs
	}
	return nil
}

// Question returns the question validator
func (v *Validator) Question() *QuestionValidator {
	return v.questionValidator
}

func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("question_kind", validateQuestionKind)

	// Custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateQuestionKind(fl validator.FieldLevel) bool {
	validKinds := []models.QuestionKind{
		models.KindSingle,
		models.KindMultiple,
		models.KindFill,
	}

	value := fl.Field().String()
	for _, kind := range validKinds {
		if string(kind) == value {
			return true
		}
	}
	return false
}
