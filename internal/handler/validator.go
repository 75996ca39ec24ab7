package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/emberfall-studios/skillforge/internal/domain"
)

// Validator wraps the validator instance
type Validator struct {
	validate *validator.Validate
}

var validate *Validator

// InitValidator builds the shared validator and registers the custom
// "skill" tag used by every request DTO that names a skill.
func InitValidator() {
	v := validator.New()
	_ = v.RegisterValidation("skill", validateSkill)
	validate = &Validator{validate: v}
}

// GetValidator returns the shared validator, initializing it on first
// use so handler tests need no setup call.
func GetValidator() *Validator {
	if validate == nil {
		InitValidator()
	}
	return validate
}

// ValidateStruct validates a struct using its tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// FormatValidationError turns validator errors into a field→message
// map without leaking internal struct names.
func FormatValidationError(err error) map[string]string {
	if err == nil {
		return nil
	}

	errs := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		errs["error"] = "Invalid request format"
		return errs
	}

	for _, e := range validationErrors {
		errs[strings.ToLower(e.Field())] = fieldMessage(e)
	}
	return errs
}

func fieldMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "skill":
		return "Unknown skill"
	case "max":
		return fmt.Sprintf("Must be at most %s", e.Param())
	case "min":
		return fmt.Sprintf("Must be at least %s", e.Param())
	case "gt":
		return fmt.Sprintf("Must be greater than %s", e.Param())
	case "excludesall":
		return "Contains invalid characters"
	default:
		return "Invalid value"
	}
}

// validateSkill accepts any registered skill identifier, case
// insensitively. Empty passes so optional fields rely on "required".
func validateSkill(fl validator.FieldLevel) bool {
	skill := fl.Field().String()
	if skill == "" {
		return true
	}
	return domain.IsValidSkill(domain.SkillID(strings.ToLower(skill)))
}
