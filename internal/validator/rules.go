package validator

import (
	"log"
	"strings"
	"unicode"

	"feedback_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

const (
	minRating = 1
	maxRating = 5
)

func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	// 'is-category': one of the five feedback categories, exact case
	mustRegister("is-category", validateCategory)

	// 'rating': a sub-rating whose integer reading is within 1..5
	mustRegister("rating", validateRating)

	// 'no-spaces': usernames are compared verbatim, so whitespace is refused
	mustRegister("no-spaces", validateNoSpaces)
}

func validateCategory(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // 'required' handles empty values
	}
	return models.Category(value).Valid()
}

func validateRating(fl validator.FieldLevel) bool {
	field := fl.Field()
	if !field.CanInt() {
		return false
	}
	n := field.Int()
	return n >= minRating && n <= maxRating
}

func validateNoSpaces(fl validator.FieldLevel) bool {
	return !strings.ContainsFunc(fl.Field().String(), unicode.IsSpace)
}
