package validator

import (
	"aveta_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules wires domain-specific validation tags used by DTOs.
func registerCustomRules(v *validator.Validate) {
	_ = v.RegisterValidation("plan", func(fl validator.FieldLevel) bool {
		return models.ValidPlan(models.UserPlan(fl.Field().String()))
	})

	_ = v.RegisterValidation("visibility", func(fl validator.FieldLevel) bool {
		switch models.Visibility(fl.Field().String()) {
		case models.VisibilityPublic, models.VisibilityPrivate:
			return true
		}
		return false
	})

	_ = v.RegisterValidation("charactertags", func(fl validator.FieldLevel) bool {
		tags, ok := fl.Field().Interface().([]models.CharacterTag)
		if !ok {
			return false
		}
		for _, tag := range tags {
			if !models.ValidTag(tag) {
				return false
			}
		}
		return true
	})
}
