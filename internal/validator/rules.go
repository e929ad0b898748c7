package validator

import (
	"fmt"

	"jobboard_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules регистрирует кастомные правила. Ошибка регистрации -
// ошибка программиста, поэтому паникуем на старте.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("failed to register custom validation tag '%s': %v", tag, err))
		}
	}

	mustRegister("verification_status", func(fl validator.FieldLevel) bool {
		return models.VerificationStatus(fl.Field().String()).IsValid()
	})

	mustRegister("notification_type", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		return value == "" || models.NotificationType(value).IsValid()
	})

	// При регистрации нельзя выбрать роль admin
	mustRegister("signup_role", func(fl validator.FieldLevel) bool {
		switch models.UserRole(fl.Field().String()) {
		case "", models.UserRoleJobseeker, models.UserRoleEmployer:
			return true
		}
		return false
	})
}
