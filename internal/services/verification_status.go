package services

import (
	"jobboard_backend/internal/models"
	"jobboard_backend/internal/repositories"
)

// MapVerificationStatus - единственное место, где статус заявки переводится
// в поля пользователя. Неизвестный статус считается "на рассмотрении".
func MapVerificationStatus(status models.VerificationStatus) repositories.UserVerificationProjection {
	switch status {
	case models.VerificationStatusApproved:
		return repositories.UserVerificationProjection{
			Status:     models.UserVerificationPassed,
			IsVerified: true,
		}
	case models.VerificationStatusRejected:
		return repositories.UserVerificationProjection{
			Status:     models.UserVerificationFailed,
			IsVerified: false,
		}
	default:
		return repositories.UserVerificationProjection{
			Status:     models.UserVerificationUnderReview,
			IsVerified: false,
		}
	}
}
