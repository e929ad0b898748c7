package auth

import "jobboard_backend/internal/models"

type Permission string

const (
	PermVerificationSubmit Permission = "verification:submit"
	PermVerificationReview Permission = "verification:review"
	PermNotificationsSend  Permission = "notifications:send"
	PermProfileEditSelf    Permission = "profile:write:self"
)

// Permissions - разрешения по ролям
var Permissions = map[models.UserRole][]Permission{
	models.UserRoleAdmin: {
		PermVerificationReview,
		PermNotificationsSend,
		PermProfileEditSelf,
	},
	models.UserRoleEmployer: {
		PermVerificationSubmit,
		PermProfileEditSelf,
	},
	models.UserRoleJobseeker: {
		PermProfileEditSelf,
	},
}

// HasPermission проверяет есть ли у роли указанное разрешение
func HasPermission(role models.UserRole, permission Permission) bool {
	for _, p := range Permissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}
