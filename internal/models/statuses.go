package models

type UserRole string
type VerificationStatus string
type UserVerificationStatus string
type NotificationType string

const (
	UserRoleJobseeker UserRole = "jobseeker"
	UserRoleEmployer  UserRole = "employer"
	UserRoleAdmin     UserRole = "admin"
)

// Статус рассмотрения заявки на верификацию работодателя
const (
	VerificationStatusPending  VerificationStatus = "pending"
	VerificationStatusApproved VerificationStatus = "approved"
	VerificationStatusRejected VerificationStatus = "rejected"
)

// Статус верификации, который видит пользователь (денормализован в users)
const (
	UserVerificationUnderReview UserVerificationStatus = "under review"
	UserVerificationPassed      UserVerificationStatus = "passed verification"
	UserVerificationFailed      UserVerificationStatus = "failed verification"
)

// Тип (severity) уведомления
const (
	NotificationTypeInfo    NotificationType = "info"
	NotificationTypeSuccess NotificationType = "success"
	NotificationTypeWarning NotificationType = "warning"
	NotificationTypeError   NotificationType = "error"
)

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleJobseeker, UserRoleEmployer, UserRoleAdmin:
		return true
	}
	return false
}

func (s VerificationStatus) IsValid() bool {
	switch s {
	case VerificationStatusPending, VerificationStatusApproved, VerificationStatusRejected:
		return true
	}
	return false
}

func (t NotificationType) IsValid() bool {
	switch t {
	case NotificationTypeInfo, NotificationTypeSuccess, NotificationTypeWarning, NotificationTypeError:
		return true
	}
	return false
}
