package models

type User struct {
	BaseModel
	Name         string   `gorm:"type:varchar(120);not null"`
	Email        string   `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string   `gorm:"not null"`
	Role         UserRole `gorm:"type:varchar(20);not null;default:'jobseeker';index"`

	// Денормализованная проекция EmployerVerification.Status.
	// Пишется только через UserRepository.SyncVerification.
	VerificationStatus UserVerificationStatus `gorm:"type:varchar(32);not null;default:'under review'"`
	IsVerified         bool                   `gorm:"not null;default:false"`

	// Профиль
	Headline string `gorm:"type:varchar(140)"`
	Phone    string `gorm:"type:varchar(40)"`
	Region   string `gorm:"type:varchar(120)"`
	City     string `gorm:"type:varchar(120)"`
	Location string `gorm:"type:varchar(120)"`
	Bio      string `gorm:"type:text"`
	Website  string `gorm:"type:varchar(255)"`
}

func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}
