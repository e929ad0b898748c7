package models

import "time"

// EmployerVerification - заявка работодателя на верификацию (одна на работодателя)
type EmployerVerification struct {
	BaseModel
	EmployerID string             `gorm:"type:varchar(36);not null;uniqueIndex"`
	Employer   *User              `gorm:"foreignKey:EmployerID;constraint:OnDelete:CASCADE"`
	Status     VerificationStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	Note       string             `gorm:"type:text;not null;default:''"`

	// Документ
	StorageKey   string `gorm:"type:varchar(512)"`
	OriginalName string `gorm:"type:varchar(255)"`
	MimeType     string `gorm:"type:varchar(100)"`
	SizeBytes    int64
	DocumentURL  string `gorm:"type:varchar(1024)"` // внешняя ссылка, если работодатель ее указал

	SubmittedAt time.Time `gorm:"not null"`
}

func (EmployerVerification) TableName() string {
	return "employer_verifications"
}
