package models

import (
	"time"

	"gorm.io/datatypes"
)

type Notification struct {
	BaseModel
	UserID  string           `gorm:"type:varchar(36);not null;index"`
	Type    NotificationType `gorm:"type:varchar(20);not null;default:'info'"`
	Message string           `gorm:"type:text;not null"`
	Meta    datatypes.JSON   // {"verificationId": "...", "decision": "approved"}
	IsRead  bool             `gorm:"not null;default:false;index"`
	ReadAt  *time.Time
}
