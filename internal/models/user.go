package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           string         `gorm:"type:varchar(36);primarykey" json:"id"`
	Username     string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"`
	Email        string         `gorm:"type:varchar(255)" json:"email"`
	TotpKey      string         `gorm:"type:varchar(64)" json:"-"`
	Admin        bool           `gorm:"not null;default:false" json:"-"`
	Guest        bool           `gorm:"not null;default:false" json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Activities []UserActivity `gorm:"foreignKey:UserID" json:"-"`
}
