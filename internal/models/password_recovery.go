package models

import "time"

// PasswordRecovery is a one-shot token mailed to a user who lost their
// password.
type PasswordRecovery struct {
	ID         string    `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID     string    `gorm:"type:varchar(36);not null;index" json:"user_id"`
	CreateDate time.Time `gorm:"not null" json:"create_date"`
}
