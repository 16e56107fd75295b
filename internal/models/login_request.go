package models

import "time"

type LoginRequestStatus string

const (
	LoginRequestPending  LoginRequestStatus = "PENDING"
	LoginRequestAccepted LoginRequestStatus = "ACCEPTED"
	LoginRequestRejected LoginRequestStatus = "REJECTED"
)

// LoginRequest tracks one guest-login attempt identified by the token the
// browser generated. The client polls by token until an admin accepts or
// rejects the request.
type LoginRequest struct {
	ID            string             `gorm:"type:varchar(36);primarykey" json:"id"`
	Token         string             `gorm:"type:varchar(100);uniqueIndex;not null" json:"-"`
	IP            string             `gorm:"type:varchar(45);not null" json:"ip"`
	Status        LoginRequestStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	GuestUsername string             `gorm:"type:varchar(50)" json:"-"`
	GuestPassword string             `gorm:"type:varchar(100)" json:"-"`
	Timestamp     time.Time          `gorm:"not null;index" json:"timestamp"`
}
