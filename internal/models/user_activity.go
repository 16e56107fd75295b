package models

import (
	"time"

	"gorm.io/gorm"
)

type ActivityType string

const (
	ActivityDocumentReview   ActivityType = "document_review"
	ActivityDocumentApproval ActivityType = "document_approval"
	ActivityDocumentAudit    ActivityType = "document_audit"
)

// UserActivity is one unit of review work a user performs on a document.
// EntityID points at the document; EntityName is denormalized for display.
type UserActivity struct {
	ID            string         `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID        string         `gorm:"type:varchar(36);not null;index" json:"user_id"`
	ActivityType  ActivityType   `gorm:"type:varchar(50);not null;index" json:"activity_type"`
	EntityID      string         `gorm:"type:varchar(36);index" json:"entity_id"`
	EntityName    string         `gorm:"type:varchar(255)" json:"entity_name"`
	Progress      int            `gorm:"not null;default:0" json:"progress"`
	PlannedDate   *time.Time     `json:"planned_date"`
	CompletedDate *time.Time     `json:"completed_date"`
	CreateDate    time.Time      `gorm:"not null;index" json:"create_date"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
