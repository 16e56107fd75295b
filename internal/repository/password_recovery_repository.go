package repository

import (
	"github.com/docuserve/activity-api/internal/models"
	"gorm.io/gorm"
)

// GormPasswordRecoveryRepository is a GORM implementation of PasswordRecoveryRepository
type GormPasswordRecoveryRepository struct {
	db *gorm.DB
}

// NewPasswordRecoveryRepository creates a new PasswordRecoveryRepository
func NewPasswordRecoveryRepository(db *gorm.DB) PasswordRecoveryRepository {
	return &GormPasswordRecoveryRepository{db: db}
}

// Create creates a new password recovery entry
func (r *GormPasswordRecoveryRepository) Create(recovery *models.PasswordRecovery) error {
	return r.db.Create(recovery).Error
}
