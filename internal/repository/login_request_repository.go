package repository

import (
	"github.com/docuserve/activity-api/internal/models"
	"gorm.io/gorm"
)

// GormLoginRequestRepository is a GORM implementation of LoginRequestRepository
type GormLoginRequestRepository struct {
	db *gorm.DB
}

// NewLoginRequestRepository creates a new LoginRequestRepository
func NewLoginRequestRepository(db *gorm.DB) LoginRequestRepository {
	return &GormLoginRequestRepository{db: db}
}

// Create creates a new login request
func (r *GormLoginRequestRepository) Create(request *models.LoginRequest) error {
	return r.db.Create(request).Error
}

// FindByToken finds a login request by its client token
func (r *GormLoginRequestRepository) FindByToken(token string) (*models.LoginRequest, error) {
	var request models.LoginRequest
	if err := r.db.First(&request, "token = ?", token).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

// FindByID finds a login request by ID
func (r *GormLoginRequestRepository) FindByID(id string) (*models.LoginRequest, error) {
	var request models.LoginRequest
	if err := r.db.First(&request, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

// ListPending lists pending requests, newest first
func (r *GormLoginRequestRepository) ListPending() ([]models.LoginRequest, error) {
	var requests []models.LoginRequest
	err := r.db.
		Where("status = ?", models.LoginRequestPending).
		Order("timestamp DESC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

// Update persists status and guest credential changes
func (r *GormLoginRequestRepository) Update(request *models.LoginRequest) error {
	return r.db.Save(request).Error
}
