package repository

import (
	"github.com/docuserve/activity-api/internal/models"
)

// ActivityFilter holds filtering options for listing user activities
type ActivityFilter struct {
	UserID       *string
	ActivityType *string
	EntityID     *string
	SortColumn   int
	Asc          bool
	Offset       int
	Limit        int
}

// ActivityRepository defines the interface for user activity data access
type ActivityRepository interface {
	// Create creates a new activity
	Create(activity *models.UserActivity) error

	// FindByID finds an activity by ID
	FindByID(id string) (*models.UserActivity, error)

	// List retrieves activities with filtering and pagination, newest
	// first unless the filter says otherwise, plus the unpaginated total.
	List(filter ActivityFilter) ([]models.UserActivity, int64, error)

	// Update updates an activity
	Update(activity *models.UserActivity) error

	// Delete soft deletes an activity
	Delete(id string) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id string) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// Update persists changes to an existing user
	Update(user *models.User) error
}

// LoginRequestRepository defines the interface for guest login requests
type LoginRequestRepository interface {
	// Create creates a new login request
	Create(request *models.LoginRequest) error

	// FindByToken finds a login request by its client token
	FindByToken(token string) (*models.LoginRequest, error)

	// FindByID finds a login request by ID
	FindByID(id string) (*models.LoginRequest, error)

	// ListPending lists pending requests, newest first
	ListPending() ([]models.LoginRequest, error)

	// Update persists status and guest credential changes
	Update(request *models.LoginRequest) error
}

// PasswordRecoveryRepository defines the interface for password recoveries
type PasswordRecoveryRepository interface {
	// Create creates a new password recovery entry
	Create(recovery *models.PasswordRecovery) error
}
