package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/docuserve/activity-api/internal/models"
	"github.com/docuserve/activity-api/internal/repository"
	"github.com/docuserve/activity-api/internal/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials     = errors.New("invalid username or password")
	ErrValidationCodeRequired = errors.New("validation code required")
	ErrInvalidValidationCode  = errors.New("invalid validation code")
	ErrUserNotFound           = errors.New("user not found")
)

// AuthService handles credential checks and password recovery.
type AuthService struct {
	userRepo     repository.UserRepository
	recoveryRepo repository.PasswordRecoveryRepository
	log          *zap.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, recoveryRepo repository.PasswordRecoveryRepository, log *zap.Logger) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		recoveryRepo: recoveryRepo,
		log:          log,
	}
}

// LoginInput holds the credentials for authentication. Code is the
// optional second-factor TOTP code.
type LoginInput struct {
	Username string
	Password string
	Code     string
}

// Login verifies credentials and returns the authenticated user. When the
// user has a TOTP key and no code was supplied, ErrValidationCodeRequired
// is returned so the client can prompt for it.
func (s *AuthService) Login(input LoginInput) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if user.TotpKey != "" {
		if input.Code == "" {
			return nil, ErrValidationCodeRequired
		}
		if !utils.ValidateTOTP(user.TotpKey, input.Code, time.Now()) {
			return nil, ErrInvalidValidationCode
		}
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// PasswordLost records a recovery request for the user and queues the
// recovery mail. The mail transport itself is out of process; the entry is
// what the mailer consumes.
func (s *AuthService) PasswordLost(username string) error {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	recovery := &models.PasswordRecovery{
		ID:         uuid.NewString(),
		UserID:     user.ID,
		CreateDate: time.Now().UTC(),
	}
	if err := s.recoveryRepo.Create(recovery); err != nil {
		return fmt.Errorf("failed to create password recovery: %w", err)
	}

	s.log.Info("password recovery queued",
		zap.String("user_id", user.ID),
		zap.String("recovery_id", recovery.ID))
	return nil
}
