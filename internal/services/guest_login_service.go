package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/docuserve/activity-api/internal/models"
	"github.com/docuserve/activity-api/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrLoginRequestNotFound = errors.New("login request not found")

// Guest poll statuses as they appear on the wire.
const (
	GuestStatusIdle     = 0
	GuestStatusPending  = 1
	GuestStatusAccepted = 2
	GuestStatusRejected = 3
)

// GuestLoginService tracks guest-login requests: a browser without an
// account posts a random token, an admin accepts or rejects it, and the
// browser polls the token until a terminal status arrives.
type GuestLoginService struct {
	requestRepo repository.LoginRequestRepository
	userRepo    repository.UserRepository
	log         *zap.Logger
}

// NewGuestLoginService creates a new GuestLoginService.
func NewGuestLoginService(requestRepo repository.LoginRequestRepository, userRepo repository.UserRepository, log *zap.Logger) *GuestLoginService {
	return &GuestLoginService{
		requestRepo: requestRepo,
		userRepo:    userRepo,
		log:         log,
	}
}

// PollResult is what the polling client sees.
type PollResult struct {
	Status   int
	Username string
	Password string
}

// Poll looks up the request for the token, registering a new pending
// request on first contact. Accepted requests carry the guest credentials.
func (s *GuestLoginService) Poll(token, ip string) (*PollResult, error) {
	request, err := s.requestRepo.FindByToken(token)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to find login request: %w", err)
		}

		request = &models.LoginRequest{
			ID:        uuid.NewString(),
			Token:     token,
			IP:        ip,
			Status:    models.LoginRequestPending,
			Timestamp: time.Now().UTC(),
		}
		if err := s.requestRepo.Create(request); err != nil {
			return nil, fmt.Errorf("failed to create login request: %w", err)
		}
		s.log.Info("guest login requested", zap.String("request_id", request.ID), zap.String("ip", ip))
		return &PollResult{Status: GuestStatusPending}, nil
	}

	switch request.Status {
	case models.LoginRequestPending:
		return &PollResult{Status: GuestStatusPending}, nil
	case models.LoginRequestAccepted:
		return &PollResult{
			Status:   GuestStatusAccepted,
			Username: request.GuestUsername,
			Password: request.GuestPassword,
		}, nil
	case models.LoginRequestRejected:
		return &PollResult{Status: GuestStatusRejected}, nil
	default:
		return &PollResult{Status: GuestStatusIdle}, nil
	}
}

// ListPending returns the requests awaiting an admin decision.
func (s *GuestLoginService) ListPending() ([]models.LoginRequest, error) {
	return s.requestRepo.ListPending()
}

// Accept approves a request: a guest account is provisioned under the
// given username with a one-off password, and the credentials are attached
// to the request for the polling client to pick up.
func (s *GuestLoginService) Accept(id, guestUsername string) (*models.LoginRequest, error) {
	request, err := s.requestRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLoginRequestNotFound
		}
		return nil, fmt.Errorf("failed to find login request: %w", err)
	}

	password, err := randomPassword()
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash guest password: %w", err)
	}

	user, err := s.userRepo.FindByUsername(guestUsername)
	switch {
	case err == nil:
		// The guest account already exists; rotate its password so the
		// new request's credentials are the ones that work.
		user.PasswordHash = string(hash)
		if err := s.userRepo.Update(user); err != nil {
			return nil, fmt.Errorf("failed to update guest user: %w", err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = &models.User{
			ID:           uuid.NewString(),
			Username:     guestUsername,
			PasswordHash: string(hash),
			Guest:        true,
		}
		if err := s.userRepo.Create(user); err != nil {
			return nil, fmt.Errorf("failed to create guest user: %w", err)
		}
	default:
		return nil, fmt.Errorf("failed to find guest user: %w", err)
	}

	request.Status = models.LoginRequestAccepted
	request.GuestUsername = guestUsername
	request.GuestPassword = password
	if err := s.requestRepo.Update(request); err != nil {
		return nil, fmt.Errorf("failed to update login request: %w", err)
	}

	s.log.Info("guest login accepted", zap.String("request_id", request.ID), zap.String("guest", guestUsername))
	return request, nil
}

// Reject marks a request rejected.
func (s *GuestLoginService) Reject(id string) error {
	request, err := s.requestRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLoginRequestNotFound
		}
		return fmt.Errorf("failed to find login request: %w", err)
	}

	request.Status = models.LoginRequestRejected
	if err := s.requestRepo.Update(request); err != nil {
		return fmt.Errorf("failed to update login request: %w", err)
	}

	s.log.Info("guest login rejected", zap.String("request_id", request.ID))
	return nil
}

func randomPassword() (string, error) {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate password: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
