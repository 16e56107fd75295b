package dto

import (
	"github.com/docuserve/activity-api/internal/models"
	"github.com/docuserve/activity-api/internal/utils"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}
}

// LoginRequestDTO represents a guest login request in admin responses
type LoginRequestDTO struct {
	ID        string `json:"id"`
	IP        string `json:"ip"`
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp"`
}

// ToLoginRequestDTO converts a LoginRequest model to LoginRequestDTO
func ToLoginRequestDTO(request models.LoginRequest) LoginRequestDTO {
	return LoginRequestDTO{
		ID:        request.ID,
		IP:        request.IP,
		Status:    string(request.Status),
		Timestamp: utils.EpochMillis(request.Timestamp),
	}
}
