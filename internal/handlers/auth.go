package handlers

import (
	"errors"
	"net/http"

	"github.com/docuserve/activity-api/internal/constants"
	"github.com/docuserve/activity-api/internal/dto"
	apierrors "github.com/docuserve/activity-api/internal/errors"
	"github.com/docuserve/activity-api/internal/services"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler coordinates login, guest-login polling and password recovery.
type AuthHandler struct {
	authService  *services.AuthService
	guestService *services.GuestLoginService
	log          *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, guestService *services.GuestLoginService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		guestService: guestService,
		log:          log,
	}
}

// Login authenticates a user and initializes the session. When the user
// has a second factor configured and no code was sent, the response is a
// 400 with type ValidationCodeRequired and the client asks for the code.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
		Code     string `json:"code"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.Login(services.LoginInput{
		Username: req.Username,
		Password: req.Password,
		Code:     req.Code,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrValidationCodeRequired):
			apierrors.ValidationCodeRequired(c)
		case errors.Is(err, services.ErrInvalidValidationCode),
			errors.Is(err, services.ErrInvalidCredentials):
			apierrors.Unauthorized(c, "Invalid credentials")
		default:
			h.log.Error("login failed", zap.Error(err))
			apierrors.InternalError(c, "")
		}
		return
	}

	session := sessions.Default(c)
	session.Set(constants.ContextKeyUserID, user.ID)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// Logout removes the authentication session.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// LoginRequest is the guest-login poll endpoint. The first poll registers
// the token; subsequent polls report the admin's decision. An accepted
// request carries the provisioned guest credentials exactly until the
// client logs in with them.
func (h *AuthHandler) LoginRequest(c *gin.Context) {
	type PollRequest struct {
		Token string `json:"token" binding:"required"`
	}

	var req PollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.guestService.Poll(req.Token, c.ClientIP())
	if err != nil {
		h.log.Error("guest poll failed", zap.Error(err))
		apierrors.InternalError(c, "")
		return
	}

	response := gin.H{"status": result.Status}
	if result.Username != "" {
		response["username"] = result.Username
	}
	if result.Password != "" {
		response["password"] = result.Password
	}
	c.JSON(http.StatusOK, response)
}

// PasswordLost queues a password recovery mail for the given username.
func (h *AuthHandler) PasswordLost(c *gin.Context) {
	type PasswordLostRequest struct {
		Username string `json:"username" binding:"required"`
	}

	var req PasswordLostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.authService.PasswordLost(req.Username); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			apierrors.BadRequest(c, "Unknown username")
			return
		}
		h.log.Error("password recovery failed", zap.Error(err))
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ListLoginRequests returns pending guest login requests (admin only).
func (h *AuthHandler) ListLoginRequests(c *gin.Context) {
	requests, err := h.guestService.ListPending()
	if err != nil {
		h.log.Error("failed to list login requests", zap.Error(err))
		apierrors.InternalError(c, "")
		return
	}

	dtos := make([]dto.LoginRequestDTO, 0, len(requests))
	for _, request := range requests {
		dtos = append(dtos, dto.ToLoginRequestDTO(request))
	}
	c.JSON(http.StatusOK, gin.H{"requests": dtos})
}

// AcceptLoginRequest approves a guest login request (admin only).
func (h *AuthHandler) AcceptLoginRequest(c *gin.Context) {
	type AcceptRequest struct {
		Username string `json:"username"`
	}

	// Body is optional; an empty one means the default guest account.
	var req AcceptRequest
	_ = c.ShouldBindJSON(&req)
	if req.Username == "" {
		req.Username = "guest"
	}

	request, err := h.guestService.Accept(c.Param("id"), req.Username)
	if err != nil {
		if errors.Is(err, services.ErrLoginRequestNotFound) {
			apierrors.NotFound(c, "Login request not found")
			return
		}
		h.log.Error("failed to accept login request", zap.Error(err))
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToLoginRequestDTO(*request))
}

// RejectLoginRequest rejects a guest login request (admin only).
func (h *AuthHandler) RejectLoginRequest(c *gin.Context) {
	if err := h.guestService.Reject(c.Param("id")); err != nil {
		if errors.Is(err, services.ErrLoginRequestNotFound) {
			apierrors.NotFound(c, "Login request not found")
			return
		}
		h.log.Error("failed to reject login request", zap.Error(err))
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
