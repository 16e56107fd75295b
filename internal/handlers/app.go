package handlers

import (
	"net/http"

	"github.com/docuserve/activity-api/internal/config"
	"github.com/gin-gonic/gin"
)

// AppHandler serves the global app configuration blob.
type AppHandler struct {
	cfg *config.Config
}

// NewAppHandler creates a new AppHandler.
func NewAppHandler(cfg *config.Config) *AppHandler {
	return &AppHandler{cfg: cfg}
}

// GetApp returns the app configuration the clients bootstrap from.
func (h *AppHandler) GetApp(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"current_version": h.cfg.AppVersion,
		"guest_login":     h.cfg.GuestLogin,
	})
}
