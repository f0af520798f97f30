package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/errwatch/errwatch/internal/config"
	"github.com/errwatch/errwatch/internal/middleware"
	"github.com/errwatch/errwatch/internal/services"
	"github.com/errwatch/errwatch/pkg/response"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: services.NewAuthService(db, &cfg.JWT),
	}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates a user and returns a session token
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetCurrentUser returns the authenticated user
// GET /api/auth/me
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	user, err := h.authService.GetUser(middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, user)
}

type notificationsRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// SetNotifications toggles SMS alerts for the authenticated user
// PUT /api/auth/notifications
func (h *AuthHandler) SetNotifications(c *gin.Context) {
	var req notificationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	if err := h.authService.SetNotificationsEnabled(userID, *req.Enabled); err != nil {
		response.Error(c, err)
		return
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, user)
}
