package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/errwatch/errwatch/internal/config"
	"github.com/errwatch/errwatch/internal/models"
	"github.com/errwatch/errwatch/internal/utils"
	"github.com/errwatch/errwatch/pkg/response"
)

// AuthService verifies credentials and issues session tokens for the
// dashboard API. Identity internals stay deliberately small; everything
// downstream only consumes the authenticated user id.
type AuthService struct {
	db  *gorm.DB
	cfg *config.JWTConfig
}

func NewAuthService(db *gorm.DB, cfg *config.JWTConfig) *AuthService {
	return &AuthService{db: db, cfg: cfg}
}

type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Login checks the password and returns a signed token. Bad username and
// bad password produce the same error.
func (s *AuthService) Login(username, password string) (*LoginResult, error) {
	var user models.User
	err := s.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewUnauthorized("invalid username or password")
		}
		return nil, response.NewServerErrorWithDetails("login failed", err.Error())
	}

	if !user.IsActive {
		return nil, response.NewUnauthorized("account is disabled")
	}
	if !utils.CheckPassword(password, user.Password) {
		return nil, response.NewUnauthorized("invalid username or password")
	}

	token, err := utils.GenerateToken(user.ID, user.Username, s.cfg.ExpireHour)
	if err != nil {
		return nil, response.NewServerErrorWithDetails("failed to issue token", err.Error())
	}

	return &LoginResult{Token: token, User: &user}, nil
}

// GetUser loads a user by id.
func (s *AuthService) GetUser(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("user not found")
		}
		return nil, response.NewServerErrorWithDetails("failed to load user", err.Error())
	}
	return &user, nil
}

// EnsureDefaultUser creates the initial account on an empty database so the
// dashboard is reachable after first boot. Credentials come from env with
// development defaults.
func (s *AuthService) EnsureDefaultUser(username, password string) error {
	if username == "" {
		username = "admin"
	}
	if password == "" {
		password = "admin123"
	}

	var count int64
	if err := s.db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	return s.db.Create(&models.User{
		Username:             username,
		Password:             hash,
		NotificationsEnabled: true,
		IsActive:             true,
	}).Error
}

// SetNotificationsEnabled flips the owner's SMS opt-in.
func (s *AuthService) SetNotificationsEnabled(userID uint, enabled bool) error {
	result := s.db.Model(&models.User{}).Where("id = ?", userID).
		Update("notifications_enabled", enabled)
	if result.Error != nil {
		return response.NewServerErrorWithDetails("failed to update preference", result.Error.Error())
	}
	if result.RowsAffected == 0 {
		return response.NewNotFound("user not found")
	}
	return nil
}
