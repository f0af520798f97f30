package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an account that owns projects and phone numbers.
type User struct {
	ID                   uint           `gorm:"primaryKey" json:"id"`
	Username             string         `gorm:"uniqueIndex;size:100;not null" json:"username"`
	Password             string         `gorm:"size:255" json:"-"` // bcrypt hash
	Email                string         `gorm:"size:255" json:"email"`
	NotificationsEnabled bool           `gorm:"default:true" json:"notifications_enabled"`
	IsActive             bool           `gorm:"default:true" json:"is_active"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }
