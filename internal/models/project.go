package models

import (
	"time"

	"gorm.io/gorm"
)

// Project represents an application reporting error events.
// APIKey is issued once at creation and never changes; LastNotifiedAt is
// written only by the notification dispatcher and gates the SMS cooldown.
type Project struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Name           string         `gorm:"size:200;not null" json:"name"`
	APIKey         string         `gorm:"uniqueIndex;size:64;not null" json:"api_key"`
	OwnerID        uint           `gorm:"index;not null" json:"owner_id"`
	LastNotifiedAt *time.Time     `json:"last_notified_at"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Project) TableName() string { return "projects" }
