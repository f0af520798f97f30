package models

import "time"

// PhoneNumber is an SMS recipient number owned by a user. At most one
// number per user is primary; the dispatcher reads only the primary row.
// Primary promotion/demotion always runs inside a transaction so a
// concurrent reader never observes zero or two primaries.
type PhoneNumber struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Number    string    `gorm:"size:20;not null" json:"number"` // E.164
	Label     string    `gorm:"size:100" json:"label"`
	IsPrimary bool      `gorm:"default:false" json:"is_primary"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (PhoneNumber) TableName() string { return "phone_numbers" }
