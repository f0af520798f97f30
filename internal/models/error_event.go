package models

import "time"

// Recognized severity levels for reported events.
const (
	LevelError = "error"
	LevelWarn  = "warn"
	LevelInfo  = "info"
	LevelLog   = "log"
)

// Event lifecycle states.
const (
	StateActive   = "active"
	StateResolved = "resolved"
	StateMuted    = "muted"
)

// RecognizedLevel reports whether level is one of the four event levels.
func RecognizedLevel(level string) bool {
	switch level {
	case LevelError, LevelWarn, LevelInfo, LevelLog:
		return true
	}
	return false
}

// ErrorEvent is one reported log/error occurrence. Rows are created only by
// the ingestion endpoint and are immutable after insert except for State and
// MutedUntil, which user actions mutate. The core never deletes events.
type ErrorEvent struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	ProjectID  uint       `gorm:"index;not null" json:"project_id"`
	Level      string     `gorm:"size:20;index;default:error" json:"level"`
	Message    string     `gorm:"type:text;not null" json:"message"`
	StackTrace string     `gorm:"type:text" json:"stack_trace,omitempty"`
	Metadata   string     `gorm:"type:text" json:"metadata,omitempty"` // opaque JSON blob
	ReceivedAt time.Time  `gorm:"index;autoCreateTime" json:"received_at"`
	State      string     `gorm:"size:20;index;default:active" json:"state"`
	MutedUntil *time.Time `json:"muted_until,omitempty"`
}

func (ErrorEvent) TableName() string { return "error_events" }
