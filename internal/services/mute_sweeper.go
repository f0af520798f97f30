package services

import (
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/errwatch/errwatch/internal/models"
	"github.com/errwatch/errwatch/pkg/logger"
)

// MuteSweeper periodically returns events whose mute window has expired to
// the active state so the dashboard reflects them again.
type MuteSweeper struct {
	db        *gorm.DB
	scheduler *cron.Cron
}

func NewMuteSweeper(db *gorm.DB) *MuteSweeper {
	return &MuteSweeper{db: db}
}

// Start runs the sweep every minute until Stop is called.
func (s *MuteSweeper) Start() {
	s.scheduler = cron.New()

	if _, err := s.scheduler.AddFunc("* * * * *", func() {
		s.Sweep()
	}); err != nil {
		logger.Errorf("[MuteSweeper] failed to schedule sweep: %v", err)
		return
	}

	s.scheduler.Start()
	logger.Infof("[MuteSweeper] Scheduler started")
}

func (s *MuteSweeper) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

// Sweep flips expired mutes back to active. Returns the number of rows
// changed.
func (s *MuteSweeper) Sweep() int64 {
	result := s.db.Model(&models.ErrorEvent{}).
		Where("state = ? AND muted_until IS NOT NULL AND muted_until <= ?", models.StateMuted, time.Now()).
		Updates(map[string]interface{}{
			"state":       models.StateActive,
			"muted_until": nil,
		})
	if result.Error != nil {
		logger.Errorf("[MuteSweeper] sweep failed: %v", result.Error)
		return 0
	}

	if result.RowsAffected > 0 {
		logger.Infof("[MuteSweeper] reactivated %d events with expired mutes", result.RowsAffected)
	}
	return result.RowsAffected
}
