package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/errwatch/errwatch/internal/models"
	"github.com/errwatch/errwatch/pkg/logger"
)

// smsMessageLimit caps the error excerpt inside an SMS body.
const smsMessageLimit = 100

// NotificationService alerts a project owner by SMS when a new error
// arrives, gated by a per-project cooldown so an error burst produces a
// single message per window. It runs downstream of a committed insert and
// its failures never reach the reporting client.
type NotificationService struct {
	db       *gorm.DB
	sender   SMSSender
	cooldown time.Duration
	now      func() time.Time
}

func NewNotificationService(db *gorm.DB, sender SMSSender, cooldown time.Duration) *NotificationService {
	if cooldown <= 0 {
		cooldown = 5 * time.Minute
	}
	return &NotificationService{
		db:       db,
		sender:   sender,
		cooldown: cooldown,
		now:      time.Now,
	}
}

// Dispatch handles one notify task. A nil return means either a successful
// send or an expected stop (opt-out, no phone, cooldown, missing project);
// a non-nil return means the attempt itself failed and is worth logging.
func (s *NotificationService) Dispatch(ctx context.Context, task *NotifyTask) error {
	var project models.Project
	if err := s.db.WithContext(ctx).First(&project, task.ProjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Project deleted between insert and dispatch: nothing to notify.
			return nil
		}
		return fmt.Errorf("notify: load project %d: %w", task.ProjectID, err)
	}

	var owner models.User
	if err := s.db.WithContext(ctx).First(&owner, project.OwnerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("notify: load owner %d: %w", project.OwnerID, err)
	}
	if !owner.NotificationsEnabled {
		logger.Debug().Uint("project_id", project.ID).Msg("notifications disabled, skipping")
		return nil
	}

	var phone models.PhoneNumber
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND is_primary = ?", owner.ID, true).
		First(&phone).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Debug().Uint("user_id", owner.ID).Msg("no primary phone number, skipping")
			return nil
		}
		return fmt.Errorf("notify: load primary phone for user %d: %w", owner.ID, err)
	}

	now := s.now()
	if project.LastNotifiedAt != nil && now.Sub(*project.LastNotifiedAt) < s.cooldown {
		logger.Debug().
			Uint("project_id", project.ID).
			Time("last_notified_at", *project.LastNotifiedAt).
			Msg("within cooldown window, skipping")
		return nil
	}

	body := buildSMSBody(project.Name, task.Message)
	if err := s.sender.Send(ctx, phone.Number, body); err != nil {
		return fmt.Errorf("notify: send for project %d: %w", project.ID, err)
	}

	// Plain read-then-write, no compare-and-set: two events racing past the
	// cooldown check may both send. At most one extra SMS per window; never
	// zero for a whole incident window.
	if err := s.db.WithContext(ctx).Model(&models.Project{}).
		Where("id = ?", project.ID).
		Update("last_notified_at", now).Error; err != nil {
		return fmt.Errorf("notify: record notification time for project %d: %w", project.ID, err)
	}

	logger.Info().
		Uint("project_id", project.ID).
		Uint("event_id", task.EventID).
		Msg("sms alert sent")
	return nil
}

// buildSMSBody composes the fixed-format alert text, truncating the error
// message to respect gateway length limits. The cap counts runes so a
// multi-byte character is never split into invalid UTF-8.
func buildSMSBody(projectName, message string) string {
	if runes := []rune(message); len(runes) > smsMessageLimit {
		message = string(runes[:smsMessageLimit]) + "..."
	}
	return fmt.Sprintf("[%s] New error: %s", projectName, message)
}
