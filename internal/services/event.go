package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/errwatch/errwatch/internal/models"
	"github.com/errwatch/errwatch/pkg/response"
)

// EventService is the dashboard's read/triage surface over stored events.
// The core never deletes rows; user actions only move State and MutedUntil.
type EventService struct {
	db *gorm.DB
}

func NewEventService(db *gorm.DB) *EventService {
	return &EventService{db: db}
}

type EventListRequest struct {
	ProjectID uint   `form:"project_id" binding:"required"`
	Level     string `form:"level"`
	State     string `form:"state"`
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size"`
}

type EventListResponse struct {
	Total    int64               `json:"total"`
	Page     int                 `json:"page"`
	PageSize int                 `json:"page_size"`
	Items    []models.ErrorEvent `json:"items"`
}

// List returns a page of the owner's project events, newest first.
func (s *EventService) List(ownerID uint, req *EventListRequest) (*EventListResponse, error) {
	if err := s.checkOwnership(ownerID, req.ProjectID); err != nil {
		return nil, err
	}

	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	query := s.db.Model(&models.ErrorEvent{}).Where("project_id = ?", req.ProjectID)
	if req.Level != "" {
		query = query.Where("level = ?", req.Level)
	}
	if req.State != "" {
		query = query.Where("state = ?", req.State)
	}

	var total int64
	query.Count(&total)

	var events []models.ErrorEvent
	offset := (req.Page - 1) * req.PageSize
	if err := query.Offset(offset).Limit(req.PageSize).Order("received_at DESC").Find(&events).Error; err != nil {
		return nil, response.NewServerErrorWithDetails("failed to list events", err.Error())
	}

	return &EventListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    events,
	}, nil
}

// Resolve marks an event resolved and clears any mute.
func (s *EventService) Resolve(ownerID, eventID uint) (*models.ErrorEvent, error) {
	return s.setState(ownerID, eventID, models.StateResolved, nil)
}

// Mute silences an event for the given number of minutes.
func (s *EventService) Mute(ownerID, eventID uint, minutes int) (*models.ErrorEvent, error) {
	if minutes <= 0 {
		return nil, response.NewBadRequest("minutes must be positive")
	}
	until := time.Now().Add(time.Duration(minutes) * time.Minute)
	return s.setState(ownerID, eventID, models.StateMuted, &until)
}

// Unmute returns a muted event to the active state.
func (s *EventService) Unmute(ownerID, eventID uint) (*models.ErrorEvent, error) {
	return s.setState(ownerID, eventID, models.StateActive, nil)
}

func (s *EventService) setState(ownerID, eventID uint, state string, mutedUntil *time.Time) (*models.ErrorEvent, error) {
	var event models.ErrorEvent
	if err := s.db.First(&event, eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("event not found")
		}
		return nil, response.NewServerErrorWithDetails("failed to load event", err.Error())
	}

	if err := s.checkOwnership(ownerID, event.ProjectID); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"state":       state,
		"muted_until": mutedUntil,
	}
	if err := s.db.Model(&event).Updates(updates).Error; err != nil {
		return nil, response.NewServerErrorWithDetails("failed to update event", err.Error())
	}
	event.State = state
	event.MutedUntil = mutedUntil
	return &event, nil
}

func (s *EventService) checkOwnership(ownerID, projectID uint) error {
	var project models.Project
	err := s.db.Where("id = ? AND owner_id = ?", projectID, ownerID).First(&project).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Not-found rather than forbidden: no existence confirmation.
			return response.NewNotFound("project not found")
		}
		return response.NewServerErrorWithDetails("failed to resolve project", err.Error())
	}
	return nil
}
