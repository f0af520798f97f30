package services

import (
	"encoding/json"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/errwatch/errwatch/internal/models"
	"github.com/errwatch/errwatch/pkg/logger"
	"github.com/errwatch/errwatch/pkg/response"
)

// IngestRequest is the payload a reporting client sends for one event.
// Metadata is kept as raw JSON so clients may send any structured value.
type IngestRequest struct {
	APIKey     string          `json:"apiKey"`
	Message    string          `json:"message"`
	StackTrace string          `json:"stackTrace"`
	Metadata   json.RawMessage `json:"metadata"`
	Level      string          `json:"level"`
}

// IngestService authenticates, validates and persists incoming events, then
// fans them out to the live hub and the notification queue.
type IngestService struct {
	db    *gorm.DB
	queue TaskQueue
	hub   *EventsHub
}

func NewIngestService(db *gorm.DB, queue TaskQueue, hub *EventsHub) *IngestService {
	return &IngestService{db: db, queue: queue, hub: hub}
}

// Ingest processes one event report. Validation and auth failures come back
// as AppErrors for the handler to surface; everything downstream of a
// successful insert is best-effort and never fails the request.
func (s *IngestService) Ingest(req *IngestRequest) (*models.ErrorEvent, error) {
	if strings.TrimSpace(req.APIKey) == "" {
		return nil, response.NewBadRequest("apiKey is required")
	}
	if strings.TrimSpace(req.Message) == "" {
		return nil, response.NewBadRequest("message is required")
	}

	var project models.Project
	err := s.db.Where("api_key = ?", req.APIKey).First(&project).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Same response for bad key and missing project: no existence leak.
			return nil, response.NewUnauthorized("invalid API key")
		}
		return nil, response.NewServerErrorWithDetails("failed to resolve API key", err.Error())
	}

	level := strings.ToLower(strings.TrimSpace(req.Level))
	if !models.RecognizedLevel(level) {
		level = models.LevelError
	}

	event := models.ErrorEvent{
		ProjectID:  project.ID,
		Level:      level,
		Message:    req.Message,
		StackTrace: req.StackTrace,
		Metadata:   string(req.Metadata),
		State:      models.StateActive,
	}
	if err := s.db.Create(&event).Error; err != nil {
		return nil, response.NewServerErrorWithDetails("failed to store event", err.Error())
	}

	// Fan-out is asynchronous relative to the HTTP response: the live hub
	// gets the full row, and the dispatcher decides whether an SMS goes out.
	s.hub.Publish(event)
	if err := s.queue.Enqueue(&NotifyTask{
		EventID:   event.ID,
		ProjectID: event.ProjectID,
		Level:     event.Level,
		Message:   event.Message,
	}); err != nil {
		logger.Warnf("[Ingest] failed to enqueue notify task for event %d: %v", event.ID, err)
	}

	return &event, nil
}
