package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/errwatch/errwatch/internal/services"
	"github.com/errwatch/errwatch/pkg/response"
)

// IngestHandler is the public error-report endpoint consumed by the client
// SDK. It is authenticated by project API key, not by session token.
type IngestHandler struct {
	ingestService *services.IngestService
}

func NewIngestHandler(db *gorm.DB, queue services.TaskQueue, hub *services.EventsHub) *IngestHandler {
	return &IngestHandler{
		ingestService: services.NewIngestService(db, queue, hub),
	}
}

// Ingest stores one reported event
// POST /errors
func (h *IngestHandler) Ingest(c *gin.Context) {
	var req services.IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "malformed request body")
		return
	}

	event, err := h.ingestService.Ingest(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, event)
}
