package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/errwatch/errwatch/internal/middleware"
	"github.com/errwatch/errwatch/internal/services"
	"github.com/errwatch/errwatch/pkg/response"
)

type EventHandler struct {
	eventService *services.EventService
}

func NewEventHandler(db *gorm.DB) *EventHandler {
	return &EventHandler{
		eventService: services.NewEventService(db),
	}
}

// List returns a page of events for one of the user's projects
// GET /api/events?project_id=<id>&level=&state=&page=&page_size=
func (h *EventHandler) List(c *gin.Context) {
	var req services.EventListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.eventService.List(middleware.GetUserID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Resolve marks an event as handled
// POST /api/events/:id/resolve
func (h *EventHandler) Resolve(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid event ID")
		return
	}

	event, err := h.eventService.Resolve(middleware.GetUserID(c), uint(id))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, event)
}

type muteRequest struct {
	Minutes int `json:"minutes" binding:"required"`
}

// Mute silences an event for a number of minutes
// POST /api/events/:id/mute
func (h *EventHandler) Mute(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid event ID")
		return
	}

	var req muteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	event, err := h.eventService.Mute(middleware.GetUserID(c), uint(id), req.Minutes)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, event)
}

// Unmute returns a muted event to the active state
// POST /api/events/:id/unmute
func (h *EventHandler) Unmute(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid event ID")
		return
	}

	event, err := h.eventService.Unmute(middleware.GetUserID(c), uint(id))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, event)
}
