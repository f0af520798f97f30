package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/errwatch/errwatch/internal/middleware"
	"github.com/errwatch/errwatch/internal/models"
	"github.com/errwatch/errwatch/internal/services"
	"github.com/errwatch/errwatch/pkg/response"
)

type VolumeHandler struct {
	volumeService *services.VolumeService
}

func NewVolumeHandler(db *gorm.DB) *VolumeHandler {
	return &VolumeHandler{
		volumeService: services.NewVolumeService(db, models.DriverName()),
	}
}

// GetVolume returns time-bucketed per-level event counts for charting
// GET /api/logs/volume?projectId=<id>&startDate=<RFC3339>&endDate=<RFC3339>
func (h *VolumeHandler) GetVolume(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Query("projectId"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid projectId")
		return
	}

	start, err := time.Parse(time.RFC3339, c.Query("startDate"))
	if err != nil {
		response.BadRequest(c, "invalid startDate")
		return
	}

	end, err := time.Parse(time.RFC3339, c.Query("endDate"))
	if err != nil {
		response.BadRequest(c, "invalid endDate")
		return
	}

	ownerID := middleware.GetUserID(c)
	resp, err := h.volumeService.GetVolume(ownerID, uint(projectID), start, end)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, resp)
}
