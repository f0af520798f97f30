package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/errwatch/errwatch/internal/middleware"
	"github.com/errwatch/errwatch/internal/services"
	"github.com/errwatch/errwatch/pkg/response"
)

type PhoneNumberHandler struct {
	phoneService *services.PhoneNumberService
}

func NewPhoneNumberHandler(db *gorm.DB) *PhoneNumberHandler {
	return &PhoneNumberHandler{
		phoneService: services.NewPhoneNumberService(db),
	}
}

type phoneNumberRequest struct {
	Number    string `json:"number" binding:"required"`
	Label     string `json:"label"`
	IsPrimary bool   `json:"is_primary"`
}

// List returns the user's phone numbers, primary first
// GET /api/phone-numbers
func (h *PhoneNumberHandler) List(c *gin.Context) {
	numbers, err := h.phoneService.List(middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, numbers)
}

// Create adds a phone number; the first one becomes primary automatically
// POST /api/phone-numbers
func (h *PhoneNumberHandler) Create(c *gin.Context) {
	var req phoneNumberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	number, err := h.phoneService.Create(middleware.GetUserID(c), req.Number, req.Label, req.IsPrimary)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, number)
}

// SetPrimary promotes a number to primary, demoting the previous one
// PUT /api/phone-numbers/:id/primary
func (h *PhoneNumberHandler) SetPrimary(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid phone number ID")
		return
	}

	number, err := h.phoneService.SetPrimary(middleware.GetUserID(c), uint(id))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, number)
}

// Delete removes a number; if it was primary, another number is promoted
// DELETE /api/phone-numbers/:id
func (h *PhoneNumberHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid phone number ID")
		return
	}

	if err := h.phoneService.Delete(middleware.GetUserID(c), uint(id)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
