package handlers

import (
	"net/http"

	"spothunt-backend/models"
	"spothunt-backend/services"

	"github.com/gin-gonic/gin"
)

type HuntHandler struct {
	huntService *services.HuntService
}

// NewHuntHandler creates a new check-in handler
func NewHuntHandler(huntService *services.HuntService) *HuntHandler {
	return &HuntHandler{huntService: huntService}
}

// Hunt checks a user in at a spot
// POST /api/spots/:id/hunt {"userId": "...", "userLatitude": 51.5, "userLongitude": -0.1}
func (h *HuntHandler) Hunt(c *gin.Context) {
	var req models.HuntRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid check-in body")
		return
	}
	req.SpotID = c.Param("id")

	result, err := h.huntService.Hunt(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
