package handlers

import (
	"net/http"

	"spothunt-backend/models"
	"spothunt-backend/services"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationService *services.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// TrackLocation records a user's position for nearby monitoring
// POST /api/user/:id/track-location {"latitude": 51.5, "longitude": -0.1}
func (h *NotificationHandler) TrackLocation(c *gin.Context) {
	var req models.TrackLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Latitude and longitude are required")
		return
	}

	active, err := h.notificationService.TrackLocation(c.Param("id"), *req.Latitude, *req.Longitude)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Location tracking updated",
		"activeUsers": active,
	})
}

// TestNearby runs the trending check for a user immediately
// POST /api/notifications/test-nearby {"userId": "...", "latitude": 51.5, "longitude": -0.1}
func (h *NotificationHandler) TestNearby(c *gin.Context) {
	var req models.TestNearbyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "userId, latitude and longitude are required")
		return
	}

	notifications, err := h.notificationService.CheckNearbyTrending(c.Request.Context(), req.UserID, *req.Latitude, *req.Longitude)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"count":         len(notifications),
	})
}

// GetStatus reports the monitoring loop state
// GET /api/notifications/status
func (h *NotificationHandler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.notificationService.Status())
}

// ListForUser lists a user's notifications
// GET /api/user/:id/notifications?unread=true
func (h *NotificationHandler) ListForUser(c *gin.Context) {
	notifications, err := h.notificationService.List(c.Request.Context(), c.Param("id"), c.Query("unread") == "true")
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"count":         len(notifications),
	})
}

// MarkRead flags a notification as read
// POST /api/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	n, err := h.notificationService.MarkRead(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, n)
}
