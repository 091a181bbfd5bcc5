package handlers

import (
	"errors"
	"log"
	"net/http"

	"spothunt-backend/models"
	"spothunt-backend/services"

	"github.com/gin-gonic/gin"
)

// =============================================================================
// Response Helpers
// =============================================================================

// respondWithError sends a standardized error response
func respondWithError(c *gin.Context, code int, error, message string) {
	c.JSON(code, models.ErrorResponse{
		Error:   error,
		Message: message,
		Code:    code,
	})
}

// respondBadRequest sends a 400 error response
func respondBadRequest(c *gin.Context, message string) {
	respondWithError(c, http.StatusBadRequest, "Invalid request", message)
}

// respondMissingParam sends a 400 error for missing parameters
func respondMissingParam(c *gin.Context, param string) {
	respondWithError(c, http.StatusBadRequest, "Missing parameter", param+" is required")
}

// respondInternalError sends a 500 error response
func respondInternalError(c *gin.Context, message string) {
	respondWithError(c, http.StatusInternalServerError, "Internal error", message)
}

// respondNotFound sends a 404 error response
func respondNotFound(c *gin.Context, message string) {
	respondWithError(c, http.StatusNotFound, "Not found", message)
}

// =============================================================================
// Error Mapping
// =============================================================================

// respondServiceError maps a service error onto its HTTP response
func respondServiceError(c *gin.Context, err error) {
	var tooFar *services.TooFarError
	switch {
	case errors.As(err, &tooFar):
		c.JSON(http.StatusForbidden, models.TooFarResponse{
			Message:     "Too far from location",
			Distance:    tooFar.Distance,
			MaxDistance: tooFar.MaxDistance,
			SpotName:    tooFar.SpotName,
		})
	case errors.Is(err, services.ErrMissingUser):
		respondBadRequest(c, "User ID required")
	case errors.Is(err, services.ErrLocationRequired):
		respondBadRequest(c, "Location data required for check-in")
	case errors.Is(err, services.ErrInvalidLocation), errors.Is(err, services.ErrInvalidSpotData),
		errors.Is(err, services.ErrInvalidUsername):
		respondBadRequest(c, err.Error())
	case errors.Is(err, services.ErrSpotNotFound):
		respondNotFound(c, "Spot not found")
	case errors.Is(err, services.ErrUserNotFound):
		respondNotFound(c, "User not found")
	case errors.Is(err, services.ErrNotificationNotFound):
		respondNotFound(c, "Notification not found")
	case errors.Is(err, services.ErrUsernameTaken):
		respondWithError(c, http.StatusConflict, "Conflict", "Username already taken")
	default:
		log.Printf("Request %s %s failed: %v", c.Request.Method, c.FullPath(), err)
		respondInternalError(c, "Something went wrong")
	}
}
