package handlers

import (
	"net/http"
	"strconv"

	"spothunt-backend/models"
	"spothunt-backend/services"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// CreateUser registers a new hunter
// POST /api/users {"username": "...", "email": "...", "avatar": "..."}
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// GetUser returns a user profile with badges
// GET /api/user/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	ctx := c.Request.Context()
	user, err := h.userService.GetUser(ctx, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	badges, err := h.userService.ListBadges(ctx, user.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":   user,
		"badges": badges,
	})
}

// UpdateProfile changes username and avatar
// PATCH /api/user/:id {"username": "...", "avatar": "..."}
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// GetHunts lists a user's check-ins
// GET /api/user/:id/hunts
func (h *UserHandler) GetHunts(c *gin.Context) {
	hunts, err := h.userService.ListHunts(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"hunts": hunts,
		"count": len(hunts),
	})
}

// GetLeaderboard ranks hunters by points
// GET /api/leaderboard?limit=10
func (h *UserHandler) GetLeaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	entries, err := h.userService.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}
