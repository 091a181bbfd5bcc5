package models

import (
	"time"
)

// User is a spot hunter. Points and counters only change through check-ins.
type User struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	Username    string    `gorm:"uniqueIndex" json:"username"`
	Email       string    `json:"email,omitempty"`
	Avatar      string    `json:"avatar"`
	Level       int       `gorm:"not null;default:1" json:"level"`
	TotalPoints int       `gorm:"not null;default:0;index:idx_user_points" json:"totalPoints"`
	SpotsHunted int       `gorm:"not null;default:0" json:"spotsHunted"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// LevelFor derives a level from a point total.
func LevelFor(totalPoints, pointsPerLevel int) int {
	if pointsPerLevel <= 0 || totalPoints < 0 {
		return 1
	}
	return 1 + totalPoints/pointsPerLevel
}

// UserBadge records a badge a user holds.
type UserBadge struct {
	ID       string    `gorm:"primaryKey" json:"id"`
	UserID   string    `gorm:"uniqueIndex:idx_user_badge" json:"userId"`
	Badge    string    `gorm:"uniqueIndex:idx_user_badge" json:"badge"`
	EarnedAt time.Time `json:"earnedAt"`
}

// CreateUserRequest represents a new user sign-up
type CreateUserRequest struct {
	Username string `json:"username" binding:"required,min=2,max=40"`
	Email    string `json:"email" binding:"omitempty,email"`
	Avatar   string `json:"avatar"`
}

// UpdateProfileRequest holds the profile fields a user may change
type UpdateProfileRequest struct {
	Username *string `json:"username" binding:"omitempty,min=2,max=40"`
	Avatar   *string `json:"avatar"`
}

// LeaderboardEntry is one ranked row of the points leaderboard
type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	UserID      string `json:"userId"`
	Username    string `json:"username"`
	Avatar      string `json:"avatar"`
	Level       int    `json:"level"`
	TotalPoints int    `json:"totalPoints"`
	SpotsHunted int    `json:"spotsHunted"`
}
