package models

import (
	"time"
)

// Notification types
const (
	NotificationNearbyTrending    = "nearby_trending"
	NotificationFriendActivity    = "friend_activity"
	NotificationChallengeComplete = "challenge_complete"
)

// Notification is created by the monitoring loop. Only Read changes after
// creation; delivery is handled elsewhere.
type Notification struct {
	ID        string           `gorm:"primaryKey" json:"id"`
	UserID    string           `gorm:"index:idx_notification_dedup" json:"userId"`
	Type      string           `gorm:"index:idx_notification_dedup" json:"type"`
	SpotID    string           `gorm:"index:idx_notification_dedup" json:"spotId,omitempty"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Data      NotificationData `gorm:"serializer:json" json:"data"`
	Read      bool             `gorm:"not null;default:false" json:"read"`
	Sent      bool             `gorm:"not null;default:false" json:"sent"`
	CreatedAt time.Time        `gorm:"index:idx_notification_dedup" json:"createdAt"`
}

// NotificationData is the structured payload of a notification
type NotificationData struct {
	SpotID    string  `json:"spotId,omitempty"`
	Distance  float64 `json:"distance,omitempty"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
}

// TrackedLocation is the latest known position of a user. Memory only.
type TrackedLocation struct {
	UserID    string    `json:"userId"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	LastCheck time.Time `json:"lastCheck"`
}

// TrackLocationRequest is the body of POST /api/user/:id/track-location
type TrackLocationRequest struct {
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
}

// TestNearbyRequest is the body of POST /api/notifications/test-nearby
type TestNearbyRequest struct {
	UserID    string   `json:"userId" binding:"required"`
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
}

// NotificationStatus describes the monitoring loop
type NotificationStatus struct {
	IsRunning   bool `json:"isRunning"`
	ActiveUsers int  `json:"activeUsers"`
}
