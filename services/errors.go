package services

import (
	"errors"
	"fmt"
)

var (
	ErrMissingUser          = errors.New("user ID required")
	ErrLocationRequired     = errors.New("location data required for check-in")
	ErrInvalidLocation      = errors.New("invalid location")
	ErrInvalidSpotData      = errors.New("invalid spot data")
	ErrSpotNotFound         = errors.New("spot not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidUsername      = errors.New("username must be 2 to 40 characters")
	ErrUsernameTaken        = errors.New("username already taken")
	ErrNotificationNotFound = errors.New("notification not found")
)

// TooFarError rejects a check-in made outside the allowed radius
type TooFarError struct {
	Distance    float64 // meters from the spot
	MaxDistance float64 // allowed radius in meters
	SpotName    string
}

func (e *TooFarError) Error() string {
	return fmt.Sprintf("too far from %s: %.0fm away, max %.0fm", e.SpotName, e.Distance, e.MaxDistance)
}
