package utils

// =============================================================================
// Trending Utilities
// =============================================================================

// TrendingBar is the threshold a nearby spot must meet before a user is
// notified about it.
type TrendingBar struct {
	MinRating    float64 // rating must be at least this
	MinHunts     int     // popular enough by check-ins...
	NearDistance float64 // ...or close enough, in meters
}

// Meets reports whether a spot with the given stats clears the bar:
// rating >= MinRating AND (hunts >= MinHunts OR distance <= NearDistance)
func (b TrendingBar) Meets(rating float64, hunts int, distance float64) bool {
	if rating < b.MinRating {
		return false
	}
	return hunts >= b.MinHunts || distance <= b.NearDistance
}
