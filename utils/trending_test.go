package utils

import (
	"testing"
)

func TestTrendingBar_Meets(t *testing.T) {
	bar := TrendingBar{MinRating: 4.0, MinHunts: 3, NearDistance: 600}

	tests := []struct {
		name     string
		rating   float64
		hunts    int
		distance float64
		expected bool
	}{
		{"Low rating never trends", 3.9, 10, 10, false},
		{"Popular spot far away", 4.2, 3, 790, true},
		{"Unhunted spot close by", 4.0, 0, 600, true},
		{"Unhunted spot too far", 4.8, 2, 601, false},
		{"Popular and close", 4.5, 5, 100, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := bar.Meets(tt.rating, tt.hunts, tt.distance)
			if result != tt.expected {
				t.Errorf("Meets(%v, %v, %v) = %v, expected %v", tt.rating, tt.hunts, tt.distance, result, tt.expected)
			}
		})
	}
}
