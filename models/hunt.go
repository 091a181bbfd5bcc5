package models

import (
	"time"
)

// SpotHunt is the record of one accepted check-in. It is never mutated.
type SpotHunt struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	UserID       string    `gorm:"index:idx_hunt_user" json:"userId"`
	SpotID       string    `gorm:"index:idx_hunt_spot" json:"spotId"`
	PointsEarned int       `json:"pointsEarned"`
	Distance     float64   `json:"distance"`
	CreatedAt    time.Time `gorm:"index:idx_hunt_created" json:"createdAt"`
}

// SpotData describes a spot the client discovered but the server has not
// stored yet. It lets a check-in materialize the spot.
type SpotData struct {
	Name           string   `json:"name" validate:"required,max=200"`
	Description    string   `json:"description"`
	Category       string   `json:"category" validate:"omitempty,oneof=cafe café gym restaurant trendy"`
	Latitude       float64  `json:"latitude" validate:"latitude"`
	Longitude      float64  `json:"longitude" validate:"longitude"`
	Address        string   `json:"address"`
	Rating         float64  `json:"rating" validate:"min=0,max=5"`
	ImageURL       string   `json:"imageUrl" validate:"omitempty,url"`
	Trending       bool     `json:"trending"`
	PriceRange     string   `json:"priceRange" validate:"omitempty,oneof=$ $$ $$$"`
	DietaryOptions []string `json:"dietaryOptions"`
	Ambiance       []string `json:"ambiance"`
	Amenities      []string `json:"amenities"`
}

// ToSpot builds a storable spot with the given id.
func (d SpotData) ToSpot(id string) Spot {
	spot := Spot{
		ID:          id,
		Name:        d.Name,
		Description: d.Description,
		Category:    NormalizeCategory(d.Category),
		Latitude:    d.Latitude,
		Longitude:   d.Longitude,
		Address:     d.Address,
		Rating:      d.Rating,
		ImageURL:    d.ImageURL,
		Trending:    d.Trending,
		PriceRange:  d.PriceRange,
		Source:      SourceStored,
	}
	if spot.Category == "" {
		spot.Category = CategoryTrendy
	}
	if spot.PriceRange == "" {
		spot.PriceRange = "$$"
	}
	for _, v := range d.DietaryOptions {
		spot.DietaryOptions.Add(v)
	}
	for _, v := range d.Ambiance {
		spot.Ambiance.Add(v)
	}
	if len(spot.Ambiance) == 0 {
		spot.Ambiance.Add("trendy")
	}
	for _, v := range d.Amenities {
		spot.Amenities.Add(v)
	}
	return spot
}

// HuntRequest is the body of POST /api/spots/:id/hunt. Coordinates are
// pointers so a missing value can be told apart from zero.
type HuntRequest struct {
	UserID        string    `json:"userId"`
	SpotID        string    `json:"-"`
	UserLatitude  *float64  `json:"userLatitude"`
	UserLongitude *float64  `json:"userLongitude"`
	SpotData      *SpotData `json:"spotData,omitempty"`
}

// HuntResult reports an accepted check-in
type HuntResult struct {
	SpotID       string   `json:"spotId"`
	PointsEarned int      `json:"pointsEarned"`
	TotalPoints  int      `json:"totalPoints"`
	SpotsHunted  int      `json:"spotsHunted"`
	Level        int      `json:"level"`
	NewBadges    []string `json:"newBadges"`
	Distance     float64  `json:"distance"`
}
