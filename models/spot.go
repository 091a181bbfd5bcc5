package models

import (
	"strconv"
	"strings"
	"time"
)

// Spot categories
const (
	CategoryCafe       = "cafe"
	CategoryGym        = "gym"
	CategoryRestaurant = "restaurant"
	CategoryTrendy     = "trendy"
)

// Where a spot record came from
const (
	SourceOSM    = "osm"
	SourceGoogle = "google"
	SourceStored = "stored"
)

// Spot is a real-world place eligible for discovery and check-in.
// Candidates built from external place data are not persisted until a
// check-in materializes them.
type Spot struct {
	ID             string    `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"index:idx_spot_name" json:"name"`
	Description    string    `json:"description"`
	Category       string    `gorm:"index:idx_spot_category" json:"category"`
	Latitude       float64   `gorm:"index:idx_spot_location" json:"latitude"`
	Longitude      float64   `gorm:"index:idx_spot_location" json:"longitude"`
	Address        string    `json:"address"`
	Rating         float64   `json:"rating"`
	HuntCount      int       `gorm:"not null;default:0" json:"huntCount"`
	ImageURL       string    `json:"imageUrl"`
	Trending       bool      `json:"trending"`
	PriceRange     string    `json:"priceRange"`
	DietaryOptions StringSet `gorm:"serializer:json" json:"dietaryOptions"`
	Ambiance       StringSet `gorm:"serializer:json" json:"ambiance"`
	Amenities      StringSet `gorm:"serializer:json" json:"amenities"`
	Source         string    `json:"source"`
	Distance       float64   `gorm:"-" json:"distance,omitempty"` // Computed, not stored
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Locatable implementation for distance calculations

func (s Spot) GetLatitude() float64  { return s.Latitude }
func (s Spot) GetLongitude() float64 { return s.Longitude }
func (s Spot) GetDistance() float64  { return s.Distance }

func (s *Spot) SetDistance(d float64) {
	s.Distance = d
}

// DedupKey identifies the same physical place across overlapping queries.
func (s Spot) DedupKey() string {
	return strings.ToLower(strings.TrimSpace(s.Name)) + "|" +
		formatCoord(s.Latitude) + "|" + formatCoord(s.Longitude)
}

// StringSet is an ordered list of unique, case-insensitive tags.
type StringSet []string

// Add appends v unless an equal tag is already present.
func (s *StringSet) Add(v string) {
	v = strings.TrimSpace(v)
	if v == "" || s.Contains(v) {
		return
	}
	*s = append(*s, v)
}

// Contains reports whether v is in the set, ignoring case.
func (s StringSet) Contains(v string) bool {
	for _, item := range s {
		if strings.EqualFold(item, v) {
			return true
		}
	}
	return false
}

// SpotFilters are the optional post-hoc predicates applied to discovery
// results. An empty value or "any" disables that filter.
type SpotFilters struct {
	PriceRange string `json:"priceRange,omitempty" form:"priceRange"`
	Dietary    string `json:"dietary,omitempty" form:"dietary"`
	Ambiance   string `json:"ambiance,omitempty" form:"ambiance"`
	Category   string `json:"category,omitempty" form:"category"`
}

// Matches reports whether the spot passes every active filter.
func (f SpotFilters) Matches(s Spot) bool {
	if active(f.PriceRange) && s.PriceRange != strings.TrimSpace(f.PriceRange) {
		return false
	}
	if active(f.Dietary) && !s.DietaryOptions.Contains(strings.TrimSpace(f.Dietary)) {
		return false
	}
	if active(f.Ambiance) && !s.Ambiance.Contains(strings.TrimSpace(f.Ambiance)) {
		return false
	}
	if active(f.Category) && NormalizeCategory(f.Category) != s.Category {
		return false
	}
	return true
}

// CacheKey renders the filters for use in cache keys and logs.
func (f SpotFilters) CacheKey() string {
	return strings.Join([]string{f.PriceRange, f.Dietary, f.Ambiance, NormalizeCategory(f.Category)}, "/")
}

// NormalizeCategory maps user-facing spellings to a category constant.
func NormalizeCategory(category string) string {
	c := strings.ToLower(strings.TrimSpace(category))
	switch c {
	case "café", "cafes", "cafés", "coffee":
		return CategoryCafe
	case "gyms", "fitness":
		return CategoryGym
	case "restaurants", "food":
		return CategoryRestaurant
	}
	return c
}

func active(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && !strings.EqualFold(v, "any")
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
