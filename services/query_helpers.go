package services

import (
	"strings"

	"spothunt-backend/models"
	"spothunt-backend/utils"

	"gorm.io/gorm"
)

// =============================================================================
// Fetch Helpers - Stored Spot Queries
// =============================================================================

// fetchByField is a generic helper for fetching spots by a single field
func (s *SpotService) fetchByField(query *gorm.DB, field, value string) ([]models.Spot, error) {
	var spots []models.Spot
	err := query.Where(field+" = ?", value).Order("hunt_count DESC").Find(&spots).Error
	return spots, err
}

// fetchByCategory fetches spots of one category
func (s *SpotService) fetchByCategory(query *gorm.DB, category string) ([]models.Spot, error) {
	return s.fetchByField(query, "category", models.NormalizeCategory(category))
}

// fetchBySearch performs text search across name, description and address
func (s *SpotService) fetchBySearch(query *gorm.DB, text string) ([]models.Spot, error) {
	var spots []models.Spot
	err := s.applyTextSearch(query, text).Order("hunt_count DESC").Find(&spots).Error
	return spots, err
}

// fetchPopularSpots fetches the most hunted spots as the default listing
func (s *SpotService) fetchPopularSpots(query *gorm.DB) ([]models.Spot, error) {
	var spots []models.Spot
	err := query.Order("hunt_count DESC").Order("rating DESC").Find(&spots).Error
	return spots, err
}

// =============================================================================
// Query Building Helpers
// =============================================================================

// applyTextSearch adds text search conditions to a query
func (s *SpotService) applyTextSearch(query *gorm.DB, searchText string) *gorm.DB {
	pattern := "%" + strings.ToLower(strings.TrimSpace(searchText)) + "%"
	return query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(address) LIKE ?", pattern, pattern, pattern)
}

// =============================================================================
// Result Limiting Helpers
// =============================================================================

// limitSpotsWithTotal returns a ListResult with total count and limited spots
func (s *SpotService) limitSpotsWithTotal(spots []models.Spot) *ListResult {
	if spots == nil {
		spots = []models.Spot{}
	}
	return &ListResult{
		Spots:          utils.Limit(spots, s.cfg.MaxNearbyResults),
		TotalAvailable: len(spots),
	}
}
