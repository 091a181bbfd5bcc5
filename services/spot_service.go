package services

import (
	"context"
	"errors"
	"fmt"

	"spothunt-backend/config"
	"spothunt-backend/models"

	"gorm.io/gorm"
)

// SpotService reads the stored spot table
type SpotService struct {
	db  *gorm.DB
	cfg *config.Config
}

// ListResult contains spots and metadata about the listing
type ListResult struct {
	Spots          []models.Spot
	TotalAvailable int // Total matching spots before limiting
}

// ListParams narrows a stored spot listing
type ListParams struct {
	Category string
	Query    string
}

// NewSpotService creates a new spot service instance
func NewSpotService(cfg *config.Config, db *gorm.DB) *SpotService {
	return &SpotService{db: db, cfg: cfg}
}

// GetSpot retrieves a stored spot by id
func (s *SpotService) GetSpot(ctx context.Context, id string) (*models.Spot, error) {
	var spot models.Spot
	if err := s.db.WithContext(ctx).First(&spot, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSpotNotFound
		}
		return nil, fmt.Errorf("failed to load spot: %w", err)
	}
	return &spot, nil
}

// ListSpots lists stored spots by category and/or text, most hunted first
func (s *SpotService) ListSpots(ctx context.Context, params ListParams) (*ListResult, error) {
	query := s.db.WithContext(ctx).Model(&models.Spot{})

	var (
		spots []models.Spot
		err   error
	)
	switch {
	case params.Query != "":
		if params.Category != "" {
			query = query.Where("category = ?", models.NormalizeCategory(params.Category))
		}
		spots, err = s.fetchBySearch(query, params.Query)
	case params.Category != "":
		spots, err = s.fetchByCategory(query, params.Category)
	default:
		spots, err = s.fetchPopularSpots(query)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list spots: %w", err)
	}

	return s.limitSpotsWithTotal(spots), nil
}
