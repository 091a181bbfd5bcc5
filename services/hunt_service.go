package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"spothunt-backend/config"
	"spothunt-backend/models"
	"spothunt-backend/utils"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BadgeEngine decides which badges a user qualifies for after a check-in.
// It returns every badge the user is eligible for; HuntService works out
// which of them are new.
type BadgeEngine interface {
	Evaluate(ctx context.Context, tx *gorm.DB, user models.User) ([]string, error)
}

// NoBadges is the default engine and awards nothing
type NoBadges struct{}

func (NoBadges) Evaluate(context.Context, *gorm.DB, models.User) ([]string, error) {
	return nil, nil
}

// HuntService verifies and records check-ins
type HuntService struct {
	db       *gorm.DB
	cfg      *config.Config
	badges   BadgeEngine
	validate *validator.Validate
	locks    *keyedMutex
}

// NewHuntService creates a new check-in service. A nil engine awards no badges.
func NewHuntService(cfg *config.Config, db *gorm.DB, badges BadgeEngine) *HuntService {
	if badges == nil {
		badges = NoBadges{}
	}
	return &HuntService{
		db:       db,
		cfg:      cfg,
		badges:   badges,
		validate: validator.New(),
		locks:    newKeyedMutex(),
	}
}

// Hunt checks a user in at a spot. The user must be within CheckInRadius
// meters of the spot. A spot unknown to the database is created from
// req.SpotData when given. Check-ins by the same user run one at a time
// and each accepted check-in is applied in a single transaction.
func (s *HuntService) Hunt(ctx context.Context, req models.HuntRequest) (*models.HuntResult, error) {
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		return nil, ErrMissingUser
	}
	if req.UserLatitude == nil || req.UserLongitude == nil {
		return nil, ErrLocationRequired
	}
	lat, lng := *req.UserLatitude, *req.UserLongitude
	if err := utils.ValidateLocation(lat, lng); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLocation, err)
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	var result *models.HuntResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		spot, err := s.resolveSpot(tx, req.SpotID, req.SpotData)
		if err != nil {
			return err
		}

		distance := utils.HaversineDistance(lat, lng, spot.Latitude, spot.Longitude)
		if distance > s.cfg.CheckInRadius {
			return &TooFarError{Distance: distance, MaxDistance: s.cfg.CheckInRadius, SpotName: spot.Name}
		}

		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("failed to load user: %w", err)
		}

		hunt := models.SpotHunt{
			ID:           uuid.NewString(),
			UserID:       user.ID,
			SpotID:       spot.ID,
			PointsEarned: s.cfg.HuntPoints,
			Distance:     distance,
		}
		if err := tx.Create(&hunt).Error; err != nil {
			return fmt.Errorf("failed to record hunt: %w", err)
		}

		if err := tx.Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
			"total_points": gorm.Expr("total_points + ?", s.cfg.HuntPoints),
			"spots_hunted": gorm.Expr("spots_hunted + ?", 1),
		}).Error; err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}
		if err := tx.Model(&models.Spot{}).Where("id = ?", spot.ID).
			UpdateColumn("hunt_count", gorm.Expr("hunt_count + ?", 1)).Error; err != nil {
			return fmt.Errorf("failed to update spot: %w", err)
		}

		if err := tx.First(&user, "id = ?", user.ID).Error; err != nil {
			return fmt.Errorf("failed to reload user: %w", err)
		}
		if level := models.LevelFor(user.TotalPoints, s.cfg.PointsPerLevel); level != user.Level {
			if err := tx.Model(&user).Update("level", level).Error; err != nil {
				return fmt.Errorf("failed to update level: %w", err)
			}
			user.Level = level
		}

		newBadges, err := s.awardBadges(ctx, tx, user)
		if err != nil {
			return err
		}

		result = &models.HuntResult{
			SpotID:       spot.ID,
			PointsEarned: hunt.PointsEarned,
			TotalPoints:  user.TotalPoints,
			SpotsHunted:  user.SpotsHunted,
			Level:        user.Level,
			NewBadges:    newBadges,
			Distance:     distance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("User %s hunted spot %s at %.1fm (+%d points)", userID, result.SpotID, result.Distance, result.PointsEarned)
	return result, nil
}

// resolveSpot loads the spot or creates it from the client's spot data
func (s *HuntService) resolveSpot(tx *gorm.DB, spotID string, data *models.SpotData) (*models.Spot, error) {
	var spot models.Spot
	err := tx.First(&spot, "id = ?", spotID).Error
	if err == nil {
		return &spot, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load spot: %w", err)
	}
	if data == nil {
		return nil, ErrSpotNotFound
	}
	if err := s.validate.Struct(data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSpotData, err)
	}

	spot = data.ToSpot(spotID)
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&spot).Error; err != nil {
		return nil, fmt.Errorf("failed to create spot: %w", err)
	}
	log.Printf("Materialized spot %s (%s) from check-in data", spot.ID, spot.Name)
	return &spot, nil
}

// awardBadges stores badges the engine grants that the user did not hold yet
func (s *HuntService) awardBadges(ctx context.Context, tx *gorm.DB, user models.User) ([]string, error) {
	eligible, err := s.badges.Evaluate(ctx, tx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate badges: %w", err)
	}
	newBadges := []string{}
	if len(eligible) == 0 {
		return newBadges, nil
	}

	var held []string
	if err := tx.Model(&models.UserBadge{}).Where("user_id = ?", user.ID).Pluck("badge", &held).Error; err != nil {
		return nil, fmt.Errorf("failed to load badges: %w", err)
	}
	heldSet := make(map[string]bool, len(held))
	for _, b := range held {
		heldSet[b] = true
	}

	now := time.Now()
	for _, badge := range eligible {
		if heldSet[badge] {
			continue
		}
		heldSet[badge] = true
		if err := tx.Create(&models.UserBadge{ID: uuid.NewString(), UserID: user.ID, Badge: badge, EarnedAt: now}).Error; err != nil {
			return nil, fmt.Errorf("failed to award badge %s: %w", badge, err)
		}
		newBadges = append(newBadges, badge)
	}
	return newBadges, nil
}
