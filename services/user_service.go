package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"spothunt-backend/config"
	"spothunt-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserService struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewUserService creates a new user service instance
func NewUserService(cfg *config.Config, db *gorm.DB) *UserService {
	return &UserService{db: db, cfg: cfg}
}

// CreateUser registers a new hunter at level 1 with no points
func (s *UserService) CreateUser(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	username, err := normalizeUsername(req.Username)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUsernameFree(ctx, username, ""); err != nil {
		return nil, err
	}

	user := models.User{
		ID:       uuid.NewString(),
		Username: username,
		Email:    strings.TrimSpace(req.Email),
		Avatar:   req.Avatar,
		Level:    1,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Printf("Created user %s (%s)", user.ID, user.Username)
	return &user, nil
}

// GetUser retrieves a user by id
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

// UpdateProfile changes the username and avatar. Points, level and
// counters cannot be changed here.
func (s *UserService) UpdateProfile(ctx context.Context, id string, req models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Username != nil {
		username, err := normalizeUsername(*req.Username)
		if err != nil {
			return nil, err
		}
		if username != user.Username {
			if err := s.ensureUsernameFree(ctx, username, user.ID); err != nil {
				return nil, err
			}
			updates["username"] = username
		}
	}
	if req.Avatar != nil {
		updates["avatar"] = *req.Avatar
	}
	if len(updates) == 0 {
		return user, nil
	}

	if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return s.GetUser(ctx, id)
}

// ListHunts returns the user's check-ins, newest first
func (s *UserService) ListHunts(ctx context.Context, userID string) ([]models.SpotHunt, error) {
	if _, err := s.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	hunts := []models.SpotHunt{}
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&hunts).Error; err != nil {
		return nil, fmt.Errorf("failed to list hunts: %w", err)
	}
	return hunts, nil
}

// ListBadges returns the badges the user holds
func (s *UserService) ListBadges(ctx context.Context, userID string) ([]models.UserBadge, error) {
	badges := []models.UserBadge{}
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("earned_at").Find(&badges).Error; err != nil {
		return nil, fmt.Errorf("failed to list badges: %w", err)
	}
	return badges, nil
}

// Leaderboard ranks users by total points
func (s *UserService) Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	var users []models.User
	err := s.db.WithContext(ctx).
		Order("total_points DESC").Order("spots_hunted DESC").Order("created_at").
		Limit(limit).Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load leaderboard: %w", err)
	}

	entries := make([]models.LeaderboardEntry, len(users))
	for i, u := range users {
		entries[i] = models.LeaderboardEntry{
			Rank:        i + 1,
			UserID:      u.ID,
			Username:    u.Username,
			Avatar:      u.Avatar,
			Level:       u.Level,
			TotalPoints: u.TotalPoints,
			SpotsHunted: u.SpotsHunted,
		}
	}
	return entries, nil
}

// normalizeUsername trims the name and checks its length in characters
func normalizeUsername(raw string) (string, error) {
	username := strings.TrimSpace(raw)
	if n := utf8.RuneCountInString(username); n < 2 || n > 40 {
		return "", ErrInvalidUsername
	}
	return username, nil
}

func (s *UserService) ensureUsernameFree(ctx context.Context, username, exceptID string) error {
	query := s.db.WithContext(ctx).Model(&models.User{}).Where("LOWER(username) = ?", strings.ToLower(username))
	if exceptID != "" {
		query = query.Where("id <> ?", exceptID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check username: %w", err)
	}
	if count > 0 {
		return ErrUsernameTaken
	}
	return nil
}
