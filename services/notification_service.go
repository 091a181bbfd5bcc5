package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"spothunt-backend/config"
	"spothunt-backend/models"
	"spothunt-backend/utils"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Clock tells the notification service the time
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// NotificationService watches tracked user locations and creates
// "nearby trending" notifications. Tracked locations live in memory only.
type NotificationService struct {
	db     *gorm.DB
	cfg    *config.Config
	finder NearbyFinder
	clock  Clock
	bar    utils.TrendingBar
	locks  *keyedMutex

	mu      sync.Mutex
	tracked map[string]models.TrackedLocation
	running bool
	stop    chan struct{}
	done    chan struct{}
}

// NewNotificationService creates the service. A nil clock uses wall time.
func NewNotificationService(cfg *config.Config, db *gorm.DB, finder NearbyFinder, clock Clock) *NotificationService {
	if clock == nil {
		clock = systemClock{}
	}
	return &NotificationService{
		db:     db,
		cfg:    cfg,
		finder: finder,
		clock:  clock,
		bar: utils.TrendingBar{
			MinRating:    cfg.TrendingMinRating,
			MinHunts:     cfg.TrendingMinHunts,
			NearDistance: cfg.TrendingNearDistance,
		},
		locks:   newKeyedMutex(),
		tracked: make(map[string]models.TrackedLocation),
	}
}

// TrackLocation records the user's latest position and starts monitoring
// if it is not running yet. It returns the number of tracked users.
func (s *NotificationService) TrackLocation(userID string, lat, lng float64) (int, error) {
	if userID == "" {
		return 0, ErrMissingUser
	}
	if err := utils.ValidateLocation(lat, lng); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidLocation, err)
	}

	s.mu.Lock()
	s.tracked[userID] = models.TrackedLocation{
		UserID:    userID,
		Latitude:  lat,
		Longitude: lng,
		LastCheck: s.clock.Now(),
	}
	active := len(s.tracked)
	s.mu.Unlock()

	s.Start()
	return active, nil
}

// Start launches the monitoring loop. It is a no-op when already running.
func (s *NotificationService) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.loop(s.stop, s.done)
	log.Printf("Notification monitoring started (every %s)", s.cfg.NotifyInterval)
}

// Stop halts the loop, waits for a running pass to finish and forgets
// every tracked user.
func (s *NotificationService) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	stop, done := s.stop, s.done
	s.tracked = make(map[string]models.TrackedLocation)
	s.mu.Unlock()

	close(stop)
	<-done
	log.Println("Notification monitoring stopped")
}

func (s *NotificationService) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.cfg.NotifyInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithCancel(context.Background())
			go func() {
				select {
				case <-stop:
					cancel()
				case <-ctx.Done():
				}
			}()
			s.RunMonitoringPass(ctx)
			cancel()
		case <-stop:
			return
		}
	}
}

// RunMonitoringPass evicts users idle for longer than TrackingTTL, then
// checks every remaining user for trending spots. A failure for one user
// is logged and does not affect the others. It returns the number of
// notifications created.
func (s *NotificationService) RunMonitoringPass(ctx context.Context) int {
	now := s.clock.Now()

	s.mu.Lock()
	users := make([]models.TrackedLocation, 0, len(s.tracked))
	for id, loc := range s.tracked {
		if now.Sub(loc.LastCheck) > s.cfg.TrackingTTL {
			delete(s.tracked, id)
			log.Printf("Stopped tracking user %s after %s without updates", id, s.cfg.TrackingTTL)
			continue
		}
		users = append(users, loc)
	}
	s.mu.Unlock()

	var (
		g       errgroup.Group
		mu      sync.Mutex
		created int
	)
	g.SetLimit(4)
	for _, loc := range users {
		g.Go(func() error {
			notifications, err := s.CheckNearbyTrending(ctx, loc.UserID, loc.Latitude, loc.Longitude)
			if err != nil {
				log.Printf("Nearby check failed for user %s: %v", loc.UserID, err)
				return nil
			}
			mu.Lock()
			created += len(notifications)
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	if created > 0 {
		log.Printf("Monitoring pass for %d users created %d notifications", len(users), created)
	}
	return created
}

// CheckNearbyTrending creates notifications for up to NotifyMaxSpots
// trending spots near the user. A spot the user was already notified about
// within NotifyDedupWindow is skipped.
func (s *NotificationService) CheckNearbyTrending(ctx context.Context, userID string, lat, lng float64) ([]models.Notification, error) {
	spots, err := s.finder.FindNearby(ctx, lat, lng, s.cfg.NotifyRadius, models.SpotFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to find nearby spots: %w", err)
	}

	candidates := make([]models.Spot, 0, s.cfg.NotifyMaxSpots)
	for _, spot := range spots {
		if len(candidates) == s.cfg.NotifyMaxSpots {
			break
		}
		if s.bar.Meets(spot.Rating, spot.HuntCount, spot.Distance) {
			candidates = append(candidates, spot)
		}
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	// sqlite compares times as text, so every stored time is UTC
	now := s.clock.Now().UTC()
	since := now.Add(-s.cfg.NotifyDedupWindow)
	created := []models.Notification{}
	for _, spot := range candidates {
		var recent int64
		err := s.db.WithContext(ctx).Model(&models.Notification{}).
			Where("user_id = ? AND type = ? AND spot_id = ? AND created_at > ?",
				userID, models.NotificationNearbyTrending, spot.ID, since).
			Count(&recent).Error
		if err != nil {
			return created, fmt.Errorf("failed to check recent notifications: %w", err)
		}
		if recent > 0 {
			continue
		}

		n := nearbyTrendingNotification(userID, spot, now)
		if err := s.db.WithContext(ctx).Create(&n).Error; err != nil {
			return created, fmt.Errorf("failed to create notification: %w", err)
		}
		created = append(created, n)
	}

	return created, nil
}

// Status reports whether monitoring runs and how many users are tracked
func (s *NotificationService) Status() models.NotificationStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.NotificationStatus{IsRunning: s.running, ActiveUsers: len(s.tracked)}
}

// List returns the user's notifications, newest first
func (s *NotificationService) List(ctx context.Context, userID string, unreadOnly bool) ([]models.Notification, error) {
	query := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("read = ?", false)
	}

	notifications := []models.Notification{}
	if err := query.Order("created_at DESC").Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

// MarkRead sets the read flag, the only change a notification allows
func (s *NotificationService) MarkRead(ctx context.Context, id string) (*models.Notification, error) {
	var n models.Notification
	if err := s.db.WithContext(ctx).First(&n, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, fmt.Errorf("failed to load notification: %w", err)
	}
	if n.Read {
		return &n, nil
	}
	if err := s.db.WithContext(ctx).Model(&n).Update("read", true).Error; err != nil {
		return nil, fmt.Errorf("failed to mark notification read: %w", err)
	}
	n.Read = true
	return &n, nil
}

var categoryTitles = map[string]string{
	models.CategoryCafe:       "Trending café nearby",
	models.CategoryGym:        "Popular gym nearby",
	models.CategoryRestaurant: "Hot new restaurant nearby",
}

func nearbyTrendingNotification(userID string, spot models.Spot, now time.Time) models.Notification {
	title, ok := categoryTitles[spot.Category]
	if !ok {
		title = "Trendy spot nearby"
	}

	message := fmt.Sprintf("%s is %.0fm away", spot.Name, spot.Distance)
	if spot.HuntCount > 0 {
		message += fmt.Sprintf(" and has been hunted %d times", spot.HuntCount)
	}
	message += fmt.Sprintf(". Rated %.1f, go hunt it!", spot.Rating)

	return models.Notification{
		ID:      uuid.NewString(),
		UserID:  userID,
		Type:    models.NotificationNearbyTrending,
		SpotID:  spot.ID,
		Title:   title,
		Message: message,
		Data: models.NotificationData{
			SpotID:    spot.ID,
			Distance:  spot.Distance,
			Latitude:  spot.Latitude,
			Longitude: spot.Longitude,
		},
		CreatedAt: now,
	}
}
