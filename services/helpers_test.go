package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"spothunt-backend/config"
	"spothunt-backend/database"
	"spothunt-backend/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Ealing Broadway
const (
	testLat = 51.5115
	testLng = -0.2732
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Open("file:" + name + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func testConfig() *config.Config {
	return config.Default()
}

func createUser(t *testing.T, db *gorm.DB, id string) models.User {
	t.Helper()
	user := models.User{ID: id, Username: id, Level: 1}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createSpot(t *testing.T, db *gorm.DB, spot models.Spot) models.Spot {
	t.Helper()
	if spot.Source == "" {
		spot.Source = models.SourceStored
	}
	require.NoError(t, db.Create(&spot).Error)
	return spot
}

func floatPtr(v float64) *float64 { return &v }

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
	loc *time.Location
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loc != nil {
		return c.now.In(c.loc)
	}
	return c.now
}

// In makes Now report times in loc, as a local clock would
func (c *fakeClock) In(loc *time.Location) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loc = loc
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// stubSource returns fixed spots and counts calls
type stubSource struct {
	name  string
	spots []models.Spot
	err   error

	mu    sync.Mutex
	calls int
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Find(ctx context.Context, q SpotQuery) ([]models.Spot, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return cloneSpots(s.spots), nil
}

func (s *stubSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// remoteStub is a stubSource the finder caches
type remoteStub struct {
	*stubSource
}

func (remoteStub) Remote() bool { return true }

// stubFinder returns fixed spots, or an error for listed latitudes
type stubFinder struct {
	spots  []models.Spot
	errFor map[float64]error
}

func (f *stubFinder) FindNearby(ctx context.Context, lat, lng, radius float64, filters models.SpotFilters) ([]models.Spot, error) {
	if err, ok := f.errFor[lat]; ok {
		return nil, err
	}
	return cloneSpots(f.spots), nil
}
