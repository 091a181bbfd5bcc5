package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"spothunt-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupNotifications(t *testing.T, finder NearbyFinder) (*NotificationService, *fakeClock, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	cfg := testConfig()
	cfg.NotifyInterval = time.Hour
	clock := newFakeClock()
	svc := NewNotificationService(cfg, db, finder, clock)
	t.Cleanup(svc.Stop)
	return svc, clock, db
}

func trendingSpot(id string, rating float64, hunts int, distance float64) models.Spot {
	return models.Spot{
		ID:        id,
		Name:      "Spot " + id,
		Category:  models.CategoryCafe,
		Latitude:  testLat,
		Longitude: testLng,
		Rating:    rating,
		HuntCount: hunts,
		Distance:  distance,
	}
}

func countNotifications(t *testing.T, db *gorm.DB, userID, spotID string) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.Notification{}).
		Where("user_id = ? AND spot_id = ?", userID, spotID).Count(&count).Error)
	return count
}

func TestCheckNearbyTrending_DedupWithinWindow(t *testing.T) {
	finder := &stubFinder{spots: []models.Spot{trendingSpot("kiln", 4.7, 0, 150)}}
	svc, clock, db := setupNotifications(t, finder)
	ctx := context.Background()

	first, err := svc.CheckNearbyTrending(ctx, "u1", testLat, testLng)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, models.NotificationNearbyTrending, first[0].Type)
	assert.Equal(t, "kiln", first[0].SpotID)
	assert.Equal(t, "Trending café nearby", first[0].Title)
	assert.True(t, clock.Now().Equal(first[0].CreatedAt))

	clock.Advance(23 * time.Hour)
	second, err := svc.CheckNearbyTrending(ctx, "u1", testLat, testLng)
	require.NoError(t, err)
	assert.Empty(t, second)
	assert.EqualValues(t, 1, countNotifications(t, db, "u1", "kiln"))

	clock.Advance(time.Hour + time.Minute)
	third, err := svc.CheckNearbyTrending(ctx, "u1", testLat, testLng)
	require.NoError(t, err)
	assert.Len(t, third, 1)
	assert.EqualValues(t, 2, countNotifications(t, db, "u1", "kiln"))
}

func TestCheckNearbyTrending_DedupAcrossUTCOffsetChange(t *testing.T) {
	finder := &stubFinder{spots: []models.Spot{trendingSpot("kiln", 4.7, 0, 150)}}
	svc, clock, db := setupNotifications(t, finder)
	ctx := context.Background()

	clock.In(time.FixedZone("EST", -5*60*60))
	first, err := svc.CheckNearbyTrending(ctx, "u1", testLat, testLng)
	require.NoError(t, err)
	require.Len(t, first, 1)

	clock.Advance(23 * time.Hour)
	clock.In(time.FixedZone("CEST", 2*60*60))
	second, err := svc.CheckNearbyTrending(ctx, "u1", testLat, testLng)
	require.NoError(t, err)
	assert.Empty(t, second)
	assert.EqualValues(t, 1, countNotifications(t, db, "u1", "kiln"))
}

func TestCheckNearbyTrending_DedupIsPerUser(t *testing.T) {
	finder := &stubFinder{spots: []models.Spot{trendingSpot("kiln", 4.7, 0, 150)}}
	svc, _, _ := setupNotifications(t, finder)
	ctx := context.Background()

	a, err := svc.CheckNearbyTrending(ctx, "u1", testLat, testLng)
	require.NoError(t, err)
	b, err := svc.CheckNearbyTrending(ctx, "u2", testLat, testLng)
	require.NoError(t, err)

	assert.Len(t, a, 1)
	assert.Len(t, b, 1)
}

func TestCheckNearbyTrending_TrendingBar(t *testing.T) {
	tests := []struct {
		name     string
		spot     models.Spot
		expected bool
	}{
		{"High rating and close", trendingSpot("a", 4.5, 0, 300), true},
		{"High rating and popular but far", trendingSpot("b", 4.2, 5, 750), true},
		{"Exactly at the bars", trendingSpot("c", 4.0, 0, 600), true},
		{"Rating too low", trendingSpot("d", 3.9, 10, 100), false},
		{"Far and unpopular", trendingSpot("e", 4.8, 2, 601), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := setupNotifications(t, &stubFinder{spots: []models.Spot{tt.spot}})
			created, err := svc.CheckNearbyTrending(context.Background(), "u1", testLat, testLng)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, len(created) == 1)
		})
	}
}

func TestCheckNearbyTrending_CapsPerCheck(t *testing.T) {
	finder := &stubFinder{spots: []models.Spot{
		trendingSpot("s1", 4.6, 0, 100),
		trendingSpot("low", 3.0, 0, 120),
		trendingSpot("s2", 4.6, 0, 200),
		trendingSpot("s3", 4.6, 0, 300),
		trendingSpot("s4", 4.6, 0, 400),
	}}
	svc, _, _ := setupNotifications(t, finder)

	created, err := svc.CheckNearbyTrending(context.Background(), "u1", testLat, testLng)
	require.NoError(t, err)
	require.Len(t, created, 3)

	ids := []string{created[0].SpotID, created[1].SpotID, created[2].SpotID}
	assert.Equal(t, []string{"s1", "s2", "s3"}, ids)
}

func TestCheckNearbyTrending_MessageMentionsHunts(t *testing.T) {
	spot := trendingSpot("gym", 4.3, 7, 420)
	spot.Name = "Iron Yard"
	spot.Category = models.CategoryGym
	svc, _, _ := setupNotifications(t, &stubFinder{spots: []models.Spot{spot}})

	created, err := svc.CheckNearbyTrending(context.Background(), "u1", testLat, testLng)
	require.NoError(t, err)
	require.Len(t, created, 1)

	n := created[0]
	assert.Equal(t, "Popular gym nearby", n.Title)
	assert.Equal(t, "Iron Yard is 420m away and has been hunted 7 times. Rated 4.3, go hunt it!", n.Message)
	assert.Equal(t, "gym", n.Data.SpotID)
	assert.Equal(t, 420.0, n.Data.Distance)
}

func TestTrackLocation(t *testing.T) {
	svc, _, _ := setupNotifications(t, &stubFinder{})

	active, err := svc.TrackLocation("u1", testLat, testLng)
	require.NoError(t, err)
	assert.Equal(t, 1, active)

	active, err = svc.TrackLocation("u1", testLat+0.001, testLng)
	require.NoError(t, err)
	assert.Equal(t, 1, active, "re-tracking replaces the previous location")

	active, err = svc.TrackLocation("u2", testLat, testLng)
	require.NoError(t, err)
	assert.Equal(t, 2, active)

	status := svc.Status()
	assert.True(t, status.IsRunning)
	assert.Equal(t, 2, status.ActiveUsers)

	_, err = svc.TrackLocation("u3", 91, 0)
	assert.ErrorIs(t, err, ErrInvalidLocation)
	_, err = svc.TrackLocation("", testLat, testLng)
	assert.ErrorIs(t, err, ErrMissingUser)
}

func TestRunMonitoringPass_EvictsIdleUsers(t *testing.T) {
	svc, clock, _ := setupNotifications(t, &stubFinder{})
	ctx := context.Background()

	_, err := svc.TrackLocation("u1", testLat, testLng)
	require.NoError(t, err)

	clock.Advance(59 * time.Minute)
	svc.RunMonitoringPass(ctx)
	assert.Equal(t, 1, svc.Status().ActiveUsers)

	clock.Advance(2 * time.Minute)
	svc.RunMonitoringPass(ctx)
	assert.Equal(t, 0, svc.Status().ActiveUsers)
}

func TestRunMonitoringPass_IsolatesFailures(t *testing.T) {
	finder := &stubFinder{
		spots:  []models.Spot{trendingSpot("kiln", 4.7, 0, 150)},
		errFor: map[float64]error{51.6: errors.New("overpass unavailable")},
	}
	svc, _, db := setupNotifications(t, finder)

	_, err := svc.TrackLocation("broken", 51.6, testLng)
	require.NoError(t, err)
	_, err = svc.TrackLocation("ok", testLat, testLng)
	require.NoError(t, err)

	created := svc.RunMonitoringPass(context.Background())
	assert.Equal(t, 1, created)
	assert.EqualValues(t, 1, countNotifications(t, db, "ok", "kiln"))
	assert.EqualValues(t, 0, countNotifications(t, db, "broken", "kiln"))
	assert.Equal(t, 2, svc.Status().ActiveUsers)
}

func TestStopClearsTrackedUsers(t *testing.T) {
	svc, _, _ := setupNotifications(t, &stubFinder{})

	_, err := svc.TrackLocation("u1", testLat, testLng)
	require.NoError(t, err)
	svc.Start()

	svc.Stop()
	status := svc.Status()
	assert.False(t, status.IsRunning)
	assert.Equal(t, 0, status.ActiveUsers)

	// Stopping twice is harmless
	svc.Stop()

	_, err = svc.TrackLocation("u1", testLat, testLng)
	require.NoError(t, err)
	assert.True(t, svc.Status().IsRunning)
}

func TestListAndMarkRead(t *testing.T) {
	finder := &stubFinder{spots: []models.Spot{
		trendingSpot("s1", 4.6, 0, 100),
		trendingSpot("s2", 4.6, 0, 200),
	}}
	svc, clock, _ := setupNotifications(t, finder)
	ctx := context.Background()

	_, err := svc.CheckNearbyTrending(ctx, "u1", testLat, testLng)
	require.NoError(t, err)
	clock.Advance(25 * time.Hour)
	latest, err := svc.CheckNearbyTrending(ctx, "u1", testLat, testLng)
	require.NoError(t, err)
	require.Len(t, latest, 2)

	all, err := svc.List(ctx, "u1", false)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.True(t, all[0].CreatedAt.After(all[3].CreatedAt), "newest first")

	read, err := svc.MarkRead(ctx, all[0].ID)
	require.NoError(t, err)
	assert.True(t, read.Read)

	unread, err := svc.List(ctx, "u1", true)
	require.NoError(t, err)
	assert.Len(t, unread, 3)

	_, err = svc.MarkRead(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotificationNotFound)

	none, err := svc.List(ctx, "nobody", false)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}
