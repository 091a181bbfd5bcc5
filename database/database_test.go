package database

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"spothunt-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := Open("file:" + name + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func TestLoadSpotData(t *testing.T) {
	db := openTestDB(t)

	path := filepath.Join(t.TempDir(), "spots.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"id":"s1","name":"Kiln","category":"cafe","latitude":51.5,"longitude":-0.1,"dietaryOptions":["vegan"]},
		{"id":"s2","name":"Lift","category":"gym","latitude":51.6,"longitude":-0.2,"ambiance":["energetic"]}
	]`), 0o644))

	require.NoError(t, LoadSpotData(db, path))

	var spots []models.Spot
	require.NoError(t, db.Order("id").Find(&spots).Error)
	require.Len(t, spots, 2)
	assert.Equal(t, models.SourceStored, spots[0].Source)
	assert.True(t, spots[0].DietaryOptions.Contains("vegan"))
	assert.Equal(t, models.StringSet{"trendy"}, spots[0].Ambiance)
	assert.Equal(t, models.StringSet{"energetic"}, spots[1].Ambiance)

	// A second load leaves the table alone
	require.NoError(t, LoadSpotData(db, path))
	var count int64
	db.Model(&models.Spot{}).Count(&count)
	assert.EqualValues(t, 2, count)
}

func TestLoadSpotData_MissingFile(t *testing.T) {
	db := openTestDB(t)
	assert.NoError(t, LoadSpotData(db, filepath.Join(t.TempDir(), "missing.json")))
}

func TestLoadSpotData_BadJSON(t *testing.T) {
	db := openTestDB(t)
	path := filepath.Join(t.TempDir(), "spots.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o644))

	assert.Error(t, LoadSpotData(db, path))
}

func TestSeedDemoUser(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, SeedDemoUser(db))
	require.NoError(t, SeedDemoUser(db))

	var users []models.User
	require.NoError(t, db.Find(&users).Error)
	require.Len(t, users, 1)
	assert.Equal(t, DemoUserID, users[0].ID)
	assert.Equal(t, 1, users[0].Level)
}
