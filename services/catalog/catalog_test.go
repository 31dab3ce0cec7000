package catalog_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"smrutimap/config"
	"smrutimap/models/postgres"
	"smrutimap/services/catalog"
	"smrutimap/services/storage"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "smrutimap_test.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("Error opening sqlite test database: %v", err)
	}
	if err := config.MigrateDatabase(db); err != nil {
		t.Fatalf("Error migrating test database: %v", err)
	}
	return db
}

func seedImages(t *testing.T, db *gorm.DB, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		img := postgres.HistoricalImage{
			ID:           fmt.Sprintf("img-%03d", i),
			URL:          fmt.Sprintf("https://photos.example/img-%03d.jpg", i),
			Year:         1900 + i,
			Lat:          40.0 + float64(i)*0.1,
			Lng:          -74.0 - float64(i)*0.1,
			LocationName: fmt.Sprintf("Place %d", i),
		}
		if err := db.Create(&img).Error; err != nil {
			t.Fatalf("Error seeding image %d: %v", i, err)
		}
	}
}

func TestCatalogRefreshAndLookup(t *testing.T) {
	db := openTestDB(t)
	seedImages(t, db, 5)

	svc := catalog.New(storage.NewRepository(db))
	assert.Equal(t, 0, svc.Count())

	assert.NoError(t, svc.Refresh(context.Background()))
	assert.Equal(t, 5, svc.Count())

	img, ok := svc.Get("img-003")
	assert.True(t, ok)
	assert.Equal(t, 1903, img.Year)
	assert.Equal(t, "Place 3", img.LocationName)

	_, ok = svc.Get("img-999")
	assert.False(t, ok)
	assert.True(t, svc.Contains("img-001"))
	assert.False(t, svc.Contains("nope"))
}

func TestCatalogGetManyPreservesOrder(t *testing.T) {
	db := openTestDB(t)
	seedImages(t, db, 4)

	svc := catalog.New(storage.NewRepository(db))
	assert.NoError(t, svc.Refresh(context.Background()))

	images := svc.GetMany([]string{"img-004", "missing", "img-001"})
	assert.Len(t, images, 2)
	assert.Equal(t, "img-004", images[0].ID)
	assert.Equal(t, "img-001", images[1].ID)
}

func TestCatalogRefreshPicksUpGrowth(t *testing.T) {
	db := openTestDB(t)
	seedImages(t, db, 2)

	svc := catalog.New(storage.NewRepository(db))
	assert.NoError(t, svc.Refresh(context.Background()))
	assert.Equal(t, 2, svc.Count())

	// Admin tooling added rows since the last refresh
	assert.NoError(t, db.Create(&postgres.HistoricalImage{
		ID: "img-new", URL: "https://photos.example/new.jpg", Year: 1950,
	}).Error)

	assert.NoError(t, svc.Refresh(context.Background()))
	assert.Equal(t, 3, svc.Count())
	assert.True(t, svc.Contains("img-new"))
}

func TestCatalogIDsIsACopy(t *testing.T) {
	db := openTestDB(t)
	seedImages(t, db, 3)

	svc := catalog.New(storage.NewRepository(db))
	assert.NoError(t, svc.Refresh(context.Background()))

	ids := svc.IDs()
	ids[0] = "mutated"

	fresh := svc.IDs()
	assert.NotEqual(t, "mutated", fresh[0])
	assert.Len(t, fresh, 3)
}
