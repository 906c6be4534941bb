package importer

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"travel-booking/internal/config"
	"travel-booking/internal/database/databasetest"
	"travel-booking/internal/models"
	"travel-booking/internal/service"
	"travel-booking/internal/storage"
)

func newImporter(t *testing.T) (*Importer, *databasetest.Database) {
	t.Helper()
	media, err := storage.NewLocal(t.TempDir(), "")
	require.NoError(t, err)
	db := databasetest.NewDatabase()
	catalog := service.New(db, media, config.Buckets{Hotels: "hotels", Events: "events", Promos: "promos"}, zap.NewNop())
	return New(catalog, "importer", zap.NewNop()), db
}

func workbook(t *testing.T, sheets map[string][][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for name, rows := range sheets {
		_, err := f.NewSheet(name)
		require.NoError(t, err)
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			row := row
			require.NoError(t, f.SetSheetRow(name, cell, &row))
		}
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestImport(t *testing.T) {
	im, db := newImporter(t)
	db.HotelStore.On("Create", mock.MatchedBy(func(h *models.Hotel) bool {
		return h.Name == "Ayana" && h.Location == "Bali" && h.Price == 750000 &&
			h.Rating == 4.5 && h.ImageURL == "https://cdn.example/a.png" && h.UserID == "importer"
	})).Return(nil).Once()
	db.EventStore.On("Create", mock.MatchedBy(func(e *models.Event) bool {
		return e.Name == "Jazz Fest" && e.Date == "2025-08-01" && e.Price == 0
	})).Return(nil).Once()
	db.PromoStore.On("Create", mock.MatchedBy(func(p *models.Promo) bool {
		return p.Title == "Summer" && p.Discount == 15 && p.ValidUntil == "2025-09-30"
	})).Return(nil).Once()

	buf := workbook(t, map[string][][]interface{}{
		"Hotels": {
			{"Name", "Location", "Price", "Rating", "Image URL", "Id"},
			{"Ayana", "Bali", "Rp 750.000", 4.5, "https://cdn.example/a.png", 99},
			{"", "Bali", 100, 3},
			{"Mulia", "Bali", 100, "excellent"},
			{},
			{"Ritz", "Bali", 100, 9},
		},
		"Events": {
			{"name", "date", "price"},
			{"Jazz Fest", time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC), "free"},
		},
		"promos": {
			{"Title", "Discount", "Valid Until"},
			{"Summer", 15, "2025-09-30"},
		},
	})

	results, err := im.Import(context.Background(), buf)
	require.NoError(t, err)
	require.Len(t, results, 5)

	assert.Equal(t, SheetResult{Sheet: "Destinations", Missing: true}, results[0])

	hotels := results[1]
	assert.Equal(t, 1, hotels.Imported)
	require.Len(t, hotels.Skipped, 3)
	assert.Equal(t, 3, hotels.Skipped[0].Row)
	assert.Contains(t, hotels.Skipped[0].Err, "name is required")
	assert.Equal(t, 4, hotels.Skipped[1].Row)
	assert.Equal(t, 6, hotels.Skipped[2].Row)
	assert.Contains(t, hotels.Skipped[2].Err, "rating")

	assert.Equal(t, 1, results[2].Imported)
	assert.Equal(t, 1, results[3].Imported)
	assert.True(t, results[4].Missing)

	db.HotelStore.AssertExpectations(t)
	db.EventStore.AssertExpectations(t)
	db.PromoStore.AssertExpectations(t)
}

func TestImport_StopsOnStoreFailure(t *testing.T) {
	im, db := newImporter(t)
	db.HotelStore.On("Create", mock.Anything).Return(errors.New("connection refused"))

	buf := workbook(t, map[string][][]interface{}{
		"Hotels": {
			{"Name"},
			{"Ayana"},
			{"Mulia"},
		},
	})

	results, err := im.Import(context.Background(), buf)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
	require.Len(t, results, 2)
	assert.Equal(t, 0, results[1].Imported)
	db.HotelStore.AssertNumberOfCalls(t, "Create", 1)
}

func TestImport_NotAWorkbook(t *testing.T) {
	im, _ := newImporter(t)
	_, err := im.Import(context.Background(), bytes.NewBufferString("name,price\nBali,100\n"))
	assert.Error(t, err)
}

func TestNormalizeHeader(t *testing.T) {
	assert.Equal(t, "image_url", normalizeHeader(" Image  URL "))
	assert.Equal(t, "valid_until", normalizeHeader("VALID UNTIL"))
}
