package resources

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lendahand-app/lendahand-backend/pkg/db/models"
	"github.com/lendahand-app/lendahand-backend/pkg/enums"
)

func setupResourcesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	offers := `
CREATE TABLE IF NOT EXISTS offers (
  id TEXT PRIMARY KEY,
  owner_id TEXT NOT NULL,
  title TEXT NOT NULL,
  description TEXT,
  status TEXT NOT NULL DEFAULT 'active',
  latitude REAL NOT NULL,
  longitude REAL NOT NULL,
  price_cents INTEGER,
  category TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	requests := `
CREATE TABLE IF NOT EXISTS requests (
  id TEXT PRIMARY KEY,
  owner_id TEXT NOT NULL,
  title TEXT NOT NULL,
  description TEXT,
  status TEXT NOT NULL DEFAULT 'active',
  latitude REAL NOT NULL,
  longitude REAL NOT NULL,
  alert_type TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(offers).Error)
	require.NoError(t, db.Exec(requests).Error)
	return db
}

func insertOffer(t *testing.T, db *gorm.DB, status enums.ResourceStatus) models.Offer {
	t.Helper()
	offer := models.Offer{
		ID:        uuid.New(),
		OwnerID:   uuid.New(),
		Title:     "ladder to borrow",
		Status:    status,
		Latitude:  52.52,
		Longitude: 13.405,
	}
	require.NoError(t, db.Create(&offer).Error)
	return offer
}

func TestOfferVariantFindByID(t *testing.T) {
	db := setupResourcesTestDB(t)
	variant := NewOfferVariant(db)
	offer := insertOffer(t, db, enums.ResourceStatusActive)

	res, err := variant.FindByID(context.Background(), offer.ID)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, offer.ID, res.ID)
	assert.Equal(t, offer.OwnerID, res.OwnerID)
	assert.Equal(t, enums.ResourceStatusActive, res.Status)

	missing, err := variant.FindByID(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestOfferVariantClaimStatusIsConditional(t *testing.T) {
	db := setupResourcesTestDB(t)
	variant := NewOfferVariant(db)
	offer := insertOffer(t, db, enums.ResourceStatusActive)

	claimed, err := variant.ClaimStatus(context.Background(), offer.ID, enums.ResourceStatusActive, enums.ResourceStatusInProgress)
	require.NoError(t, err)
	assert.True(t, claimed)

	// The row no longer matches the expected status, so a second claim loses.
	claimed, err = variant.ClaimStatus(context.Background(), offer.ID, enums.ResourceStatusActive, enums.ResourceStatusInProgress)
	require.NoError(t, err)
	assert.False(t, claimed)

	res, err := variant.FindByID(context.Background(), offer.ID)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, enums.ResourceStatusInProgress, res.Status)
}

func TestOfferVariantSetStatus(t *testing.T) {
	db := setupResourcesTestDB(t)
	variant := NewOfferVariant(db)
	offer := insertOffer(t, db, enums.ResourceStatusInProgress)

	updated, err := variant.SetStatus(context.Background(), offer.ID, enums.ResourceStatusCompleted)
	require.NoError(t, err)
	assert.True(t, updated)

	updated, err = variant.SetStatus(context.Background(), uuid.New(), enums.ResourceStatusCompleted)
	require.NoError(t, err)
	assert.False(t, updated)
}

func TestRequestVariantClaimStatus(t *testing.T) {
	db := setupResourcesTestDB(t)
	variant := NewRequestVariant(db)
	request := models.Request{
		ID:        uuid.New(),
		OwnerID:   uuid.New(),
		Title:     "need help moving",
		Status:    enums.ResourceStatusActive,
		Latitude:  40.4168,
		Longitude: -3.7038,
	}
	require.NoError(t, db.Create(&request).Error)

	claimed, err := variant.ClaimStatus(context.Background(), request.ID, enums.ResourceStatusActive, enums.ResourceStatusInProgress)
	require.NoError(t, err)
	assert.True(t, claimed)

	res, err := variant.FindByID(context.Background(), request.ID)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, enums.ResourceStatusInProgress, res.Status)
}
