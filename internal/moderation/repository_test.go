// File: internal/moderation/repository_test.go
package moderation

import (
	"context"
	"testing"
	"time"

	"miniblocket_backend/internal/listing"
	"miniblocket_backend/internal/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&user.User{},
		&listing.Listing{},
		&listing.ListingImage{},
		&ModerationEvent{},
	))

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func createTestListing(t *testing.T, db *gorm.DB) *listing.Listing {
	l := &listing.Listing{
		SellerID: uuid.New(),
		Title:    "Stroller",
		Price:    500,
		Category: "barnvagn",
		Location: "Stockholm",
		Status:   listing.StatusPending,
	}
	require.NoError(t, db.Create(l).Error)
	return l
}

func TestGORMRepository_ApplyDecision_CommitsListingAndEventTogether(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGORMRepository(db)
	ctx := context.Background()
	l := createTestListing(t, db)
	adminID := uuid.New()

	l.Status = listing.StatusActive
	l.Visible = true
	event := &ModerationEvent{
		ListingID: l.ID,
		Action:    ActionApprove,
		ActorID:   adminID,
	}

	require.NoError(t, repo.ApplyDecision(ctx, l, event))

	var stored listing.Listing
	require.NoError(t, db.First(&stored, "id = ?", l.ID).Error)
	assert.Equal(t, listing.StatusActive, stored.Status)
	assert.True(t, stored.Visible)

	events, err := repo.FindByListingID(ctx, l.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, ActionApprove, events[0].Action)
	assert.Equal(t, adminID, events[0].ActorID)
}

func TestGORMRepository_FindByListingID_OrderedOldestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGORMRepository(db)
	ctx := context.Background()
	l := createTestListing(t, db)
	reason := "Poor photos"

	base := time.Now().Add(-time.Hour)
	for i, action := range []ModerationAction{ActionReject, ActionResubmit, ActionApprove} {
		event := &ModerationEvent{
			ListingID: l.ID,
			Action:    action,
			ActorID:   uuid.New(),
		}
		if action == ActionReject {
			event.Reason = &reason
		}
		event.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, db.Create(event).Error)
	}

	events, err := repo.FindByListingID(ctx, l.ID)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, ActionReject, events[0].Action)
	assert.Equal(t, "Poor photos", *events[0].Reason)
	assert.Equal(t, ActionResubmit, events[1].Action)
	assert.Equal(t, ActionApprove, events[2].Action)
}

func TestGORMRepository_FindDecisionsSince_SkipsResubmitsAndOldEvents(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGORMRepository(db)
	ctx := context.Background()
	l := createTestListing(t, db)

	old := &ModerationEvent{ListingID: l.ID, Action: ActionApprove, ActorID: uuid.New()}
	old.CreatedAt = time.Now().Add(-48 * time.Hour)
	require.NoError(t, db.Create(old).Error)

	resubmit := &ModerationEvent{ListingID: l.ID, Action: ActionResubmit, ActorID: uuid.New()}
	require.NoError(t, db.Create(resubmit).Error)

	recent := &ModerationEvent{ListingID: l.ID, Action: ActionReject, ActorID: uuid.New()}
	require.NoError(t, db.Create(recent).Error)

	events, err := repo.FindDecisionsSince(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, ActionReject, events[0].Action)
}
