package database

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sahilchouksey/bursary-hub/database/testdb"
	"github.com/sahilchouksey/bursary-hub/model"
	"github.com/sahilchouksey/bursary-hub/services/recommendation"
)

var today = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func newStoreDB(t *testing.T) *gorm.DB {
	return testdb.New(t, Models()...)
}

func createBursary(t *testing.T, db *gorm.DB, title string, status model.BursaryStatus, deadlineDays int) model.Bursary {
	t.Helper()
	b := model.Bursary{
		Title:               title,
		Slug:                fmt.Sprintf("%s-%d", title, time.Now().UnixNano()),
		Category:            model.BursaryCategoryMerit,
		Status:              status,
		Amount:              1000,
		Country:             "Kenya",
		ProviderName:        "Foundation",
		ApplicationDeadline: Day(today.AddDate(0, 0, deadlineDays)),
	}
	require.NoError(t, db.Create(&b).Error)
	return b
}

func createUser(t *testing.T, db *gorm.DB, subject string) model.User {
	t.Helper()
	u := model.User{ExternalID: subject, Email: subject + "@example.com", Role: model.RoleStudent}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func TestRecommendationStore_FindProfile(t *testing.T) {
	db := newStoreDB(t)
	store := NewRecommendationStore(db)
	user := createUser(t, db, "alice")

	_, found, err := store.FindProfile(context.Background(), user.ID)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, db.Create(&model.StudentProfile{
		UserID:         user.ID,
		EducationLevel: model.EducationLevelBachelor,
		FieldOfStudy:   "Physics",
		Country:        "Kenya",
	}).Error)

	profile, found, err := store.FindProfile(context.Background(), user.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Physics", profile.FieldOfStudy)
}

func TestRecommendationStore_ActiveBursaries(t *testing.T) {
	db := newStoreDB(t)
	store := NewRecommendationStore(db)

	open := createBursary(t, db, "open", model.BursaryStatusActive, 10)
	dueToday := createBursary(t, db, "due-today", model.BursaryStatusActive, 0)
	createBursary(t, db, "expired", model.BursaryStatusActive, -1)
	createBursary(t, db, "pending", model.BursaryStatusPending, 10)
	createBursary(t, db, "closed", model.BursaryStatusClosed, 10)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	require.NoError(t, db.Create(&model.Bookmark{UserID: alice.ID, BursaryID: open.ID}).Error)
	require.NoError(t, db.Create(&model.Bookmark{UserID: bob.ID, BursaryID: open.ID}).Error)

	got, err := store.ActiveBursaries(context.Background(), recommendation.BursaryQuery{AsOf: today})
	require.NoError(t, err)
	require.Len(t, got, 2)

	counts := map[uint]int64{}
	for _, b := range got {
		counts[b.ID] = b.BookmarkCount
	}
	assert.Equal(t, int64(2), counts[open.ID])
	assert.Equal(t, int64(0), counts[dueToday.ID])

	excluded, err := store.ActiveBursaries(context.Background(), recommendation.BursaryQuery{AsOf: today, ExcludeID: open.ID})
	require.NoError(t, err)
	require.Len(t, excluded, 1)
	assert.Equal(t, dueToday.ID, excluded[0].ID)
}

func TestRecommendationStore_ActiveBursariesExcludesInteractions(t *testing.T) {
	db := newStoreDB(t)
	store := NewRecommendationStore(db)

	applied := createBursary(t, db, "applied", model.BursaryStatusActive, 10)
	bookmarked := createBursary(t, db, "bookmarked", model.BursaryStatusActive, 10)
	fresh := createBursary(t, db, "fresh", model.BursaryStatusActive, 10)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	require.NoError(t, db.Create(&model.Application{UserID: alice.ID, BursaryID: applied.ID, Status: model.ApplicationStatusDraft}).Error)
	require.NoError(t, db.Create(&model.Bookmark{UserID: alice.ID, BursaryID: bookmarked.ID}).Error)
	require.NoError(t, db.Create(&model.Bookmark{UserID: bob.ID, BursaryID: fresh.ID}).Error)

	got, err := store.ActiveBursaries(context.Background(), recommendation.BursaryQuery{AsOf: today, ExcludeInteractedBy: alice.ID})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, fresh.ID, got[0].ID)

	forBob, err := store.ActiveBursaries(context.Background(), recommendation.BursaryQuery{AsOf: today, ExcludeInteractedBy: bob.ID})
	require.NoError(t, err)
	assert.Len(t, forBob, 2)
}

func TestRecommendationStore_Applications(t *testing.T) {
	db := newStoreDB(t)
	store := NewRecommendationStore(db)

	b1 := createBursary(t, db, "one", model.BursaryStatusActive, 10)
	b2 := createBursary(t, db, "two", model.BursaryStatusActive, 10)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	carol := createUser(t, db, "carol")

	for _, a := range []model.Application{
		{UserID: alice.ID, BursaryID: b1.ID},
		{UserID: bob.ID, BursaryID: b1.ID},
		{UserID: bob.ID, BursaryID: b2.ID},
		{UserID: carol.ID, BursaryID: b2.ID},
	} {
		a.Status = model.ApplicationStatusSubmitted
		require.NoError(t, db.Create(&a).Error)
	}

	own, err := store.ApplicationsByUser(context.Background(), bob.ID)
	require.NoError(t, err)
	assert.Len(t, own, 2)

	anyUser, err := store.ApplicationsFor(context.Background(), nil, []uint{b1.ID})
	require.NoError(t, err)
	assert.Len(t, anyUser, 2)

	restricted, err := store.ApplicationsFor(context.Background(), []uint{bob.ID}, []uint{b1.ID, b2.ID})
	require.NoError(t, err)
	assert.Len(t, restricted, 2)

	none, err := store.ApplicationsFor(context.Background(), []uint{}, []uint{b1.ID})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRecommendationStore_DrivesEngine(t *testing.T) {
	db := newStoreDB(t)
	store := NewRecommendationStore(db)

	b1 := createBursary(t, db, "viewed", model.BursaryStatusActive, 20)
	require.NoError(t, db.Model(&b1).Update("views_count", 900).Error)
	createBursary(t, db, "quiet", model.BursaryStatusActive, 20)

	engine := recommendation.NewEngine(store, recommendation.WithClock(func() time.Time { return today }))
	result, err := engine.GetRecommendations(context.Background(), 42, 5)
	require.NoError(t, err)

	assert.False(t, result.Personalized)
	require.Len(t, result.Items, 2)
	assert.Equal(t, b1.ID, result.Items[0].ID)
}
