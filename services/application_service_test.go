package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahilchouksey/bursary-hub/model"
)

func TestApplicationService_TrackCreatesDraftOnce(t *testing.T) {
	db := newTestDB(t)
	svc := NewApplicationService(db, nil)
	ctx := context.Background()

	user := seedUser(t, db, "student", model.RoleStudent)
	b := seedBursary(t, db, "Target")

	app, created, err := svc.Track(ctx, user.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, model.ApplicationStatusDraft, app.Status)

	again, created, err := svc.Track(ctx, user.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, app.ID, again.ID)

	var reloaded model.Bursary
	require.NoError(t, db.First(&reloaded, b.ID).Error)
	assert.Equal(t, int64(1), reloaded.ApplicationsCount)
}

func TestApplicationService_TrackRejectsUnavailable(t *testing.T) {
	db := newTestDB(t)
	svc := NewApplicationService(db, nil)
	ctx := context.Background()
	user := seedUser(t, db, "student", model.RoleStudent)

	_, _, err := svc.Track(ctx, user.ID, 404)
	assert.ErrorIs(t, err, ErrBursaryNotFound)

	pending := seedBursary(t, db, "Pending", withStatus(model.BursaryStatusPending))
	_, _, err = svc.Track(ctx, user.ID, pending.ID)
	assert.ErrorIs(t, err, ErrBursaryNotFound)

	expired := seedBursary(t, db, "Expired", dueIn(-1))
	_, _, err = svc.Track(ctx, user.ID, expired.ID)
	assert.ErrorIs(t, err, ErrDeadlinePassed)
}

func TestApplicationService_TrackerGroupsByStatus(t *testing.T) {
	db := newTestDB(t)
	svc := NewApplicationService(db, nil)
	ctx := context.Background()

	user := seedUser(t, db, "student", model.RoleStudent)
	other := seedUser(t, db, "other", model.RoleStudent)
	b1 := seedBursary(t, db, "One")
	b2 := seedBursary(t, db, "Two")

	require.NoError(t, db.Create(&model.Application{UserID: user.ID, BursaryID: b1.ID, Status: model.ApplicationStatusDraft}).Error)
	require.NoError(t, db.Create(&model.Application{UserID: user.ID, BursaryID: b2.ID, Status: model.ApplicationStatusAccepted}).Error)
	require.NoError(t, db.Create(&model.Application{UserID: other.ID, BursaryID: b2.ID, Status: model.ApplicationStatusDraft}).Error)

	tracker, err := svc.Tracker(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, tracker.Applications, 2)
	assert.Len(t, tracker.ByStatus[model.ApplicationStatusDraft], 1)
	assert.Len(t, tracker.ByStatus[model.ApplicationStatusAccepted], 1)
	assert.Empty(t, tracker.ByStatus[model.ApplicationStatusRejected])
	assert.Equal(t, "Two", tracker.ByStatus[model.ApplicationStatusAccepted][0].Bursary.Title)
}

func TestApplicationService_Update(t *testing.T) {
	db := newTestDB(t)
	svc := NewApplicationService(db, nil)
	ctx := context.Background()

	owner := seedUser(t, db, "owner", model.RoleStudent)
	intruder := seedUser(t, db, "intruder", model.RoleStudent)
	b := seedBursary(t, db, "Target")
	app, _, err := svc.Track(ctx, owner.ID, b.ID)
	require.NoError(t, err)

	submitted := model.ApplicationStatusSubmitted
	letter := "Dear committee"
	updated, err := svc.Update(ctx, owner.ID, app.ID, ApplicationUpdate{Status: &submitted, CoverLetter: &letter})
	require.NoError(t, err)
	assert.Equal(t, submitted, updated.Status)
	assert.Equal(t, letter, updated.CoverLetter)
	require.NotNil(t, updated.SubmittedAt)
	firstSubmit := *updated.SubmittedAt

	review := model.ApplicationStatusUnderReview
	updated, err = svc.Update(ctx, owner.ID, app.ID, ApplicationUpdate{Status: &review})
	require.NoError(t, err)
	assert.Equal(t, review, updated.Status)

	updated, err = svc.Update(ctx, owner.ID, app.ID, ApplicationUpdate{Status: &submitted})
	require.NoError(t, err)
	assert.True(t, firstSubmit.Equal(*updated.SubmittedAt), "submitted_at is stamped once")

	bogus := model.ApplicationStatus("lost")
	_, err = svc.Update(ctx, owner.ID, app.ID, ApplicationUpdate{Status: &bogus})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = svc.Update(ctx, intruder.ID, app.ID, ApplicationUpdate{Status: &review})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Update(ctx, owner.ID, 9999, ApplicationUpdate{Status: &review})
	assert.ErrorIs(t, err, ErrApplicationNotFound)
}
