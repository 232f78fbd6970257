package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahilchouksey/bursary-hub/model"
)

func TestProfileService_Upsert(t *testing.T) {
	db := newTestDB(t)
	svc := NewProfileService(db)
	ctx := context.Background()
	user := seedUser(t, db, "student", model.RoleStudent)

	_, err := svc.Get(ctx, user.ID)
	assert.ErrorIs(t, err, ErrProfileNotFound)

	gpa := 3.4
	created, err := svc.Upsert(ctx, user.ID, &model.StudentProfile{
		EducationLevel: model.EducationLevelBachelor,
		FieldOfStudy:   "Nursing",
		Country:        "Kenya",
		GPA:            &gpa,
		FinancialNeed:  model.FinancialNeedHigh,
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, created.UserID)
	assert.Equal(t, "Nursing", created.FieldOfStudy)

	replaced, err := svc.Upsert(ctx, user.ID, &model.StudentProfile{
		EducationLevel: model.EducationLevelMaster,
		FieldOfStudy:   "Public Health",
		Country:        "Kenya",
		Institution:    "University of Nairobi",
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, replaced.ID)
	assert.Equal(t, model.EducationLevelMaster, replaced.EducationLevel)
	assert.Nil(t, replaced.GPA)

	var count int64
	require.NoError(t, db.Model(&model.StudentProfile{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
