package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahilchouksey/bursary-hub/model"
)

func TestAnalyticsService_OverviewStats(t *testing.T) {
	db := newTestDB(t)
	memo := newMemoryCache()
	svc := NewAnalyticsService(db, memo, nil)
	ctx := context.Background()

	seedBursary(t, db, "Soon", dueIn(5))
	seedBursary(t, db, "Later", dueIn(90))
	seedBursary(t, db, "Closed", withStatus(model.BursaryStatusClosed), dueIn(5))
	student := seedUser(t, db, "student", model.RoleStudent)
	seedUser(t, db, "staff", model.RoleStaff)
	b := seedBursary(t, db, "Applied", dueIn(40))
	require.NoError(t, db.Create(&model.Application{UserID: student.ID, BursaryID: b.ID, Status: model.ApplicationStatusDraft}).Error)

	stats, err := svc.OverviewStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.ActiveBursaries)
	assert.Equal(t, int64(1), stats.TotalStudents)
	assert.Equal(t, int64(1), stats.TotalApplications)
	assert.Equal(t, int64(1), stats.ApproachingDeadline)

	// served from cache until metrics are refreshed
	seedBursary(t, db, "New", dueIn(5))
	cached, err := svc.OverviewStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), cached.ActiveBursaries)

	_, err = svc.RefreshMetrics(ctx)
	require.NoError(t, err)
	fresh, err := svc.OverviewStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), fresh.ActiveBursaries)
}

func TestAnalyticsService_PerformanceAndDistribution(t *testing.T) {
	db := newTestDB(t)
	svc := NewAnalyticsService(db, nil, nil)
	ctx := context.Background()

	popular := seedBursary(t, db, "Popular")
	seedBursary(t, db, "Ignored", func(b *model.Bursary) { b.Category = model.BursaryCategoryNeed })
	for _, name := range []string{"a", "b", "c"} {
		u := seedUser(t, db, name, model.RoleStudent)
		require.NoError(t, db.Create(&model.Application{UserID: u.ID, BursaryID: popular.ID, Status: model.ApplicationStatusSubmitted}).Error)
	}

	perf, err := svc.BursaryPerformance(ctx)
	require.NoError(t, err)
	require.Len(t, perf, 2)
	assert.Equal(t, "Popular", perf[0].Title)
	assert.Equal(t, int64(3), perf[0].ApplicationsCount)

	dist, err := svc.CategoryDistribution(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []LabelCount{{Label: "merit", Count: 1}, {Label: "need", Count: 1}}, dist)

	_, err = svc.ChartData(ctx, "pie")
	assert.ErrorIs(t, err, ErrUnknownChart)
}

func TestAnalyticsService_ApplicationTrends(t *testing.T) {
	db := newTestDB(t)
	svc := NewAnalyticsService(db, nil, nil)
	ctx := context.Background()

	u := seedUser(t, db, "student", model.RoleStudent)
	b1 := seedBursary(t, db, "One")
	b2 := seedBursary(t, db, "Two")
	require.NoError(t, db.Create(&model.Application{UserID: u.ID, BursaryID: b1.ID, Status: model.ApplicationStatusDraft}).Error)
	require.NoError(t, db.Create(&model.Application{UserID: u.ID, BursaryID: b2.ID, Status: model.ApplicationStatusDraft}).Error)

	trend, err := svc.ApplicationTrends(ctx, 7)
	require.NoError(t, err)
	require.Len(t, trend, 7)
	last := trend[len(trend)-1]
	assert.Equal(t, time.Now().UTC().Format("2006-01-02"), last.Label)
	assert.Equal(t, int64(2), last.Count)
	assert.Equal(t, int64(0), trend[0].Count)
}

func TestAnalyticsService_StudentEngagement(t *testing.T) {
	db := newTestDB(t)
	svc := NewAnalyticsService(db, nil, nil)
	ctx := context.Background()

	empty, err := svc.StudentEngagement(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0.0, empty.CompletionRate)

	gpa := 3.1
	for i, p := range []model.StudentProfile{
		{Institution: "UCT", GPA: &gpa, FieldOfStudy: "Law"},
		{Institution: "UCT", FieldOfStudy: "Law"},
		{GPA: &gpa, FieldOfStudy: "Medicine"},
	} {
		u := seedUser(t, db, string(rune('a'+i)), model.RoleStudent)
		p.UserID = u.ID
		p.EducationLevel = model.EducationLevelBachelor
		p.Country = "South Africa"
		require.NoError(t, db.Create(&p).Error)
	}
	activity := NewActivityService(db, nil)
	activity.Log(ctx, 1, model.ActivityTypeLogin, nil, "", "")
	activity.Log(ctx, 1, model.ActivityTypeViewBursary, nil, "", "")

	e, err := svc.StudentEngagement(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), e.CompleteProfiles)
	assert.Equal(t, int64(3), e.TotalProfiles)
	assert.Equal(t, int64(1), e.ActiveStudents)
	assert.Equal(t, 33.33, e.CompletionRate)

	fields, err := svc.PopularFields(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, fields)
	assert.Equal(t, LabelCount{Label: "Law", Count: 2}, fields[0])
}

func TestAnalyticsService_RefreshMetrics(t *testing.T) {
	db := newTestDB(t)
	svc := NewAnalyticsService(db, nil, nil)
	ctx := context.Background()

	u := seedUser(t, db, "student", model.RoleStudent)
	b := seedBursary(t, db, "One")
	require.NoError(t, db.Create(&model.Application{UserID: u.ID, BursaryID: b.ID, Status: model.ApplicationStatusDraft}).Error)

	written, err := svc.RefreshMetrics(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), written)

	// second refresh overwrites rather than duplicating
	_, err = svc.RefreshMetrics(ctx)
	require.NoError(t, err)

	metrics, err := svc.Metrics(ctx)
	require.NoError(t, err)
	assert.Len(t, metrics, 5)
	assert.Equal(t, int64(1), metrics[model.MetricTotalUsers])
	assert.Equal(t, int64(1), metrics[model.MetricNewApplicationsToday])
}

func TestAnalyticsService_ExportCSV(t *testing.T) {
	db := newTestDB(t)
	svc := NewAnalyticsService(db, nil, nil)
	ctx := context.Background()

	u := seedUser(t, db, "thandi", model.RoleStudent)
	b := seedBursary(t, db, "Export, Me")
	require.NoError(t, db.Create(&model.Application{UserID: u.ID, BursaryID: b.ID, Status: model.ApplicationStatusSubmitted}).Error)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportBursariesCSV(ctx, &buf))
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Title", rows[0][0])
	assert.Equal(t, "Export, Me", rows[1][0])
	assert.Equal(t, "2500.00", rows[1][3])

	buf.Reset()
	require.NoError(t, svc.ExportApplicationsCSV(ctx, &buf))
	rows, err = csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Student", "Email", "Bursary", "Status", "Applied Date", "Updated"}, rows[0])
	assert.Equal(t, "thandi", rows[1][0])
	assert.Equal(t, "submitted", rows[1][3])
}
