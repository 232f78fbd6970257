package recommendation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sahilchouksey/bursary-hub/model"
)

func ptr(v float64) *float64 { return &v }

func TestProfileMatchScore(t *testing.T) {
	profile := &model.StudentProfile{
		EducationLevel: model.EducationLevelBachelor,
		FieldOfStudy:   "Engineering",
		GPA:            ptr(3.6),
		Country:        "Kenya",
		FinancialNeed:  model.FinancialNeedHigh,
	}

	tests := []struct {
		name    string
		bursary model.Bursary
		want    float64
	}{
		{
			name: "full match on need bursary",
			bursary: model.Bursary{
				Category:                model.BursaryCategoryNeed,
				EligibleEducationLevels: "diploma,bachelor",
				EligibleFields:          "Engineering, Science",
				MinGPA:                  ptr(3.5),
				Country:                 "Kenya",
			},
			want: 100,
		},
		{
			name: "no overlap on merit bursary",
			bursary: model.Bursary{
				Category:                model.BursaryCategoryMerit,
				EligibleEducationLevels: "master",
				EligibleFields:          "Law",
				MinGPA:                  ptr(3.9),
				Country:                 "Ghana",
			},
			want: 5,
		},
		{
			name: "malformed eligibility text",
			bursary: model.Bursary{
				Category:                model.BursaryCategorySubject,
				EligibleEducationLevels: " , ,",
				EligibleFields:          "",
				Country:                 "Kenya",
			},
			want: 35, // gpa 20 + country 10 + non-need 5
		},
		{
			name: "whitespace around entries",
			bursary: model.Bursary{
				Category:                model.BursaryCategoryOther,
				EligibleEducationLevels: "  bachelor  ,",
				EligibleFields:          ", Engineering ",
				Country:                 "Uganda",
			},
			want: 85,
		},
		{
			name: "case differences do not match",
			bursary: model.Bursary{
				Category:                model.BursaryCategoryOther,
				EligibleEducationLevels: "Bachelor",
				EligibleFields:          "engineering",
				Country:                 "kenya",
			},
			want: 25, // gpa 20 + non-need 5
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ProfileMatchScore(profile, &tt.bursary))
		})
	}
}

func TestProfileMatchScore_ExactMatching(t *testing.T) {
	profile := &model.StudentProfile{
		EducationLevel: "Bachelor",
		FieldOfStudy:   "engineering",
		GPA:            ptr(3.0),
		Country:        "kenya",
	}
	bursary := &model.Bursary{
		Category:                model.BursaryCategoryMerit,
		EligibleEducationLevels: "bachelor",
		EligibleFields:          "Engineering",
		Country:                 "Kenya",
	}
	assert.Equal(t, 25.0, ProfileMatchScore(profile, bursary))
}

func TestProfileMatchScore_NeedWithoutRecordedNeed(t *testing.T) {
	profile := &model.StudentProfile{EducationLevel: model.EducationLevelPhD, Country: "Kenya"}
	bursary := &model.Bursary{Category: model.BursaryCategoryNeed, Country: "Nigeria"}

	// only the unconditional GPA component applies
	assert.Equal(t, 20.0, ProfileMatchScore(profile, bursary))
}

func TestGPAScore(t *testing.T) {
	tests := []struct {
		name string
		gpa  *float64
		min  *float64
		want float64
	}{
		{"no minimum", nil, nil, 20},
		{"no minimum with gpa", ptr(1.0), nil, 20},
		{"meets minimum", ptr(3.5), ptr(3.5), 20},
		{"above minimum", ptr(3.9), ptr(3.5), 20},
		{"within 0.3 below", ptr(3.3), ptr(3.5), 10},
		{"just within", ptr(3.21), ptr(3.5), 10},
		{"exactly 0.3 below", ptr(3.2), ptr(3.5), 0},
		{"far below", ptr(2.0), ptr(3.5), 0},
		{"missing gpa", nil, ptr(3.0), 0},
		{"zero minimum is no minimum", nil, ptr(0), 20},
		{"zero minimum with gpa", ptr(2.5), ptr(0), 20},
		{"zero gpa is not recorded", ptr(0), ptr(0.2), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, gpaScore(tt.gpa, tt.min))
		})
	}
}

func TestTrendingScore(t *testing.T) {
	tests := []struct {
		name    string
		bursary model.Bursary
		want    float64
	}{
		{"cold", model.Bursary{}, 0},
		{"halfway", model.Bursary{ViewsCount: 500, BookmarkCount: 25, ApplicationsCount: 50}, 50},
		{"capped", model.Bursary{ViewsCount: 50000, BookmarkCount: 900, ApplicationsCount: 1000}, 100},
		{"views only capped", model.Bursary{ViewsCount: 2000}, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, TrendingScore(&tt.bursary), 1e-9)
		})
	}
}

func TestUrgencyScore(t *testing.T) {
	cases := map[int]float64{
		-3: 0, 0: 0, 1: 100, 7: 100, 8: 80, 14: 80, 15: 60, 30: 60, 31: 40, 60: 40, 61: 20, 365: 20,
	}
	for days, want := range cases {
		assert.Equal(t, want, UrgencyScore(days), "days=%d", days)
	}
}

func TestPatternScore(t *testing.T) {
	assert.Equal(t, 50.0, PatternScore(PeerSignal{}, 1), "no history")
	assert.Equal(t, 50.0, PatternScore(PeerSignal{HasHistory: true}, 1), "no similar users")

	signal := PeerSignal{
		HasHistory:   true,
		SimilarUsers: 12,
		Counts:       map[uint]int{1: 3, 2: 12},
	}
	assert.Equal(t, 30.0, PatternScore(signal, 1))
	assert.Equal(t, 100.0, PatternScore(signal, 2))
	assert.Equal(t, 30.0, PatternScore(signal, 3), "similar users exist but none applied")
}

func TestCompositeScore(t *testing.T) {
	got := CompositeScore(ScoreBreakdown{ProfileMatch: 85, Trending: 12.345, Urgency: 60, Pattern: 50})
	// 34 + 2.469 + 12 + 10
	assert.Equal(t, 58.47, got)

	clamped := CompositeScore(ScoreBreakdown{ProfileMatch: 250, Trending: -10, Urgency: 100, Pattern: 100})
	assert.Equal(t, 80.0, clamped)
}

func TestDaysUntil(t *testing.T) {
	today := time.Date(2025, 3, 10, 23, 59, 0, 0, time.UTC)

	assert.Equal(t, 0, DaysUntil(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), today))
	assert.Equal(t, 1, DaysUntil(time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), today))
	assert.Equal(t, -10, DaysUntil(time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC), today))
	assert.Equal(t, 31, DaysUntil(time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC), today))
}
