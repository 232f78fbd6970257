package recommendation

import (
	"math"
	"time"

	"github.com/sahilchouksey/bursary-hub/model"
)

// Composite weights
const (
	weightProfileMatch = 0.40
	weightTrending     = 0.20
	weightUrgency      = 0.20
	weightPattern      = 0.20
)

// Pattern scores used when there is no peer signal, or a peer signal that is zero
const (
	neutralPatternScore = 50
	patternFloorScore   = 30
)

// ScoreBreakdown holds the four sub-scores behind a composite score
type ScoreBreakdown struct {
	ProfileMatch float64 `json:"profile_match"`
	Trending     float64 `json:"trending"`
	Urgency      float64 `json:"urgency"`
	Pattern      float64 `json:"pattern"`
}

// ProfileMatchScore rates how well a student's profile fits a bursary's
// eligibility criteria
func ProfileMatchScore(profile *model.StudentProfile, bursary *model.Bursary) float64 {
	score := 0.0

	if contains(bursary.EducationLevels(), string(profile.EducationLevel)) {
		score += 30
	}
	if contains(bursary.Fields(), profile.FieldOfStudy) {
		score += 30
	}

	score += gpaScore(profile.GPA, bursary.MinGPA)

	if profile.Country == bursary.Country {
		score += 10
	}

	if bursary.Category == model.BursaryCategoryNeed {
		if profile.HasFinancialNeed() {
			score += 10
		}
	} else {
		score += 5
	}

	return clamp(score)
}

// gpaScore compares in hundredths so that 3.5 - 3.2 is not read as 0.2999...
// A zero minimum means no minimum; a zero GPA counts as not recorded.
func gpaScore(gpa, minGPA *float64) float64 {
	if minGPA == nil || *minGPA == 0 {
		return 20
	}
	if gpa == nil || *gpa == 0 {
		return 0
	}
	have := int64(math.Round(*gpa * 100))
	need := int64(math.Round(*minGPA * 100))
	switch {
	case have >= need:
		return 20
	case need-have < 30:
		return 10
	default:
		return 0
	}
}

// TrendingScore rates a bursary's popularity from views, bookmarks and
// applications
func TrendingScore(bursary *model.Bursary) float64 {
	views := math.Min(float64(bursary.ViewsCount)/1000*40, 40)
	bookmarks := math.Min(float64(bursary.BookmarkCount)/50*30, 30)
	applications := math.Min(float64(bursary.ApplicationsCount)/100*30, 30)
	return clamp(views + bookmarks + applications)
}

// UrgencyScore is a step function of the days left before the deadline
func UrgencyScore(days int) float64 {
	switch {
	case days <= 0:
		return 0
	case days <= 7:
		return 100
	case days <= 14:
		return 80
	case days <= 30:
		return 60
	case days <= 60:
		return 40
	default:
		return 20
	}
}

// PeerSignal captures what similar users applied to. The zero value means the
// requesting user has no application history.
type PeerSignal struct {
	HasHistory   bool
	SimilarUsers int
	Counts       map[uint]int // bursary ID -> similar users who applied
}

// PatternScore rates a bursary by how many similar users applied to it
func PatternScore(signal PeerSignal, bursaryID uint) float64 {
	if !signal.HasHistory || signal.SimilarUsers == 0 {
		return neutralPatternScore
	}
	score := math.Min(float64(signal.Counts[bursaryID])/10*100, 100)
	if score == 0 {
		return patternFloorScore
	}
	return clamp(score)
}

// CompositeScore blends the sub-scores, clamping each first, and rounds to two
// decimals
func CompositeScore(b ScoreBreakdown) float64 {
	total := weightProfileMatch*clamp(b.ProfileMatch) +
		weightTrending*clamp(b.Trending) +
		weightUrgency*clamp(b.Urgency) +
		weightPattern*clamp(b.Pattern)
	return math.Round(clamp(total)*100) / 100
}

// DaysUntil counts whole calendar days from today to the deadline, in UTC
func DaysUntil(deadline, today time.Time) int {
	return int(model.DateOf(deadline).Sub(model.DateOf(today)).Hours() / 24)
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

func contains(values []string, target string) bool {
	if target == "" {
		return false
	}
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
