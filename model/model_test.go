package model

import (
	"testing"
	"time"

	"gorm.io/datatypes"
)

func TestSplitList(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 0},
		{",,", 0},
		{" a , b ,, c ", 3},
		{"bachelor", 1},
	}
	for _, tt := range tests {
		if got := SplitList(tt.raw); len(got) != tt.want {
			t.Errorf("SplitList(%q) = %v, want %d entries", tt.raw, got, tt.want)
		}
	}
	if got := SplitList(" a , b "); got[0] != "a" || got[1] != "b" {
		t.Errorf("entries not trimmed: %q", got)
	}
}

func TestJoinList(t *testing.T) {
	if got := JoinList([]string{" bachelor", "", "master "}); got != "bachelor,master" {
		t.Errorf("JoinList = %q", got)
	}
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"STEM Excellence Award 2025": "stem-excellence-award-2025",
		"  Women in Tech!! ":         "women-in-tech",
		"Need-Based / Rural":         "need-based-rural",
		"":                           "",
	}
	for in, want := range tests {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestBursaryDeadline(t *testing.T) {
	today := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	b := Bursary{ApplicationDeadline: datatypes.Date(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))}
	if b.IsDeadlinePassed(today) {
		t.Error("deadline today should still be open")
	}
	b.ApplicationDeadline = datatypes.Date(time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC))
	if !b.IsDeadlinePassed(today) {
		t.Error("deadline yesterday should be passed")
	}
}

func TestBursaryPopularity(t *testing.T) {
	b := Bursary{ViewsCount: 10, ApplicationsCount: 4}
	if b.Popularity() != 18 {
		t.Errorf("Popularity = %d, want 18", b.Popularity())
	}
}

func TestApplicationStatusIsValid(t *testing.T) {
	if !ApplicationStatusUnderReview.IsValid() {
		t.Error("under_review should be valid")
	}
	if ApplicationStatus("pending").IsValid() {
		t.Error("pending is not an application status")
	}
}
