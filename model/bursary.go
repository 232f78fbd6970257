package model

import (
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// BursaryCategory classifies what a bursary rewards
type BursaryCategory string

const (
	BursaryCategoryMerit       BursaryCategory = "merit"
	BursaryCategoryNeed        BursaryCategory = "need"
	BursaryCategoryDemographic BursaryCategory = "demographic"
	BursaryCategorySubject     BursaryCategory = "subject"
	BursaryCategoryOther       BursaryCategory = "other"
)

// BursaryStatus is the listing lifecycle state
type BursaryStatus string

const (
	BursaryStatusActive  BursaryStatus = "active"
	BursaryStatusClosed  BursaryStatus = "closed"
	BursaryStatusPending BursaryStatus = "pending"
)

// Bursary is a funding opportunity listing
type Bursary struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
	Title       string          `gorm:"type:varchar(200);not null" json:"title"`
	Slug        string          `gorm:"type:varchar(220);uniqueIndex;not null" json:"slug"`
	Description string          `gorm:"type:text" json:"description"`
	Category    BursaryCategory `gorm:"type:varchar(20);not null;index" json:"category"`
	Status      BursaryStatus   `gorm:"type:varchar(10);not null;default:'pending';index" json:"status"`

	// Financial details
	Amount   float64 `gorm:"type:numeric(12,2);not null" json:"amount"`
	Currency string  `gorm:"type:varchar(3);default:'USD'" json:"currency"`

	// Eligibility, stored as comma-separated text
	EligibleEducationLevels string   `gorm:"type:text" json:"eligible_education_levels"`
	EligibleFields          string   `gorm:"type:text" json:"eligible_fields"`
	MinGPA                  *float64 `gorm:"type:numeric(3,2)" json:"min_gpa,omitempty"`

	// Location
	Country string `gorm:"type:varchar(100);not null;index" json:"country"`
	City    string `gorm:"type:varchar(100)" json:"city,omitempty"`

	// Provider
	ProviderName    string `gorm:"type:varchar(200);not null" json:"provider_name"`
	ProviderWebsite string `gorm:"type:varchar(255)" json:"provider_website,omitempty"`
	ContactEmail    string `gorm:"type:varchar(255)" json:"contact_email,omitempty"`

	// Application details
	ApplicationDeadline datatypes.Date  `gorm:"not null;index" json:"application_deadline"`
	StartDate           *datatypes.Date `json:"start_date,omitempty"`
	ApplicationURL      string          `gorm:"type:varchar(255)" json:"application_url,omitempty"`
	RequiredDocuments   string          `gorm:"type:text" json:"required_documents,omitempty"`

	// Metadata
	ViewsCount        int64 `gorm:"default:0" json:"views_count"`
	ApplicationsCount int64 `gorm:"default:0" json:"applications_count"`
	CreatedByID       *uint `gorm:"index" json:"created_by_id,omitempty"`

	// Filled by queries that aggregate bookmarks; never written
	BookmarkCount int64 `gorm:"->;-:migration" json:"bookmark_count"`

	// Relationships
	Bookmarks    []Bookmark    `gorm:"foreignKey:BursaryID;constraint:OnDelete:CASCADE" json:"-"`
	Applications []Application `gorm:"foreignKey:BursaryID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for Bursary
func (Bursary) TableName() string {
	return "bursaries"
}

// EducationLevels returns the eligible education levels as a set of trimmed,
// non-empty entries
func (b *Bursary) EducationLevels() []string {
	return SplitList(b.EligibleEducationLevels)
}

// Fields returns the eligible fields of study as a set of trimmed, non-empty
// entries
func (b *Bursary) Fields() []string {
	return SplitList(b.EligibleFields)
}

// Deadline returns the application deadline as a time.Time
func (b *Bursary) Deadline() time.Time {
	return time.Time(b.ApplicationDeadline)
}

// IsDeadlinePassed reports whether the deadline lies before today
func (b *Bursary) IsDeadlinePassed(today time.Time) bool {
	return DateOf(b.Deadline()).Before(DateOf(today))
}

// Popularity is the fallback ranking metric: views plus twice the applications
func (b *Bursary) Popularity() int64 {
	return b.ViewsCount + 2*b.ApplicationsCount
}

// SplitList parses comma-delimited eligibility text. Empty or malformed input
// yields an empty list.
func SplitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// JoinList is the inverse of SplitList
func JoinList(values []string) string {
	return strings.Join(SplitList(strings.Join(values, ",")), ",")
}

// DateOf truncates t to midnight UTC of its calendar date
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Bookmark is a (user, bursary) pair saved for later
type Bookmark struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_bookmark_user_bursary" json:"user_id"`
	BursaryID uint      `gorm:"not null;uniqueIndex:idx_bookmark_user_bursary;index" json:"bursary_id"`

	// Relationships
	User    User    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Bursary Bursary `gorm:"foreignKey:BursaryID;constraint:OnDelete:CASCADE" json:"bursary,omitempty"`
}

// TableName specifies the table name for Bookmark
func (Bookmark) TableName() string {
	return "bookmarks"
}
