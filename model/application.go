package model

import (
	"time"
)

// ApplicationStatus tracks where a student is with an application
type ApplicationStatus string

const (
	ApplicationStatusDraft       ApplicationStatus = "draft"
	ApplicationStatusSubmitted   ApplicationStatus = "submitted"
	ApplicationStatusUnderReview ApplicationStatus = "under_review"
	ApplicationStatusAccepted    ApplicationStatus = "accepted"
	ApplicationStatusRejected    ApplicationStatus = "rejected"
	ApplicationStatusWithdrawn   ApplicationStatus = "withdrawn"
)

// ApplicationStatuses lists every valid status in tracker order
var ApplicationStatuses = []ApplicationStatus{
	ApplicationStatusDraft,
	ApplicationStatusSubmitted,
	ApplicationStatusUnderReview,
	ApplicationStatusAccepted,
	ApplicationStatusRejected,
	ApplicationStatusWithdrawn,
}

// IsValid reports whether s is a known status
func (s ApplicationStatus) IsValid() bool {
	for _, known := range ApplicationStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Application is a student's tracked application to one bursary
type Application struct {
	ID           uint              `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time         `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
	UserID       uint              `gorm:"not null;uniqueIndex:idx_application_user_bursary" json:"user_id"`
	BursaryID    uint              `gorm:"not null;uniqueIndex:idx_application_user_bursary;index" json:"bursary_id"`
	Status       ApplicationStatus `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`
	CoverLetter  string            `gorm:"type:text" json:"cover_letter"`
	Motivation   string            `gorm:"type:text" json:"motivation,omitempty"`
	Achievements string            `gorm:"type:text" json:"achievements,omitempty"`
	SubmittedAt  *time.Time        `json:"submitted_at,omitempty"`

	// Relationships
	User    User    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Bursary Bursary `gorm:"foreignKey:BursaryID;constraint:OnDelete:CASCADE" json:"bursary,omitempty"`
}

// TableName specifies the table name for Application
func (Application) TableName() string {
	return "applications"
}
