package model

import (
	"time"
)

// ActivityType represents the type of user activity
type ActivityType string

const (
	ActivityTypeLogin          ActivityType = "login"
	ActivityTypeViewBursary    ActivityType = "view_bursary"
	ActivityTypeApply          ActivityType = "apply"
	ActivityTypeBookmark       ActivityType = "bookmark"
	ActivityTypeProfileUpdate  ActivityType = "profile_update"
	ActivityTypeRecommendation ActivityType = "recommend"
)

// UserActivity is an append-only record of what a student did, kept for
// engagement analytics
type UserActivity struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	UserID       uint         `gorm:"not null;index:idx_user_activity" json:"user_id"`
	ActivityType ActivityType `gorm:"type:varchar(30);not null;index:idx_activity_type" json:"activity_type"`
	BursaryID    *uint        `gorm:"index" json:"bursary_id,omitempty"`
	Description  string       `gorm:"type:text" json:"description,omitempty"`
	IPAddress    string       `gorm:"type:varchar(45)" json:"ip_address,omitempty"`
	CreatedAt    time.Time    `gorm:"index:idx_activity_created_at" json:"created_at"`
}

// TableName specifies the table name for UserActivity
func (UserActivity) TableName() string {
	return "user_activities"
}
