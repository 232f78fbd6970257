package model

import (
	"time"

	"gorm.io/gorm"
)

// Roles a caller can carry in their token
const (
	RoleStudent = "student"
	RoleStaff   = "staff"
)

// User represents a platform account. Accounts are provisioned the first time
// a verified token is seen; credentials live with the identity issuer.
type User struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
	ExternalID string         `gorm:"type:varchar(128);uniqueIndex;not null" json:"-"` // token subject
	Email      string         `gorm:"type:varchar(255);index" json:"email"`
	Name       string         `gorm:"type:varchar(255)" json:"name"`
	Role       string         `gorm:"type:varchar(20);default:'student'" json:"role"` // student, staff

	// Relationships
	StudentProfile *StudentProfile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"student_profile,omitempty"`
	Bookmarks      []Bookmark      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Applications   []Application   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Activities     []UserActivity  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// IsStaff reports whether the user may manage listings and read analytics
func (u *User) IsStaff() bool {
	return u.Role == RoleStaff
}
