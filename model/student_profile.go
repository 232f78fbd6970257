package model

import (
	"time"
)

// EducationLevel is the student's current level of study
type EducationLevel string

const (
	EducationLevelHighSchool EducationLevel = "high_school"
	EducationLevelDiploma    EducationLevel = "diploma"
	EducationLevelBachelor   EducationLevel = "bachelor"
	EducationLevelMaster     EducationLevel = "master"
	EducationLevelPhD        EducationLevel = "phd"
)

// FinancialNeed is the self-reported need level. Empty means not recorded.
type FinancialNeed string

const (
	FinancialNeedHigh   FinancialNeed = "high"
	FinancialNeedMedium FinancialNeed = "medium"
	FinancialNeedLow    FinancialNeed = "low"
)

// StudentProfile holds the academic and financial details the recommendation
// engine matches against bursary eligibility. A user has at most one.
type StudentProfile struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	UserID         uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	EducationLevel EducationLevel `gorm:"type:varchar(20);not null" json:"education_level"`
	FieldOfStudy   string         `gorm:"type:varchar(100);not null" json:"field_of_study"`
	Institution    string         `gorm:"type:varchar(200)" json:"institution"`
	YearOfStudy    string         `gorm:"type:varchar(10)" json:"year_of_study,omitempty"` // 1-5, other
	GPA            *float64       `gorm:"type:numeric(3,2)" json:"gpa,omitempty"`
	Country        string         `gorm:"type:varchar(100);not null" json:"country"`
	City           string         `gorm:"type:varchar(100)" json:"city"`
	FinancialNeed  FinancialNeed  `gorm:"type:varchar(10)" json:"financial_need"`
	Interests      string         `gorm:"type:text" json:"interests,omitempty"` // comma-separated
	Bio            string         `gorm:"type:text" json:"bio,omitempty"`
}

// TableName specifies the table name for StudentProfile
func (StudentProfile) TableName() string {
	return "student_profiles"
}

// HasFinancialNeed reports whether a need level has been recorded
func (p *StudentProfile) HasFinancialNeed() bool {
	return p.FinancialNeed != ""
}
