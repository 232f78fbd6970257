package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sahilchouksey/bursary-hub/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileService reads and writes student profiles
type ProfileService struct {
	db *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

// Get returns the user's profile or ErrProfileNotFound
func (s *ProfileService) Get(ctx context.Context, userID uint) (*model.StudentProfile, error) {
	var profile model.StudentProfile
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Take(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return &profile, nil
}

// Upsert creates or replaces the user's profile
func (s *ProfileService) Upsert(ctx context.Context, userID uint, profile *model.StudentProfile) (*model.StudentProfile, error) {
	profile.ID = 0
	profile.UserID = userID

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"education_level", "field_of_study", "institution", "year_of_study", "gpa",
			"country", "city", "financial_need", "interests", "bio", "updated_at",
		}),
	}).Create(profile).Error
	if err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}
	return s.Get(ctx, userID)
}
