package database

import (
	"context"
	"fmt"

	"github.com/sahilchouksey/bursary-hub/model"
	"github.com/sahilchouksey/bursary-hub/services/recommendation"
	"gorm.io/gorm"
)

// RecommendationStore serves the recommendation engine's reads from GORM
type RecommendationStore struct {
	db *gorm.DB
}

var _ recommendation.Store = (*RecommendationStore)(nil)

func NewRecommendationStore(db *gorm.DB) *RecommendationStore {
	return &RecommendationStore{db: db}
}

func (s *RecommendationStore) FindProfile(ctx context.Context, userID uint) (*model.StudentProfile, bool, error) {
	var profiles []model.StudentProfile
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Limit(1).
		Find(&profiles).Error
	if err != nil {
		return nil, false, fmt.Errorf("failed to query student profile: %w", err)
	}
	if len(profiles) == 0 {
		return nil, false, nil
	}
	return &profiles[0], true, nil
}

func (s *RecommendationStore) ActiveBursaries(ctx context.Context, q recommendation.BursaryQuery) ([]model.Bursary, error) {
	query := s.db.WithContext(ctx).
		Model(&model.Bursary{}).
		Scopes(WithBookmarkCount, Open(q.AsOf))

	if q.ExcludeID != 0 {
		query = query.Where("bursaries.id <> ?", q.ExcludeID)
	}
	if q.ExcludeInteractedBy != 0 {
		query = query.
			Where("bursaries.id NOT IN (?)",
				s.db.Model(&model.Application{}).Select("bursary_id").Where("user_id = ?", q.ExcludeInteractedBy)).
			Where("bursaries.id NOT IN (?)",
				s.db.Model(&model.Bookmark{}).Select("bursary_id").Where("user_id = ?", q.ExcludeInteractedBy))
	}

	var bursaries []model.Bursary
	if err := query.Order("bursaries.created_at DESC, bursaries.id DESC").Find(&bursaries).Error; err != nil {
		return nil, fmt.Errorf("failed to query active bursaries: %w", err)
	}
	return bursaries, nil
}

func (s *RecommendationStore) ApplicationsByUser(ctx context.Context, userID uint) ([]model.Application, error) {
	var apps []model.Application
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("failed to query applications: %w", err)
	}
	return apps, nil
}

func (s *RecommendationStore) ApplicationsFor(ctx context.Context, userIDs, bursaryIDs []uint) ([]model.Application, error) {
	if len(bursaryIDs) == 0 || (userIDs != nil && len(userIDs) == 0) {
		return nil, nil
	}

	query := s.db.WithContext(ctx).Where("bursary_id IN ?", bursaryIDs)
	if userIDs != nil {
		query = query.Where("user_id IN ?", userIDs)
	}

	var apps []model.Application
	if err := query.Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("failed to query peer applications: %w", err)
	}
	return apps, nil
}
