package services

import (
	"context"

	"github.com/sahilchouksey/bursary-hub/model"
	"github.com/sahilchouksey/bursary-hub/utils/logger"
	"gorm.io/gorm"
)

// ActivityService records user activity for engagement analytics. Writes are
// best effort.
type ActivityService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewActivityService(db *gorm.DB, log *logger.Logger) *ActivityService {
	if log == nil {
		log = logger.Nop()
	}
	return &ActivityService{db: db, log: log}
}

// Log appends an activity row. Failures are logged and swallowed.
func (s *ActivityService) Log(ctx context.Context, userID uint, activity model.ActivityType, bursaryID *uint, description, ip string) {
	entry := model.UserActivity{
		UserID:       userID,
		ActivityType: activity,
		BursaryID:    bursaryID,
		Description:  description,
		IPAddress:    ip,
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		s.log.Warn("failed to record activity", "user_id", userID, "type", activity, "error", err)
	}
}

// Recent returns the user's latest activities
func (s *ActivityService) Recent(ctx context.Context, userID uint, limit int) ([]model.UserActivity, error) {
	if limit <= 0 {
		limit = 10
	}
	var activities []model.UserActivity
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&activities).Error
	return activities, err
}
