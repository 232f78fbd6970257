package services

import (
	"context"
	"fmt"

	"github.com/sahilchouksey/bursary-hub/database"
	"github.com/sahilchouksey/bursary-hub/model"
	"gorm.io/gorm"
)

// BookmarkService manages saved bursaries
type BookmarkService struct {
	db *gorm.DB
}

func NewBookmarkService(db *gorm.DB) *BookmarkService {
	return &BookmarkService{db: db}
}

// Toggle saves the bursary for the user, or removes it if already saved.
// Returns the resulting state.
func (s *BookmarkService) Toggle(ctx context.Context, userID, bursaryID uint) (bool, error) {
	bookmarked := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ? AND bursary_id = ?", userID, bursaryID).Delete(&model.Bookmark{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			return nil
		}
		bookmarked = true
		return tx.Create(&model.Bookmark{UserID: userID, BursaryID: bursaryID}).Error
	})
	if err != nil {
		return false, fmt.Errorf("failed to toggle bookmark: %w", err)
	}
	return bookmarked, nil
}

// IsBookmarked reports whether the user saved the bursary
func (s *BookmarkService) IsBookmarked(ctx context.Context, userID, bursaryID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.Bookmark{}).
		Where("user_id = ? AND bursary_id = ?", userID, bursaryID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check bookmark: %w", err)
	}
	return count > 0, nil
}

// List returns the user's bookmarks newest first, with bursaries loaded
func (s *BookmarkService) List(ctx context.Context, userID uint) ([]model.Bookmark, error) {
	var bookmarks []model.Bookmark
	err := s.db.WithContext(ctx).
		Preload("Bursary", func(db *gorm.DB) *gorm.DB {
			return db.Scopes(database.WithBookmarkCount)
		}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&bookmarks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}
	return bookmarks, nil
}
