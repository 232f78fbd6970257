package database

import (
	"time"

	"github.com/sahilchouksey/bursary-hub/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const bookmarkCountColumn = "(SELECT COUNT(*) FROM bookmarks WHERE bookmarks.bursary_id = bursaries.id) AS bookmark_count"

// WithBookmarkCount selects every bursary column plus the number of bookmarks
// pointing at it
func WithBookmarkCount(db *gorm.DB) *gorm.DB {
	return db.Select("bursaries.*, " + bookmarkCountColumn)
}

// Open filters to active bursaries whose deadline is on or after the given day
func Open(asOf time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("bursaries.status = ? AND bursaries.application_deadline >= ?",
			model.BursaryStatusActive, Day(asOf))
	}
}

// Day converts t to the value stored in DATE columns. Always UTC midnight so
// comparisons agree across drivers.
func Day(t time.Time) datatypes.Date {
	return datatypes.Date(model.DateOf(t.UTC()))
}

// Paginate applies page/limit offsets
func Paginate(page, limit int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page < 1 {
			page = 1
		}
		return db.Offset((page - 1) * limit).Limit(limit)
	}
}
