package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sahilchouksey/bursary-hub/database"
	"github.com/sahilchouksey/bursary-hub/model"
	"github.com/sahilchouksey/bursary-hub/utils/logger"
	"gorm.io/gorm"
)

const (
	BursaryPageSize       = 12
	ManageBursaryPageSize = 20
	viewDedupeTTL         = time.Hour
)

// sortColumns maps accepted ?sort= values to ORDER BY clauses
var sortColumns = map[string]string{
	"created_at":            "bursaries.created_at ASC",
	"-created_at":           "bursaries.created_at DESC",
	"application_deadline":  "bursaries.application_deadline ASC",
	"-application_deadline": "bursaries.application_deadline DESC",
	"views_count":           "bursaries.views_count ASC",
	"-views_count":          "bursaries.views_count DESC",
	"amount":                "bursaries.amount ASC",
	"-amount":               "bursaries.amount DESC",
}

// BursaryFilter holds the catalogue search parameters
type BursaryFilter struct {
	Query          string
	Category       string
	Country        string
	EducationLevel string
	Sort           string
	Page           int
	Limit          int
}

// BursaryService manages the bursary catalogue
type BursaryService struct {
	db    *gorm.DB
	cache Cache
	log   *logger.Logger
	now   func() time.Time
}

// NewBursaryService creates a new bursary service. cache may be nil.
func NewBursaryService(db *gorm.DB, cache Cache, log *logger.Logger) *BursaryService {
	if log == nil {
		log = logger.Nop()
	}
	return &BursaryService{db: db, cache: cache, log: log, now: time.Now}
}

// List returns a page of open bursaries matching the filter
func (s *BursaryService) List(ctx context.Context, f BursaryFilter) ([]model.Bursary, int64, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = BursaryPageSize
	}

	query := s.db.WithContext(ctx).
		Model(&model.Bursary{}).
		Scopes(database.Open(s.now()))

	if q := strings.TrimSpace(f.Query); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where(
			"LOWER(bursaries.title) LIKE ? OR LOWER(bursaries.description) LIKE ? OR LOWER(bursaries.provider_name) LIKE ?",
			like, like, like)
	}
	if f.Category != "" {
		query = query.Where("bursaries.category = ?", f.Category)
	}
	if f.Country != "" {
		query = query.Where("bursaries.country = ?", f.Country)
	}
	if f.EducationLevel != "" {
		query = query.Where("LOWER(bursaries.eligible_education_levels) LIKE ?", "%"+strings.ToLower(f.EducationLevel)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bursaries: %w", err)
	}

	order, ok := sortColumns[f.Sort]
	if !ok {
		order = sortColumns["-created_at"]
	}

	var bursaries []model.Bursary
	err := query.
		Scopes(database.WithBookmarkCount, database.Paginate(f.Page, f.Limit)).
		Order(order).
		Order("bursaries.id DESC").
		Find(&bursaries).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bursaries: %w", err)
	}
	return bursaries, total, nil
}

// ListAll returns a page of every listing regardless of status or deadline,
// newest first. status may be empty or "all", or one of active, closed and
// pending.
func (s *BursaryService) ListAll(ctx context.Context, status string, page int) ([]model.Bursary, int64, error) {
	if page < 1 {
		page = 1
	}

	query := s.db.WithContext(ctx).Model(&model.Bursary{})
	switch model.BursaryStatus(status) {
	case "", "all":
	case model.BursaryStatusActive, model.BursaryStatusClosed, model.BursaryStatusPending:
		query = query.Where("bursaries.status = ?", status)
	default:
		return nil, 0, ErrInvalidStatus
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bursaries: %w", err)
	}

	var bursaries []model.Bursary
	err := query.
		Scopes(database.WithBookmarkCount, database.Paginate(page, ManageBursaryPageSize)).
		Order("bursaries.created_at DESC").
		Order("bursaries.id DESC").
		Find(&bursaries).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bursaries: %w", err)
	}
	return bursaries, total, nil
}

// GetBySlug loads a bursary by slug. Non-active listings are only returned
// when includeInactive is set.
func (s *BursaryService) GetBySlug(ctx context.Context, slug string, includeInactive bool) (*model.Bursary, error) {
	query := s.db.WithContext(ctx).Model(&model.Bursary{}).Scopes(database.WithBookmarkCount).Where("bursaries.slug = ?", slug)
	if !includeInactive {
		query = query.Where("bursaries.status = ?", model.BursaryStatusActive)
	}
	return s.first(query)
}

// GetByID loads any bursary by ID
func (s *BursaryService) GetByID(ctx context.Context, id uint) (*model.Bursary, error) {
	query := s.db.WithContext(ctx).Model(&model.Bursary{}).Scopes(database.WithBookmarkCount).Where("bursaries.id = ?", id)
	return s.first(query)
}

func (s *BursaryService) first(query *gorm.DB) (*model.Bursary, error) {
	var bursary model.Bursary
	if err := query.Take(&bursary).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBursaryNotFound
		}
		return nil, fmt.Errorf("failed to load bursary: %w", err)
	}
	return &bursary, nil
}

// RecordView bumps the view counter at most once per viewer per hour. Without
// a reachable cache every view counts.
func (s *BursaryService) RecordView(ctx context.Context, bursaryID uint, viewer string) (bool, error) {
	if s.cache != nil && viewer != "" {
		fresh, err := s.cache.SetNX(ctx, fmt.Sprintf("view:%d:%s", bursaryID, viewer), 1, viewDedupeTTL)
		if err != nil {
			s.log.Warn("view dedupe unavailable, counting view", "bursary_id", bursaryID, "error", err)
		} else if !fresh {
			return false, nil
		}
	}

	err := s.db.WithContext(ctx).
		Model(&model.Bursary{}).
		Where("id = ?", bursaryID).
		UpdateColumn("views_count", gorm.Expr("views_count + ?", 1)).Error
	if err != nil {
		return false, fmt.Errorf("failed to record view: %w", err)
	}
	return true, nil
}

// Trending returns the n most viewed open bursaries
func (s *BursaryService) Trending(ctx context.Context, n int) ([]model.Bursary, error) {
	var bursaries []model.Bursary
	err := s.db.WithContext(ctx).
		Model(&model.Bursary{}).
		Scopes(database.WithBookmarkCount, database.Open(s.now())).
		Order("bursaries.views_count DESC").
		Order("bursaries.applications_count DESC").
		Order("bursaries.id ASC").
		Limit(n).
		Find(&bursaries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load trending bursaries: %w", err)
	}
	return bursaries, nil
}

// Create stores a new listing in pending state under a unique slug
func (s *BursaryService) Create(ctx context.Context, bursary *model.Bursary, creatorID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		slug, err := uniqueSlug(tx, bursary.Title)
		if err != nil {
			return err
		}
		bursary.ID = 0
		bursary.Slug = slug
		bursary.Status = model.BursaryStatusPending
		bursary.ViewsCount = 0
		bursary.ApplicationsCount = 0
		if bursary.Currency == "" {
			bursary.Currency = "USD"
		}
		if creatorID != 0 {
			bursary.CreatedByID = &creatorID
		}
		if err := tx.Create(bursary).Error; err != nil {
			return fmt.Errorf("failed to create bursary: %w", err)
		}
		s.log.Info("bursary created", "bursary_id", bursary.ID, "slug", slug, "created_by", creatorID)
		return nil
	})
}

func uniqueSlug(tx *gorm.DB, title string) (string, error) {
	base := model.Slugify(title)
	if base == "" {
		base = "bursary"
	}
	slug := base
	for i := 2; ; i++ {
		var count int64
		if err := tx.Unscoped().Model(&model.Bursary{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
			return "", fmt.Errorf("failed to check slug: %w", err)
		}
		if count == 0 {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

// Update applies the non-zero fields of changes to a listing. Counters, slug
// and status are not editable here.
func (s *BursaryService) Update(ctx context.Context, id uint, changes map[string]interface{}) (*model.Bursary, error) {
	for _, locked := range []string{"id", "slug", "status", "views_count", "applications_count", "created_by_id", "created_at"} {
		delete(changes, locked)
	}

	bursary, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(changes) > 0 {
		if err := s.db.WithContext(ctx).Model(&model.Bursary{ID: id}).Updates(changes).Error; err != nil {
			return nil, fmt.Errorf("failed to update bursary: %w", err)
		}
		bursary, err = s.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
	}
	return bursary, nil
}

// SetStatus moves a listing to the given status
func (s *BursaryService) SetStatus(ctx context.Context, id uint, status model.BursaryStatus) (*model.Bursary, error) {
	switch status {
	case model.BursaryStatusActive, model.BursaryStatusClosed, model.BursaryStatusPending:
	default:
		return nil, ErrInvalidStatus
	}

	result := s.db.WithContext(ctx).Model(&model.Bursary{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update bursary status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrBursaryNotFound
	}
	s.log.Info("bursary status changed", "bursary_id", id, "status", status)
	return s.GetByID(ctx, id)
}

// CloseExpired closes active listings whose deadline has passed
func (s *BursaryService) CloseExpired(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).
		Model(&model.Bursary{}).
		Where("status = ? AND application_deadline < ?", model.BursaryStatusActive, database.Day(s.now())).
		Update("status", model.BursaryStatusClosed)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to close expired bursaries: %w", result.Error)
	}
	return result.RowsAffected, nil
}
