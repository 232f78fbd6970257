package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sahilchouksey/bursary-hub/model"
	"github.com/sahilchouksey/bursary-hub/utils/logger"
	"gorm.io/gorm"
)

// ApplicationTracker is a user's applications, all together and by status
type ApplicationTracker struct {
	Applications []model.Application                             `json:"applications"`
	ByStatus     map[model.ApplicationStatus][]model.Application `json:"by_status"`
}

// ApplicationUpdate carries the editable fields of an application
type ApplicationUpdate struct {
	Status       *model.ApplicationStatus
	CoverLetter  *string
	Motivation   *string
	Achievements *string
}

// ApplicationService tracks student applications
type ApplicationService struct {
	db  *gorm.DB
	log *logger.Logger
	now func() time.Time
}

func NewApplicationService(db *gorm.DB, log *logger.Logger) *ApplicationService {
	if log == nil {
		log = logger.Nop()
	}
	return &ApplicationService{db: db, log: log, now: time.Now}
}

// Track returns the user's application to the bursary, creating a draft if
// none exists. created is true when a new draft was made.
func (s *ApplicationService) Track(ctx context.Context, userID, bursaryID uint) (app *model.Application, created bool, err error) {
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var bursary model.Bursary
		if err := tx.Select("id", "status", "application_deadline").Take(&bursary, bursaryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBursaryNotFound
			}
			return err
		}

		var existing model.Application
		err := tx.Where("user_id = ? AND bursary_id = ?", userID, bursaryID).Take(&existing).Error
		if err == nil {
			app = &existing
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if bursary.Status != model.BursaryStatusActive {
			return ErrBursaryNotFound
		}
		if bursary.IsDeadlinePassed(s.now().UTC()) {
			return ErrDeadlinePassed
		}

		app = &model.Application{
			UserID:    userID,
			BursaryID: bursaryID,
			Status:    model.ApplicationStatusDraft,
		}
		if err := tx.Create(app).Error; err != nil {
			return err
		}
		created = true
		return tx.Model(&model.Bursary{}).
			Where("id = ?", bursaryID).
			UpdateColumn("applications_count", gorm.Expr("applications_count + ?", 1)).Error
	})
	if err != nil {
		if errors.Is(err, ErrBursaryNotFound) || errors.Is(err, ErrDeadlinePassed) {
			return nil, false, err
		}
		return nil, false, fmt.Errorf("failed to track application: %w", err)
	}
	if created {
		s.log.Info("application draft created", "user_id", userID, "bursary_id", bursaryID)
	}
	return app, created, nil
}

// Tracker lists the user's applications newest first and groups them by status
func (s *ApplicationService) Tracker(ctx context.Context, userID uint) (*ApplicationTracker, error) {
	var apps []model.Application
	err := s.db.WithContext(ctx).
		Preload("Bursary").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&apps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}

	tracker := &ApplicationTracker{
		Applications: apps,
		ByStatus:     make(map[model.ApplicationStatus][]model.Application, len(model.ApplicationStatuses)),
	}
	for _, status := range model.ApplicationStatuses {
		tracker.ByStatus[status] = []model.Application{}
	}
	for _, a := range apps {
		tracker.ByStatus[a.Status] = append(tracker.ByStatus[a.Status], a)
	}
	return tracker, nil
}

// Update changes the owner's application. Moving to submitted stamps
// SubmittedAt the first time.
func (s *ApplicationService) Update(ctx context.Context, userID, applicationID uint, upd ApplicationUpdate) (*model.Application, error) {
	var app model.Application
	if err := s.db.WithContext(ctx).Take(&app, applicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to load application: %w", err)
	}
	if app.UserID != userID {
		return nil, ErrForbidden
	}

	changes := map[string]interface{}{}
	if upd.Status != nil {
		if !upd.Status.IsValid() {
			return nil, ErrInvalidStatus
		}
		changes["status"] = *upd.Status
		if *upd.Status == model.ApplicationStatusSubmitted && app.SubmittedAt == nil {
			changes["submitted_at"] = s.now().UTC()
		}
	}
	if upd.CoverLetter != nil {
		changes["cover_letter"] = *upd.CoverLetter
	}
	if upd.Motivation != nil {
		changes["motivation"] = *upd.Motivation
	}
	if upd.Achievements != nil {
		changes["achievements"] = *upd.Achievements
	}

	if len(changes) > 0 {
		if err := s.db.WithContext(ctx).Model(&app).Updates(changes).Error; err != nil {
			return nil, fmt.Errorf("failed to update application: %w", err)
		}
	}

	if err := s.db.WithContext(ctx).Preload("Bursary").Take(&app, applicationID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload application: %w", err)
	}
	return &app, nil
}
