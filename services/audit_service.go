package services

import (
	"context"
	"fmt"

	"github.com/sahilchouksey/bursary-hub/model"
	"github.com/sahilchouksey/bursary-hub/utils/logger"
	"gorm.io/gorm"
)

// AuditService keeps the trail of staff changes to listings
type AuditService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAuditService(db *gorm.DB, log *logger.Logger) *AuditService {
	if log == nil {
		log = logger.Nop()
	}
	return &AuditService{db: db, log: log}
}

// Record stores an audit entry. Failures are logged, not returned.
func (s *AuditService) Record(ctx context.Context, entry model.AuditLog) {
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		s.log.Error("failed to write audit log", "action", entry.Action, "bursary_id", entry.BursaryID, "error", err)
	}
}

// ForBursary returns the audit trail of a listing, newest first
func (s *AuditService) ForBursary(ctx context.Context, bursaryID uint) ([]model.AuditLog, error) {
	var logs []model.AuditLog
	if err := s.db.WithContext(ctx).
		Where("bursary_id = ?", bursaryID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to load audit trail: %w", err)
	}
	return logs, nil
}
