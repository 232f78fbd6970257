package model

import (
	"time"
)

// AuditLog records a staff change to a listing
type AuditLog struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	StaffID     uint      `gorm:"not null;index" json:"staff_id"`
	Action      string    `gorm:"type:varchar(50);not null" json:"action"` // e.g. "bursary_create", "bursary_approve"
	BursaryID   uint      `gorm:"index" json:"bursary_id"`
	Description string    `gorm:"type:text" json:"description"`
	IPAddress   string    `gorm:"type:varchar(45)" json:"ip_address"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName specifies the table name for AuditLog
func (AuditLog) TableName() string {
	return "audit_logs"
}
