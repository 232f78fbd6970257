package model

import (
	"time"
)

// Job run states written to CronJobLog.Status
const (
	JobStatusStarted   = "started"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
)

// CronJobLog journals one run of a scheduled maintenance job
type CronJobLog struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	JobName      string     `gorm:"type:varchar(100);not null;index" json:"job_name"`
	Status       string     `gorm:"type:varchar(20);not null" json:"status"`
	StartedAt    time.Time  `gorm:"not null" json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at"`
	DurationMS   int64      `json:"duration_ms"`
	RowsAffected int64      `json:"rows_affected"`
	ErrorMsg     string     `gorm:"type:text" json:"error_msg,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// TableName specifies the table name for CronJobLog
func (CronJobLog) TableName() string {
	return "cron_job_logs"
}
