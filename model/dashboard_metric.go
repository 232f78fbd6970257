package model

import (
	"time"
)

// Metric keys stored in DashboardMetric.MetricType
const (
	MetricTotalUsers           = "total_users"
	MetricTotalBursaries       = "total_bursaries"
	MetricTotalApplications    = "total_applications"
	MetricActiveUsersToday     = "active_users_today"
	MetricNewApplicationsToday = "new_applications_today"
)

// DashboardMetric caches a headline number for the staff dashboard. One row
// per metric type, overwritten on refresh.
type DashboardMetric struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	MetricType string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"metric_type"`
	Value      int64     `gorm:"not null;default:0" json:"value"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName specifies the table name for DashboardMetric
func (DashboardMetric) TableName() string {
	return "dashboard_metrics"
}
