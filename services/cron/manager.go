package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sahilchouksey/bursary-hub/model"
	"github.com/sahilchouksey/bursary-hub/utils/logger"
	"gorm.io/gorm"
)

const jobTimeout = 5 * time.Minute

// Expirer closes listings whose deadline has passed
type Expirer interface {
	CloseExpired(ctx context.Context) (int64, error)
}

// MetricsRefresher snapshots the dashboard counters
type MetricsRefresher interface {
	RefreshMetrics(ctx context.Context) (int64, error)
}

// Job is one scheduled maintenance task. Run reports the rows it touched.
type Job struct {
	Name     string
	Schedule string
	Run      func(ctx context.Context) (int64, error)
}

// CronManager manages all scheduled cron jobs
type CronManager struct {
	cron *cron.Cron
	db   *gorm.DB
	log  *logger.Logger
	jobs []Job
	now  func() time.Time
}

// NewCronManager creates a new cron manager running in loc
func NewCronManager(db *gorm.DB, bursaries Expirer, analytics MetricsRefresher, log *logger.Logger, loc *time.Location) *CronManager {
	if log == nil {
		log = logger.Nop()
	}
	if loc == nil {
		loc = time.UTC
	}

	return &CronManager{
		// Create cron with seconds precision
		cron: cron.New(cron.WithSeconds(), cron.WithLocation(loc)),
		db:   db,
		log:  log.With("component", "cron"),
		now:  time.Now,
		jobs: []Job{
			{
				// Every hour
				Name:     "close_expired_bursaries",
				Schedule: "0 0 * * * *",
				Run:      bursaries.CloseExpired,
			},
			{
				// Every 15 minutes
				Name:     "refresh_dashboard_metrics",
				Schedule: "0 */15 * * * *",
				Run:      analytics.RefreshMetrics,
			},
		},
	}
}

// Jobs returns the registered jobs
func (m *CronManager) Jobs() []Job {
	return m.jobs
}

// Start registers all jobs and starts the scheduler
func (m *CronManager) Start() error {
	m.log.Info("Starting cron jobs...")

	for _, job := range m.jobs {
		job := job
		if _, err := m.cron.AddFunc(job.Schedule, func() { m.RunJob(context.Background(), job) }); err != nil {
			return fmt.Errorf("failed to schedule %s: %w", job.Name, err)
		}
	}

	m.cron.Start()
	m.log.Info("Cron jobs started successfully", "jobs", len(m.jobs))
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (m *CronManager) Stop() {
	m.log.Info("Stopping cron jobs...")
	ctx := m.cron.Stop()
	<-ctx.Done()
	m.log.Info("Cron jobs stopped")
}

// RunJob executes one job immediately and journals the run to cron_job_logs
func (m *CronManager) RunJob(ctx context.Context, job Job) error {
	ctx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()

	started := m.now()
	entry := model.CronJobLog{
		JobName:   job.Name,
		Status:    model.JobStatusStarted,
		StartedAt: started,
	}
	if err := m.db.WithContext(ctx).Create(&entry).Error; err != nil {
		m.log.Warn("failed to journal job start", "job", job.Name, "error", err)
	}

	rows, runErr := job.Run(ctx)

	completed := m.now()
	updates := map[string]interface{}{
		"status":        model.JobStatusCompleted,
		"completed_at":  completed,
		"duration_ms":   completed.Sub(started).Milliseconds(),
		"rows_affected": rows,
	}
	if runErr != nil {
		updates["status"] = model.JobStatusFailed
		updates["error_msg"] = runErr.Error()
		m.log.Error("[CRON] job failed", "job", job.Name, "error", runErr)
	} else {
		m.log.Info("[CRON] job completed", "job", job.Name, "rows", rows)
	}

	if entry.ID != 0 {
		if err := m.db.WithContext(ctx).Model(&entry).Updates(updates).Error; err != nil {
			m.log.Warn("failed to journal job result", "job", job.Name, "error", err)
		}
	}
	return runErr
}
