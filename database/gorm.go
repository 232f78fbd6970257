package database

import (
	"fmt"
	"time"

	"github.com/sahilchouksey/bursary-hub/config"
	"github.com/sahilchouksey/bursary-hub/model"
	applog "github.com/sahilchouksey/bursary-hub/utils/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Storage defines the lifecycle every database backend must satisfy
type Storage interface {
	Init() error
	Close() error
	HealthCheck() error
	DB() *gorm.DB
}

type GORMStore struct {
	db  *gorm.DB
	log *applog.Logger
}

// NewGORMStore wraps an already opened connection
func NewGORMStore(db *gorm.DB, log *applog.Logger) *GORMStore {
	if log == nil {
		log = applog.Nop()
	}
	return &GORMStore{db: db, log: log}
}

// StartGORM initializes a GORM connection to PostgreSQL
func StartGORM(env *config.EnviornmentVariable, log *applog.Logger) (*GORMStore, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		env.DB_HOST,
		env.DB_USER_NAME,
		env.DB_PASSWORD,
		env.DB_NAME,
		env.DB_PORT,
		env.DB_SSL_MODE,
	)

	gormLogger := logger.Default.LogMode(logger.Warn)
	if env.GO_ENV == "production" {
		gormLogger = logger.Default.LogMode(logger.Error)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:      gormLogger,
		PrepareStmt: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		log.Error("unable to connect to PostgreSQL", "host", env.DB_HOST, "error", err)
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Info("connected to PostgreSQL", "host", env.DB_HOST, "database", env.DB_NAME)

	return NewGORMStore(db, log), nil
}

// Models lists every table the service owns, in migration order
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.StudentProfile{},
		&model.Bursary{},
		&model.Bookmark{},
		&model.Application{},
		&model.UserActivity{},
		&model.DashboardMetric{},
		&model.AuditLog{},
		&model.CronJobLog{},
	}
}

// Init runs AutoMigrate for all models
func (s *GORMStore) Init() error {
	s.log.Info("running AutoMigrate")

	if err := s.db.AutoMigrate(Models()...); err != nil {
		s.log.Error("AutoMigrate failed", "error", err)
		return fmt.Errorf("failed to migrate: %w", err)
	}

	s.log.Info("AutoMigrate completed")
	return nil
}

// Close closes the database connection
func (s *GORMStore) Close() error {
	s.log.Info("closing database connection")
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// DB returns the GORM handle for services and handlers
func (s *GORMStore) DB() *gorm.DB {
	return s.db
}

// HealthCheck verifies the database connection is alive
func (s *GORMStore) HealthCheck() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
