// Package cloud stores jobs in a hosted Postgres database shared between
// devices. Records are scoped by user, and changes made elsewhere are
// picked up by polling.
package cloud

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/khrees2412/pipeliner/pkg/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const defaultPollInterval = 15 * time.Second

type jobRecord struct {
	ID              string `gorm:"primaryKey"`
	UserID          string `gorm:"index;not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time `gorm:"index"`
	Company         string    `gorm:"not null"`
	Title           string    `gorm:"not null"`
	Location        string
	Source          string
	Compensation    string
	Description     string `gorm:"type:text"`
	FullDescription string `gorm:"type:text"`
	InterestLevel   int
	Status          string `gorm:"index"`
	ResumeVersion   string
	Stages          []models.InterviewStage `gorm:"type:text;serializer:json"`
	AppliedDate     time.Time
	LastUpdated     time.Time
	URL             string
}

func (jobRecord) TableName() string { return "job_applications" }

func toRecord(userID string, job models.JobApplication) jobRecord {
	stages := job.Stages
	if stages == nil {
		stages = []models.InterviewStage{}
	}
	return jobRecord{
		ID:              job.ID,
		UserID:          userID,
		Company:         job.Company,
		Title:           job.Title,
		Location:        job.Location,
		Source:          string(job.Source),
		Compensation:    job.Compensation,
		Description:     job.Description,
		FullDescription: job.FullDescription,
		InterestLevel:   job.InterestLevel,
		Status:          string(job.Status),
		ResumeVersion:   job.ResumeVersion,
		Stages:          stages,
		AppliedDate:     job.AppliedDate,
		LastUpdated:     job.LastUpdated,
		URL:             job.URL,
	}
}

func (r jobRecord) toJob() models.JobApplication {
	stages := r.Stages
	if stages == nil {
		stages = []models.InterviewStage{}
	}
	return models.JobApplication{
		ID:              r.ID,
		Company:         r.Company,
		Title:           r.Title,
		Location:        r.Location,
		Source:          models.Source(r.Source),
		Compensation:    r.Compensation,
		Description:     r.Description,
		FullDescription: r.FullDescription,
		InterestLevel:   r.InterestLevel,
		Status:          models.JobStatus(r.Status),
		ResumeVersion:   r.ResumeVersion,
		Stages:          stages,
		AppliedDate:     r.AppliedDate,
		LastUpdated:     r.LastUpdated,
		URL:             r.URL,
	}
}

// Store implements the session's Store and Watcher on top of gorm
type Store struct {
	db       *gorm.DB
	userID   string
	interval time.Duration
	log      *slog.Logger
}

type Option func(*Store)

func WithPollInterval(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.interval = d
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// Open connects to Postgres and migrates the schema
func Open(dsn, userID string, opts ...Option) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return New(db, userID, opts...)
}

// New wraps an existing connection. userID scopes every query.
func New(db *gorm.DB, userID string, opts ...Option) (*Store, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: cloud user id is required", models.ErrInvalid)
	}
	s := &Store{db: db, userID: userID, interval: defaultPollInterval, log: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	if err := db.AutoMigrate(&jobRecord{}); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) scoped(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Model(&jobRecord{}).Where("user_id = ?", s.userID)
}

func (s *Store) Create(ctx context.Context, job models.JobApplication) error {
	rec := toRecord(s.userID, job)
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("job %s: %w", job.ID, models.ErrAlreadyExists)
		}
		return fmt.Errorf("create job: %w", err)
	}
	return nil
}

// Update overwrites every column of the user's record
func (s *Store) Update(ctx context.Context, job models.JobApplication) error {
	rec := toRecord(s.userID, job)
	result := s.scoped(ctx).
		Where("id = ?", job.ID).
		Select("*").
		Omit("id", "user_id", "created_at").
		Updates(&rec)
	if result.Error != nil {
		return fmt.Errorf("update job: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("job %s: %w", job.ID, models.ErrNotFound)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, s.userID).
		Delete(&jobRecord{})
	if result.Error != nil {
		return fmt.Errorf("delete job: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("job %s: %w", id, models.ErrNotFound)
	}
	return nil
}

// List returns the user's jobs, most recently updated first
func (s *Store) List(ctx context.Context) ([]models.JobApplication, error) {
	var recs []jobRecord
	if err := s.scoped(ctx).Order("last_updated desc").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	jobs := make([]models.JobApplication, 0, len(recs))
	for _, r := range recs {
		jobs = append(jobs, r.toJob())
	}
	return jobs, nil
}
