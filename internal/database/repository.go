package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/khrees2412/pipeliner/pkg/models"
)

// Repository stores jobs and their stages in SQLite
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Close() error {
	return r.db.Close()
}

const jobColumns = `id, company, title, location, source, compensation, description, full_description,
	interest_level, status, resume_version, url, applied_date, last_updated`

// Job operations

func (r *Repository) Create(ctx context.Context, job models.JobApplication) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		query := `INSERT INTO jobs (` + jobColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
		_, err := tx.ExecContext(ctx, query, job.ID, job.Company, job.Title, job.Location, job.Source,
			job.Compensation, job.Description, job.FullDescription, job.InterestLevel, job.Status,
			job.ResumeVersion, job.URL, nullTime(job.AppliedDate), job.LastUpdated.UTC())
		if err != nil {
			if strings.Contains(err.Error(), "UNIQUE constraint failed") {
				return fmt.Errorf("job %s: %w", job.ID, models.ErrAlreadyExists)
			}
			return fmt.Errorf("insert job: %w", err)
		}
		return insertStages(ctx, tx, job.ID, job.Stages)
	})
}

// Update replaces the stored record, stages included
func (r *Repository) Update(ctx context.Context, job models.JobApplication) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		query := `UPDATE jobs SET company=?, title=?, location=?, source=?, compensation=?, description=?,
			  full_description=?, interest_level=?, status=?, resume_version=?, url=?, applied_date=?,
			  last_updated=? WHERE id=?`
		result, err := tx.ExecContext(ctx, query, job.Company, job.Title, job.Location, job.Source,
			job.Compensation, job.Description, job.FullDescription, job.InterestLevel, job.Status,
			job.ResumeVersion, job.URL, nullTime(job.AppliedDate), job.LastUpdated.UTC(), job.ID)
		if err != nil {
			return fmt.Errorf("update job: %w", err)
		}
		if n, _ := result.RowsAffected(); n == 0 {
			return fmt.Errorf("job %s: %w", job.ID, models.ErrNotFound)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM stages WHERE job_id=?`, job.ID); err != nil {
			return fmt.Errorf("clear stages: %w", err)
		}
		return insertStages(ctx, tx, job.ID, job.Stages)
	})
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM jobs WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("job %s: %w", id, models.ErrNotFound)
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, id string) (models.JobApplication, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id=?`
	job, err := scanJob(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.JobApplication{}, fmt.Errorf("job %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return models.JobApplication{}, err
	}
	stages, err := r.stagesByJob(ctx, id)
	if err != nil {
		return models.JobApplication{}, err
	}
	job.Stages = stages[id]
	if job.Stages == nil {
		job.Stages = []models.InterviewStage{}
	}
	return job, nil
}

// List returns every job, most recently updated first
func (r *Repository) List(ctx context.Context) ([]models.JobApplication, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs ORDER BY last_updated DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := []models.JobApplication{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	stages, err := r.stagesByJob(ctx, "")
	if err != nil {
		return nil, err
	}
	for i := range jobs {
		jobs[i].Stages = stages[jobs[i].ID]
		if jobs[i].Stages == nil {
			jobs[i].Stages = []models.InterviewStage{}
		}
	}
	return jobs, nil
}

// Stage operations

func insertStages(ctx context.Context, tx *sql.Tx, jobID string, stages []models.InterviewStage) error {
	query := `INSERT INTO stages (job_id, id, position, name, type, status, date, notes)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	for i, s := range stages {
		if _, err := tx.ExecContext(ctx, query, jobID, s.ID, i, s.Name, s.Type, s.Status, s.Date, s.Notes); err != nil {
			return fmt.Errorf("insert stage %s: %w", s.ID, err)
		}
	}
	return nil
}

// stagesByJob loads stages grouped by job, limited to jobID when it is not empty
func (r *Repository) stagesByJob(ctx context.Context, jobID string) (map[string][]models.InterviewStage, error) {
	query := `SELECT job_id, id, name, type, status, date, notes FROM stages`
	args := []any{}
	if jobID != "" {
		query += ` WHERE job_id=?`
		args = append(args, jobID)
	}
	query += ` ORDER BY job_id, position`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]models.InterviewStage)
	for rows.Next() {
		var owner string
		var s models.InterviewStage
		var date, notes sql.NullString
		if err := rows.Scan(&owner, &s.ID, &s.Name, &s.Type, &s.Status, &date, &notes); err != nil {
			return nil, err
		}
		s.Date = date.String
		s.Notes = notes.String
		out[owner] = append(out[owner], s)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (models.JobApplication, error) {
	var job models.JobApplication
	var location, compensation, description, fullDescription, resumeVersion, url sql.NullString
	var appliedDate sql.NullTime
	err := row.Scan(&job.ID, &job.Company, &job.Title, &location, &job.Source, &compensation,
		&description, &fullDescription, &job.InterestLevel, &job.Status, &resumeVersion, &url,
		&appliedDate, &job.LastUpdated)
	if err != nil {
		return job, err
	}
	job.Location = location.String
	job.Compensation = compensation.String
	job.Description = description.String
	job.FullDescription = fullDescription.String
	job.ResumeVersion = resumeVersion.String
	job.URL = url.String
	if appliedDate.Valid {
		job.AppliedDate = appliedDate.Time
	}
	return job, nil
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func (r *Repository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
