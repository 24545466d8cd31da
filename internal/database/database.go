package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// Open creates and opens the SQLite database at path with the pragmas the
// repository relies on, then brings the schema up to date.
func Open(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open with DSN options for SQLite pragmas
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// RunMigrations creates all necessary tables
func RunMigrations(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS jobs (
		id TEXT PRIMARY KEY,
		company TEXT NOT NULL,
		title TEXT NOT NULL,
		location TEXT,
		source TEXT NOT NULL DEFAULT 'Applied',
		compensation TEXT,
		description TEXT,
		full_description TEXT,
		interest_level INTEGER NOT NULL DEFAULT 3,
		status TEXT NOT NULL DEFAULT 'Wishlist',
		resume_version TEXT,
		url TEXT,
		applied_date DATETIME,
		last_updated DATETIME NOT NULL,
		CHECK(interest_level BETWEEN 1 AND 5),
		CHECK(status IN ('Wishlist', 'Applied', 'Interviewing', 'Offer', 'Rejected', 'Withdrawn')),
		CHECK(source IN ('Applied', 'Recruiter Reachout', 'Referral', 'Other'))
	);

	CREATE TABLE IF NOT EXISTS stages (
		job_id TEXT NOT NULL,
		id TEXT NOT NULL,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		type TEXT NOT NULL DEFAULT 'Other',
		status TEXT NOT NULL DEFAULT 'Pending',
		date TEXT,
		notes TEXT,
		PRIMARY KEY (job_id, id),
		FOREIGN KEY (job_id) REFERENCES jobs(id) ON DELETE CASCADE,
		CHECK(status IN ('Pending', 'Scheduled', 'Completed', 'Passed', 'Failed'))
	);

	CREATE INDEX IF NOT EXISTS idx_jobs_company ON jobs(company);
	CREATE INDEX IF NOT EXISTS idx_jobs_status ON jobs(status);
	CREATE INDEX IF NOT EXISTS idx_stages_job_id ON stages(job_id);
	`

	_, err := db.Exec(schema)
	return err
}
