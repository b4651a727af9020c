package repository

import (
	"context"
	"fmt"
)

// schema is portable between PostgreSQL and SQLite.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS programs (
    id           TEXT PRIMARY KEY,
    name         TEXT NOT NULL,
    description  TEXT NOT NULL DEFAULT '',
    status       TEXT NOT NULL,
    syllabus_ref TEXT,
    version      BIGINT NOT NULL DEFAULT 1,
    created_at   TIMESTAMP NOT NULL,
    updated_at   TIMESTAMP NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS cohorts (
    id                  TEXT PRIMARY KEY,
    program_id          TEXT NOT NULL REFERENCES programs(id),
    name                TEXT NOT NULL,
    status              TEXT NOT NULL,
    previous_status     TEXT,
    capacity            INTEGER NOT NULL CHECK (capacity > 0),
    start_date          TIMESTAMP NOT NULL,
    end_date            TIMESTAMP NOT NULL,
    enrollment_deadline TIMESTAMP NOT NULL,
    version             BIGINT NOT NULL DEFAULT 1,
    created_at          TIMESTAMP NOT NULL,
    updated_at          TIMESTAMP NOT NULL,
    CHECK (end_date > start_date),
    CHECK (enrollment_deadline <= start_date)
)`,
	`CREATE TABLE IF NOT EXISTS mentors (
    id           TEXT PRIMARY KEY,
    name         TEXT NOT NULL,
    email        TEXT NOT NULL,
    status       TEXT NOT NULL,
    max_cohorts  INTEGER NOT NULL CHECK (max_cohorts BETWEEN 1 AND 10),
    availability TEXT NOT NULL,
    version      BIGINT NOT NULL DEFAULT 1,
    created_at   TIMESTAMP NOT NULL,
    updated_at   TIMESTAMP NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS students (
    id               TEXT PRIMARY KEY,
    name             TEXT NOT NULL,
    email            TEXT NOT NULL,
    cohort_id        TEXT NOT NULL REFERENCES cohorts(id),
    mentor_id        TEXT REFERENCES mentors(id),
    status           TEXT NOT NULL,
    status_reason    TEXT,
    payment_status   TEXT NOT NULL,
    progress         INTEGER NOT NULL DEFAULT 0 CHECK (progress BETWEEN 0 AND 100),
    last_activity_at TIMESTAMP,
    version          BIGINT NOT NULL DEFAULT 1,
    created_at       TIMESTAMP NOT NULL,
    updated_at       TIMESTAMP NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS mentor_cohort_links (
    mentor_id TEXT NOT NULL REFERENCES mentors(id) ON DELETE CASCADE,
    cohort_id TEXT NOT NULL REFERENCES cohorts(id) ON DELETE CASCADE,
    linked_at TIMESTAMP NOT NULL,
    PRIMARY KEY (mentor_id, cohort_id)
)`,
	`CREATE TABLE IF NOT EXISTS student_notes (
    id         TEXT PRIMARY KEY,
    student_id TEXT NOT NULL REFERENCES students(id) ON DELETE CASCADE,
    position   INTEGER NOT NULL,
    author     TEXT NOT NULL,
    content    TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    UNIQUE (student_id, position)
)`,
	`CREATE INDEX IF NOT EXISTS idx_cohorts_program ON cohorts (program_id)`,
	`CREATE INDEX IF NOT EXISTS idx_students_cohort ON students (cohort_id)`,
	`CREATE INDEX IF NOT EXISTS idx_students_mentor ON students (mentor_id)`,
	`CREATE INDEX IF NOT EXISTS idx_links_cohort ON mentor_cohort_links (cohort_id)`,
}

// Migrate creates the tables if they do not exist yet.
func (s *SQLStore) Migrate(ctx context.Context) error {
	for i, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate statement %d: %w", i+1, err)
		}
	}
	return nil
}
