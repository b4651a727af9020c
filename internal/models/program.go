package models

import "time"

// Program is a curriculum that cohorts run.
type Program struct {
	ID          string        `db:"id" json:"id"`
	Name        string        `db:"name" json:"name"`
	Description string        `db:"description" json:"description"`
	Status      ProgramStatus `db:"status" json:"status"`
	SyllabusRef *string       `db:"syllabus_ref" json:"syllabus_ref,omitempty"`
	CohortCount int           `db:"cohort_count" json:"cohort_count"`
	Version     int64         `db:"version" json:"version"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at" json:"updated_at"`
}

// ProgramFilter defines filter criteria for listing programs.
type ProgramFilter struct {
	Status   *ProgramStatus
	Search   string
	Page     int
	PageSize int
}
