package models

import "time"

// Student belongs to exactly one cohort and optionally one mentor.
type Student struct {
	ID             string        `db:"id" json:"id"`
	Name           string        `db:"name" json:"name"`
	Email          string        `db:"email" json:"email"`
	CohortID       string        `db:"cohort_id" json:"cohort_id"`
	MentorID       *string       `db:"mentor_id" json:"mentor_id,omitempty"`
	Status         StudentStatus `db:"status" json:"status"`
	StatusReason   *string       `db:"status_reason" json:"status_reason,omitempty"`
	PaymentStatus  PaymentStatus `db:"payment_status" json:"payment_status"`
	Progress       int           `db:"progress" json:"progress"`
	LastActivityAt *time.Time    `db:"last_activity_at" json:"last_activity_at,omitempty"`
	Version        int64         `db:"version" json:"version"`
	CreatedAt      time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time     `db:"updated_at" json:"updated_at"`
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	CohortID      string
	MentorID      string
	Status        *StudentStatus
	PaymentStatus *PaymentStatus
	Search        string
	Page          int
	PageSize      int
}

// StudentNote is an append-only remark on a student.
type StudentNote struct {
	ID        string    `db:"id" json:"id"`
	StudentID string    `db:"student_id" json:"student_id"`
	Author    string    `db:"author" json:"author"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
