package models

import "time"

// Cohort is a time-boxed group of students following one program.
// MentorIDs is derived from the mentor/cohort link table in link order.
type Cohort struct {
	ID                 string        `db:"id" json:"id"`
	ProgramID          string        `db:"program_id" json:"program_id"`
	Name               string        `db:"name" json:"name"`
	Status             CohortStatus  `db:"status" json:"status"`
	PreviousStatus     *CohortStatus `db:"previous_status" json:"previous_status,omitempty"`
	Capacity           int           `db:"capacity" json:"capacity"`
	StudentCount       int           `db:"student_count" json:"student_count"`
	MentorIDs          []string      `db:"-" json:"mentor_ids"`
	StartDate          time.Time     `db:"start_date" json:"start_date"`
	EndDate            time.Time     `db:"end_date" json:"end_date"`
	EnrollmentDeadline time.Time     `db:"enrollment_deadline" json:"enrollment_deadline"`
	Version            int64         `db:"version" json:"version"`
	CreatedAt          time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time     `db:"updated_at" json:"updated_at"`
}

// HasMentor reports whether mentorID is linked to the cohort.
func (c *Cohort) HasMentor(mentorID string) bool {
	return contains(c.MentorIDs, mentorID)
}

// CohortFilter defines filter criteria for listing cohorts.
type CohortFilter struct {
	ProgramID string
	Status    *CohortStatus
	Page      int
	PageSize  int
}

// MentorCohortLink is the single stored copy of a mentor assignment.
type MentorCohortLink struct {
	MentorID string    `db:"mentor_id" json:"mentor_id"`
	CohortID string    `db:"cohort_id" json:"cohort_id"`
	LinkedAt time.Time `db:"linked_at" json:"linked_at"`
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
