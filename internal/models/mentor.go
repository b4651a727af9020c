package models

import "time"

// Mentor leads one or more cohorts. AssignedCohortIDs is derived from the
// mentor/cohort link table in link order.
type Mentor struct {
	ID                string             `db:"id" json:"id"`
	Name              string             `db:"name" json:"name"`
	Email             string             `db:"email" json:"email"`
	Status            MentorStatus       `db:"status" json:"status"`
	MaxCohorts        int                `db:"max_cohorts" json:"max_cohorts"`
	AssignedCohortIDs []string           `db:"-" json:"assigned_cohort_ids"`
	Availability      AvailabilityStatus `db:"availability" json:"availability"`
	Version           int64              `db:"version" json:"version"`
	CreatedAt         time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time          `db:"updated_at" json:"updated_at"`
}

// IsAssignedTo reports whether the mentor is linked to cohortID.
func (m *Mentor) IsAssignedTo(cohortID string) bool {
	return contains(m.AssignedCohortIDs, cohortID)
}

// AtCapacity reports whether the mentor cannot take another cohort.
func (m *Mentor) AtCapacity() bool {
	return len(m.AssignedCohortIDs) >= m.MaxCohorts
}

// MentorFilter defines filter criteria for listing mentors.
type MentorFilter struct {
	Status       *MentorStatus
	Availability *AvailabilityStatus
	Search       string
	Page         int
	PageSize     int
}
