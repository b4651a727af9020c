package repository

import (
	"context"
	"errors"

	"github.com/noah-isme/cohort-api/internal/models"
)

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("repository: not found")
	// ErrVersionConflict is returned when an update carries a stale version
	// or the database aborts a transaction on a serialization conflict.
	ErrVersionConflict = errors.New("repository: version conflict")
)

// Store is the entity store. Every compound operation runs inside WithinTx;
// nothing written by fn is visible to others unless fn returns nil.
type Store interface {
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
	View(ctx context.Context, fn func(tx Tx) error) error
	Ping(ctx context.Context) error
}

// Tx is the unit of work handed to Store callbacks. Reads fill derived
// fields (counts and both link views); writes ignore them.
type Tx interface {
	ProgramTx
	CohortTx
	MentorTx
	StudentTx
	LinkTx
}

// ProgramTx covers program rows.
type ProgramTx interface {
	GetProgram(ctx context.Context, id string) (*models.Program, error)
	ListPrograms(ctx context.Context, filter models.ProgramFilter) ([]models.Program, int, error)
	InsertProgram(ctx context.Context, program *models.Program) error
	UpdateProgram(ctx context.Context, program *models.Program) error
	DeleteProgram(ctx context.Context, id string) error
	CountCohortsByProgram(ctx context.Context, programID string) (int, error)
}

// CohortTx covers cohort rows.
type CohortTx interface {
	GetCohort(ctx context.Context, id string) (*models.Cohort, error)
	ListCohorts(ctx context.Context, filter models.CohortFilter) ([]models.Cohort, int, error)
	InsertCohort(ctx context.Context, cohort *models.Cohort) error
	UpdateCohort(ctx context.Context, cohort *models.Cohort) error
	DeleteCohort(ctx context.Context, id string) error
	CountStudentsByCohort(ctx context.Context, cohortID string) (int, error)
}

// MentorTx covers mentor rows.
type MentorTx interface {
	GetMentor(ctx context.Context, id string) (*models.Mentor, error)
	ListMentors(ctx context.Context, filter models.MentorFilter) ([]models.Mentor, int, error)
	InsertMentor(ctx context.Context, mentor *models.Mentor) error
	UpdateMentor(ctx context.Context, mentor *models.Mentor) error
	DeleteMentor(ctx context.Context, id string) error
}

// StudentTx covers student rows and their notes.
type StudentTx interface {
	GetStudent(ctx context.Context, id string) (*models.Student, error)
	ListStudents(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	InsertStudent(ctx context.Context, student *models.Student) error
	UpdateStudent(ctx context.Context, student *models.Student) error
	DeleteStudent(ctx context.Context, id string) error
	ClearStudentMentor(ctx context.Context, mentorID string) (int, error)
	AppendNote(ctx context.Context, note *models.StudentNote) error
	ListNotes(ctx context.Context, studentID string) ([]models.StudentNote, error)
}

// LinkTx covers the mentor/cohort link table, the only stored copy of an
// assignment.
type LinkTx interface {
	InsertLink(ctx context.Context, link models.MentorCohortLink) error
	DeleteLink(ctx context.Context, mentorID, cohortID string) error
	LinkExists(ctx context.Context, mentorID, cohortID string) (bool, error)
	CohortIDsForMentor(ctx context.Context, mentorID string) ([]string, error)
	MentorIDsForCohort(ctx context.Context, cohortID string) ([]string, error)
}
