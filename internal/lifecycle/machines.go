// Package lifecycle defines the status machines of programs, cohorts,
// mentors and students. Each machine exists twice: as a statekit graph that
// executes transitions and as a Definition table used for lookups and the
// XState export. Tests keep the two in sync.
package lifecycle

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"

	"github.com/noah-isme/cohort-api/internal/models"
)

// Subject is the context carried by every machine.
type Subject struct {
	Entity models.EntityType
	ID     string
}

// Event names shared across machines.
const (
	EventActivate          statekit.EventType = "ACTIVATE"
	EventRevertToDraft     statekit.EventType = "REVERT_TO_DRAFT"
	EventArchive           statekit.EventType = "ARCHIVE"
	EventRestore           statekit.EventType = "RESTORE"
	EventStart             statekit.EventType = "START"
	EventComplete          statekit.EventType = "COMPLETE"
	EventRestoreToUpcoming statekit.EventType = "RESTORE_TO_UPCOMING"
	EventRestoreToActive   statekit.EventType = "RESTORE_TO_ACTIVE"
	EventDeactivate        statekit.EventType = "DEACTIVATE"
	EventReactivate        statekit.EventType = "REACTIVATE"
	EventFlag              statekit.EventType = "FLAG"
	EventUnflag            statekit.EventType = "UNFLAG"
	EventDrop              statekit.EventType = "DROP"
)

func sid[S ~string](s S) statekit.StateID { return statekit.StateID(s) }

type builder func(initial statekit.StateID) (*statekit.Interpreter[Subject], error)

func buildProgram(initial statekit.StateID) (*statekit.Interpreter[Subject], error) {
	machine, err := statekit.NewMachine[Subject]("program").
		WithInitial(initial).
		State(sid(models.ProgramDraft)).
		On(EventActivate).Target(sid(models.ProgramActive)).
		On(EventArchive).Target(sid(models.ProgramArchived)).
		Done().
		State(sid(models.ProgramActive)).
		On(EventRevertToDraft).Target(sid(models.ProgramDraft)).
		On(EventArchive).Target(sid(models.ProgramArchived)).
		Done().
		State(sid(models.ProgramArchived)).
		On(EventRestore).Target(sid(models.ProgramDraft)).
		Done().
		Build()
	if err != nil {
		return nil, fmt.Errorf("build program machine: %w", err)
	}
	return statekit.NewInterpreter(machine), nil
}

func buildCohort(initial statekit.StateID) (*statekit.Interpreter[Subject], error) {
	machine, err := statekit.NewMachine[Subject]("cohort").
		WithInitial(initial).
		State(sid(models.CohortUpcoming)).
		On(EventStart).Target(sid(models.CohortActive)).
		On(EventArchive).Target(sid(models.CohortArchived)).
		Done().
		State(sid(models.CohortActive)).
		On(EventComplete).Target(sid(models.CohortCompleted)).
		On(EventArchive).Target(sid(models.CohortArchived)).
		Done().
		State(sid(models.CohortCompleted)).
		Final().
		Done().
		State(sid(models.CohortArchived)).
		On(EventRestoreToUpcoming).Target(sid(models.CohortUpcoming)).
		On(EventRestoreToActive).Target(sid(models.CohortActive)).
		Done().
		Build()
	if err != nil {
		return nil, fmt.Errorf("build cohort machine: %w", err)
	}
	return statekit.NewInterpreter(machine), nil
}

func buildMentor(initial statekit.StateID) (*statekit.Interpreter[Subject], error) {
	machine, err := statekit.NewMachine[Subject]("mentor").
		WithInitial(initial).
		State(sid(models.MentorActive)).
		On(EventDeactivate).Target(sid(models.MentorInactive)).
		Done().
		State(sid(models.MentorInactive)).
		On(EventReactivate).Target(sid(models.MentorActive)).
		Done().
		Build()
	if err != nil {
		return nil, fmt.Errorf("build mentor machine: %w", err)
	}
	return statekit.NewInterpreter(machine), nil
}

func buildStudent(initial statekit.StateID) (*statekit.Interpreter[Subject], error) {
	machine, err := statekit.NewMachine[Subject]("student").
		WithInitial(initial).
		State(sid(models.StudentInvited)).
		On(EventActivate).Target(sid(models.StudentActive)).
		On(EventFlag).Target(sid(models.StudentFlagged)).
		On(EventDrop).Target(sid(models.StudentDropped)).
		On(EventComplete).Target(sid(models.StudentCompleted)).
		Done().
		State(sid(models.StudentActive)).
		On(EventFlag).Target(sid(models.StudentFlagged)).
		On(EventDrop).Target(sid(models.StudentDropped)).
		On(EventComplete).Target(sid(models.StudentCompleted)).
		Done().
		State(sid(models.StudentFlagged)).
		On(EventUnflag).Target(sid(models.StudentActive)).
		On(EventDrop).Target(sid(models.StudentDropped)).
		On(EventComplete).Target(sid(models.StudentCompleted)).
		Done().
		State(sid(models.StudentDropped)).
		Final().
		Done().
		State(sid(models.StudentCompleted)).
		Final().
		Done().
		Build()
	if err != nil {
		return nil, fmt.Errorf("build student machine: %w", err)
	}
	return statekit.NewInterpreter(machine), nil
}
