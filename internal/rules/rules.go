// Package rules holds the pure guard predicates evaluated before every
// mutation. Guards never touch storage; callers load the entities (with
// derived counts and link views) and pass them in.
package rules

import (
	"github.com/noah-isme/cohort-api/internal/models"
	appErrors "github.com/noah-isme/cohort-api/pkg/errors"
)

// Decision is the outcome of a guard. Warning is set when the operation is
// allowed but crossed a soft limit.
type Decision struct {
	Allowed bool       `json:"allowed"`
	Reason  ReasonCode `json:"reason,omitempty"`
	Warning ReasonCode `json:"warning,omitempty"`
}

// Allow returns a passing decision.
func Allow() Decision { return Decision{Allowed: true} }

// Deny returns a failing decision with reason.
func Deny(reason ReasonCode) Decision { return Decision{Reason: reason} }

// Err converts a failing decision into a guard error; passing decisions
// return nil.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return appErrors.Guard(string(d.Reason), d.Reason.Message())
}

// CapacityMode selects whether cohort capacity blocks enrollment.
type CapacityMode string

const (
	CapacityHard CapacityMode = "hard"
	CapacitySoft CapacityMode = "soft"
)

// CanAssignMentor checks mentor status, cohort status, duplicate links and
// mentor capacity, in that order. Both halves of the link are consulted.
func CanAssignMentor(mentor models.Mentor, cohort models.Cohort) Decision {
	if mentor.Status != models.MentorActive {
		return Deny(ReasonMentorInactive)
	}
	if !cohort.Status.IsOpen() {
		return Deny(ReasonCohortNotAssignable)
	}
	if cohort.HasMentor(mentor.ID) || mentor.IsAssignedTo(cohort.ID) {
		return Deny(ReasonMentorAlreadyAssigned)
	}
	if mentor.AtCapacity() {
		return Deny(ReasonMentorAtCapacity)
	}
	return Allow()
}

// CanRemoveMentor requires an existing link. Capacity is irrelevant.
func CanRemoveMentor(mentor models.Mentor, cohort models.Cohort) Decision {
	if !cohort.HasMentor(mentor.ID) {
		return Deny(ReasonMentorNotAssigned)
	}
	return Allow()
}

// CanDeleteCohort requires an empty roster.
func CanDeleteCohort(cohort models.Cohort) Decision {
	if cohort.StudentCount > 0 {
		return Deny(ReasonCohortHasStudents)
	}
	return Allow()
}

// CanDeleteMentor requires no cohort assignments.
func CanDeleteMentor(mentor models.Mentor) Decision {
	if len(mentor.AssignedCohortIDs) > 0 {
		return Deny(ReasonMentorHasAssignments)
	}
	return Allow()
}

// CanDeleteProgram requires zero cohorts and a draft or archived program.
func CanDeleteProgram(program models.Program) Decision {
	if program.CohortCount > 0 {
		return Deny(ReasonProgramHasCohorts)
	}
	switch program.Status {
	case models.ProgramDraft, models.ProgramArchived:
		return Allow()
	case models.ProgramActive:
		return Deny(ReasonProgramNotDeletable)
	default:
		return Deny(ReasonInvalidTransition)
	}
}

// CanArchiveCohort rejects completed and archived cohorts.
func CanArchiveCohort(cohort models.Cohort) Decision {
	switch cohort.Status {
	case models.CohortUpcoming, models.CohortActive:
		return Allow()
	case models.CohortCompleted, models.CohortArchived:
		return Deny(ReasonCohortAlreadyClosed)
	default:
		return Deny(ReasonInvalidTransition)
	}
}

// CanMarkCohortComplete requires an active cohort.
func CanMarkCohortComplete(cohort models.Cohort) Decision {
	if cohort.Status != models.CohortActive {
		return Deny(ReasonCohortNotActive)
	}
	return Allow()
}

// CanRestoreCohort requires an archived cohort.
func CanRestoreCohort(cohort models.Cohort) Decision {
	if cohort.Status != models.CohortArchived {
		return Deny(ReasonCohortNotArchived)
	}
	return Allow()
}

// CanTransitionStudent rejects any move out of a terminal state, self
// transitions, and moves back to invited. Everything else is allowed.
func CanTransitionStudent(from, to models.StudentStatus) Decision {
	if from.IsTerminal() {
		return Deny(ReasonStudentTerminal)
	}
	if from == to {
		return Deny(ReasonSameStatus)
	}
	switch to {
	case models.StudentActive, models.StudentFlagged, models.StudentDropped, models.StudentCompleted:
		return Allow()
	case models.StudentInvited:
		return Deny(ReasonInvalidTransition)
	default:
		return Deny(ReasonInvalidTransition)
	}
}

// CanEnrollStudent requires an open cohort. A full cohort blocks in hard
// mode and only warns in soft mode.
func CanEnrollStudent(cohort models.Cohort, mode CapacityMode) Decision {
	if !cohort.Status.IsOpen() {
		return Deny(ReasonCohortNotEnrollable)
	}
	if cohort.StudentCount >= cohort.Capacity {
		if mode == CapacitySoft {
			return Decision{Allowed: true, Warning: ReasonCohortAtCapacity}
		}
		return Deny(ReasonCohortAtCapacity)
	}
	return Allow()
}

// CanCreateCohort rejects archived programs.
func CanCreateCohort(program models.Program) Decision {
	if program.Status == models.ProgramArchived {
		return Deny(ReasonProgramArchived)
	}
	return Allow()
}

// CanSetMaxCohorts keeps the capacity invariant when lowering the limit.
func CanSetMaxCohorts(mentor models.Mentor, maxCohorts int) Decision {
	if maxCohorts < len(mentor.AssignedCohortIDs) {
		return Deny(ReasonMaxCohortsBelowAssigned)
	}
	return Allow()
}

// CanAssignStudentMentor requires a live student and an active mentor who
// leads the student's cohort.
func CanAssignStudentMentor(student models.Student, mentor models.Mentor) Decision {
	if student.Status.IsTerminal() {
		return Deny(ReasonStudentTerminal)
	}
	if mentor.Status != models.MentorActive {
		return Deny(ReasonMentorInactive)
	}
	if !mentor.IsAssignedTo(student.CohortID) {
		return Deny(ReasonMentorNotInCohort)
	}
	return Allow()
}
