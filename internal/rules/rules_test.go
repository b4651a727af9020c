package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/cohort-api/internal/models"
	appErrors "github.com/noah-isme/cohort-api/pkg/errors"
)

func mentor(status models.MentorStatus, max int, cohorts ...string) models.Mentor {
	return models.Mentor{ID: "m1", Status: status, MaxCohorts: max, AssignedCohortIDs: cohorts}
}

func cohort(id string, status models.CohortStatus, mentors ...string) models.Cohort {
	return models.Cohort{ID: id, Status: status, Capacity: 30, MentorIDs: mentors}
}

func TestCanAssignMentor(t *testing.T) {
	tests := []struct {
		name   string
		mentor models.Mentor
		cohort models.Cohort
		want   Decision
	}{
		{"eligible", mentor(models.MentorActive, 2, "a"), cohort("b", models.CohortUpcoming), Allow()},
		{"inactive mentor", mentor(models.MentorInactive, 2), cohort("b", models.CohortActive), Deny(ReasonMentorInactive)},
		{"completed cohort", mentor(models.MentorActive, 2), cohort("b", models.CohortCompleted), Deny(ReasonCohortNotAssignable)},
		{"archived cohort", mentor(models.MentorActive, 2), cohort("b", models.CohortArchived), Deny(ReasonCohortNotAssignable)},
		{"already linked", mentor(models.MentorActive, 2, "b"), cohort("b", models.CohortActive, "m1"), Deny(ReasonMentorAlreadyAssigned)},
		{"at capacity", mentor(models.MentorActive, 2, "a", "b"), cohort("c", models.CohortActive), Deny(ReasonMentorAtCapacity)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CanAssignMentor(tc.mentor, tc.cohort))
		})
	}
}

func TestCanRemoveMentor(t *testing.T) {
	assert.True(t, CanRemoveMentor(mentor(models.MentorActive, 1, "a"), cohort("a", models.CohortActive, "m1")).Allowed)
	assert.Equal(t, Deny(ReasonMentorNotAssigned), CanRemoveMentor(mentor(models.MentorActive, 1), cohort("a", models.CohortActive)))
}

func TestDeletionGuards(t *testing.T) {
	assert.Equal(t, Deny(ReasonCohortHasStudents), CanDeleteCohort(models.Cohort{StudentCount: 1}))
	assert.True(t, CanDeleteCohort(models.Cohort{}).Allowed)

	assert.Equal(t, Deny(ReasonMentorHasAssignments), CanDeleteMentor(mentor(models.MentorInactive, 1, "a")))
	assert.True(t, CanDeleteMentor(mentor(models.MentorActive, 1)).Allowed)

	assert.Equal(t, Deny(ReasonProgramHasCohorts), CanDeleteProgram(models.Program{Status: models.ProgramArchived, CohortCount: 2}))
	assert.Equal(t, Deny(ReasonProgramNotDeletable), CanDeleteProgram(models.Program{Status: models.ProgramActive}))
	assert.True(t, CanDeleteProgram(models.Program{Status: models.ProgramDraft}).Allowed)
	assert.True(t, CanDeleteProgram(models.Program{Status: models.ProgramArchived}).Allowed)
}

func TestCohortStatusGuards(t *testing.T) {
	for _, status := range models.CohortStatuses {
		c := cohort("c", status)
		archive := CanArchiveCohort(c)
		complete := CanMarkCohortComplete(c)
		restore := CanRestoreCohort(c)

		assert.Equal(t, status == models.CohortUpcoming || status == models.CohortActive, archive.Allowed, "archive from %s", status)
		assert.Equal(t, status == models.CohortActive, complete.Allowed, "complete from %s", status)
		assert.Equal(t, status == models.CohortArchived, restore.Allowed, "restore from %s", status)
	}
	assert.Equal(t, ReasonCohortAlreadyClosed, CanArchiveCohort(cohort("c", models.CohortCompleted)).Reason)
	assert.Equal(t, ReasonCohortNotActive, CanMarkCohortComplete(cohort("c", models.CohortUpcoming)).Reason)
	assert.Equal(t, ReasonCohortNotArchived, CanRestoreCohort(cohort("c", models.CohortActive)).Reason)
}

func TestCanTransitionStudentTerminalRejectsEverything(t *testing.T) {
	for _, from := range []models.StudentStatus{models.StudentDropped, models.StudentCompleted} {
		for _, to := range models.StudentStatuses {
			assert.Equal(t, Deny(ReasonStudentTerminal), CanTransitionStudent(from, to), "%s -> %s", from, to)
		}
	}
}

func TestCanTransitionStudent(t *testing.T) {
	assert.Equal(t, Deny(ReasonSameStatus), CanTransitionStudent(models.StudentActive, models.StudentActive))
	assert.Equal(t, Deny(ReasonInvalidTransition), CanTransitionStudent(models.StudentFlagged, models.StudentInvited))
	assert.True(t, CanTransitionStudent(models.StudentInvited, models.StudentCompleted).Allowed)
	assert.True(t, CanTransitionStudent(models.StudentFlagged, models.StudentActive).Allowed)
	assert.True(t, CanTransitionStudent(models.StudentActive, models.StudentDropped).Allowed)
}

func TestCanEnrollStudent(t *testing.T) {
	full := models.Cohort{Status: models.CohortActive, Capacity: 30, StudentCount: 30}

	assert.Equal(t, Deny(ReasonCohortAtCapacity), CanEnrollStudent(full, CapacityHard))

	soft := CanEnrollStudent(full, CapacitySoft)
	assert.True(t, soft.Allowed)
	assert.Equal(t, ReasonCohortAtCapacity, soft.Warning)

	full.StudentCount = 29
	assert.Equal(t, Allow(), CanEnrollStudent(full, CapacityHard))

	closed := models.Cohort{Status: models.CohortCompleted, Capacity: 30}
	assert.Equal(t, Deny(ReasonCohortNotEnrollable), CanEnrollStudent(closed, CapacitySoft))
}

func TestMiscGuards(t *testing.T) {
	assert.Equal(t, Deny(ReasonProgramArchived), CanCreateCohort(models.Program{Status: models.ProgramArchived}))
	assert.True(t, CanCreateCohort(models.Program{Status: models.ProgramDraft}).Allowed)

	assert.Equal(t, Deny(ReasonMaxCohortsBelowAssigned), CanSetMaxCohorts(mentor(models.MentorActive, 3, "a", "b"), 1))
	assert.True(t, CanSetMaxCohorts(mentor(models.MentorActive, 3, "a", "b"), 2).Allowed)

	student := models.Student{CohortID: "a", Status: models.StudentActive}
	assert.True(t, CanAssignStudentMentor(student, mentor(models.MentorActive, 2, "a")).Allowed)
	assert.Equal(t, Deny(ReasonMentorNotInCohort), CanAssignStudentMentor(student, mentor(models.MentorActive, 2, "b")))
	assert.Equal(t, Deny(ReasonMentorInactive), CanAssignStudentMentor(student, mentor(models.MentorInactive, 2, "a")))
	student.Status = models.StudentDropped
	assert.Equal(t, Deny(ReasonStudentTerminal), CanAssignStudentMentor(student, mentor(models.MentorActive, 2, "a")))
}

func TestDecisionErr(t *testing.T) {
	assert.NoError(t, Allow().Err())

	err := Deny(ReasonMentorAtCapacity).Err()
	assert.True(t, appErrors.HasCode(err, "MENTOR_AT_CAPACITY"))
	assert.True(t, appErrors.IsKind(err, appErrors.KindGuard))
}
