package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/cohort-api/internal/lifecycle"
	"github.com/noah-isme/cohort-api/internal/models"
	"github.com/noah-isme/cohort-api/internal/rules"
	appErrors "github.com/noah-isme/cohort-api/pkg/errors"
)

func TestCohortCreateValidatesSchedule(t *testing.T) {
	f := newFixture(t, DefaultPolicy())
	ctx := context.Background()
	p := f.program(t)

	_, err := f.cohorts.Create(ctx, CreateCohortRequest{ProgramID: p.ID, Name: "x", Capacity: 5, StartDate: cohortEnd, EndDate: cohortStart})
	assert.True(t, appErrors.IsKind(err, appErrors.KindValidation))

	late := cohortStart.AddDate(0, 0, 1)
	_, err = f.cohorts.Create(ctx, CreateCohortRequest{ProgramID: p.ID, Name: "x", Capacity: 5, StartDate: cohortStart, EndDate: cohortEnd, EnrollmentDeadline: &late})
	assert.True(t, appErrors.IsKind(err, appErrors.KindValidation))

	_, err = f.cohorts.Create(ctx, CreateCohortRequest{ProgramID: p.ID, Name: "x", Capacity: 0, StartDate: cohortStart, EndDate: cohortEnd})
	assert.True(t, appErrors.IsKind(err, appErrors.KindValidation))

	_, err = f.cohorts.Create(ctx, CreateCohortRequest{ProgramID: "missing", Name: "x", Capacity: 5, StartDate: cohortStart, EndDate: cohortEnd})
	assert.True(t, appErrors.IsKind(err, appErrors.KindNotFound))

	c, err := f.cohorts.Create(ctx, CreateCohortRequest{ProgramID: p.ID, Name: " Spring ", Capacity: 5, StartDate: cohortStart, EndDate: cohortEnd})
	require.NoError(t, err)
	assert.Equal(t, "Spring", c.Name)
	assert.Equal(t, models.CohortUpcoming, c.Status)
	assert.Equal(t, cohortStart, c.EnrollmentDeadline)
}

func TestCohortCreateRejectsArchivedProgram(t *testing.T) {
	f := newFixture(t, DefaultPolicy())
	ctx := context.Background()
	p := f.program(t)
	_, err := f.programs.UpdateStatus(ctx, p.ID, StatusChangeRequest{Status: "archived"})
	require.NoError(t, err)

	_, err = f.cohorts.Create(ctx, CreateCohortRequest{ProgramID: p.ID, Name: "x", Capacity: 5, StartDate: cohortStart, EndDate: cohortEnd})
	requireReason(t, err, rules.ReasonProgramArchived)
}

func TestCohortDeleteGuard(t *testing.T) {
	f := newFixture(t, DefaultPolicy())
	ctx := context.Background()
	p := f.program(t)
	cohort := f.cohort(t, p.ID, 10)
	m := f.mentor(t, 2)
	f.assign(t, m.ID, cohort.ID)
	s := f.student(t, cohort.ID)

	err := f.cohorts.Delete(ctx, cohort.ID)
	requireReason(t, err, rules.ReasonCohortHasStudents)

	require.NoError(t, f.students.Delete(ctx, s.ID))
	require.NoError(t, f.cohorts.Delete(ctx, cohort.ID))

	mentor, err := f.mentors.Get(ctx, m.ID)
	require.NoError(t, err)
	assert.Empty(t, mentor.AssignedCohortIDs)
}

func TestCohortArchiveAndRestorePrevious(t *testing.T) {
	f := newFixture(t, DefaultPolicy())
	ctx := context.Background()
	p := f.program(t)
	cohort := f.cohort(t, p.ID, 10)

	_, err := f.cohorts.UpdateStatus(ctx, cohort.ID, StatusChangeRequest{Status: "active"})
	require.NoError(t, err)
	archived, err := f.cohorts.UpdateStatus(ctx, cohort.ID, StatusChangeRequest{Status: "archived"})
	require.NoError(t, err)
	require.NotNil(t, archived.PreviousStatus)
	assert.Equal(t, models.CohortActive, *archived.PreviousStatus)

	restored, err := f.cohorts.Restore(ctx, cohort.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, models.CohortActive, restored.Status)
	assert.Nil(t, restored.PreviousStatus)

	_, err = f.cohorts.Restore(ctx, cohort.ID, nil)
	requireReason(t, err, rules.ReasonCohortNotArchived)
}

func TestCohortStatusFromArchivedFollowsRestorePolicy(t *testing.T) {
	f := newFixture(t, DefaultPolicy())
	ctx := context.Background()
	p := f.program(t)
	cohort := f.cohort(t, p.ID, 10)

	_, err := f.cohorts.UpdateStatus(ctx, cohort.ID, StatusChangeRequest{Status: "active"})
	require.NoError(t, err)
	_, err = f.cohorts.UpdateStatus(ctx, cohort.ID, StatusChangeRequest{Status: "archived"})
	require.NoError(t, err)

	_, err = f.cohorts.UpdateStatus(ctx, cohort.ID, StatusChangeRequest{Status: "upcoming"})
	requireReason(t, err, rules.ReasonInvalidTransition)

	_, err = f.cohorts.UpdateStatus(ctx, cohort.ID, StatusChangeRequest{Status: "completed"})
	require.Error(t, err)

	current, err := f.cohorts.Get(ctx, cohort.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CohortArchived, current.Status)

	restored, err := f.cohorts.UpdateStatus(ctx, cohort.ID, StatusChangeRequest{Status: "active"})
	require.NoError(t, err)
	assert.Equal(t, models.CohortActive, restored.Status)
	assert.Nil(t, restored.PreviousStatus)
}

func TestCohortStatusFromArchivedUpcomingMode(t *testing.T) {
	policy := DefaultPolicy()
	policy.RestoreMode = lifecycle.RestoreUpcoming
	f := newFixture(t, policy)
	ctx := context.Background()
	p := f.program(t)
	cohort := f.cohort(t, p.ID, 10)

	_, err := f.cohorts.UpdateStatus(ctx, cohort.ID, StatusChangeRequest{Status: "active"})
	require.NoError(t, err)
	_, err = f.cohorts.UpdateStatus(ctx, cohort.ID, StatusChangeRequest{Status: "archived"})
	require.NoError(t, err)

	_, err = f.cohorts.UpdateStatus(ctx, cohort.ID, StatusChangeRequest{Status: "active"})
	requireReason(t, err, rules.ReasonInvalidTransition)

	restored, err := f.cohorts.UpdateStatus(ctx, cohort.ID, StatusChangeRequest{Status: "upcoming"})
	require.NoError(t, err)
	assert.Equal(t, models.CohortUpcoming, restored.Status)
}

func TestCohortRestoreUpcomingMode(t *testing.T) {
	policy := DefaultPolicy()
	policy.RestoreMode = lifecycle.RestoreUpcoming
	f := newFixture(t, policy)
	ctx := context.Background()
	p := f.program(t)
	cohort := f.cohort(t, p.ID, 10)

	_, err := f.cohorts.UpdateStatus(ctx, cohort.ID, StatusChangeRequest{Status: "active"})
	require.NoError(t, err)
	_, err = f.cohorts.UpdateStatus(ctx, cohort.ID, StatusChangeRequest{Status: "archived"})
	require.NoError(t, err)

	restored, err := f.cohorts.Restore(ctx, cohort.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, models.CohortUpcoming, restored.Status)
}

func TestCohortStatusGuards(t *testing.T) {
	f := newFixture(t, DefaultPolicy())
	ctx := context.Background()
	p := f.program(t)
	cohort := f.cohort(t, p.ID, 10)

	_, err := f.cohorts.UpdateStatus(ctx, cohort.ID, StatusChangeRequest{Status: "completed"})
	requireReason(t, err, rules.ReasonCohortNotActive)

	_, err = f.cohorts.UpdateStatus(ctx, cohort.ID, StatusChangeRequest{Status: "active"})
	require.NoError(t, err)
	done, err := f.cohorts.UpdateStatus(ctx, cohort.ID, StatusChangeRequest{Status: "completed"})
	require.NoError(t, err)
	assert.Equal(t, models.CohortCompleted, done.Status)

	_, err = f.cohorts.UpdateStatus(ctx, cohort.ID, StatusChangeRequest{Status: "archived"})
	requireReason(t, err, rules.ReasonCohortAlreadyClosed)

	_, err = f.cohorts.UpdateStatus(ctx, cohort.ID, StatusChangeRequest{Status: "completed"})
	requireReason(t, err, rules.ReasonSameStatus)
}

func TestCohortUpdateCapacityBelowRoster(t *testing.T) {
	f := newFixture(t, DefaultPolicy())
	ctx := context.Background()
	p := f.program(t)
	cohort := f.cohort(t, p.ID, 3)
	f.student(t, cohort.ID)
	f.student(t, cohort.ID)

	req := UpdateCohortRequest{Name: "Renamed", Capacity: 1, StartDate: cohortStart, EndDate: cohortEnd}
	_, err := f.cohorts.Update(ctx, cohort.ID, req)
	assert.True(t, appErrors.IsKind(err, appErrors.KindValidation))

	req.Capacity = 2
	updated, err := f.cohorts.Update(ctx, cohort.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, 2, updated.Capacity)

	students, pagination, err := f.cohorts.Roster(ctx, cohort.ID, models.StudentFilter{})
	require.NoError(t, err)
	assert.Len(t, students, 2)
	assert.Equal(t, 2, pagination.TotalCount)
}
