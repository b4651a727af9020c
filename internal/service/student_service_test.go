package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/cohort-api/internal/models"
	"github.com/noah-isme/cohort-api/internal/rules"
	appErrors "github.com/noah-isme/cohort-api/pkg/errors"
)

func fillCohort(t *testing.T, f *fixture, capacity int) *models.Cohort {
	t.Helper()
	p := f.program(t)
	cohort := f.cohort(t, p.ID, capacity)
	for i := 0; i < capacity; i++ {
		f.student(t, cohort.ID)
	}
	return cohort
}

func TestEnrollmentHardCapacity(t *testing.T) {
	f := newFixture(t, DefaultPolicy())
	cohort := fillCohort(t, f, 30)

	_, _, err := f.students.Create(context.Background(), CreateStudentRequest{Name: "31st", Email: "x@example.com", CohortID: cohort.ID})
	requireReason(t, err, rules.ReasonCohortAtCapacity)
}

func TestEnrollmentSoftCapacityWarns(t *testing.T) {
	policy := DefaultPolicy()
	policy.CapacityMode = rules.CapacitySoft
	f := newFixture(t, policy)
	cohort := fillCohort(t, f, 2)

	student, warning, err := f.students.Create(context.Background(), CreateStudentRequest{Name: "Extra", Email: "x@example.com", CohortID: cohort.ID})
	require.NoError(t, err)
	assert.Equal(t, rules.ReasonCohortAtCapacity, warning)
	assert.Equal(t, models.StudentInvited, student.Status)
	assert.Equal(t, models.PaymentPending, student.PaymentStatus)

	got, err := f.cohorts.Get(context.Background(), cohort.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.StudentCount)
}

func TestEnrollmentRejectsClosedCohort(t *testing.T) {
	f := newFixture(t, DefaultPolicy())
	ctx := context.Background()
	p := f.program(t)
	cohort := f.cohort(t, p.ID, 10)
	_, err := f.cohorts.UpdateStatus(ctx, cohort.ID, StatusChangeRequest{Status: "archived"})
	require.NoError(t, err)

	_, _, err = f.students.Create(ctx, CreateStudentRequest{Name: "Late", Email: "late@example.com", CohortID: cohort.ID})
	requireReason(t, err, rules.ReasonCohortNotEnrollable)
}

func TestDroppedStudentRejectsEveryStatus(t *testing.T) {
	f := newFixture(t, DefaultPolicy())
	ctx := context.Background()
	p := f.program(t)
	s := f.student(t, f.cohort(t, p.ID, 10).ID)

	dropped, err := f.students.UpdateStatus(ctx, s.ID, StatusChangeRequest{Status: "dropped", Reason: strPtr(" moved abroad ")})
	require.NoError(t, err)
	require.NotNil(t, dropped.StatusReason)
	assert.Equal(t, "moved abroad", *dropped.StatusReason)

	for _, status := range models.StudentStatuses {
		_, err := f.students.UpdateStatus(ctx, s.ID, StatusChangeRequest{Status: string(status)})
		requireReason(t, err, rules.ReasonStudentTerminal)
	}
	_, err = f.students.RecordActivity(ctx, s.ID)
	requireReason(t, err, rules.ReasonStudentTerminal)
}

func TestStudentFlagAndUnflag(t *testing.T) {
	f := newFixture(t, DefaultPolicy())
	ctx := context.Background()
	p := f.program(t)
	s := f.student(t, f.cohort(t, p.ID, 10).ID)

	flagged, err := f.students.UpdateStatus(ctx, s.ID, StatusChangeRequest{Status: "Flagged", Reason: strPtr("missed payments")})
	require.NoError(t, err)
	assert.Equal(t, models.StudentFlagged, flagged.Status)
	require.NotNil(t, flagged.StatusReason)

	active, err := f.students.UpdateStatus(ctx, s.ID, StatusChangeRequest{Status: "active", Reason: strPtr("ignored")})
	require.NoError(t, err)
	assert.Nil(t, active.StatusReason)

	_, err = f.students.UpdateStatus(ctx, s.ID, StatusChangeRequest{Status: "invited"})
	requireReason(t, err, rules.ReasonInvalidTransition)
}

func TestFirstActivityActivatesInvitedStudent(t *testing.T) {
	f := newFixture(t, DefaultPolicy())
	ctx := context.Background()
	p := f.program(t)
	s := f.student(t, f.cohort(t, p.ID, 10).ID)
	now := time.Date(2027, 2, 3, 10, 0, 0, 0, time.UTC)
	f.students.now = func() time.Time { return now }

	progress := 40
	updated, err := f.students.UpdateProgress(ctx, s.ID, UpdateProgressRequest{Progress: &progress})
	require.NoError(t, err)
	assert.Equal(t, models.StudentActive, updated.Status)
	assert.Equal(t, 40, updated.Progress)
	require.NotNil(t, updated.LastActivityAt)
	assert.Equal(t, now, *updated.LastActivityAt)

	tooMuch := 101
	_, err = f.students.UpdateProgress(ctx, s.ID, UpdateProgressRequest{Progress: &tooMuch})
	assert.True(t, appErrors.IsKind(err, appErrors.KindValidation))
}

func TestTransferKeepsMentorOnlyWhenLinked(t *testing.T) {
	f := newFixture(t, DefaultPolicy())
	ctx := context.Background()
	p := f.program(t)
	from, shared, other := f.cohort(t, p.ID, 10), f.cohort(t, p.ID, 10), f.cohort(t, p.ID, 10)
	m := f.mentor(t, 3)
	f.assign(t, m.ID, from.ID)
	f.assign(t, m.ID, shared.ID)

	s, _, err := f.students.Create(ctx, CreateStudentRequest{Name: "Lin", Email: "lin@example.com", CohortID: from.ID, MentorID: &m.ID})
	require.NoError(t, err)

	moved, _, err := f.students.Transfer(ctx, s.ID, TransferStudentRequest{CohortID: shared.ID})
	require.NoError(t, err)
	assert.Equal(t, shared.ID, moved.CohortID)
	require.NotNil(t, moved.MentorID)

	moved, _, err = f.students.Transfer(ctx, s.ID, TransferStudentRequest{CohortID: other.ID})
	require.NoError(t, err)
	assert.Nil(t, moved.MentorID)

	_, _, err = f.students.Transfer(ctx, s.ID, TransferStudentRequest{CohortID: other.ID})
	assert.True(t, appErrors.IsKind(err, appErrors.KindValidation))
}

func TestAssignStudentMentorRequiresCohortLink(t *testing.T) {
	f := newFixture(t, DefaultPolicy())
	ctx := context.Background()
	p := f.program(t)
	cohort := f.cohort(t, p.ID, 10)
	m := f.mentor(t, 2)
	s := f.student(t, cohort.ID)

	_, err := f.students.AssignMentor(ctx, s.ID, AssignStudentMentorRequest{MentorID: &m.ID})
	requireReason(t, err, rules.ReasonMentorNotInCohort)

	f.assign(t, m.ID, cohort.ID)
	updated, err := f.students.AssignMentor(ctx, s.ID, AssignStudentMentorRequest{MentorID: &m.ID})
	require.NoError(t, err)
	assert.Equal(t, m.ID, *updated.MentorID)

	cleared, err := f.students.AssignMentor(ctx, s.ID, AssignStudentMentorRequest{})
	require.NoError(t, err)
	assert.Nil(t, cleared.MentorID)
}

func TestStudentNotesAppendInOrder(t *testing.T) {
	f := newFixture(t, DefaultPolicy())
	ctx := context.Background()
	p := f.program(t)
	s := f.student(t, f.cohort(t, p.ID, 10).ID)

	for _, content := range []string{"intro call", "week 1 review"} {
		_, err := f.students.AppendNote(ctx, s.ID, AppendNoteRequest{Author: "ops", Content: content})
		require.NoError(t, err)
	}
	notes, err := f.students.ListNotes(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "intro call", notes[0].Content)
	assert.Equal(t, "week 1 review", notes[1].Content)

	_, err = f.students.AppendNote(ctx, "missing", AppendNoteRequest{Author: "ops", Content: "x"})
	assert.True(t, appErrors.IsKind(err, appErrors.KindNotFound))
}

func TestStudentPaymentAndFilters(t *testing.T) {
	f := newFixture(t, DefaultPolicy())
	ctx := context.Background()
	p := f.program(t)
	cohort := f.cohort(t, p.ID, 10)
	s := f.student(t, cohort.ID)
	f.student(t, cohort.ID)

	_, err := f.students.UpdatePayment(ctx, s.ID, UpdatePaymentRequest{PaymentStatus: "overdue"})
	require.NoError(t, err)

	overdue := models.PaymentOverdue
	students, pagination, err := f.students.List(ctx, models.StudentFilter{CohortID: cohort.ID, PaymentStatus: &overdue})
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, s.ID, students[0].ID)
	assert.Equal(t, 1, pagination.TotalCount)
	assert.Equal(t, 20, pagination.PageSize)
}
