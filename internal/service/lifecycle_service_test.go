package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/cohort-api/internal/models"
	"github.com/noah-isme/cohort-api/internal/rules"
	appErrors "github.com/noah-isme/cohort-api/pkg/errors"
)

func TestLifecycleDispatch(t *testing.T) {
	f := newFixture(t, DefaultPolicy())
	ctx := context.Background()
	p := f.program(t)
	cohort := f.cohort(t, p.ID, 10)
	m := f.mentor(t, 2)
	s := f.student(t, cohort.ID)

	out, err := f.lifecycle.UpdateStatus(ctx, models.EntityCohort, cohort.ID, StatusChangeRequest{Status: "active"})
	require.NoError(t, err)
	assert.Equal(t, models.CohortActive, out.(*models.Cohort).Status)

	out, err = f.lifecycle.UpdateStatus(ctx, models.EntityMentor, m.ID, StatusChangeRequest{Status: "inactive"})
	require.NoError(t, err)
	assert.Equal(t, models.MentorInactive, out.(*models.Mentor).Status)

	out, err = f.lifecycle.UpdateStatus(ctx, models.EntityStudent, s.ID, StatusChangeRequest{Status: "completed"})
	require.NoError(t, err)
	assert.Equal(t, models.StudentCompleted, out.(*models.Student).Status)

	err = f.lifecycle.Delete(ctx, models.EntityCohort, cohort.ID)
	requireReason(t, err, rules.ReasonCohortHasStudents)

	require.NoError(t, f.lifecycle.Delete(ctx, models.EntityStudent, s.ID))
	require.NoError(t, f.lifecycle.Delete(ctx, models.EntityCohort, cohort.ID))
	require.NoError(t, f.lifecycle.Delete(ctx, models.EntityMentor, m.ID))

	_, err = f.lifecycle.UpdateStatus(ctx, models.EntityType("invoice"), "x", StatusChangeRequest{Status: "paid"})
	assert.True(t, appErrors.IsKind(err, appErrors.KindValidation))
	assert.Error(t, f.lifecycle.Delete(ctx, models.EntityType("invoice"), "x"))
}

func TestLifecycleDescribe(t *testing.T) {
	f := newFixture(t, DefaultPolicy())

	machine, err := f.lifecycle.Describe(models.EntityStudent)
	require.NoError(t, err)
	assert.Equal(t, "invited", machine.Initial)
	assert.Contains(t, machine.States, "dropped")

	_, err = f.lifecycle.Describe(models.EntityType("invoice"))
	assert.Error(t, err)
}
