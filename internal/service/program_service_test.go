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

func TestProgramLifecycle(t *testing.T) {
	f := newFixture(t, DefaultPolicy())
	ctx := context.Background()

	p, err := f.programs.Create(ctx, CreateProgramRequest{Name: "Data Science"})
	require.NoError(t, err)
	assert.Equal(t, models.ProgramDraft, p.Status)

	p, err = f.programs.UpdateStatus(ctx, p.ID, StatusChangeRequest{Status: "active"})
	require.NoError(t, err)
	assert.Equal(t, models.ProgramActive, p.Status)

	err = f.programs.Delete(ctx, p.ID)
	requireReason(t, err, rules.ReasonProgramNotDeletable)

	p, err = f.programs.UpdateStatus(ctx, p.ID, StatusChangeRequest{Status: "archived"})
	require.NoError(t, err)

	_, err = f.programs.UpdateStatus(ctx, p.ID, StatusChangeRequest{Status: "active"})
	requireReason(t, err, rules.ReasonInvalidTransition)

	p, err = f.programs.UpdateStatus(ctx, p.ID, StatusChangeRequest{Status: "draft"})
	require.NoError(t, err)
	assert.Equal(t, models.ProgramDraft, p.Status)

	require.NoError(t, f.programs.Delete(ctx, p.ID))
	_, err = f.programs.Get(ctx, p.ID)
	assert.True(t, appErrors.IsKind(err, appErrors.KindNotFound))
}

func TestProgramDeleteRequiresNoCohorts(t *testing.T) {
	f := newFixture(t, DefaultPolicy())
	ctx := context.Background()
	p := f.program(t)
	f.cohort(t, p.ID, 5)
	_, err := f.programs.UpdateStatus(ctx, p.ID, StatusChangeRequest{Status: "archived"})
	require.NoError(t, err)

	err = f.programs.Delete(ctx, p.ID)
	requireReason(t, err, rules.ReasonProgramHasCohorts)
}

func TestProgramUpdateAndDuplicate(t *testing.T) {
	f := newFixture(t, DefaultPolicy())
	ctx := context.Background()
	p := f.program(t)
	f.cohort(t, p.ID, 5)

	ref := "syllabus/v2"
	updated, err := f.programs.Update(ctx, p.ID, UpdateProgramRequest{Name: "Backend v2", Description: "Go services", SyllabusRef: &ref, Version: &p.Version})
	require.NoError(t, err)
	assert.Equal(t, "Backend v2", updated.Name)
	assert.Equal(t, p.Version+1, updated.Version)

	_, err = f.programs.Update(ctx, p.ID, UpdateProgramRequest{Name: "again", Version: &p.Version})
	assert.True(t, appErrors.HasCode(err, appErrors.ErrStaleVersion.Code))

	dup, err := f.programs.Duplicate(ctx, p.ID)
	require.NoError(t, err)
	assert.NotEqual(t, p.ID, dup.ID)
	assert.Equal(t, "Backend v2 (copy)", dup.Name)
	assert.Equal(t, models.ProgramDraft, dup.Status)
	assert.Zero(t, dup.CohortCount)

	programs, pagination, err := f.programs.List(ctx, models.ProgramFilter{Search: "v2"})
	require.NoError(t, err)
	assert.Len(t, programs, 2)
	assert.Equal(t, 2, pagination.TotalCount)
}

func TestProgramCreateValidation(t *testing.T) {
	f := newFixture(t, DefaultPolicy())

	_, err := f.programs.Create(context.Background(), CreateProgramRequest{})
	assert.True(t, appErrors.IsKind(err, appErrors.KindValidation))

	_, err = f.programs.Create(context.Background(), CreateProgramRequest{Name: "x", Status: "archived"})
	assert.True(t, appErrors.IsKind(err, appErrors.KindValidation))
}
