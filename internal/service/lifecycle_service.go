package service

import (
	"context"

	"github.com/noah-isme/cohort-api/internal/lifecycle"
	"github.com/noah-isme/cohort-api/internal/models"
	appErrors "github.com/noah-isme/cohort-api/pkg/errors"
)

// LifecycleService dispatches entity-agnostic status and delete requests to
// the per-entity services.
type LifecycleService struct {
	programs *ProgramService
	cohorts  *CohortService
	mentors  *MentorService
	students *StudentService
}

// NewLifecycleService wires the dispatcher.
func NewLifecycleService(programs *ProgramService, cohorts *CohortService, mentors *MentorService, students *StudentService) *LifecycleService {
	return &LifecycleService{programs: programs, cohorts: cohorts, mentors: mentors, students: students}
}

func unknownEntity(entity models.EntityType) error {
	return appErrors.Clone(appErrors.ErrValidation, "unknown entity type "+string(entity))
}

// UpdateStatus applies a status change and returns the updated entity.
func (s *LifecycleService) UpdateStatus(ctx context.Context, entity models.EntityType, id string, req StatusChangeRequest) (interface{}, error) {
	switch entity {
	case models.EntityProgram:
		return s.programs.UpdateStatus(ctx, id, req)
	case models.EntityCohort:
		return s.cohorts.UpdateStatus(ctx, id, req)
	case models.EntityMentor:
		return s.mentors.UpdateStatus(ctx, id, req)
	case models.EntityStudent:
		return s.students.UpdateStatus(ctx, id, req)
	default:
		return nil, unknownEntity(entity)
	}
}

// Delete removes an entity after its delete guard passes.
func (s *LifecycleService) Delete(ctx context.Context, entity models.EntityType, id string) error {
	switch entity {
	case models.EntityProgram:
		return s.programs.Delete(ctx, id)
	case models.EntityCohort:
		return s.cohorts.Delete(ctx, id)
	case models.EntityMentor:
		return s.mentors.Delete(ctx, id)
	case models.EntityStudent:
		return s.students.Delete(ctx, id)
	default:
		return unknownEntity(entity)
	}
}

// Describe exports the state machine of an entity type.
func (s *LifecycleService) Describe(entity models.EntityType) (lifecycle.XStateJSON, error) {
	def, ok := lifecycle.DefinitionFor(entity)
	if !ok {
		return lifecycle.XStateJSON{}, unknownEntity(entity)
	}
	return lifecycle.ExportXState(def), nil
}
