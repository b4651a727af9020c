package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/cohort-api/internal/models"
	"github.com/noah-isme/cohort-api/internal/repository"
	"github.com/noah-isme/cohort-api/internal/rules"
	appErrors "github.com/noah-isme/cohort-api/pkg/errors"
)

// RelationshipEngine owns every write to the mentor/cohort link. It runs
// inside the caller's transaction, bumps the version of both entities so
// concurrent writers conflict, and re-reads both sides afterwards. A
// mismatch between the two views is a consistency error and aborts the
// transaction.
type RelationshipEngine struct {
	observer
}

// NewRelationshipEngine constructs the engine.
func NewRelationshipEngine(logger *zap.Logger, metrics *MetricsService) *RelationshipEngine {
	return &RelationshipEngine{observer: newObserver(logger, metrics)}
}

// Link enforces CanAssignMentor and then links mentorID to cohortID.
func (e *RelationshipEngine) Link(ctx context.Context, tx repository.Tx, mentorID, cohortID string) (*models.Mentor, *models.Cohort, error) {
	mentor, cohort, err := e.load(ctx, tx, mentorID, cohortID)
	if err != nil {
		return nil, nil, err
	}
	if err := e.guard("link", rules.CanAssignMentor(*mentor, *cohort)); err != nil {
		return nil, nil, err
	}
	if err := tx.InsertLink(ctx, models.MentorCohortLink{MentorID: mentorID, CohortID: cohortID}); err != nil {
		return nil, nil, err
	}
	if err := e.touch(ctx, tx, mentor, cohort); err != nil {
		return nil, nil, err
	}
	return e.verify(ctx, tx, mentorID, cohortID, true)
}

// Unlink enforces CanRemoveMentor and then removes the link.
func (e *RelationshipEngine) Unlink(ctx context.Context, tx repository.Tx, mentorID, cohortID string) (*models.Mentor, *models.Cohort, error) {
	mentor, cohort, err := e.load(ctx, tx, mentorID, cohortID)
	if err != nil {
		return nil, nil, err
	}
	if err := e.guard("unlink", rules.CanRemoveMentor(*mentor, *cohort)); err != nil {
		return nil, nil, err
	}
	return e.unlink(ctx, tx, mentor, cohort)
}

// UnlinkAll removes every cohort link of a mentor and returns the cohort ids
// that were unlinked, in link order.
func (e *RelationshipEngine) UnlinkAll(ctx context.Context, tx repository.Tx, mentorID string) ([]string, error) {
	cohortIDs, err := tx.CohortIDsForMentor(ctx, mentorID)
	if err != nil {
		return nil, err
	}
	for _, cohortID := range cohortIDs {
		mentor, cohort, err := e.load(ctx, tx, mentorID, cohortID)
		if err != nil {
			return nil, err
		}
		if _, _, err := e.unlink(ctx, tx, mentor, cohort); err != nil {
			return nil, err
		}
	}
	return cohortIDs, nil
}

// DetachCohort removes every mentor link of a cohort. Used before the cohort
// row itself is deleted.
func (e *RelationshipEngine) DetachCohort(ctx context.Context, tx repository.Tx, cohortID string) ([]string, error) {
	mentorIDs, err := tx.MentorIDsForCohort(ctx, cohortID)
	if err != nil {
		return nil, err
	}
	for _, mentorID := range mentorIDs {
		mentor, cohort, err := e.load(ctx, tx, mentorID, cohortID)
		if err != nil {
			return nil, err
		}
		if _, _, err := e.unlink(ctx, tx, mentor, cohort); err != nil {
			return nil, err
		}
	}
	return mentorIDs, nil
}

// Roster lists the students of a cohort. Membership lives only on the
// student row.
func (e *RelationshipEngine) Roster(ctx context.Context, tx repository.Tx, cohortID string, filter models.StudentFilter) ([]models.Student, int, error) {
	if _, err := getCohort(ctx, tx, cohortID); err != nil {
		return nil, 0, err
	}
	filter.CohortID = cohortID
	return tx.ListStudents(ctx, filter)
}

func (e *RelationshipEngine) load(ctx context.Context, tx repository.Tx, mentorID, cohortID string) (*models.Mentor, *models.Cohort, error) {
	mentor, err := getMentor(ctx, tx, mentorID)
	if err != nil {
		return nil, nil, err
	}
	cohort, err := getCohort(ctx, tx, cohortID)
	if err != nil {
		return nil, nil, err
	}
	return mentor, cohort, nil
}

func (e *RelationshipEngine) unlink(ctx context.Context, tx repository.Tx, mentor *models.Mentor, cohort *models.Cohort) (*models.Mentor, *models.Cohort, error) {
	if err := tx.DeleteLink(ctx, mentor.ID, cohort.ID); err != nil {
		return nil, nil, err
	}
	if err := e.touch(ctx, tx, mentor, cohort); err != nil {
		return nil, nil, err
	}
	return e.verify(ctx, tx, mentor.ID, cohort.ID, false)
}

// touch bumps both versions so a concurrent writer holding either entity
// fails its optimistic check.
func (e *RelationshipEngine) touch(ctx context.Context, tx repository.Tx, mentor *models.Mentor, cohort *models.Cohort) error {
	if err := tx.UpdateMentor(ctx, mentor); err != nil {
		return err
	}
	return tx.UpdateCohort(ctx, cohort)
}

func (e *RelationshipEngine) verify(ctx context.Context, tx repository.Tx, mentorID, cohortID string, linked bool) (*models.Mentor, *models.Cohort, error) {
	mentor, cohort, err := e.load(ctx, tx, mentorID, cohortID)
	if err != nil {
		return nil, nil, err
	}
	fromMentor := mentor.IsAssignedTo(cohortID)
	fromCohort := cohort.HasMentor(mentorID)
	switch {
	case fromMentor != fromCohort:
		return nil, nil, e.inconsistent(mentorID, cohortID, "link is visible from one side only")
	case fromMentor != linked:
		return nil, nil, e.inconsistent(mentorID, cohortID, "link write did not take effect")
	case len(mentor.AssignedCohortIDs) > mentor.MaxCohorts:
		return nil, nil, e.inconsistent(mentorID, cohortID, "mentor exceeds max cohorts")
	}
	return mentor, cohort, nil
}

func (e *RelationshipEngine) inconsistent(mentorID, cohortID, message string) error {
	e.logger.Error("relationship consistency violated",
		zap.String("mentor_id", mentorID),
		zap.String("cohort_id", cohortID),
		zap.String("detail", message),
	)
	e.metrics.ConsistencyFailure()
	return appErrors.Consistency(message)
}
