package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/cohort-api/internal/models"
	"github.com/noah-isme/cohort-api/internal/repository"
	"github.com/noah-isme/cohort-api/internal/rules"
	appErrors "github.com/noah-isme/cohort-api/pkg/errors"
)

// AssignmentRequest names one mentor/cohort pair.
type AssignmentRequest struct {
	MentorID string `json:"mentor_id" validate:"required"`
	CohortID string `json:"cohort_id" validate:"required"`
}

// BulkAssignmentRequest links one mentor to several cohorts at once.
type BulkAssignmentRequest struct {
	MentorID  string   `json:"mentor_id" validate:"required"`
	CohortIDs []string `json:"cohort_ids" validate:"required,min=1,max=10,unique,dive,required"`
}

// AssignmentPreview is the selection-phase answer. It mutates nothing.
type AssignmentPreview struct {
	Mentor   *models.Mentor   `json:"mentor"`
	Cohort   *models.Cohort   `json:"cohort"`
	Eligible bool             `json:"eligible"`
	Reason   rules.ReasonCode `json:"reason,omitempty"`
}

// AssignmentResult carries both sides of a link after it changed.
type AssignmentResult struct {
	Mentor *models.Mentor `json:"mentor"`
	Cohort *models.Cohort `json:"cohort"`
}

// BulkAssignmentResult carries the mentor and every cohort it was linked to.
type BulkAssignmentResult struct {
	Mentor  *models.Mentor  `json:"mentor"`
	Cohorts []models.Cohort `json:"cohorts"`
}

// AssignmentService runs the two-phase mentor assignment workflow. Nothing
// is held between selection and confirmation; confirm re-runs the guard
// inside its own transaction.
type AssignmentService struct {
	observer
	store     repository.Store
	engine    *RelationshipEngine
	cache     *CacheService
	validator *validator.Validate
}

// NewAssignmentService creates a new assignment service instance.
func NewAssignmentService(store repository.Store, engine *RelationshipEngine, cache *CacheService, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService) *AssignmentService {
	if validate == nil {
		validate = validator.New()
	}
	return &AssignmentService{
		observer:  newObserver(logger, metrics),
		store:     store,
		engine:    engine,
		cache:     cache,
		validator: validate,
	}
}

// EligibleMentors lists the mentors that could be assigned to the cohort
// right now. The bool reports whether the list came from the cache.
func (s *AssignmentService) EligibleMentors(ctx context.Context, cohortID string) ([]models.Mentor, bool, error) {
	mentors, hit, err := cached(ctx, s.cache, eligibleMentorsKey(cohortID), func() ([]models.Mentor, error) {
		out := []models.Mentor{}
		err := s.store.View(ctx, func(tx repository.Tx) error {
			cohort, err := getCohort(ctx, tx, cohortID)
			if err != nil {
				return err
			}
			if !cohort.Status.IsOpen() {
				return nil
			}
			active := models.MentorActive
			mentors, err := all(func(page, size int) ([]models.Mentor, int, error) {
				return tx.ListMentors(ctx, models.MentorFilter{Status: &active, Page: page, PageSize: size})
			})
			if err != nil {
				return err
			}
			for _, m := range mentors {
				if rules.CanAssignMentor(m, *cohort).Allowed {
					out = append(out, m)
				}
			}
			return nil
		})
		return out, err
	})
	if err != nil {
		return nil, false, storeErr(err, "list eligible mentors")
	}
	return mentors, hit, nil
}

// EligibleCohorts lists the cohorts the mentor could be assigned to right
// now. An inactive or full mentor gets an empty list.
func (s *AssignmentService) EligibleCohorts(ctx context.Context, mentorID string) ([]models.Cohort, bool, error) {
	cohorts, hit, err := cached(ctx, s.cache, eligibleCohortsKey(mentorID), func() ([]models.Cohort, error) {
		out := []models.Cohort{}
		err := s.store.View(ctx, func(tx repository.Tx) error {
			mentor, err := getMentor(ctx, tx, mentorID)
			if err != nil {
				return err
			}
			if mentor.Status != models.MentorActive || mentor.AtCapacity() {
				return nil
			}
			for _, status := range []models.CohortStatus{models.CohortUpcoming, models.CohortActive} {
				status := status
				cohorts, err := all(func(page, size int) ([]models.Cohort, int, error) {
					return tx.ListCohorts(ctx, models.CohortFilter{Status: &status, Page: page, PageSize: size})
				})
				if err != nil {
					return err
				}
				for _, c := range cohorts {
					if rules.CanAssignMentor(*mentor, c).Allowed {
						out = append(out, c)
					}
				}
			}
			return nil
		})
		return out, err
	})
	if err != nil {
		return nil, false, storeErr(err, "list eligible cohorts")
	}
	return cohorts, hit, nil
}

// Select evaluates the guard for a pair without changing anything.
func (s *AssignmentService) Select(ctx context.Context, req AssignmentRequest) (*AssignmentPreview, error) {
	if err := validateStruct(s.validator, req, "invalid assignment payload"); err != nil {
		return nil, err
	}
	var preview AssignmentPreview
	err := s.store.View(ctx, func(tx repository.Tx) error {
		var err error
		if preview.Mentor, err = getMentor(ctx, tx, req.MentorID); err != nil {
			return err
		}
		if preview.Cohort, err = getCohort(ctx, tx, req.CohortID); err != nil {
			return err
		}
		decision := rules.CanAssignMentor(*preview.Mentor, *preview.Cohort)
		preview.Eligible = decision.Allowed
		preview.Reason = decision.Reason
		return nil
	})
	if err != nil {
		return nil, storeErr(err, "preview assignment")
	}
	return &preview, nil
}

// Confirm assigns the mentor to the cohort.
func (s *AssignmentService) Confirm(ctx context.Context, req AssignmentRequest) (*AssignmentResult, error) {
	if err := validateStruct(s.validator, req, "invalid assignment payload"); err != nil {
		return nil, err
	}
	var result AssignmentResult
	err := s.store.WithinTx(ctx, func(tx repository.Tx) error {
		var err error
		result.Mentor, result.Cohort, err = s.engine.Link(ctx, tx, req.MentorID, req.CohortID)
		return err
	})
	if err != nil {
		return nil, s.linkErr(err, "assign mentor")
	}
	s.cache.InvalidateEligibility(ctx)
	s.logger.Info("mentor assigned", zap.String("mentor_id", req.MentorID), zap.String("cohort_id", req.CohortID))
	return &result, nil
}

// ConfirmMany assigns the mentor to every listed cohort or to none.
func (s *AssignmentService) ConfirmMany(ctx context.Context, req BulkAssignmentRequest) (*BulkAssignmentResult, error) {
	if err := validateStruct(s.validator, req, "invalid assignment payload"); err != nil {
		return nil, err
	}
	result := BulkAssignmentResult{Cohorts: make([]models.Cohort, 0, len(req.CohortIDs))}
	err := s.store.WithinTx(ctx, func(tx repository.Tx) error {
		for _, cohortID := range req.CohortIDs {
			mentor, cohort, err := s.engine.Link(ctx, tx, req.MentorID, cohortID)
			if err != nil {
				return err
			}
			result.Mentor = mentor
			result.Cohorts = append(result.Cohorts, *cohort)
		}
		return nil
	})
	if err != nil {
		return nil, s.linkErr(err, "assign mentor")
	}
	s.cache.InvalidateEligibility(ctx)
	s.logger.Info("mentor assigned to cohorts", zap.String("mentor_id", req.MentorID), zap.Strings("cohort_ids", req.CohortIDs))
	return &result, nil
}

// Remove unlinks the mentor from the cohort. Removing a pair that is not
// linked is rejected with MENTOR_NOT_ASSIGNED and changes nothing.
func (s *AssignmentService) Remove(ctx context.Context, req AssignmentRequest) (*AssignmentResult, error) {
	if err := validateStruct(s.validator, req, "invalid assignment payload"); err != nil {
		return nil, err
	}
	var result AssignmentResult
	err := s.store.WithinTx(ctx, func(tx repository.Tx) error {
		var err error
		result.Mentor, result.Cohort, err = s.engine.Unlink(ctx, tx, req.MentorID, req.CohortID)
		return err
	})
	if err != nil {
		return nil, s.linkErr(err, "remove mentor")
	}
	s.cache.InvalidateEligibility(ctx)
	s.logger.Info("mentor removed", zap.String("mentor_id", req.MentorID), zap.String("cohort_id", req.CohortID))
	return &result, nil
}

// linkErr reports a duplicate link raced in by another writer as a stale
// version rather than an internal failure.
func (s *AssignmentService) linkErr(err error, action string) error {
	if errors.Is(err, repository.ErrVersionConflict) {
		return appErrors.Clone(appErrors.ErrStaleVersion, "assignment changed concurrently, reload and retry")
	}
	return storeErr(err, action)
}
