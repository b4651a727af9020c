package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/cohort-api/internal/lifecycle"
	"github.com/noah-isme/cohort-api/internal/models"
	"github.com/noah-isme/cohort-api/internal/repository"
	"github.com/noah-isme/cohort-api/internal/rules"
	appErrors "github.com/noah-isme/cohort-api/pkg/errors"
)

// CreateCohortRequest describes payload for creating cohorts. The enrollment
// deadline defaults to the start date.
type CreateCohortRequest struct {
	ProgramID          string     `json:"program_id" validate:"required"`
	Name               string     `json:"name" validate:"required,max=200"`
	Status             string     `json:"status" validate:"omitempty,oneof=upcoming active"`
	Capacity           int        `json:"capacity" validate:"required,gt=0,lte=10000"`
	StartDate          time.Time  `json:"start_date" validate:"required"`
	EndDate            time.Time  `json:"end_date" validate:"required"`
	EnrollmentDeadline *time.Time `json:"enrollment_deadline"`
}

// UpdateCohortRequest replaces name, schedule and capacity.
type UpdateCohortRequest struct {
	Name               string     `json:"name" validate:"required,max=200"`
	Capacity           int        `json:"capacity" validate:"required,gt=0,lte=10000"`
	StartDate          time.Time  `json:"start_date" validate:"required"`
	EndDate            time.Time  `json:"end_date" validate:"required"`
	EnrollmentDeadline *time.Time `json:"enrollment_deadline"`
	Version            *int64     `json:"version,omitempty"`
}

// CohortService orchestrates cohort workflows.
type CohortService struct {
	observer
	store     repository.Store
	engine    *RelationshipEngine
	cache     *CacheService
	policy    Policy
	validator *validator.Validate
}

// NewCohortService creates a new cohort service instance.
func NewCohortService(store repository.Store, engine *RelationshipEngine, cache *CacheService, policy Policy, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService) *CohortService {
	if validate == nil {
		validate = validator.New()
	}
	return &CohortService{
		observer:  newObserver(logger, metrics),
		store:     store,
		engine:    engine,
		cache:     cache,
		policy:    policy,
		validator: validate,
	}
}

func checkSchedule(start, end time.Time, deadline *time.Time) (time.Time, error) {
	if !end.After(start) {
		return time.Time{}, appErrors.Clone(appErrors.ErrValidation, "end_date must be after start_date")
	}
	if deadline == nil {
		return start, nil
	}
	if deadline.After(start) {
		return time.Time{}, appErrors.Clone(appErrors.ErrValidation, "enrollment_deadline must not be after start_date")
	}
	return *deadline, nil
}

// List returns paginated cohorts.
func (s *CohortService) List(ctx context.Context, filter models.CohortFilter) ([]models.Cohort, *models.Pagination, error) {
	var (
		cohorts []models.Cohort
		total   int
	)
	err := s.store.View(ctx, func(tx repository.Tx) error {
		var err error
		cohorts, total, err = tx.ListCohorts(ctx, filter)
		return err
	})
	if err != nil {
		return nil, nil, storeErr(err, "list cohorts")
	}
	return cohorts, models.NewPagination(filter.Page, filter.PageSize, total), nil
}

// Get returns a cohort by ID.
func (s *CohortService) Get(ctx context.Context, id string) (*models.Cohort, error) {
	var cohort *models.Cohort
	err := s.store.View(ctx, func(tx repository.Tx) error {
		var err error
		cohort, err = getCohort(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, storeErr(err, "load cohort")
	}
	return cohort, nil
}

// Create adds a cohort to a program that is not archived.
func (s *CohortService) Create(ctx context.Context, req CreateCohortRequest) (*models.Cohort, error) {
	if err := validateStruct(s.validator, req, "invalid cohort payload"); err != nil {
		return nil, err
	}
	deadline, err := checkSchedule(req.StartDate, req.EndDate, req.EnrollmentDeadline)
	if err != nil {
		return nil, err
	}
	status := models.CohortUpcoming
	if req.Status != "" {
		status = models.CohortStatus(req.Status)
	}

	cohort := &models.Cohort{
		ProgramID:          req.ProgramID,
		Name:               strings.TrimSpace(req.Name),
		Status:             status,
		Capacity:           req.Capacity,
		StartDate:          req.StartDate,
		EndDate:            req.EndDate,
		EnrollmentDeadline: deadline,
	}
	err = s.store.WithinTx(ctx, func(tx repository.Tx) error {
		program, err := getProgram(ctx, tx, req.ProgramID)
		if err != nil {
			return err
		}
		if err := s.guard("create cohort", rules.CanCreateCohort(*program)); err != nil {
			return err
		}
		return tx.InsertCohort(ctx, cohort)
	})
	if err != nil {
		return nil, storeErr(err, "create cohort")
	}
	s.cache.InvalidateEligibility(ctx)
	s.logger.Info("cohort created", zap.String("cohort_id", cohort.ID), zap.String("program_id", cohort.ProgramID))
	return cohort, nil
}

// Update changes name, schedule and capacity. In hard capacity mode the
// capacity cannot drop below the current roster size.
func (s *CohortService) Update(ctx context.Context, id string, req UpdateCohortRequest) (*models.Cohort, error) {
	if err := validateStruct(s.validator, req, "invalid cohort payload"); err != nil {
		return nil, err
	}
	deadline, err := checkSchedule(req.StartDate, req.EndDate, req.EnrollmentDeadline)
	if err != nil {
		return nil, err
	}

	var cohort *models.Cohort
	err = s.store.WithinTx(ctx, func(tx repository.Tx) error {
		var err error
		if cohort, err = getCohort(ctx, tx, id); err != nil {
			return err
		}
		if err := expectVersion(cohort.Version, req.Version); err != nil {
			return err
		}
		if s.policy.CapacityMode == rules.CapacityHard && req.Capacity < cohort.StudentCount {
			return appErrors.Clone(appErrors.ErrValidation, "capacity must not be below the enrolled student count")
		}
		cohort.Name = strings.TrimSpace(req.Name)
		cohort.Capacity = req.Capacity
		cohort.StartDate = req.StartDate
		cohort.EndDate = req.EndDate
		cohort.EnrollmentDeadline = deadline
		return tx.UpdateCohort(ctx, cohort)
	})
	if err != nil {
		return nil, storeErr(err, "update cohort")
	}
	return cohort, nil
}

// Roster lists the students enrolled in a cohort.
func (s *CohortService) Roster(ctx context.Context, id string, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	var (
		students []models.Student
		total    int
	)
	err := s.store.View(ctx, func(tx repository.Tx) error {
		var err error
		students, total, err = s.engine.Roster(ctx, tx, id, filter)
		return err
	})
	if err != nil {
		return nil, nil, storeErr(err, "load roster")
	}
	return students, models.NewPagination(filter.Page, filter.PageSize, total), nil
}

// UpdateStatus moves a cohort through its lifecycle. Archiving remembers the
// status the cohort had so a later restore can return to it. Leaving Archived
// is only allowed toward the restore policy's target.
func (s *CohortService) UpdateStatus(ctx context.Context, id string, req StatusChangeRequest) (*models.Cohort, error) {
	if err := validateStruct(s.validator, req, "invalid status payload"); err != nil {
		return nil, err
	}
	to, err := models.ParseCohortStatus(req.Status)
	if err != nil {
		return nil, appErrors.Validation(err, "invalid cohort status")
	}
	return s.transition(ctx, id, req.Version, func(c *models.Cohort) (models.CohortStatus, error) {
		if c.Status == models.CohortArchived && to != models.CohortArchived &&
			to != lifecycle.RestoreTarget(*c, s.policy.RestoreMode) {
			return "", rules.Deny(rules.ReasonInvalidTransition).Err()
		}
		return to, nil
	})
}

// Restore brings an archived cohort back to the status chosen by the restore
// policy.
func (s *CohortService) Restore(ctx context.Context, id string, version *int64) (*models.Cohort, error) {
	return s.transition(ctx, id, version, func(c *models.Cohort) (models.CohortStatus, error) {
		if err := rules.CanRestoreCohort(*c).Err(); err != nil {
			return "", err
		}
		return lifecycle.RestoreTarget(*c, s.policy.RestoreMode), nil
	})
}

func (s *CohortService) transition(ctx context.Context, id string, version *int64, target func(*models.Cohort) (models.CohortStatus, error)) (*models.Cohort, error) {
	var (
		cohort *models.Cohort
		step   lifecycle.Step
	)
	err := s.store.WithinTx(ctx, func(tx repository.Tx) error {
		var err error
		if cohort, err = getCohort(ctx, tx, id); err != nil {
			return err
		}
		if err := expectVersion(cohort.Version, version); err != nil {
			return err
		}
		from := cohort.Status
		to, err := target(cohort)
		if err == nil {
			step, err = lifecycle.ResolveCohort(from, to)
		}
		if err != nil {
			return s.checked("cohort status", err)
		}
		switch to {
		case models.CohortArchived:
			prev := from
			cohort.PreviousStatus = &prev
		case models.CohortUpcoming, models.CohortActive, models.CohortCompleted:
			cohort.PreviousStatus = nil
		default:
			return rules.Deny(rules.ReasonInvalidTransition).Err()
		}
		cohort.Status = to
		return tx.UpdateCohort(ctx, cohort)
	})
	if err != nil {
		return nil, storeErr(err, "update cohort status")
	}
	s.cache.InvalidateEligibility(ctx)
	s.transitioned(step, id)
	return cohort, nil
}

// Delete removes a cohort with an empty roster, unlinking its mentors first.
func (s *CohortService) Delete(ctx context.Context, id string) error {
	var detached []string
	err := s.store.WithinTx(ctx, func(tx repository.Tx) error {
		cohort, err := getCohort(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := s.guard("delete cohort", rules.CanDeleteCohort(*cohort)); err != nil {
			return err
		}
		if detached, err = s.engine.DetachCohort(ctx, tx, id); err != nil {
			return err
		}
		return tx.DeleteCohort(ctx, id)
	})
	if err != nil {
		return storeErr(err, "delete cohort")
	}
	s.cache.InvalidateEligibility(ctx)
	s.logger.Info("cohort deleted", zap.String("cohort_id", id), zap.Strings("unlinked_mentors", detached))
	return nil
}
