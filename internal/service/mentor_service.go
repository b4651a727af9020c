package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/cohort-api/internal/lifecycle"
	"github.com/noah-isme/cohort-api/internal/models"
	"github.com/noah-isme/cohort-api/internal/repository"
	"github.com/noah-isme/cohort-api/internal/rules"
	appErrors "github.com/noah-isme/cohort-api/pkg/errors"
)

// CreateMentorRequest describes payload for creating mentors. MaxCohorts
// falls back to the configured default.
type CreateMentorRequest struct {
	Name         string `json:"name" validate:"required,max=200"`
	Email        string `json:"email" validate:"required,email"`
	MaxCohorts   int    `json:"max_cohorts" validate:"omitempty,min=1,max=10"`
	Availability string `json:"availability" validate:"omitempty,oneof=available limited unavailable"`
}

// UpdateMentorCapacityRequest changes how many cohorts a mentor may lead.
type UpdateMentorCapacityRequest struct {
	MaxCohorts int    `json:"max_cohorts" validate:"required,min=1,max=10"`
	Version    *int64 `json:"version,omitempty"`
}

// UpdateMentorAvailabilityRequest changes the advertised availability.
type UpdateMentorAvailabilityRequest struct {
	Availability string `json:"availability" validate:"required,oneof=available limited unavailable"`
	Version      *int64 `json:"version,omitempty"`
}

// MentorService orchestrates mentor workflows.
type MentorService struct {
	observer
	store     repository.Store
	engine    *RelationshipEngine
	cache     *CacheService
	policy    Policy
	validator *validator.Validate
}

// NewMentorService creates a new mentor service instance.
func NewMentorService(store repository.Store, engine *RelationshipEngine, cache *CacheService, policy Policy, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService) *MentorService {
	if validate == nil {
		validate = validator.New()
	}
	return &MentorService{
		observer:  newObserver(logger, metrics),
		store:     store,
		engine:    engine,
		cache:     cache,
		policy:    policy,
		validator: validate,
	}
}

// List returns paginated mentors.
func (s *MentorService) List(ctx context.Context, filter models.MentorFilter) ([]models.Mentor, *models.Pagination, error) {
	var (
		mentors []models.Mentor
		total   int
	)
	err := s.store.View(ctx, func(tx repository.Tx) error {
		var err error
		mentors, total, err = tx.ListMentors(ctx, filter)
		return err
	})
	if err != nil {
		return nil, nil, storeErr(err, "list mentors")
	}
	return mentors, models.NewPagination(filter.Page, filter.PageSize, total), nil
}

// Get returns a mentor by ID.
func (s *MentorService) Get(ctx context.Context, id string) (*models.Mentor, error) {
	var mentor *models.Mentor
	err := s.store.View(ctx, func(tx repository.Tx) error {
		var err error
		mentor, err = getMentor(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, storeErr(err, "load mentor")
	}
	return mentor, nil
}

// Create adds an active mentor with no assignments.
func (s *MentorService) Create(ctx context.Context, req CreateMentorRequest) (*models.Mentor, error) {
	if err := validateStruct(s.validator, req, "invalid mentor payload"); err != nil {
		return nil, err
	}
	mentor := &models.Mentor{
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Status:       models.MentorActive,
		MaxCohorts:   req.MaxCohorts,
		Availability: models.AvailabilityAvailable,
	}
	if mentor.MaxCohorts == 0 {
		mentor.MaxCohorts = s.policy.DefaultMentorMaxCohorts
	}
	if req.Availability != "" {
		mentor.Availability = models.AvailabilityStatus(req.Availability)
	}
	err := s.store.WithinTx(ctx, func(tx repository.Tx) error {
		return tx.InsertMentor(ctx, mentor)
	})
	if err != nil {
		return nil, storeErr(err, "create mentor")
	}
	s.cache.InvalidateEligibility(ctx)
	s.logger.Info("mentor created", zap.String("mentor_id", mentor.ID))
	return mentor, nil
}

// UpdateCapacity changes MaxCohorts. It never drops below the current
// number of assignments.
func (s *MentorService) UpdateCapacity(ctx context.Context, id string, req UpdateMentorCapacityRequest) (*models.Mentor, error) {
	if err := validateStruct(s.validator, req, "invalid capacity payload"); err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, req.Version, "update mentor capacity", func(m *models.Mentor) error {
		if err := s.guard("set max cohorts", rules.CanSetMaxCohorts(*m, req.MaxCohorts)); err != nil {
			return err
		}
		m.MaxCohorts = req.MaxCohorts
		return nil
	})
}

// UpdateAvailability changes the advertised availability. Availability is
// informational and does not affect eligibility.
func (s *MentorService) UpdateAvailability(ctx context.Context, id string, req UpdateMentorAvailabilityRequest) (*models.Mentor, error) {
	if err := validateStruct(s.validator, req, "invalid availability payload"); err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, req.Version, "update mentor availability", func(m *models.Mentor) error {
		m.Availability = models.AvailabilityStatus(req.Availability)
		return nil
	})
}

func (s *MentorService) mutate(ctx context.Context, id string, version *int64, action string, apply func(*models.Mentor) error) (*models.Mentor, error) {
	var mentor *models.Mentor
	err := s.store.WithinTx(ctx, func(tx repository.Tx) error {
		var err error
		if mentor, err = getMentor(ctx, tx, id); err != nil {
			return err
		}
		if err := expectVersion(mentor.Version, version); err != nil {
			return err
		}
		if err := apply(mentor); err != nil {
			return err
		}
		return tx.UpdateMentor(ctx, mentor)
	})
	if err != nil {
		return nil, storeErr(err, action)
	}
	s.cache.InvalidateEligibility(ctx)
	return mentor, nil
}

// UpdateStatus activates or deactivates a mentor. Deactivation unlinks the
// mentor from every cohort in the same transaction; reactivation restores
// nothing.
func (s *MentorService) UpdateStatus(ctx context.Context, id string, req StatusChangeRequest) (*models.Mentor, error) {
	if err := validateStruct(s.validator, req, "invalid status payload"); err != nil {
		return nil, err
	}
	to, err := models.ParseMentorStatus(req.Status)
	if err != nil {
		return nil, appErrors.Validation(err, "invalid mentor status")
	}

	var (
		mentor   *models.Mentor
		step     lifecycle.Step
		unlinked []string
	)
	err = s.store.WithinTx(ctx, func(tx repository.Tx) error {
		current, err := getMentor(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := expectVersion(current.Version, req.Version); err != nil {
			return err
		}
		if step, err = lifecycle.ResolveMentor(current.Status, to); err != nil {
			return s.checked("mentor status", err)
		}
		if to == models.MentorInactive {
			if unlinked, err = s.engine.UnlinkAll(ctx, tx, id); err != nil {
				return err
			}
		}
		// reload: unlinking bumped the version
		if mentor, err = getMentor(ctx, tx, id); err != nil {
			return err
		}
		mentor.Status = to
		return tx.UpdateMentor(ctx, mentor)
	})
	if err != nil {
		return nil, storeErr(err, "update mentor status")
	}
	s.cache.InvalidateEligibility(ctx)
	s.transitioned(step, id)
	if len(unlinked) > 0 {
		s.logger.Info("mentor unlinked from cohorts", zap.String("mentor_id", id), zap.Strings("cohort_ids", unlinked))
	}
	return mentor, nil
}

// Delete removes a mentor without assignments and clears it as personal
// mentor on every student.
func (s *MentorService) Delete(ctx context.Context, id string) error {
	var cleared int
	err := s.store.WithinTx(ctx, func(tx repository.Tx) error {
		mentor, err := getMentor(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := s.guard("delete mentor", rules.CanDeleteMentor(*mentor)); err != nil {
			return err
		}
		if cleared, err = tx.ClearStudentMentor(ctx, id); err != nil {
			return err
		}
		return tx.DeleteMentor(ctx, id)
	})
	if err != nil {
		return storeErr(err, "delete mentor")
	}
	s.cache.InvalidateEligibility(ctx)
	s.logger.Info("mentor deleted", zap.String("mentor_id", id), zap.Int("students_cleared", cleared))
	return nil
}
