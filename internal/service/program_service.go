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

// CreateProgramRequest describes payload for creating programs.
type CreateProgramRequest struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Description string  `json:"description" validate:"max=2000"`
	SyllabusRef *string `json:"syllabus_ref" validate:"omitempty,max=500"`
	Status      string  `json:"status" validate:"omitempty,oneof=draft active"`
}

// UpdateProgramRequest replaces the descriptive fields of a program.
type UpdateProgramRequest struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Description string  `json:"description" validate:"max=2000"`
	SyllabusRef *string `json:"syllabus_ref" validate:"omitempty,max=500"`
	Version     *int64  `json:"version,omitempty"`
}

// ProgramService orchestrates program workflows.
type ProgramService struct {
	observer
	store     repository.Store
	validator *validator.Validate
}

// NewProgramService creates a new program service instance.
func NewProgramService(store repository.Store, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService) *ProgramService {
	if validate == nil {
		validate = validator.New()
	}
	return &ProgramService{observer: newObserver(logger, metrics), store: store, validator: validate}
}

// List returns paginated programs.
func (s *ProgramService) List(ctx context.Context, filter models.ProgramFilter) ([]models.Program, *models.Pagination, error) {
	var (
		programs []models.Program
		total    int
	)
	err := s.store.View(ctx, func(tx repository.Tx) error {
		var err error
		programs, total, err = tx.ListPrograms(ctx, filter)
		return err
	})
	if err != nil {
		return nil, nil, storeErr(err, "list programs")
	}
	return programs, models.NewPagination(filter.Page, filter.PageSize, total), nil
}

// Get returns a program by ID.
func (s *ProgramService) Get(ctx context.Context, id string) (*models.Program, error) {
	var program *models.Program
	err := s.store.View(ctx, func(tx repository.Tx) error {
		var err error
		program, err = getProgram(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, storeErr(err, "load program")
	}
	return program, nil
}

// Create adds a new program. Programs start as drafts unless asked otherwise.
func (s *ProgramService) Create(ctx context.Context, req CreateProgramRequest) (*models.Program, error) {
	if err := validateStruct(s.validator, req, "invalid program payload"); err != nil {
		return nil, err
	}
	status := models.ProgramDraft
	if req.Status != "" {
		status = models.ProgramStatus(req.Status)
	}
	program := &models.Program{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		SyllabusRef: req.SyllabusRef,
		Status:      status,
	}
	err := s.store.WithinTx(ctx, func(tx repository.Tx) error {
		return tx.InsertProgram(ctx, program)
	})
	if err != nil {
		return nil, storeErr(err, "create program")
	}
	s.logger.Info("program created", zap.String("program_id", program.ID))
	return program, nil
}

// Update modifies the descriptive fields of a program.
func (s *ProgramService) Update(ctx context.Context, id string, req UpdateProgramRequest) (*models.Program, error) {
	if err := validateStruct(s.validator, req, "invalid program payload"); err != nil {
		return nil, err
	}
	var program *models.Program
	err := s.store.WithinTx(ctx, func(tx repository.Tx) error {
		var err error
		if program, err = getProgram(ctx, tx, id); err != nil {
			return err
		}
		if err := expectVersion(program.Version, req.Version); err != nil {
			return err
		}
		program.Name = strings.TrimSpace(req.Name)
		program.Description = req.Description
		program.SyllabusRef = req.SyllabusRef
		return tx.UpdateProgram(ctx, program)
	})
	if err != nil {
		return nil, storeErr(err, "update program")
	}
	return program, nil
}

// Duplicate copies a program into a new draft without its cohorts.
func (s *ProgramService) Duplicate(ctx context.Context, id string) (*models.Program, error) {
	var program *models.Program
	err := s.store.WithinTx(ctx, func(tx repository.Tx) error {
		source, err := getProgram(ctx, tx, id)
		if err != nil {
			return err
		}
		program = &models.Program{
			Name:        source.Name + " (copy)",
			Description: source.Description,
			SyllabusRef: source.SyllabusRef,
			Status:      models.ProgramDraft,
		}
		return tx.InsertProgram(ctx, program)
	})
	if err != nil {
		return nil, storeErr(err, "duplicate program")
	}
	s.logger.Info("program duplicated", zap.String("source_id", id), zap.String("program_id", program.ID))
	return program, nil
}

// UpdateStatus moves a program through its lifecycle. Restoring an archived
// program always lands on draft.
func (s *ProgramService) UpdateStatus(ctx context.Context, id string, req StatusChangeRequest) (*models.Program, error) {
	if err := validateStruct(s.validator, req, "invalid status payload"); err != nil {
		return nil, err
	}
	to, err := models.ParseProgramStatus(req.Status)
	if err != nil {
		return nil, appErrors.Validation(err, "invalid program status")
	}

	var (
		program *models.Program
		step    lifecycle.Step
	)
	err = s.store.WithinTx(ctx, func(tx repository.Tx) error {
		var err error
		if program, err = getProgram(ctx, tx, id); err != nil {
			return err
		}
		if err := expectVersion(program.Version, req.Version); err != nil {
			return err
		}
		if step, err = lifecycle.ResolveProgram(program.Status, to); err != nil {
			return s.checked("program status", err)
		}
		program.Status = to
		return tx.UpdateProgram(ctx, program)
	})
	if err != nil {
		return nil, storeErr(err, "update program status")
	}
	s.transitioned(step, id)
	return program, nil
}

// Delete removes a draft or archived program that has no cohorts.
func (s *ProgramService) Delete(ctx context.Context, id string) error {
	err := s.store.WithinTx(ctx, func(tx repository.Tx) error {
		program, err := getProgram(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := s.guard("delete program", rules.CanDeleteProgram(*program)); err != nil {
			return err
		}
		return tx.DeleteProgram(ctx, id)
	})
	if err != nil {
		return storeErr(err, "delete program")
	}
	s.logger.Info("program deleted", zap.String("program_id", id))
	return nil
}
