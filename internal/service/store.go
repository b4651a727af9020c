package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/cohort-api/internal/lifecycle"
	"github.com/noah-isme/cohort-api/internal/models"
	"github.com/noah-isme/cohort-api/internal/repository"
	"github.com/noah-isme/cohort-api/internal/rules"
	appErrors "github.com/noah-isme/cohort-api/pkg/errors"
)

// instrumentedStore times every transaction.
type instrumentedStore struct {
	repository.Store
	metrics *MetricsService
}

// InstrumentStore wraps store so transaction durations reach metrics.
func InstrumentStore(store repository.Store, metrics *MetricsService) repository.Store {
	if metrics == nil {
		return store
	}
	return &instrumentedStore{Store: store, metrics: metrics}
}

func (s *instrumentedStore) WithinTx(ctx context.Context, fn func(tx repository.Tx) error) error {
	start := time.Now()
	err := s.Store.WithinTx(ctx, fn)
	s.metrics.ObserveStoreTx("write", err, time.Since(start))
	return err
}

func (s *instrumentedStore) View(ctx context.Context, fn func(tx repository.Tx) error) error {
	start := time.Now()
	err := s.Store.View(ctx, fn)
	s.metrics.ObserveStoreTx("read", err, time.Since(start))
	return err
}

// storeErr maps whatever escaped a transaction onto the API taxonomy.
func storeErr(err error, action string) error {
	if err == nil {
		return nil
	}
	var appErr *appErrors.Error
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, repository.ErrVersionConflict):
		return appErrors.Clone(appErrors.ErrStaleVersion, "")
	case errors.Is(err, repository.ErrNotFound):
		return appErrors.Clone(appErrors.ErrNotFound, "")
	default:
		return appErrors.Internal(err, "failed to "+action)
	}
}

func notFound(err error, entity string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return appErrors.Clone(appErrors.ErrNotFound, entity+" not found")
	}
	return err
}

func getProgram(ctx context.Context, tx repository.Tx, id string) (*models.Program, error) {
	program, err := tx.GetProgram(ctx, id)
	if err != nil {
		return nil, notFound(err, "program")
	}
	return program, nil
}

func getCohort(ctx context.Context, tx repository.Tx, id string) (*models.Cohort, error) {
	cohort, err := tx.GetCohort(ctx, id)
	if err != nil {
		return nil, notFound(err, "cohort")
	}
	return cohort, nil
}

func getMentor(ctx context.Context, tx repository.Tx, id string) (*models.Mentor, error) {
	mentor, err := tx.GetMentor(ctx, id)
	if err != nil {
		return nil, notFound(err, "mentor")
	}
	return mentor, nil
}

func getStudent(ctx context.Context, tx repository.Tx, id string) (*models.Student, error) {
	student, err := tx.GetStudent(ctx, id)
	if err != nil {
		return nil, notFound(err, "student")
	}
	return student, nil
}

// expectVersion rejects a write when the caller read an older version.
func expectVersion(current int64, want *int64) error {
	if want != nil && *want != current {
		return appErrors.Clone(appErrors.ErrStaleVersion, "")
	}
	return nil
}

func validateStruct(v *validator.Validate, req interface{}, message string) error {
	if err := v.Struct(req); err != nil {
		return appErrors.Validation(err, message)
	}
	return nil
}

// observer logs and counts guard rejections and applied transitions.
type observer struct {
	logger  *zap.Logger
	metrics *MetricsService
}

func newObserver(logger *zap.Logger, metrics *MetricsService) observer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return observer{logger: logger, metrics: metrics}
}

// checked returns err unchanged, recording it first when it is a guard
// rejection.
func (o observer) checked(op string, err error) error {
	var appErr *appErrors.Error
	if errors.As(err, &appErr) && appErr.Kind == appErrors.KindGuard {
		o.logger.Debug("guard rejected", zap.String("operation", op), zap.String("reason", appErr.Code))
		o.metrics.GuardRejection(appErr.Code)
	}
	return err
}

func (o observer) guard(op string, d rules.Decision) error {
	return o.checked(op, d.Err())
}

func (o observer) transitioned(step lifecycle.Step, id string) {
	o.logger.Info("lifecycle transition",
		zap.String("entity", string(step.Entity)),
		zap.String("id", id),
		zap.String("from", step.From),
		zap.String("to", step.To),
		zap.String("event", string(step.Event)),
	)
	o.metrics.LifecycleTransition(string(step.Entity), step.From, step.To)
}

// StatusChangeRequest is the payload of updateStatus for every entity type.
// Reason is kept only for targets that accept one.
type StatusChangeRequest struct {
	Status  string  `json:"status" validate:"required"`
	Reason  *string `json:"reason" validate:"omitempty,max=500"`
	Version *int64  `json:"version,omitempty"`
}

// all drains a paged list call.
func all[T any](list func(page, size int) ([]T, int, error)) ([]T, error) {
	const size = 100
	var out []T
	for page := 1; ; page++ {
		items, total, err := list(page, size)
		if err != nil {
			return nil, err
		}
		out = append(out, items...)
		if len(items) < size || len(out) >= total {
			return out, nil
		}
	}
}
