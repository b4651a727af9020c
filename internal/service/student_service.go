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

// CreateStudentRequest enrolls a student into a cohort.
type CreateStudentRequest struct {
	Name          string  `json:"name" validate:"required,max=200"`
	Email         string  `json:"email" validate:"required,email"`
	CohortID      string  `json:"cohort_id" validate:"required"`
	MentorID      *string `json:"mentor_id" validate:"omitempty,min=1"`
	PaymentStatus string  `json:"payment_status" validate:"omitempty,oneof=paid pending overdue refunded"`
}

// TransferStudentRequest moves a student to another cohort.
type TransferStudentRequest struct {
	CohortID string `json:"cohort_id" validate:"required"`
	Version  *int64 `json:"version,omitempty"`
}

// AssignStudentMentorRequest sets or clears (nil MentorID) the personal mentor.
type AssignStudentMentorRequest struct {
	MentorID *string `json:"mentor_id" validate:"omitempty,min=1"`
	Version  *int64  `json:"version,omitempty"`
}

// UpdateProgressRequest records course progress in percent.
type UpdateProgressRequest struct {
	Progress *int   `json:"progress" validate:"required,min=0,max=100"`
	Version  *int64 `json:"version,omitempty"`
}

// UpdatePaymentRequest records the payment state.
type UpdatePaymentRequest struct {
	PaymentStatus string `json:"payment_status" validate:"required,oneof=paid pending overdue refunded"`
	Version       *int64 `json:"version,omitempty"`
}

// AppendNoteRequest adds a note to a student.
type AppendNoteRequest struct {
	Author  string `json:"author" validate:"required,max=200"`
	Content string `json:"content" validate:"required,max=4000"`
}

// StudentService orchestrates student workflows.
type StudentService struct {
	observer
	store     repository.Store
	policy    Policy
	validator *validator.Validate
	now       func() time.Time
}

// NewStudentService creates a new student service instance.
func NewStudentService(store repository.Store, policy Policy, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	return &StudentService{
		observer:  newObserver(logger, metrics),
		store:     store,
		policy:    policy,
		validator: validate,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// List returns paginated students.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	var (
		students []models.Student
		total    int
	)
	err := s.store.View(ctx, func(tx repository.Tx) error {
		var err error
		students, total, err = tx.ListStudents(ctx, filter)
		return err
	})
	if err != nil {
		return nil, nil, storeErr(err, "list students")
	}
	return students, models.NewPagination(filter.Page, filter.PageSize, total), nil
}

// Get returns a student by ID.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	var student *models.Student
	err := s.store.View(ctx, func(tx repository.Tx) error {
		var err error
		student, err = getStudent(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, storeErr(err, "load student")
	}
	return student, nil
}

// Create enrolls a new invited student. The returned reason code is a soft
// capacity warning and is empty when the cohort still had room.
func (s *StudentService) Create(ctx context.Context, req CreateStudentRequest) (*models.Student, rules.ReasonCode, error) {
	if err := validateStruct(s.validator, req, "invalid student payload"); err != nil {
		return nil, "", err
	}
	student := &models.Student{
		Name:          strings.TrimSpace(req.Name),
		Email:         strings.ToLower(strings.TrimSpace(req.Email)),
		CohortID:      req.CohortID,
		Status:        models.StudentInvited,
		PaymentStatus: models.PaymentPending,
	}
	if req.PaymentStatus != "" {
		student.PaymentStatus = models.PaymentStatus(req.PaymentStatus)
	}

	var warning rules.ReasonCode
	err := s.store.WithinTx(ctx, func(tx repository.Tx) error {
		cohort, err := getCohort(ctx, tx, req.CohortID)
		if err != nil {
			return err
		}
		decision := rules.CanEnrollStudent(*cohort, s.policy.CapacityMode)
		if err := s.guard("enroll student", decision); err != nil {
			return err
		}
		warning = decision.Warning
		if req.MentorID != nil {
			mentor, err := getMentor(ctx, tx, *req.MentorID)
			if err != nil {
				return err
			}
			if err := s.guard("assign student mentor", rules.CanAssignStudentMentor(*student, *mentor)); err != nil {
				return err
			}
			student.MentorID = req.MentorID
		}
		return tx.InsertStudent(ctx, student)
	})
	if err != nil {
		return nil, "", storeErr(err, "enroll student")
	}
	s.logger.Info("student enrolled", zap.String("student_id", student.ID), zap.String("cohort_id", student.CohortID))
	if warning != "" {
		s.logger.Warn("cohort over capacity", zap.String("cohort_id", student.CohortID))
	}
	return student, warning, nil
}

// Transfer moves a student into another open cohort. The personal mentor is
// kept only when that mentor also leads the new cohort.
func (s *StudentService) Transfer(ctx context.Context, id string, req TransferStudentRequest) (*models.Student, rules.ReasonCode, error) {
	if err := validateStruct(s.validator, req, "invalid transfer payload"); err != nil {
		return nil, "", err
	}
	var (
		student *models.Student
		warning rules.ReasonCode
	)
	err := s.store.WithinTx(ctx, func(tx repository.Tx) error {
		var err error
		if student, err = s.loadLive(ctx, tx, id, req.Version, "transfer student"); err != nil {
			return err
		}
		if student.CohortID == req.CohortID {
			return appErrors.Clone(appErrors.ErrValidation, "student is already in this cohort")
		}
		target, err := getCohort(ctx, tx, req.CohortID)
		if err != nil {
			return err
		}
		decision := rules.CanEnrollStudent(*target, s.policy.CapacityMode)
		if err := s.guard("transfer student", decision); err != nil {
			return err
		}
		warning = decision.Warning
		if student.MentorID != nil {
			linked, err := tx.LinkExists(ctx, *student.MentorID, target.ID)
			if err != nil {
				return err
			}
			if !linked {
				student.MentorID = nil
			}
		}
		student.CohortID = target.ID
		return tx.UpdateStudent(ctx, student)
	})
	if err != nil {
		return nil, "", storeErr(err, "transfer student")
	}
	s.logger.Info("student transferred", zap.String("student_id", id), zap.String("cohort_id", req.CohortID))
	return student, warning, nil
}

// AssignMentor sets the personal mentor, who must lead the student's cohort.
// A nil MentorID clears it.
func (s *StudentService) AssignMentor(ctx context.Context, id string, req AssignStudentMentorRequest) (*models.Student, error) {
	if err := validateStruct(s.validator, req, "invalid mentor payload"); err != nil {
		return nil, err
	}
	var student *models.Student
	err := s.store.WithinTx(ctx, func(tx repository.Tx) error {
		var err error
		if student, err = getStudent(ctx, tx, id); err != nil {
			return err
		}
		if err := expectVersion(student.Version, req.Version); err != nil {
			return err
		}
		if req.MentorID != nil {
			mentor, err := getMentor(ctx, tx, *req.MentorID)
			if err != nil {
				return err
			}
			if err := s.guard("assign student mentor", rules.CanAssignStudentMentor(*student, *mentor)); err != nil {
				return err
			}
		}
		student.MentorID = req.MentorID
		return tx.UpdateStudent(ctx, student)
	})
	if err != nil {
		return nil, storeErr(err, "assign student mentor")
	}
	return student, nil
}

// UpdateProgress records progress and counts as activity.
func (s *StudentService) UpdateProgress(ctx context.Context, id string, req UpdateProgressRequest) (*models.Student, error) {
	if err := validateStruct(s.validator, req, "invalid progress payload"); err != nil {
		return nil, err
	}
	return s.activity(ctx, id, req.Version, func(st *models.Student) {
		st.Progress = *req.Progress
	})
}

// RecordActivity stamps LastActivityAt. The first activity of an invited
// student activates it.
func (s *StudentService) RecordActivity(ctx context.Context, id string) (*models.Student, error) {
	return s.activity(ctx, id, nil, func(*models.Student) {})
}

func (s *StudentService) activity(ctx context.Context, id string, version *int64, apply func(*models.Student)) (*models.Student, error) {
	var (
		student   *models.Student
		step      lifecycle.Step
		activated bool
	)
	err := s.store.WithinTx(ctx, func(tx repository.Tx) error {
		var err error
		if student, err = s.loadLive(ctx, tx, id, version, "record activity"); err != nil {
			return err
		}
		apply(student)
		now := s.now()
		student.LastActivityAt = &now
		if student.Status == models.StudentInvited {
			if step, err = lifecycle.ResolveStudent(student.Status, models.StudentActive); err != nil {
				return err
			}
			student.Status = models.StudentActive
			activated = true
		}
		return tx.UpdateStudent(ctx, student)
	})
	if err != nil {
		return nil, storeErr(err, "record student activity")
	}
	if activated {
		s.transitioned(step, id)
	}
	return student, nil
}

// UpdatePayment records the payment state.
func (s *StudentService) UpdatePayment(ctx context.Context, id string, req UpdatePaymentRequest) (*models.Student, error) {
	if err := validateStruct(s.validator, req, "invalid payment payload"); err != nil {
		return nil, err
	}
	var student *models.Student
	err := s.store.WithinTx(ctx, func(tx repository.Tx) error {
		var err error
		if student, err = getStudent(ctx, tx, id); err != nil {
			return err
		}
		if err := expectVersion(student.Version, req.Version); err != nil {
			return err
		}
		student.PaymentStatus = models.PaymentStatus(req.PaymentStatus)
		return tx.UpdateStudent(ctx, student)
	})
	if err != nil {
		return nil, storeErr(err, "update payment status")
	}
	return student, nil
}

// AppendNote adds a note. Notes are never edited or removed.
func (s *StudentService) AppendNote(ctx context.Context, id string, req AppendNoteRequest) (*models.StudentNote, error) {
	if err := validateStruct(s.validator, req, "invalid note payload"); err != nil {
		return nil, err
	}
	note := &models.StudentNote{StudentID: id, Author: strings.TrimSpace(req.Author), Content: req.Content}
	err := s.store.WithinTx(ctx, func(tx repository.Tx) error {
		if err := tx.AppendNote(ctx, note); err != nil {
			return notFound(err, "student")
		}
		return nil
	})
	if err != nil {
		return nil, storeErr(err, "append note")
	}
	return note, nil
}

// ListNotes returns a student's notes, oldest first.
func (s *StudentService) ListNotes(ctx context.Context, id string) ([]models.StudentNote, error) {
	var notes []models.StudentNote
	err := s.store.View(ctx, func(tx repository.Tx) error {
		var err error
		if notes, err = tx.ListNotes(ctx, id); err != nil {
			return notFound(err, "student")
		}
		return nil
	})
	if err != nil {
		return nil, storeErr(err, "list notes")
	}
	return notes, nil
}

// UpdateStatus moves a student through its lifecycle. Dropped and completed
// students reject every change. Flagged and dropped keep the optional reason.
func (s *StudentService) UpdateStatus(ctx context.Context, id string, req StatusChangeRequest) (*models.Student, error) {
	if err := validateStruct(s.validator, req, "invalid status payload"); err != nil {
		return nil, err
	}
	to, err := models.ParseStudentStatus(req.Status)
	if err != nil {
		return nil, appErrors.Validation(err, "invalid student status")
	}

	var (
		student *models.Student
		step    lifecycle.Step
	)
	err = s.store.WithinTx(ctx, func(tx repository.Tx) error {
		var err error
		if student, err = getStudent(ctx, tx, id); err != nil {
			return err
		}
		if err := expectVersion(student.Version, req.Version); err != nil {
			return err
		}
		if step, err = lifecycle.ResolveStudent(student.Status, to); err != nil {
			return s.checked("student status", err)
		}
		student.Status = to
		student.StatusReason = nil
		if to.AcceptsReason() && req.Reason != nil && strings.TrimSpace(*req.Reason) != "" {
			reason := strings.TrimSpace(*req.Reason)
			student.StatusReason = &reason
		}
		return tx.UpdateStudent(ctx, student)
	})
	if err != nil {
		return nil, storeErr(err, "update student status")
	}
	s.transitioned(step, id)
	return student, nil
}

// Delete removes a student and its notes.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	err := s.store.WithinTx(ctx, func(tx repository.Tx) error {
		return notFound(tx.DeleteStudent(ctx, id), "student")
	})
	if err != nil {
		return storeErr(err, "delete student")
	}
	s.logger.Info("student deleted", zap.String("student_id", id))
	return nil
}

// loadLive loads a student that is not in a terminal state.
func (s *StudentService) loadLive(ctx context.Context, tx repository.Tx, id string, version *int64, op string) (*models.Student, error) {
	student, err := getStudent(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := expectVersion(student.Version, version); err != nil {
		return nil, err
	}
	if student.Status.IsTerminal() {
		return nil, s.guard(op, rules.Deny(rules.ReasonStudentTerminal))
	}
	return student, nil
}
