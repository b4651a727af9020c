package models

import (
	"fmt"
	"strings"
)

// ProgramStatus is the lifecycle state of a program.
type ProgramStatus string

const (
	ProgramDraft    ProgramStatus = "draft"
	ProgramActive   ProgramStatus = "active"
	ProgramArchived ProgramStatus = "archived"
)

// ProgramStatuses lists every program state.
var ProgramStatuses = []ProgramStatus{ProgramDraft, ProgramActive, ProgramArchived}

// IsValid reports whether s is a known program status.
func (s ProgramStatus) IsValid() bool {
	switch s {
	case ProgramDraft, ProgramActive, ProgramArchived:
		return true
	default:
		return false
	}
}

// ParseProgramStatus parses a case-insensitive program status.
func ParseProgramStatus(raw string) (ProgramStatus, error) {
	s := ProgramStatus(normalize(raw))
	if !s.IsValid() {
		return "", fmt.Errorf("unknown program status %q", raw)
	}
	return s, nil
}

// CohortStatus is the lifecycle state of a cohort.
type CohortStatus string

const (
	CohortUpcoming  CohortStatus = "upcoming"
	CohortActive    CohortStatus = "active"
	CohortCompleted CohortStatus = "completed"
	CohortArchived  CohortStatus = "archived"
)

// CohortStatuses lists every cohort state.
var CohortStatuses = []CohortStatus{CohortUpcoming, CohortActive, CohortCompleted, CohortArchived}

// IsValid reports whether s is a known cohort status.
func (s CohortStatus) IsValid() bool {
	switch s {
	case CohortUpcoming, CohortActive, CohortCompleted, CohortArchived:
		return true
	default:
		return false
	}
}

// IsOpen reports whether the cohort still runs (upcoming or active). Only
// open cohorts accept mentors and enrollments.
func (s CohortStatus) IsOpen() bool {
	switch s {
	case CohortUpcoming, CohortActive:
		return true
	case CohortCompleted, CohortArchived:
		return false
	default:
		return false
	}
}

// ParseCohortStatus parses a case-insensitive cohort status.
func ParseCohortStatus(raw string) (CohortStatus, error) {
	s := CohortStatus(normalize(raw))
	if !s.IsValid() {
		return "", fmt.Errorf("unknown cohort status %q", raw)
	}
	return s, nil
}

// MentorStatus is the lifecycle state of a mentor.
type MentorStatus string

const (
	MentorActive   MentorStatus = "active"
	MentorInactive MentorStatus = "inactive"
)

// MentorStatuses lists every mentor state.
var MentorStatuses = []MentorStatus{MentorActive, MentorInactive}

// IsValid reports whether s is a known mentor status.
func (s MentorStatus) IsValid() bool {
	switch s {
	case MentorActive, MentorInactive:
		return true
	default:
		return false
	}
}

// ParseMentorStatus parses a case-insensitive mentor status.
func ParseMentorStatus(raw string) (MentorStatus, error) {
	s := MentorStatus(normalize(raw))
	if !s.IsValid() {
		return "", fmt.Errorf("unknown mentor status %q", raw)
	}
	return s, nil
}

// StudentStatus is the lifecycle state of a student.
type StudentStatus string

const (
	StudentInvited   StudentStatus = "invited"
	StudentActive    StudentStatus = "active"
	StudentFlagged   StudentStatus = "flagged"
	StudentDropped   StudentStatus = "dropped"
	StudentCompleted StudentStatus = "completed"
)

// StudentStatuses lists every student state.
var StudentStatuses = []StudentStatus{StudentInvited, StudentActive, StudentFlagged, StudentDropped, StudentCompleted}

// IsValid reports whether s is a known student status.
func (s StudentStatus) IsValid() bool {
	switch s {
	case StudentInvited, StudentActive, StudentFlagged, StudentDropped, StudentCompleted:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no transition may leave s.
func (s StudentStatus) IsTerminal() bool {
	switch s {
	case StudentDropped, StudentCompleted:
		return true
	case StudentInvited, StudentActive, StudentFlagged:
		return false
	default:
		return false
	}
}

// AcceptsReason reports whether entering s records a free-text reason.
func (s StudentStatus) AcceptsReason() bool {
	return s == StudentDropped || s == StudentFlagged
}

// ParseStudentStatus parses a case-insensitive student status.
func ParseStudentStatus(raw string) (StudentStatus, error) {
	s := StudentStatus(normalize(raw))
	if !s.IsValid() {
		return "", fmt.Errorf("unknown student status %q", raw)
	}
	return s, nil
}

// PaymentStatus is orthogonal to the student lifecycle.
type PaymentStatus string

const (
	PaymentPaid     PaymentStatus = "paid"
	PaymentPending  PaymentStatus = "pending"
	PaymentOverdue  PaymentStatus = "overdue"
	PaymentRefunded PaymentStatus = "refunded"
)

// IsValid reports whether s is a known payment status.
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentPaid, PaymentPending, PaymentOverdue, PaymentRefunded:
		return true
	default:
		return false
	}
}

// ParsePaymentStatus parses a case-insensitive payment status.
func ParsePaymentStatus(raw string) (PaymentStatus, error) {
	s := PaymentStatus(normalize(raw))
	if !s.IsValid() {
		return "", fmt.Errorf("unknown payment status %q", raw)
	}
	return s, nil
}

// AvailabilityStatus is informational and never blocks assignment.
type AvailabilityStatus string

const (
	AvailabilityAvailable   AvailabilityStatus = "available"
	AvailabilityLimited     AvailabilityStatus = "limited"
	AvailabilityUnavailable AvailabilityStatus = "unavailable"
)

// IsValid reports whether s is a known availability status.
func (s AvailabilityStatus) IsValid() bool {
	switch s {
	case AvailabilityAvailable, AvailabilityLimited, AvailabilityUnavailable:
		return true
	default:
		return false
	}
}

// ParseAvailabilityStatus parses a case-insensitive availability status.
func ParseAvailabilityStatus(raw string) (AvailabilityStatus, error) {
	s := AvailabilityStatus(normalize(raw))
	if !s.IsValid() {
		return "", fmt.Errorf("unknown availability status %q", raw)
	}
	return s, nil
}

// EntityType names one of the four managed entity kinds.
type EntityType string

const (
	EntityProgram EntityType = "program"
	EntityCohort  EntityType = "cohort"
	EntityMentor  EntityType = "mentor"
	EntityStudent EntityType = "student"
)

// IsValid reports whether t is a known entity type.
func (t EntityType) IsValid() bool {
	switch t {
	case EntityProgram, EntityCohort, EntityMentor, EntityStudent:
		return true
	default:
		return false
	}
}

// ParseEntityType accepts singular or plural names ("cohort", "cohorts").
func ParseEntityType(raw string) (EntityType, error) {
	t := EntityType(strings.TrimSuffix(normalize(raw), "s"))
	if !t.IsValid() {
		return "", fmt.Errorf("unknown entity type %q", raw)
	}
	return t, nil
}

func normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
