package rules

// ReasonCode is the machine-readable cause of a guard rejection.
type ReasonCode string

// Reason codes surfaced to callers on rejected operations.
const (
	ReasonMentorInactive          ReasonCode = "MENTOR_INACTIVE"
	ReasonMentorAtCapacity        ReasonCode = "MENTOR_AT_CAPACITY"
	ReasonCohortNotAssignable     ReasonCode = "COHORT_NOT_ASSIGNABLE"
	ReasonMentorAlreadyAssigned   ReasonCode = "MENTOR_ALREADY_ASSIGNED"
	ReasonMentorNotAssigned       ReasonCode = "MENTOR_NOT_ASSIGNED"
	ReasonCohortHasStudents       ReasonCode = "COHORT_HAS_STUDENTS"
	ReasonMentorHasAssignments    ReasonCode = "MENTOR_HAS_ASSIGNMENTS"
	ReasonProgramHasCohorts       ReasonCode = "PROGRAM_HAS_COHORTS"
	ReasonProgramNotDeletable     ReasonCode = "PROGRAM_NOT_DELETABLE"
	ReasonProgramArchived         ReasonCode = "PROGRAM_ARCHIVED"
	ReasonCohortAlreadyClosed     ReasonCode = "COHORT_ALREADY_CLOSED"
	ReasonCohortNotActive         ReasonCode = "COHORT_NOT_ACTIVE"
	ReasonCohortNotArchived       ReasonCode = "COHORT_NOT_ARCHIVED"
	ReasonCohortAtCapacity        ReasonCode = "COHORT_AT_CAPACITY"
	ReasonCohortNotEnrollable     ReasonCode = "COHORT_NOT_ENROLLABLE"
	ReasonSameStatus              ReasonCode = "SAME_STATUS"
	ReasonStudentTerminal         ReasonCode = "STUDENT_TERMINAL"
	ReasonInvalidTransition       ReasonCode = "INVALID_TRANSITION"
	ReasonMaxCohortsBelowAssigned ReasonCode = "MAX_COHORTS_BELOW_ASSIGNED"
	ReasonMentorNotInCohort       ReasonCode = "MENTOR_NOT_IN_COHORT"
)

var messages = map[ReasonCode]string{
	ReasonMentorInactive:          "mentor is inactive",
	ReasonMentorAtCapacity:        "mentor has reached the maximum number of cohorts",
	ReasonCohortNotAssignable:     "cohort is not upcoming or active",
	ReasonMentorAlreadyAssigned:   "mentor is already assigned to this cohort",
	ReasonMentorNotAssigned:       "mentor is not assigned to this cohort",
	ReasonCohortHasStudents:       "cohort still has enrolled students",
	ReasonMentorHasAssignments:    "mentor is still assigned to cohorts",
	ReasonProgramHasCohorts:       "program still has cohorts",
	ReasonProgramNotDeletable:     "only draft or archived programs can be deleted",
	ReasonProgramArchived:         "program is archived",
	ReasonCohortAlreadyClosed:     "cohort is already completed or archived",
	ReasonCohortNotActive:         "cohort is not active",
	ReasonCohortNotArchived:       "cohort is not archived",
	ReasonCohortAtCapacity:        "cohort is at capacity",
	ReasonCohortNotEnrollable:     "cohort is not accepting enrollments",
	ReasonSameStatus:              "entity already has this status",
	ReasonStudentTerminal:         "student is dropped or completed",
	ReasonInvalidTransition:       "status transition is not allowed",
	ReasonMaxCohortsBelowAssigned: "max cohorts cannot be lower than current assignments",
	ReasonMentorNotInCohort:       "mentor does not lead the student's cohort",
}

// Message returns a human readable description of the reason.
func (r ReasonCode) Message() string {
	if msg, ok := messages[r]; ok {
		return msg
	}
	return string(r)
}
