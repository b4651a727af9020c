package lifecycle

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"

	"github.com/noah-isme/cohort-api/internal/models"
	"github.com/noah-isme/cohort-api/internal/rules"
	appErrors "github.com/noah-isme/cohort-api/pkg/errors"
)

// Step is a resolved transition ready to be applied.
type Step struct {
	Entity models.EntityType
	From   string
	To     string
	Event  statekit.EventType
}

// RestoreMode picks the target state when an archived cohort is restored.
type RestoreMode string

const (
	RestorePrevious RestoreMode = "previous"
	RestoreUpcoming RestoreMode = "upcoming"
)

// ResolveProgram maps a requested program status change onto its event.
func ResolveProgram(from, to models.ProgramStatus) (Step, error) {
	if from == to {
		return Step{}, rules.Deny(rules.ReasonSameStatus).Err()
	}
	return run(models.EntityProgram, string(from), string(to))
}

// ResolveCohort maps a requested cohort status change onto its event,
// reporting the specific guard that blocks it.
func ResolveCohort(from, to models.CohortStatus) (Step, error) {
	if from == to {
		return Step{}, rules.Deny(rules.ReasonSameStatus).Err()
	}
	current := models.Cohort{Status: from}
	switch to {
	case models.CohortCompleted:
		if err := rules.CanMarkCohortComplete(current).Err(); err != nil {
			return Step{}, err
		}
	case models.CohortArchived:
		if err := rules.CanArchiveCohort(current).Err(); err != nil {
			return Step{}, err
		}
	case models.CohortUpcoming, models.CohortActive:
		if from == models.CohortArchived {
			if err := rules.CanRestoreCohort(current).Err(); err != nil {
				return Step{}, err
			}
		}
	default:
		return Step{}, rules.Deny(rules.ReasonInvalidTransition).Err()
	}
	return run(models.EntityCohort, string(from), string(to))
}

// ResolveMentor maps a requested mentor status change onto its event.
func ResolveMentor(from, to models.MentorStatus) (Step, error) {
	if from == to {
		return Step{}, rules.Deny(rules.ReasonSameStatus).Err()
	}
	return run(models.EntityMentor, string(from), string(to))
}

// ResolveStudent maps a requested student status change onto its event.
// Terminal students reject every target.
func ResolveStudent(from, to models.StudentStatus) (Step, error) {
	if err := rules.CanTransitionStudent(from, to).Err(); err != nil {
		return Step{}, err
	}
	return run(models.EntityStudent, string(from), string(to))
}

// RestoreTarget returns the state an archived cohort goes back to.
func RestoreTarget(cohort models.Cohort, mode RestoreMode) models.CohortStatus {
	if mode == RestorePrevious && cohort.PreviousStatus != nil && cohort.PreviousStatus.IsOpen() {
		return *cohort.PreviousStatus
	}
	return models.CohortUpcoming
}

// run looks the edge up in the table and replays it on the statekit machine
// started at from. The machine must land on to.
func run(entity models.EntityType, from, to string) (Step, error) {
	def, _ := DefinitionFor(entity)
	if !def.hasState(from) || !def.hasState(to) {
		return Step{}, rules.Deny(rules.ReasonInvalidTransition).Err()
	}
	tr, ok := def.find(from, to)
	if !ok {
		return Step{}, rules.Deny(rules.ReasonInvalidTransition).Err()
	}

	build, _ := builderFor(entity)
	interp, err := build(statekit.StateID(from))
	if err != nil {
		return Step{}, appErrors.Internal(err, "failed to build lifecycle machine")
	}
	interp.Start()
	interp.Send(statekit.Event{Type: tr.Event})

	if got := string(interp.State().Value); got != to {
		return Step{}, appErrors.Internal(
			fmt.Errorf("%s machine: %s from %s reached %s, want %s", entity, tr.Event, from, got, to),
			"lifecycle machine disagrees with transition table",
		)
	}

	return Step{Entity: entity, From: from, To: to, Event: tr.Event}, nil
}
