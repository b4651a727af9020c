package lifecycle

import (
	"github.com/felixgeelhaar/statekit"

	"github.com/noah-isme/cohort-api/internal/models"
)

// Transition is one edge of a status machine.
type Transition struct {
	From  string             `json:"from"`
	To    string             `json:"to"`
	Event statekit.EventType `json:"event"`
}

// Definition is the tabular form of a status machine.
type Definition struct {
	Entity      models.EntityType `json:"entity"`
	Initial     string            `json:"initial"`
	States      []string          `json:"states"`
	Final       []string          `json:"final,omitempty"`
	Transitions []Transition      `json:"transitions"`
}

func (d Definition) find(from, to string) (Transition, bool) {
	for _, tr := range d.Transitions {
		if tr.From == from && tr.To == to {
			return tr, true
		}
	}
	return Transition{}, false
}

func (d Definition) hasState(state string) bool {
	for _, s := range d.States {
		if s == state {
			return true
		}
	}
	return false
}

func edge[S ~string](from, to S, ev statekit.EventType) Transition {
	return Transition{From: string(from), To: string(to), Event: ev}
}

func names[S ~string](values []S) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

var programDefinition = Definition{
	Entity:  models.EntityProgram,
	Initial: string(models.ProgramDraft),
	States:  names(models.ProgramStatuses),
	Transitions: []Transition{
		edge(models.ProgramDraft, models.ProgramActive, EventActivate),
		edge(models.ProgramDraft, models.ProgramArchived, EventArchive),
		edge(models.ProgramActive, models.ProgramDraft, EventRevertToDraft),
		edge(models.ProgramActive, models.ProgramArchived, EventArchive),
		edge(models.ProgramArchived, models.ProgramDraft, EventRestore),
	},
}

var cohortDefinition = Definition{
	Entity:  models.EntityCohort,
	Initial: string(models.CohortUpcoming),
	States:  names(models.CohortStatuses),
	Final:   []string{string(models.CohortCompleted)},
	Transitions: []Transition{
		edge(models.CohortUpcoming, models.CohortActive, EventStart),
		edge(models.CohortUpcoming, models.CohortArchived, EventArchive),
		edge(models.CohortActive, models.CohortCompleted, EventComplete),
		edge(models.CohortActive, models.CohortArchived, EventArchive),
		edge(models.CohortArchived, models.CohortUpcoming, EventRestoreToUpcoming),
		edge(models.CohortArchived, models.CohortActive, EventRestoreToActive),
	},
}

var mentorDefinition = Definition{
	Entity:  models.EntityMentor,
	Initial: string(models.MentorActive),
	States:  names(models.MentorStatuses),
	Transitions: []Transition{
		edge(models.MentorActive, models.MentorInactive, EventDeactivate),
		edge(models.MentorInactive, models.MentorActive, EventReactivate),
	},
}

var studentDefinition = Definition{
	Entity:  models.EntityStudent,
	Initial: string(models.StudentInvited),
	States:  names(models.StudentStatuses),
	Final:   []string{string(models.StudentDropped), string(models.StudentCompleted)},
	Transitions: []Transition{
		edge(models.StudentInvited, models.StudentActive, EventActivate),
		edge(models.StudentInvited, models.StudentFlagged, EventFlag),
		edge(models.StudentInvited, models.StudentDropped, EventDrop),
		edge(models.StudentInvited, models.StudentCompleted, EventComplete),
		edge(models.StudentActive, models.StudentFlagged, EventFlag),
		edge(models.StudentActive, models.StudentDropped, EventDrop),
		edge(models.StudentActive, models.StudentCompleted, EventComplete),
		edge(models.StudentFlagged, models.StudentActive, EventUnflag),
		edge(models.StudentFlagged, models.StudentDropped, EventDrop),
		edge(models.StudentFlagged, models.StudentCompleted, EventComplete),
	},
}

// DefinitionFor returns the machine table for entity.
func DefinitionFor(entity models.EntityType) (Definition, bool) {
	switch entity {
	case models.EntityProgram:
		return programDefinition, true
	case models.EntityCohort:
		return cohortDefinition, true
	case models.EntityMentor:
		return mentorDefinition, true
	case models.EntityStudent:
		return studentDefinition, true
	default:
		return Definition{}, false
	}
}

func builderFor(entity models.EntityType) (builder, bool) {
	switch entity {
	case models.EntityProgram:
		return buildProgram, true
	case models.EntityCohort:
		return buildCohort, true
	case models.EntityMentor:
		return buildMentor, true
	case models.EntityStudent:
		return buildStudent, true
	default:
		return nil, false
	}
}
