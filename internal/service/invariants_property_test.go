package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/noah-isme/cohort-api/internal/models"
	"github.com/noah-isme/cohort-api/internal/repository"
	appErrors "github.com/noah-isme/cohort-api/pkg/errors"
)

const (
	propMentors = 3
	propCohorts = 4
	propKinds   = 6
)

// applyOp decodes one generated integer into an operation on the pool and
// runs it. Guard rejections are expected; anything else is a failure.
func applyOp(ctx context.Context, f *fixture, mentors, cohorts []string, code int) error {
	kind := code % propKinds
	m := mentors[(code/propKinds)%propMentors]
	c := cohorts[(code/(propKinds*propMentors))%propCohorts]

	var err error
	switch kind {
	case 0:
		_, err = f.assignments.Confirm(ctx, AssignmentRequest{MentorID: m, CohortID: c})
	case 1:
		_, err = f.assignments.Remove(ctx, AssignmentRequest{MentorID: m, CohortID: c})
	case 2:
		_, err = f.mentors.UpdateStatus(ctx, m, StatusChangeRequest{Status: "inactive"})
	case 3:
		_, err = f.mentors.UpdateStatus(ctx, m, StatusChangeRequest{Status: "active"})
	case 4:
		_, err = f.mentors.UpdateCapacity(ctx, m, UpdateMentorCapacityRequest{MaxCohorts: 1 + code%propCohorts})
	case 5:
		_, err = f.cohorts.UpdateStatus(ctx, c, StatusChangeRequest{Status: "archived"})
		if appErrors.IsKind(err, appErrors.KindGuard) {
			_, err = f.cohorts.Restore(ctx, c, nil)
		}
	}
	if err == nil || appErrors.IsKind(err, appErrors.KindGuard) {
		return nil
	}
	return err
}

func checkInvariants(ctx context.Context, store repository.Store, mentorIDs, cohortIDs []string) error {
	return store.View(ctx, func(tx repository.Tx) error {
		mentors := map[string]*models.Mentor{}
		for _, id := range mentorIDs {
			m, err := tx.GetMentor(ctx, id)
			if err != nil {
				return err
			}
			if len(m.AssignedCohortIDs) > m.MaxCohorts {
				return fmt.Errorf("mentor %s has %d cohorts, max %d", id, len(m.AssignedCohortIDs), m.MaxCohorts)
			}
			if m.Status == models.MentorInactive && len(m.AssignedCohortIDs) > 0 {
				return fmt.Errorf("inactive mentor %s still assigned", id)
			}
			mentors[id] = m
		}
		for _, id := range cohortIDs {
			c, err := tx.GetCohort(ctx, id)
			if err != nil {
				return err
			}
			for _, mid := range mentorIDs {
				if c.HasMentor(mid) != mentors[mid].IsAssignedTo(id) {
					return fmt.Errorf("link %s/%s visible from one side only", mid, id)
				}
			}
		}
		return nil
	})
}

func TestLinkInvariantsHoldUnderRandomOperations(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 60
	properties := gopter.NewProperties(parameters)

	properties.Property("capacity and bidirectional link hold after every operation", prop.ForAll(
		func(ops []int) string {
			f := newFixture(t, DefaultPolicy())
			ctx := context.Background()
			p := f.program(t)
			var mentorIDs, cohortIDs []string
			for i := 0; i < propMentors; i++ {
				mentorIDs = append(mentorIDs, f.mentor(t, 2).ID)
			}
			for i := 0; i < propCohorts; i++ {
				cohortIDs = append(cohortIDs, f.cohort(t, p.ID, 10).ID)
			}

			for step, code := range ops {
				if err := applyOp(ctx, f, mentorIDs, cohortIDs, code); err != nil {
					return fmt.Sprintf("step %d (op %d): %v", step, code, err)
				}
				if err := checkInvariants(ctx, f.store, mentorIDs, cohortIDs); err != nil {
					return fmt.Sprintf("step %d (op %d): %v", step, code, err)
				}
			}
			return ""
		},
		gen.SliceOf(gen.IntRange(0, propKinds*propMentors*propCohorts-1)),
	))

	properties.TestingRun(t)
}
