package service

import (
	"github.com/noah-isme/cohort-api/internal/lifecycle"
	"github.com/noah-isme/cohort-api/internal/rules"
	"github.com/noah-isme/cohort-api/pkg/config"
)

// Policy carries the configurable rule choices.
type Policy struct {
	CapacityMode            rules.CapacityMode
	RestoreMode             lifecycle.RestoreMode
	DefaultMentorMaxCohorts int
}

// DefaultPolicy is a hard capacity cap, restore to previous status and three
// cohorts per mentor.
func DefaultPolicy() Policy {
	return Policy{
		CapacityMode:            rules.CapacityHard,
		RestoreMode:             lifecycle.RestorePrevious,
		DefaultMentorMaxCohorts: 3,
	}
}

// PolicyFromConfig maps the rules section of the configuration.
func PolicyFromConfig(cfg config.RulesConfig) Policy {
	policy := DefaultPolicy()
	if cfg.EnrollmentCapacityMode == config.CapacitySoft {
		policy.CapacityMode = rules.CapacitySoft
	}
	if cfg.CohortRestoreMode == config.RestoreUpcoming {
		policy.RestoreMode = lifecycle.RestoreUpcoming
	}
	if cfg.MentorDefaultMaxCohorts > 0 {
		policy.DefaultMentorMaxCohorts = cfg.MentorDefaultMaxCohorts
	}
	return policy
}
