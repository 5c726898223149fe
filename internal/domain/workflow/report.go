// Package workflow sequences the Terraform pipeline and decides whether to
// mutate infrastructure.
package workflow

import (
	"time"

	"github.com/google/uuid"

	"github.com/Git-Cosmo/CloudOps/internal/domain/config"
	"github.com/Git-Cosmo/CloudOps/internal/domain/terraform"
)

// RunReport is the final state of one pipeline run, built exactly once on
// the way out and handed to the reporter.
type RunReport struct {
	RunID      string
	Operation  config.OperationMode
	Cloud      config.CloudMode
	WorkingDir string // relative to the workspace when inside it

	Plan  terraform.PlanResult
	Apply terraform.ApplyOutcome

	Success bool
	Err     error

	StartedAt time.Time
	Duration  time.Duration
}

// HasChanges reports whether the plan step detected drift.
func (r *RunReport) HasChanges() bool {
	return r.Plan.HasChanges()
}

func newRunReport(cfg *config.Config) *RunReport {
	return &RunReport{
		RunID:     uuid.NewString(),
		Operation: cfg.Operation,
		Cloud:     cfg.Cloud,
		StartedAt: time.Now(),
	}
}

// fail marks the report failed with the triggering error. The first error
// wins; later cleanup noise never overwrites it.
func (r *RunReport) fail(err error) *RunReport {
	if r.Err == nil {
		r.Err = err
	}
	r.Success = false
	r.Duration = time.Since(r.StartedAt)
	return r
}

func (r *RunReport) succeed() *RunReport {
	r.Success = true
	r.Duration = time.Since(r.StartedAt)
	return r
}
