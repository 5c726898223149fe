package terraform

import "github.com/Git-Cosmo/CloudOps/internal/ports"

// PlanOutcome is the classified result kind of a plan step.
type PlanOutcome int

const (
	// PlanNoChanges means the plan completed and found no drift (exit 0).
	PlanNoChanges PlanOutcome = iota
	// PlanChanges means the plan completed and found drift (exit 2).
	PlanChanges
	// PlanFailed means the plan itself failed (any other exit code).
	PlanFailed
)

// String returns the outcome in the structured-output vocabulary.
func (o PlanOutcome) String() string {
	switch o {
	case PlanNoChanges:
		return "no-changes"
	case PlanChanges:
		return "changes"
	default:
		return "failure"
	}
}

// PlanResult is the outcome of one plan step. Terraform overloads its exit
// code with a third meaning, so "success" is two distinct variants here and
// downstream gating must never collapse them.
type PlanResult struct {
	Outcome PlanOutcome
	// Text is the captured plan stdout, preserved verbatim for reporting.
	Text string
	// ArtifactPath is the opaque plan file this run produced; only the
	// apply step of the same run may consume it.
	ArtifactPath string
	// Err carries the failure detail when Outcome is PlanFailed.
	Err error
}

// HasChanges reports whether the plan detected drift.
func (r PlanResult) HasChanges() bool {
	return r.Outcome == PlanChanges
}

// Failed reports whether the plan step itself failed.
func (r PlanResult) Failed() bool {
	return r.Outcome == PlanFailed
}

// classifyPlanExit maps terraform plan's detailed exit code onto a
// PlanResult. This is the single place the 0/2/other contract lives.
func classifyPlanExit(call ports.CommandCall, result ports.CommandResult, artifact string) PlanResult {
	switch result.ExitCode {
	case 0:
		return PlanResult{Outcome: PlanNoChanges, Text: result.Stdout, ArtifactPath: artifact}
	case 2:
		return PlanResult{Outcome: PlanChanges, Text: result.Stdout, ArtifactPath: artifact}
	default:
		return PlanResult{
			Outcome: PlanFailed,
			Text:    result.Stdout,
			Err: &ports.ExecError{
				Cmd:      call,
				ExitCode: result.ExitCode,
				Stdout:   result.Stdout,
				Stderr:   result.Stderr,
			},
		}
	}
}

// ApplyStatus is the classified result kind of an apply step.
type ApplyStatus int

const (
	// ApplySkipped means apply was not warranted for this run.
	ApplySkipped ApplyStatus = iota
	// ApplySuccess means apply ran and succeeded.
	ApplySuccess
	// ApplyFailed means apply ran and failed.
	ApplyFailed
)

// String returns the status in the structured-output vocabulary.
func (s ApplyStatus) String() string {
	switch s {
	case ApplySuccess:
		return "success"
	case ApplyFailed:
		return "failure"
	default:
		return "skipped"
	}
}

// ApplyOutcome is the outcome of the apply decision.
type ApplyOutcome struct {
	Status ApplyStatus
	// Reason explains a skip in human terms.
	Reason string
	// Err carries the failure detail when Status is ApplyFailed.
	Err error
}

// Skipped builds a skipped outcome with a reason.
func Skipped(reason string) ApplyOutcome {
	return ApplyOutcome{Status: ApplySkipped, Reason: reason}
}
