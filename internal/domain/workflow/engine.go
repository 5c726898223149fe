package workflow

import (
	"context"

	"github.com/Git-Cosmo/CloudOps/internal/domain/config"
	"github.com/Git-Cosmo/CloudOps/internal/domain/credentials"
	"github.com/Git-Cosmo/CloudOps/internal/domain/terraform"
	"github.com/Git-Cosmo/CloudOps/internal/ports"
)

// Toolchain provisions the CLI tools the pipeline shells out to.
type Toolchain interface {
	EnsureAll(ctx context.Context, cfg *config.Config) error
}

// Credentials establishes and releases provider authentication state.
type Credentials interface {
	Configure(ctx context.Context, cloud config.CloudMode, secrets *config.Secrets) (*credentials.Session, error)
	Cleanup(ctx context.Context, session *credentials.Session)
}

// Terraform is the per-run terraform sub-command surface.
type Terraform interface {
	Init(ctx context.Context, backendConfig []string) error
	Fmt(ctx context.Context) error
	Validate(ctx context.Context) error
	Plan(ctx context.Context, vars []string) terraform.PlanResult
	Apply(ctx context.Context) error
	PlanFile() string
}

// TerraformFactory builds a Terraform service bound to a working directory
// and a credential environment overlay.
type TerraformFactory func(dir string, env []string) Terraform

// Reporter consumes workflow results. It is a collaborator of the engine,
// not part of it: every method is fire-and-forget and must not fail the
// run.
type Reporter interface {
	// WorkingDirResolved publishes the resolved working directory.
	WorkingDirResolved(ctx context.Context, relDir string)
	// PlanCompleted publishes the classified plan outcome and, when
	// artifact publishing is on, the plan artifact path.
	PlanCompleted(ctx context.Context, result terraform.PlanResult, publishArtifact bool)
	// PlanChanges reports a drift-detecting plan (the PR comment hook).
	PlanChanges(ctx context.Context, planText string)
	// ApplyDecided publishes the apply outcome.
	ApplyDecided(ctx context.Context, outcome terraform.ApplyOutcome)
	// RunCompleted receives the final report on both paths.
	RunCompleted(ctx context.Context, report *RunReport)
}

// Engine drives the ordered sub-steps of the Terraform workflow and owns
// the apply decision.
type Engine struct {
	fs           ports.FileSystem
	logger       ports.Logger
	toolchain    Toolchain
	creds        Credentials
	newTerraform TerraformFactory
	reporter     Reporter
}

// NewEngine creates a workflow Engine.
func NewEngine(
	fs ports.FileSystem,
	logger ports.Logger,
	toolchain Toolchain,
	creds Credentials,
	factory TerraformFactory,
	reporter Reporter,
) *Engine {
	return &Engine{
		fs:           fs,
		logger:       logger,
		toolchain:    toolchain,
		creds:        creds,
		newTerraform: factory,
		reporter:     reporter,
	}
}

// Run executes the full pipeline: resolve → provision → authenticate →
// init → fmt → validate → plan → (conditionally apply) → report.
// Credential cleanup runs on every exit path, before the final report, and
// a cleanup problem never masks the error that triggered the unwind.
func (e *Engine) Run(ctx context.Context, cfg *config.Config, secrets *config.Secrets) *RunReport {
	report := newRunReport(cfg)
	logger := e.logger.With(ports.F("run_id", report.RunID))
	// Collaborators down the run pick the run-scoped logger off the
	// context so their entries carry the same run id.
	ctx = ports.ContextWithLogger(ctx, logger)

	var session *credentials.Session
	// Idempotent; covers panic unwinds. The normal path releases the
	// session explicitly below so cleanup precedes reporting.
	defer func() { e.creds.Cleanup(ctx, session) }()

	err := e.execute(ctx, logger, cfg, secrets, report, &session)

	e.creds.Cleanup(ctx, session)

	if err != nil {
		logger.Error(ctx, "pipeline failed", ports.F("error", err))
		report.fail(err)
	} else {
		logger.Info(ctx, "pipeline completed",
			ports.F("changes", report.HasChanges()),
			ports.F("apply", report.Apply.Status.String()))
		report.succeed()
	}

	e.reporter.RunCompleted(ctx, report)
	return report
}

// execute runs the step sequence, recording intermediate results on the
// report. It returns the first fatal error; the caller owns cleanup and
// final reporting.
func (e *Engine) execute(
	ctx context.Context,
	logger ports.Logger,
	cfg *config.Config,
	secrets *config.Secrets,
	report *RunReport,
	session **credentials.Session,
) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	resolved, err := cfg.Resolve(e.fs)
	if err != nil {
		return err
	}
	report.WorkingDir = resolved.RelativeWorkingDir()
	logger.Info(ctx, "working directory resolved", ports.F("dir", resolved.WorkingDir))
	e.reporter.WorkingDirResolved(ctx, report.WorkingDir)

	machine, err := newRunMachine(report.RunID)
	if err != nil {
		return err
	}
	defer machine.stop()

	if err := e.toolchain.EnsureAll(ctx, resolved); err != nil {
		machine.abort()
		return err
	}

	s, err := e.creds.Configure(ctx, resolved.Cloud, secrets)
	*session = s
	if err != nil {
		machine.abort()
		return err
	}

	tf := e.newTerraform(resolved.WorkingDir, s.Environ())

	if err := tf.Init(ctx, resolved.BackendConfig); err != nil {
		machine.abort()
		return err
	}
	if err := machine.advance(EventInitialized); err != nil {
		return err
	}

	if err := tf.Fmt(ctx); err != nil {
		machine.abort()
		return err
	}
	if err := machine.advance(EventFormatted); err != nil {
		return err
	}

	if err := tf.Validate(ctx); err != nil {
		machine.abort()
		return err
	}
	if err := machine.advance(EventValidated); err != nil {
		return err
	}

	report.Plan = tf.Plan(ctx, resolved.Vars)
	if err := machine.advance(EventPlanned); err != nil {
		return err
	}
	e.reporter.PlanCompleted(ctx, report.Plan, resolved.EnableArtifactUpload)

	if report.Plan.Failed() {
		// Terminal for the mutating path: short-circuit to cleanup and
		// report without considering apply.
		machine.abort()
		return report.Plan.Err
	}

	if report.Plan.HasChanges() {
		e.reporter.PlanChanges(ctx, report.Plan.Text)
	}

	report.Apply = e.ApplyIfWarranted(ctx, tf, report.Plan, resolved.Operation)
	if err := machine.advance(EventApplied); err != nil {
		return err
	}
	e.reporter.ApplyDecided(ctx, report.Apply)

	if report.Apply.Status == terraform.ApplyFailed {
		machine.abort()
		return report.Apply.Err
	}

	return machine.advance(EventReported)
}

// ApplyIfWarranted applies the plan artifact only when the operation mode
// requests it AND the plan detected changes. Every other combination is a
// skip with a reason; it is never an error to not apply.
func (e *Engine) ApplyIfWarranted(
	ctx context.Context,
	tf Terraform,
	plan terraform.PlanResult,
	mode config.OperationMode,
) terraform.ApplyOutcome {
	if !mode.AllowsApply() {
		return terraform.Skipped("operation mode does not request apply")
	}
	if plan.Failed() {
		return terraform.Skipped("plan did not succeed")
	}
	if !plan.HasChanges() {
		return terraform.Skipped("no changes detected")
	}

	if err := tf.Apply(ctx); err != nil {
		return terraform.ApplyOutcome{Status: terraform.ApplyFailed, Err: err}
	}
	return terraform.ApplyOutcome{Status: terraform.ApplySuccess}
}
