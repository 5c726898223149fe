// Package terraform drives the terraform CLI sub-commands for one run.
package terraform

import (
	"context"
	"path/filepath"

	"github.com/Git-Cosmo/CloudOps/internal/domain/config"
	"github.com/Git-Cosmo/CloudOps/internal/ports"
)

const planFileName = "tfplan"

// Service runs terraform sub-commands against a single working directory.
// Steps share on-disk state (the init'd backend, the plan artifact), so a
// Service is strictly single-run and issues steps in order.
type Service struct {
	runner ports.CommandRunner
	fs     ports.FileSystem
	logger ports.Logger
	dir    string
	env    []string

	// planFile is set by Plan and consumed by Apply; it is the guard that
	// apply never runs against an artifact this run did not produce.
	planFile string
}

// NewService creates a Service for the given working directory.
func NewService(runner ports.CommandRunner, fs ports.FileSystem, logger ports.Logger, dir string) *Service {
	return &Service{
		runner: runner,
		fs:     fs,
		logger: logger,
		dir:    dir,
	}
}

// WithEnv returns a Service whose commands run with the given environment
// overlay (credential projection).
func (s *Service) WithEnv(env []string) *Service {
	clone := *s
	clone.env = env
	return &clone
}

// Init runs terraform init, rendering each backend parameter as a discrete
// flag in supplied order. A non-zero exit is fatal.
func (s *Service) Init(ctx context.Context, backendConfig []string) error {
	args := []string{"init"}
	for _, kv := range backendConfig {
		args = append(args, "-backend-config="+kv)
	}

	s.logger.Info(ctx, "running terraform init", ports.F("dir", s.dir))
	_, err := s.runner.Run(ctx, s.spec(args, false, true))
	if err != nil {
		return err
	}
	s.logger.Info(ctx, "terraform initialized")
	return nil
}

// Fmt runs a check-mode formatting pass and self-heals on drift: a non-zero
// check exit triggers a mutating pass. Only the mutating pass can fail the
// run.
func (s *Service) Fmt(ctx context.Context) error {
	s.logger.Info(ctx, "running terraform fmt check")
	result, err := s.runner.Run(ctx, s.spec([]string{"fmt", "-check", "-recursive"}, false, false))
	if err != nil {
		return err
	}

	if result.Success() {
		s.logger.Info(ctx, "terraform formatting check passed")
		return nil
	}

	s.logger.Warn(ctx, "formatting drift detected, fixing in place")
	if _, err := s.runner.Run(ctx, s.spec([]string{"fmt", "-recursive"}, false, true)); err != nil {
		return err
	}
	s.logger.Info(ctx, "terraform formatted")
	return nil
}

// Validate runs terraform validate. A non-zero exit is fatal.
func (s *Service) Validate(ctx context.Context) error {
	s.logger.Info(ctx, "running terraform validate")
	if _, err := s.runner.Run(ctx, s.spec([]string{"validate"}, false, true)); err != nil {
		return err
	}
	s.logger.Info(ctx, "terraform validation passed")
	return nil
}

// Plan runs terraform plan with a detailed exit code and an output
// artifact, classifying 0/2/other into the three result variants. This is
// the one sub-command deliberately run without the non-zero-is-failure
// policy: exit 2 is a first-class result, not an error.
func (s *Service) Plan(ctx context.Context, vars []string) PlanResult {
	artifact := filepath.Join(s.dir, planFileName)

	args := []string{"plan", "-out=" + artifact, "-detailed-exitcode"}
	for _, kv := range config.Assignments(vars) {
		args = append(args, "-var", kv)
	}

	s.logger.Info(ctx, "running terraform plan", ports.F("artifact", artifact))
	spec := s.spec(args, true, false)
	result, err := s.runner.Run(ctx, spec)
	if err != nil {
		return PlanResult{Outcome: PlanFailed, Err: err}
	}

	planResult := classifyPlanExit(ports.CommandCall{
		Command: spec.Command,
		Args:    spec.Args,
		Dir:     spec.Dir,
	}, result, artifact)

	switch planResult.Outcome {
	case PlanNoChanges:
		s.logger.Info(ctx, "terraform plan completed", ports.F("outcome", "no-changes"))
		s.planFile = artifact
	case PlanChanges:
		s.logger.Info(ctx, "terraform plan completed", ports.F("outcome", "changes"))
		s.planFile = artifact
	default:
		s.logger.Error(ctx, "terraform plan failed", ports.F("exit_code", result.ExitCode))
	}

	return planResult
}

// Apply applies the plan artifact produced by this run. Calling it without
// a prior successful plan is a precondition violation, distinct from an
// external command failure.
func (s *Service) Apply(ctx context.Context) error {
	if s.planFile == "" || !s.fs.Exists(s.planFile) {
		return config.NewUserError(config.ErrCodePrecondition,
			"no plan artifact from this run; plan must succeed before apply").
			WithContext(s.dir)
	}

	s.logger.Info(ctx, "running terraform apply", ports.F("plan", s.planFile))
	if _, err := s.runner.Run(ctx, s.spec([]string{"apply", "-auto-approve", s.planFile}, false, true)); err != nil {
		return err
	}
	s.logger.Info(ctx, "terraform apply completed")
	return nil
}

// PlanFile returns the plan artifact path recorded by Plan, or empty.
func (s *Service) PlanFile() string {
	return s.planFile
}

func (s *Service) spec(args []string, capture, mustSucceed bool) ports.CommandSpec {
	return ports.CommandSpec{
		Command:     "terraform",
		Args:        args,
		Dir:         s.dir,
		Env:         s.env,
		Capture:     capture,
		MustSucceed: mustSucceed,
	}
}
