// Package app wires the adapters into the pipeline and exposes the
// operations the CLI invokes.
package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/Git-Cosmo/CloudOps/internal/adapters/actions"
	"github.com/Git-Cosmo/CloudOps/internal/adapters/command"
	"github.com/Git-Cosmo/CloudOps/internal/adapters/filesystem"
	ghadapter "github.com/Git-Cosmo/CloudOps/internal/adapters/github"
	"github.com/Git-Cosmo/CloudOps/internal/adapters/report"
	"github.com/Git-Cosmo/CloudOps/internal/domain/config"
	"github.com/Git-Cosmo/CloudOps/internal/domain/credentials"
	"github.com/Git-Cosmo/CloudOps/internal/domain/provision"
	"github.com/Git-Cosmo/CloudOps/internal/domain/terraform"
	"github.com/Git-Cosmo/CloudOps/internal/domain/workflow"
	"github.com/Git-Cosmo/CloudOps/internal/ports"
)

// CloudOps is the main application orchestrator.
type CloudOps struct {
	runner ports.CommandRunner
	fs     ports.FileSystem
	logger ports.Logger
	sink   *actions.Sink
	out    io.Writer
}

// New creates a CloudOps application backed by the real adapters.
func New(out io.Writer, logger ports.Logger) *CloudOps {
	fs := filesystem.NewRealFileSystem()
	return &CloudOps{
		runner: command.NewRealRunner(),
		fs:     fs,
		logger: logger,
		sink:   actions.NewSink(fs, os.Getenv, logger),
		out:    out,
	}
}

// WithRunner overrides the command runner, for tests.
func (a *CloudOps) WithRunner(runner ports.CommandRunner) *CloudOps {
	clone := *a
	clone.runner = runner
	return &clone
}

// WithFileSystem overrides the file system, for tests.
func (a *CloudOps) WithFileSystem(fs ports.FileSystem) *CloudOps {
	clone := *a
	clone.fs = fs
	clone.sink = actions.NewSink(fs, os.Getenv, clone.logger)
	return &clone
}

// LoadConfig resolves configuration from the environment, layering an
// optional YAML file underneath for local runs.
func (a *CloudOps) LoadConfig(configPath string) (*config.Config, *config.Secrets, error) {
	cfg, secrets := config.FromEnvironment(os.Getenv)

	if configPath != "" {
		merged, err := config.NewLoader().Load(configPath, cfg)
		if err != nil {
			return nil, nil, err
		}
		cfg = merged
	}

	if cfg.Workspace == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, nil, err
		}
		cfg.Workspace = wd
	}

	return cfg, secrets, nil
}

// Run executes the full pipeline and returns the final report.
func (a *CloudOps) Run(ctx context.Context, cfg *config.Config, secrets *config.Secrets) *workflow.RunReport {
	provisioner := provision.NewProvisioner(a.runner, a.fs, a.logger, a.sink)
	creds := credentials.NewManager(a.runner, a.fs, a.logger)
	ghClient := ghadapter.NewClient(a.runner, a.fs, a.logger)
	reporter := report.NewReporter(a.sink, ghClient, cfg, secrets)

	factory := func(dir string, env []string) workflow.Terraform {
		return terraform.NewService(a.runner, a.fs, a.logger, dir).WithEnv(env)
	}

	engine := workflow.NewEngine(a.fs, a.logger, provisioner, creds, factory, reporter)
	return engine.Run(ctx, cfg, secrets)
}

func (a *CloudOps) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(a.out, format, args...)
}
