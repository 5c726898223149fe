package provision

import (
	"context"
	"path/filepath"

	"github.com/Git-Cosmo/CloudOps/internal/domain/config"
	"github.com/Git-Cosmo/CloudOps/internal/ports"
)

// EnsureAzureCLI installs the az CLI via apt when absent. CI runners are
// Debian-based, matching the action's runs-on contract.
func (p *Provisioner) EnsureAzureCLI(ctx context.Context) error {
	if p.probe(ctx, "az", "version") {
		p.logger.Info(ctx, "azure cli already installed")
		return nil
	}

	p.logger.Info(ctx, "installing azure cli")

	steps := [][]string{
		{"sudo", "apt-get", "update"},
		{"sudo", "apt-get", "install", "-y", "azure-cli"},
	}
	for _, step := range steps {
		if err := p.aptStep(ctx, step); err != nil {
			return config.NewUserError(config.ErrCodeInstallFailed, "failed to install azure cli").
				WithUnderlying(err)
		}
	}

	if !p.probe(ctx, "az", "version") {
		return config.NewUserError(config.ErrCodeInstallFailed, "azure cli installation could not be verified")
	}

	p.logger.Info(ctx, "azure cli installed")
	return nil
}

// EnsureAWSCLI installs the aws CLI v2 from the official installer archive
// when absent.
func (p *Provisioner) EnsureAWSCLI(ctx context.Context) error {
	if p.probe(ctx, "aws", "--version") {
		p.logger.Info(ctx, "aws cli already installed")
		return nil
	}

	p.logger.Info(ctx, "installing aws cli")

	archive, err := p.download(ctx, "https://awscli.amazonaws.com/awscli-exe-linux-x86_64.zip")
	if err != nil {
		return config.NewUserError(config.ErrCodeInstallFailed, "failed to download aws cli").
			WithUnderlying(err)
	}

	stage := filepath.Join(p.fs.TempDir(), "cloudops-awscli")
	if err := p.fs.MkdirAll(stage, 0o755); err != nil {
		return err
	}
	if err := p.unzip(archive, stage); err != nil {
		return config.NewUserError(config.ErrCodeInstallFailed, "failed to unpack aws cli").
			WithUnderlying(err)
	}

	if _, err := p.runner.Run(ctx, ports.CommandSpec{
		Command:     "sudo",
		Args:        []string{filepath.Join(stage, "aws", "install")},
		Capture:     true,
		MustSucceed: true,
	}); err != nil {
		return config.NewUserError(config.ErrCodeInstallFailed, "aws cli installer failed").
			WithUnderlying(err)
	}

	if !p.probe(ctx, "aws", "--version") {
		return config.NewUserError(config.ErrCodeInstallFailed, "aws cli installation could not be verified")
	}

	p.logger.Info(ctx, "aws cli installed")
	return nil
}

// EnsureGitHubCLI installs gh via apt when absent.
func (p *Provisioner) EnsureGitHubCLI(ctx context.Context) error {
	if p.probe(ctx, "gh", "--version") {
		p.logger.Info(ctx, "github cli already installed")
		return nil
	}

	p.logger.Info(ctx, "installing github cli")

	steps := [][]string{
		{"sudo", "apt-get", "update"},
		{"sudo", "apt-get", "install", "-y", "gh"},
	}
	for _, step := range steps {
		if err := p.aptStep(ctx, step); err != nil {
			return config.NewUserError(config.ErrCodeInstallFailed, "failed to install github cli").
				WithUnderlying(err)
		}
	}

	if !p.probe(ctx, "gh", "--version") {
		return config.NewUserError(config.ErrCodeInstallFailed, "github cli installation could not be verified")
	}

	p.logger.Info(ctx, "github cli installed")
	return nil
}

// probe reports whether a tool answers its version command.
func (p *Provisioner) probe(ctx context.Context, command string, args ...string) bool {
	result, err := p.runner.Run(ctx, ports.CommandSpec{
		Command: command,
		Args:    args,
		Capture: true,
	})
	return err == nil && result.Success()
}

func (p *Provisioner) aptStep(ctx context.Context, argv []string) error {
	_, err := p.runner.Run(ctx, ports.CommandSpec{
		Command:     argv[0],
		Args:        argv[1:],
		Capture:     true,
		MustSucceed: true,
	})
	return err
}
