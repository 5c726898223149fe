// Package provision ensures the CLI toolchain the pipeline shells out to
// is present: terraform, the selected cloud CLIs, and gh. Every Ensure
// method is idempotent and a no-op when the tool is already satisfied.
package provision

import (
	"context"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/Git-Cosmo/CloudOps/internal/domain/config"
	"github.com/Git-Cosmo/CloudOps/internal/ports"
)

// PathSink receives directories that must land on the PATH of later CI
// steps.
type PathSink interface {
	AddPath(ctx context.Context, dir string)
}

// Provisioner installs missing CLI tools.
type Provisioner struct {
	runner ports.CommandRunner
	fs     ports.FileSystem
	logger ports.Logger
	sink   PathSink
	client *http.Client

	// goos/goarch are overridable for tests.
	goos   string
	goarch string
}

// NewProvisioner creates a Provisioner.
func NewProvisioner(runner ports.CommandRunner, fs ports.FileSystem, logger ports.Logger, sink PathSink) *Provisioner {
	return &Provisioner{
		runner: runner,
		fs:     fs,
		logger: logger,
		sink:   sink,
		client: &http.Client{Timeout: 5 * time.Minute},
		goos:   runtimeGOOS,
		goarch: runtimeGOARCH,
	}
}

// WithHTTPClient returns a Provisioner using the given HTTP client.
func (p *Provisioner) WithHTTPClient(client *http.Client) *Provisioner {
	clone := *p
	clone.client = client
	return &clone
}

// EnsureAll provisions terraform, the cloud CLIs the cloud mode needs, and
// the gh CLI.
func (p *Provisioner) EnsureAll(ctx context.Context, cfg *config.Config) error {
	if err := p.EnsureTerraform(ctx, cfg.TerraformVersion); err != nil {
		return err
	}

	if cfg.Cloud.IncludesAzure() {
		if err := p.EnsureAzureCLI(ctx); err != nil {
			return err
		}
	}

	if cfg.Cloud.IncludesAWS() {
		if err := p.EnsureAWSCLI(ctx); err != nil {
			return err
		}
	}

	return p.EnsureGitHubCLI(ctx)
}

// installedVersion probes a tool and returns the version token from its
// version output, or empty when the tool is absent.
func (p *Provisioner) installedVersion(ctx context.Context, command string, args ...string) string {
	result, err := p.runner.Run(ctx, ports.CommandSpec{
		Command: command,
		Args:    args,
		Capture: true,
	})
	if err != nil || !result.Success() {
		return ""
	}

	fields := strings.Fields(strings.Split(result.Stdout, "\n")[0])
	if len(fields) < 2 {
		return ""
	}
	return strings.TrimPrefix(fields[1], "v")
}

func (p *Provisioner) installDir() (string, error) {
	home, err := p.fs.HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "bin"), nil
}
