// Package command provides command execution adapters.
package command

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/Git-Cosmo/CloudOps/internal/ports"
)

// RealRunner executes actual shell commands.
type RealRunner struct {
	stdout io.Writer
	stderr io.Writer
}

// NewRealRunner creates a new RealRunner streaming to the process's
// standard streams when capture is off.
func NewRealRunner() *RealRunner {
	return &RealRunner{
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

// WithStreams returns a RealRunner that streams non-captured output to the
// given writers instead of the process's standard streams.
func (r *RealRunner) WithStreams(stdout, stderr io.Writer) *RealRunner {
	return &RealRunner{stdout: stdout, stderr: stderr}
}

// Run executes a command and returns the result. A non-zero exit code is
// returned in the result, not as an error, unless spec.MustSucceed is set,
// in which case it becomes a *ports.ExecError. Other failures (binary not
// found, context cancelled) are returned as plain errors.
func (r *RealRunner) Run(ctx context.Context, spec ports.CommandSpec) (ports.CommandResult, error) {
	cmd := exec.CommandContext(ctx, spec.Command, spec.Args...)
	cmd.Dir = spec.Dir

	if len(spec.Env) > 0 {
		cmd.Env = append(os.Environ(), spec.Env...)
	}

	var stdout, stderr strings.Builder
	if spec.Capture {
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	} else {
		// Stream to the parent while still recording stderr for error
		// messages.
		cmd.Stdout = r.stdout
		cmd.Stderr = io.MultiWriter(r.stderr, &stderr)
	}

	err := cmd.Run()

	result := ports.CommandResult{
		ExitCode: 0,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return result, err
		}
		result.ExitCode = exitErr.ExitCode()
	}

	if spec.MustSucceed && result.ExitCode != 0 {
		return result, &ports.ExecError{
			Cmd: ports.CommandCall{
				Command: spec.Command,
				Args:    spec.Args,
				Dir:     spec.Dir,
			},
			ExitCode: result.ExitCode,
			Stdout:   result.Stdout,
			Stderr:   result.Stderr,
		}
	}

	return result, nil
}

// Ensure RealRunner implements ports.CommandRunner.
var _ ports.CommandRunner = (*RealRunner)(nil)
