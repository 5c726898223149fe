// Package ports defines interfaces for external dependencies.
package ports

import (
	"context"
	"fmt"
	"strings"
)

// CommandSpec describes a single external command invocation.
type CommandSpec struct {
	Command string
	Args    []string
	// Dir is the working directory for the command. Empty means the
	// process's current directory.
	Dir string
	// Env is an overlay of KEY=VALUE pairs appended to the inherited
	// environment. Credentials travel here instead of through process-wide
	// environment mutation.
	Env []string
	// Capture records stdout/stderr into the result instead of streaming
	// them to the parent's streams.
	Capture bool
	// MustSucceed turns a non-zero exit code into an *ExecError.
	MustSucceed bool
}

// CommandResult represents the result of executing a shell command.
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Success returns true if the command exited with code 0.
func (r CommandResult) Success() bool {
	return r.ExitCode == 0
}

// CommandCall records a command invocation.
type CommandCall struct {
	Command string
	Args    []string
	Dir     string
	Env     []string
}

// String renders the call the way it would appear on a shell line.
func (c CommandCall) String() string {
	return strings.Join(append([]string{c.Command}, c.Args...), " ")
}

// ExecError is the typed failure for a command that was required to succeed
// but exited non-zero. It carries the exit code and both captured streams so
// callers can surface stderr in their own messages.
type ExecError struct {
	Cmd      CommandCall
	ExitCode int
	Stdout   string
	Stderr   string
}

// Error returns the formatted error message.
func (e *ExecError) Error() string {
	msg := fmt.Sprintf("command %q exited with code %d", e.Cmd.String(), e.ExitCode)
	if detail := strings.TrimSpace(e.Stderr); detail != "" {
		msg += ": " + detail
	}
	return msg
}

// CommandRunner executes shell commands.
type CommandRunner interface {
	Run(ctx context.Context, spec CommandSpec) (CommandResult, error)
}
