// Package actions writes to the GitHub Actions output sinks: the
// structured key=value output file, the Markdown step summary, and the
// PATH extension file. Each sink is an append-only file named by an
// ambient variable; an absent variable makes the write a silent no-op so
// local runs work without the CI plumbing.
package actions

import (
	"context"

	"github.com/Git-Cosmo/CloudOps/internal/ports"
)

// Sink appends to the GitHub Actions output files.
type Sink struct {
	fs     ports.FileSystem
	lookup func(string) string
	logger ports.Logger
}

// NewSink creates a Sink resolving file paths through the given lookup
// (usually os.Getenv).
func NewSink(fs ports.FileSystem, lookup func(string) string, logger ports.Logger) *Sink {
	return &Sink{fs: fs, lookup: lookup, logger: logger}
}

// SetOutput appends a name=value line to the GITHUB_OUTPUT file.
func (s *Sink) SetOutput(ctx context.Context, name, value string) {
	path := s.lookup("GITHUB_OUTPUT")
	if path == "" {
		s.logger.Debug(ctx, "GITHUB_OUTPUT not set, dropping output", ports.F("name", name))
		return
	}
	if err := s.fs.AppendFile(path, []byte(name+"="+value+"\n")); err != nil {
		s.logger.Warn(ctx, "failed to write output", ports.F("name", name), ports.F("error", err))
		return
	}
	s.logger.Debug(ctx, "output set", ports.F("name", name), ports.F("value", value))
}

// AddStepSummary appends Markdown to the GITHUB_STEP_SUMMARY file.
func (s *Sink) AddStepSummary(ctx context.Context, markdown string) {
	path := s.lookup("GITHUB_STEP_SUMMARY")
	if path == "" {
		return
	}
	if err := s.fs.AppendFile(path, []byte(markdown+"\n")); err != nil {
		s.logger.Warn(ctx, "failed to write step summary", ports.F("error", err))
	}
}

// AddPath appends a directory to the GITHUB_PATH file so later workflow
// steps see it on their PATH.
func (s *Sink) AddPath(ctx context.Context, dir string) {
	path := s.lookup("GITHUB_PATH")
	if path == "" {
		return
	}
	if err := s.fs.AppendFile(path, []byte(dir+"\n")); err != nil {
		s.logger.Warn(ctx, "failed to extend PATH", ports.F("dir", dir), ports.F("error", err))
	}
}
