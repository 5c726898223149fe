package config

import (
	"path/filepath"
	"strings"

	"github.com/Git-Cosmo/CloudOps/internal/ports"
)

// Resolve determines the Terraform working directory and returns a copy of
// the config with WorkingDir set to an absolute path. Resolution happens
// exactly once per run; the result is never re-derived.
//
// An explicit tf_working_dir wins. Otherwise tf_path is resolved against
// the workspace: a directory is used as-is, a file's parent directory is
// used instead.
func (c *Config) Resolve(fs ports.FileSystem) (*Config, error) {
	var dir string

	switch {
	case c.WorkingDir != "":
		dir = filepath.Join(c.Workspace, c.WorkingDir)
	default:
		full := filepath.Join(c.Workspace, c.TfPath)
		switch {
		case fs.IsDir(full):
			dir = full
		case fs.Exists(full):
			dir = filepath.Dir(full)
		default:
			return nil, NewWorkingDirError(full)
		}
	}

	if !fs.IsDir(dir) {
		return nil, NewWorkingDirError(dir)
	}

	resolved := *c
	resolved.WorkingDir = dir
	return &resolved, nil
}

// RelativeWorkingDir returns the working directory relative to the
// workspace for display, falling back to the absolute path when the
// directory lies outside the workspace.
func (c *Config) RelativeWorkingDir() string {
	rel, err := filepath.Rel(c.Workspace, c.WorkingDir)
	if err != nil || strings.HasPrefix(rel, "..") {
		return c.WorkingDir
	}
	return rel
}
