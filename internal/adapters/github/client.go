// Package github posts run results back to the pull request using the gh
// CLI.
package github

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"time"

	"github.com/Git-Cosmo/CloudOps/internal/ports"
)

var prRefPattern = regexp.MustCompile(`refs/pull/(\d+)/merge`)

// PRNumberFromRef extracts the pull request number from a merge ref like
// refs/pull/42/merge. Returns an empty string when the ref is not a PR
// merge ref.
func PRNumberFromRef(ref string) string {
	m := prRefPattern.FindStringSubmatch(ref)
	if m == nil {
		return ""
	}
	return m[1]
}

// Client posts PR comments through the gh CLI.
type Client struct {
	runner ports.CommandRunner
	fs     ports.FileSystem
	logger ports.Logger
}

// NewClient creates a new GitHub client.
func NewClient(runner ports.CommandRunner, fs ports.FileSystem, logger ports.Logger) *Client {
	return &Client{runner: runner, fs: fs, logger: logger}
}

// log prefers the run-scoped logger carried on the context, falling back
// to the logger the client was constructed with.
func (c *Client) log(ctx context.Context) ports.Logger {
	if logger := ports.LoggerFromContext(ctx); logger != nil {
		return logger
	}
	return c.logger
}

// CommentContext carries everything needed to decide whether and where to
// comment.
type CommentContext struct {
	Enabled    bool
	EventName  string
	Ref        string
	Repository string
	Token      string
	Workspace  string
}

// PostPlanComment posts the plan Markdown to the triggering pull request.
// Every missing prerequisite is a logged skip, never an error: PR comments
// are reporting, not pipeline correctness.
func (c *Client) PostPlanComment(ctx context.Context, cc CommentContext, body string) {
	logger := c.log(ctx)

	switch {
	case !cc.Enabled:
		logger.Info(ctx, "pr comments disabled, skipping")
		return
	case cc.EventName != "pull_request":
		logger.Info(ctx, "not a pull request event, skipping pr comment")
		return
	case cc.Token == "":
		logger.Warn(ctx, "GITHUB_TOKEN not available, skipping pr comment")
		return
	}

	prNumber := PRNumberFromRef(cc.Ref)
	if prNumber == "" {
		logger.Warn(ctx, "could not determine pr number, skipping comment", ports.F("ref", cc.Ref))
		return
	}

	logger.Info(ctx, "posting plan summary to pr", ports.F("pr", prNumber))

	// gh reads the body from a file so the plan text survives shell quoting.
	bodyFile := filepath.Join(c.fs.TempDir(), fmt.Sprintf("cloudops-comment-%d.md", time.Now().UnixNano()))
	if err := c.fs.WriteFile(bodyFile, []byte(body), 0o600); err != nil {
		logger.Warn(ctx, "failed to write comment body", ports.F("error", err))
		return
	}
	defer func() {
		if err := c.fs.Remove(bodyFile); err != nil {
			logger.Debug(ctx, "failed to remove comment body file", ports.F("error", err))
		}
	}()

	_, err := c.runner.Run(ctx, ports.CommandSpec{
		Command: "gh",
		Args: []string{
			"pr", "comment", prNumber,
			"--body-file", bodyFile,
			"--repo", cc.Repository,
		},
		Dir:         cc.Workspace,
		Env:         []string{"GH_TOKEN=" + cc.Token},
		Capture:     true,
		MustSucceed: true,
	})
	if err != nil {
		logger.Warn(ctx, "failed to post pr comment", ports.F("error", err))
		return
	}

	logger.Info(ctx, "pr comment posted")
}
