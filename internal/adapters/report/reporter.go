// Package report turns workflow results into the external-facing
// artifacts: structured outputs, step summaries, and PR comments.
package report

import (
	"context"

	"github.com/Git-Cosmo/CloudOps/internal/adapters/actions"
	"github.com/Git-Cosmo/CloudOps/internal/adapters/github"
	"github.com/Git-Cosmo/CloudOps/internal/domain/config"
	"github.com/Git-Cosmo/CloudOps/internal/domain/terraform"
	"github.com/Git-Cosmo/CloudOps/internal/domain/workflow"
)

// Reporter implements workflow.Reporter against the GitHub Actions sinks
// and the gh CLI.
type Reporter struct {
	sink   *actions.Sink
	client *github.Client
	cfg    *config.Config
	token  string
	relDir string
}

// NewReporter creates a Reporter for one run.
func NewReporter(sink *actions.Sink, client *github.Client, cfg *config.Config, secrets *config.Secrets) *Reporter {
	return &Reporter{
		sink:   sink,
		client: client,
		cfg:    cfg,
		token:  secrets.GitHubToken,
	}
}

// WorkingDirResolved publishes the resolved working directory.
func (r *Reporter) WorkingDirResolved(ctx context.Context, relDir string) {
	r.relDir = relDir
	r.sink.SetOutput(ctx, "tf_working_dir", relDir)
}

// PlanCompleted publishes the classified plan outcome and the artifact
// path when publishing is enabled and the plan produced one.
func (r *Reporter) PlanCompleted(ctx context.Context, result terraform.PlanResult, publishArtifact bool) {
	r.sink.SetOutput(ctx, "plan_outcome", result.Outcome.String())

	if publishArtifact && result.ArtifactPath != "" {
		// The upload itself is the surrounding workflow's upload-artifact
		// step; the output names the file for it.
		r.sink.SetOutput(ctx, "plan_artifact_path", result.ArtifactPath)
	}
}

// PlanChanges posts the plan text to the triggering pull request.
func (r *Reporter) PlanChanges(ctx context.Context, planText string) {
	body := github.FormatPlanComment(planText, r.relDir)
	r.client.PostPlanComment(ctx, github.CommentContext{
		Enabled:    r.cfg.EnablePRComment,
		EventName:  r.cfg.GitHub.EventName,
		Ref:        r.cfg.GitHub.Ref,
		Repository: r.cfg.GitHub.Repository,
		Token:      r.token,
		Workspace:  r.cfg.Workspace,
	}, body)
}

// ApplyDecided publishes the apply outcome.
func (r *Reporter) ApplyDecided(ctx context.Context, outcome terraform.ApplyOutcome) {
	r.sink.SetOutput(ctx, "apply_outcome", outcome.Status.String())
}

// RunCompleted writes the human-readable step summary for both paths.
func (r *Reporter) RunCompleted(ctx context.Context, report *workflow.RunReport) {
	if report.Success {
		r.sink.AddStepSummary(ctx, github.FormatSuccessSummary(
			report.WorkingDir,
			string(report.Cloud),
			string(report.Operation),
			report.HasChanges(),
		))
		return
	}

	msg := "unknown error"
	if report.Err != nil {
		msg = report.Err.Error()
	}
	r.sink.AddStepSummary(ctx, github.FormatFailureSummary(msg))
}

// Ensure Reporter implements workflow.Reporter.
var _ workflow.Reporter = (*Reporter)(nil)
