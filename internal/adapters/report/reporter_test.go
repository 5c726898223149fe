package report

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Git-Cosmo/CloudOps/internal/adapters/actions"
	"github.com/Git-Cosmo/CloudOps/internal/adapters/github"
	"github.com/Git-Cosmo/CloudOps/internal/adapters/logging"
	"github.com/Git-Cosmo/CloudOps/internal/domain/config"
	"github.com/Git-Cosmo/CloudOps/internal/domain/terraform"
	"github.com/Git-Cosmo/CloudOps/internal/domain/workflow"
	"github.com/Git-Cosmo/CloudOps/internal/testutil/mocks"
)

type reporterHarness struct {
	reporter *Reporter
	fs       *mocks.FileSystem
	runner   *mocks.CommandRunner
}

func newReporterHarness(cfg *config.Config, secrets *config.Secrets) *reporterHarness {
	fs := mocks.NewFileSystem()
	runner := mocks.NewCommandRunner()
	runner.Default = true
	logger := logging.NewNopLogger()

	env := map[string]string{
		"GITHUB_OUTPUT":       "/gh/output",
		"GITHUB_STEP_SUMMARY": "/gh/summary",
	}
	sink := actions.NewSink(fs, func(key string) string { return env[key] }, logger)
	client := github.NewClient(runner, fs, logger)

	return &reporterHarness{
		reporter: NewReporter(sink, client, cfg, secrets),
		fs:       fs,
		runner:   runner,
	}
}

func prConfig() *config.Config {
	return &config.Config{
		Workspace:       "/workspace",
		Cloud:           config.CloudAzure,
		Operation:       config.OpPlanApply,
		EnablePRComment: true,
		GitHub: config.GitHubContext{
			Repository: "acme/infra",
			EventName:  "pull_request",
			Ref:        "refs/pull/7/merge",
		},
	}
}

func TestReporter_WorkingDirResolved(t *testing.T) {
	t.Parallel()

	h := newReporterHarness(prConfig(), &config.Secrets{})
	h.reporter.WorkingDirResolved(context.Background(), "infra/prod")

	assert.Equal(t, "tf_working_dir=infra/prod\n", h.fs.FileContent("/gh/output"))
}

func TestReporter_PlanCompleted(t *testing.T) {
	t.Parallel()

	t.Run("publishes outcome and artifact path", func(t *testing.T) {
		t.Parallel()

		h := newReporterHarness(prConfig(), &config.Secrets{})
		h.reporter.PlanCompleted(context.Background(), terraform.PlanResult{
			Outcome:      terraform.PlanChanges,
			ArtifactPath: "/workspace/infra/tfplan",
		}, true)

		out := h.fs.FileContent("/gh/output")
		assert.Contains(t, out, "plan_outcome=changes\n")
		assert.Contains(t, out, "plan_artifact_path=/workspace/infra/tfplan\n")
	})

	t.Run("suppresses artifact path when publishing is off", func(t *testing.T) {
		t.Parallel()

		h := newReporterHarness(prConfig(), &config.Secrets{})
		h.reporter.PlanCompleted(context.Background(), terraform.PlanResult{
			Outcome:      terraform.PlanNoChanges,
			ArtifactPath: "/workspace/infra/tfplan",
		}, false)

		out := h.fs.FileContent("/gh/output")
		assert.Contains(t, out, "plan_outcome=no-changes\n")
		assert.NotContains(t, out, "plan_artifact_path")
	})

	t.Run("failed plan has no artifact path", func(t *testing.T) {
		t.Parallel()

		h := newReporterHarness(prConfig(), &config.Secrets{})
		h.reporter.PlanCompleted(context.Background(), terraform.PlanResult{
			Outcome: terraform.PlanFailed,
		}, true)

		out := h.fs.FileContent("/gh/output")
		assert.Contains(t, out, "plan_outcome=failure\n")
		assert.NotContains(t, out, "plan_artifact_path")
	})
}

func TestReporter_PlanChanges_PostsComment(t *testing.T) {
	t.Parallel()

	h := newReporterHarness(prConfig(), &config.Secrets{GitHubToken: "ghs_token"})
	h.reporter.WorkingDirResolved(context.Background(), "infra")
	h.reporter.PlanChanges(context.Background(), "Plan: 1 to add, 0 to change, 0 to destroy.")

	calls := h.runner.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "gh", calls[0].Command)
	assert.Equal(t, "7", calls[0].Args[2])
}

func TestReporter_PlanChanges_HonorsDisable(t *testing.T) {
	t.Parallel()

	cfg := prConfig()
	cfg.EnablePRComment = false
	h := newReporterHarness(cfg, &config.Secrets{GitHubToken: "ghs_token"})

	h.reporter.PlanChanges(context.Background(), "Plan: 1 to add.")
	assert.Empty(t, h.runner.Calls())
}

func TestReporter_ApplyDecided(t *testing.T) {
	t.Parallel()

	h := newReporterHarness(prConfig(), &config.Secrets{})
	h.reporter.ApplyDecided(context.Background(), terraform.Skipped("no changes detected"))

	assert.Equal(t, "apply_outcome=skipped\n", h.fs.FileContent("/gh/output"))
}

func TestReporter_RunCompleted(t *testing.T) {
	t.Parallel()

	t.Run("success summary", func(t *testing.T) {
		t.Parallel()

		h := newReporterHarness(prConfig(), &config.Secrets{})
		h.reporter.RunCompleted(context.Background(), &workflow.RunReport{
			Success:    true,
			Cloud:      config.CloudAzure,
			Operation:  config.OpPlanApply,
			WorkingDir: "infra",
			Plan:       terraform.PlanResult{Outcome: terraform.PlanChanges},
		})

		summary := h.fs.FileContent("/gh/summary")
		assert.Contains(t, summary, "✅")
		assert.Contains(t, summary, "`infra`")
		assert.Contains(t, summary, "`true`")
	})

	t.Run("failure summary", func(t *testing.T) {
		t.Parallel()

		h := newReporterHarness(prConfig(), &config.Secrets{})
		h.reporter.RunCompleted(context.Background(), &workflow.RunReport{
			Success: false,
			Err:     assert.AnError,
		})

		summary := h.fs.FileContent("/gh/summary")
		assert.Contains(t, summary, "❌")
		assert.Contains(t, summary, assert.AnError.Error())
	})
}
