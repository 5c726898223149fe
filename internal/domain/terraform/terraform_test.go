package terraform

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Git-Cosmo/CloudOps/internal/adapters/logging"
	"github.com/Git-Cosmo/CloudOps/internal/domain/config"
	"github.com/Git-Cosmo/CloudOps/internal/ports"
	"github.com/Git-Cosmo/CloudOps/internal/testutil/mocks"
)

func newTestService(runner *mocks.CommandRunner, fs *mocks.FileSystem) *Service {
	return NewService(runner, fs, logging.NewNopLogger(), "/workspace/infra")
}

func TestService_Init_RendersBackendConfigInOrder(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.Default = true
	svc := newTestService(runner, mocks.NewFileSystem())

	err := svc.Init(context.Background(), []string{
		"storage_account_name=tfstate",
		"key=prod.tfstate",
	})
	require.NoError(t, err)

	calls := runner.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "terraform", calls[0].Command)
	assert.Equal(t, []string{
		"init",
		"-backend-config=storage_account_name=tfstate",
		"-backend-config=key=prod.tfstate",
	}, calls[0].Args)
	assert.Equal(t, "/workspace/infra", calls[0].Dir)
}

func TestService_Init_FailureIsFatal(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddResult("terraform", []string{"init"}, ports.CommandResult{
		ExitCode: 1,
		Stderr:   "backend initialization failed",
	})
	svc := newTestService(runner, mocks.NewFileSystem())

	err := svc.Init(context.Background(), nil)
	require.Error(t, err)

	var execErr *ports.ExecError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, 1, execErr.ExitCode)
}

func TestService_Fmt_CleanCheckStops(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddResult("terraform", []string{"fmt", "-check", "-recursive"}, ports.CommandResult{ExitCode: 0})
	svc := newTestService(runner, mocks.NewFileSystem())

	require.NoError(t, svc.Fmt(context.Background()))
	require.Len(t, runner.Calls(), 1)
}

func TestService_Fmt_DriftTriggersMutatingPass(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddResult("terraform", []string{"fmt", "-check", "-recursive"}, ports.CommandResult{ExitCode: 3})
	runner.AddResult("terraform", []string{"fmt", "-recursive"}, ports.CommandResult{ExitCode: 0})
	svc := newTestService(runner, mocks.NewFileSystem())

	require.NoError(t, svc.Fmt(context.Background()))

	calls := runner.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, []string{"fmt", "-check", "-recursive"}, calls[0].Args)
	assert.Equal(t, []string{"fmt", "-recursive"}, calls[1].Args)
}

func TestService_Fmt_MutatingPassFailureIsFatal(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddResult("terraform", []string{"fmt", "-check", "-recursive"}, ports.CommandResult{ExitCode: 3})
	runner.AddResult("terraform", []string{"fmt", "-recursive"}, ports.CommandResult{ExitCode: 1})
	svc := newTestService(runner, mocks.NewFileSystem())

	err := svc.Fmt(context.Background())
	require.Error(t, err)

	var execErr *ports.ExecError
	assert.ErrorAs(t, err, &execErr)
}

func TestService_Plan_Classification(t *testing.T) {
	t.Parallel()

	planArgs := []string{"plan", "-out=/workspace/infra/tfplan", "-detailed-exitcode"}

	tests := []struct {
		name        string
		exitCode    int
		wantOutcome PlanOutcome
		wantErr     bool
	}{
		{"exit 0 is no changes", 0, PlanNoChanges, false},
		{"exit 2 is changes detected", 2, PlanChanges, false},
		{"exit 1 is a failure", 1, PlanFailed, true},
		{"exit 127 is a failure", 127, PlanFailed, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			runner := mocks.NewCommandRunner()
			runner.AddResult("terraform", planArgs, ports.CommandResult{
				ExitCode: tt.exitCode,
				Stdout:   "plan output",
				Stderr:   "plan error",
			})
			svc := newTestService(runner, mocks.NewFileSystem())

			result := svc.Plan(context.Background(), nil)

			assert.Equal(t, tt.wantOutcome, result.Outcome)
			assert.Equal(t, "plan output", result.Text)
			if tt.wantErr {
				require.Error(t, result.Err)
				var execErr *ports.ExecError
				require.ErrorAs(t, result.Err, &execErr)
				assert.Equal(t, tt.exitCode, execErr.ExitCode)
				assert.Equal(t, "plan error", execErr.Stderr)
				assert.Empty(t, svc.PlanFile())
			} else {
				assert.NoError(t, result.Err)
				assert.Equal(t, "/workspace/infra/tfplan", result.ArtifactPath)
				assert.Equal(t, "/workspace/infra/tfplan", svc.PlanFile())
			}
		})
	}
}

func TestService_Plan_VarsBecomeFlags(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.Default = true
	svc := newTestService(runner, mocks.NewFileSystem())

	svc.Plan(context.Background(), []string{"environment=prod", "not an assignment", "count=3"})

	calls := runner.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, []string{
		"plan", "-out=/workspace/infra/tfplan", "-detailed-exitcode",
		"-var", "environment=prod",
		"-var", "count=3",
	}, calls[0].Args)
}

func TestService_Plan_RunnerErrorIsFailure(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddError("terraform",
		[]string{"plan", "-out=/workspace/infra/tfplan", "-detailed-exitcode"},
		errors.New("terraform binary not found"))
	svc := newTestService(runner, mocks.NewFileSystem())

	result := svc.Plan(context.Background(), nil)
	assert.True(t, result.Failed())
	assert.Error(t, result.Err)
}

func TestService_Apply_RequiresPlanArtifact(t *testing.T) {
	t.Parallel()

	t.Run("without a prior plan", func(t *testing.T) {
		t.Parallel()

		svc := newTestService(mocks.NewCommandRunner(), mocks.NewFileSystem())

		err := svc.Apply(context.Background())
		require.Error(t, err)

		var userErr *config.UserError
		require.ErrorAs(t, err, &userErr)
		assert.Equal(t, config.ErrCodePrecondition, userErr.Code)
	})

	t.Run("plan artifact missing on disk", func(t *testing.T) {
		t.Parallel()

		runner := mocks.NewCommandRunner()
		runner.AddResult("terraform",
			[]string{"plan", "-out=/workspace/infra/tfplan", "-detailed-exitcode"},
			ports.CommandResult{ExitCode: 2})
		svc := newTestService(runner, mocks.NewFileSystem())
		svc.Plan(context.Background(), nil)

		err := svc.Apply(context.Background())
		require.Error(t, err)

		var userErr *config.UserError
		require.ErrorAs(t, err, &userErr)
		assert.Equal(t, config.ErrCodePrecondition, userErr.Code)
	})
}

func TestService_Apply_ConsumesPlanArtifact(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddResult("terraform",
		[]string{"plan", "-out=/workspace/infra/tfplan", "-detailed-exitcode"},
		ports.CommandResult{ExitCode: 2})
	runner.AddResult("terraform",
		[]string{"apply", "-auto-approve", "/workspace/infra/tfplan"},
		ports.CommandResult{ExitCode: 0})

	fs := mocks.NewFileSystem()
	fs.AddFile("/workspace/infra/tfplan", "binary plan")

	svc := newTestService(runner, fs)
	svc.Plan(context.Background(), nil)

	require.NoError(t, svc.Apply(context.Background()))

	calls := runner.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, []string{"apply", "-auto-approve", "/workspace/infra/tfplan"}, calls[1].Args)
}

func TestService_WithEnv_PropagatesOverlay(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.Default = true
	svc := newTestService(runner, mocks.NewFileSystem()).
		WithEnv([]string{"ARM_CLIENT_ID=abc"})

	require.NoError(t, svc.Validate(context.Background()))

	calls := runner.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"ARM_CLIENT_ID=abc"}, calls[0].Env)
}
