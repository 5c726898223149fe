package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/Git-Cosmo/CloudOps/internal/adapters/logging"
	"github.com/Git-Cosmo/CloudOps/internal/app"
	"github.com/Git-Cosmo/CloudOps/internal/ports"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute the Terraform workflow",
	Long: `Run executes the full pipeline: ensure required tools are installed,
configure cloud credentials, run terraform init/fmt/validate/plan, and apply
the saved plan when the operation mode and the plan outcome warrant it.
Results are written to GITHUB_OUTPUT, the step summary, and the pull request
when running under GitHub Actions.`,
	RunE: runWorkflow,
}

func runWorkflow(cmd *cobra.Command, args []string) error {
	level := ports.LevelInfo
	if verbose {
		level = ports.LevelDebug
	}
	logger := logging.NewConsoleLogger(
		logging.WithOutput(cmd.ErrOrStderr()),
		logging.WithLevel(level),
		logging.WithJSONFormat(jsonLogs),
	)

	cloudops := app.New(cmd.OutOrStdout(), logger)

	cfg, secrets, err := cloudops.LoadConfig(cfgFile)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	report := cloudops.Run(cmd.Context(), cfg, secrets)
	cloudops.PrintReport(report)

	if !report.Success {
		if report.Err != nil {
			printError(report.Err)
		}
		os.Exit(1)
	}
	return nil
}
