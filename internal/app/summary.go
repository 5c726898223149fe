package app

import (
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Git-Cosmo/CloudOps/internal/domain/terraform"
	"github.com/Git-Cosmo/CloudOps/internal/domain/workflow"
)

const durationPrecision = 10 * time.Millisecond

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	labelStyle = lipgloss.NewStyle().Faint(true)
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// PrintReport writes a styled run summary to the application's output.
func (a *CloudOps) PrintReport(report *workflow.RunReport) {
	a.printf("\n%s\n\n", titleStyle.Render("CloudOps Run Summary"))

	a.printf("  %s %s\n", labelStyle.Render("Run:"), report.RunID)
	a.printf("  %s %s\n", labelStyle.Render("Working dir:"), report.WorkingDir)
	a.printf("  %s %s\n", labelStyle.Render("Cloud:"), string(report.Cloud))
	a.printf("  %s %s\n", labelStyle.Render("Operation:"), string(report.Operation))
	a.printf("  %s %s\n", labelStyle.Render("Plan:"), planLine(report))
	a.printf("  %s %s\n", labelStyle.Render("Apply:"), applyLine(report))

	if report.Success {
		a.printf("\n%s\n", okStyle.Render("✓ pipeline completed successfully"))
	} else {
		msg := "pipeline failed"
		if report.Err != nil {
			msg = "pipeline failed: " + report.Err.Error()
		}
		a.printf("\n%s\n", failStyle.Render("✗ "+msg))
	}

	a.printf("  %s %s\n", labelStyle.Render("Duration:"), report.Duration.Round(durationPrecision).String())
}

func planLine(report *workflow.RunReport) string {
	switch report.Plan.Outcome {
	case terraform.PlanNoChanges:
		return okStyle.Render("no changes")
	case terraform.PlanChanges:
		return warnStyle.Render("changes detected")
	default:
		return failStyle.Render("failed")
	}
}

func applyLine(report *workflow.RunReport) string {
	switch report.Apply.Status {
	case terraform.ApplySuccess:
		return okStyle.Render("applied")
	case terraform.ApplyFailed:
		return failStyle.Render("failed")
	default:
		reason := report.Apply.Reason
		if reason == "" {
			reason = "skipped"
		}
		return labelStyle.Render("skipped (" + reason + ")")
	}
}
