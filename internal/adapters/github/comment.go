package github

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// maxCommentLength is GitHub's comment size ceiling, minus headroom for the
// markup around the plan text.
const maxCommentLength = 65000

// FormatPlanComment renders the plan output as a PR comment: a one-line
// change summary, the full plan in a collapsible block, and a footer naming
// the working directory.
func FormatPlanComment(planOutput, workingDir string) string {
	if len(planOutput) > maxCommentLength {
		// Back up to a rune boundary so the cut never leaves an invalid
		// byte sequence; plan output is full of box-drawing characters.
		cut := maxCommentLength
		for cut > 0 && !utf8.RuneStart(planOutput[cut]) {
			cut--
		}
		planOutput = planOutput[:cut] + "\n\n... (output truncated)"
	}

	var b strings.Builder
	b.WriteString("## 🏗️ Terraform Plan Summary\n\n")
	b.WriteString(extractChangeSummary(planOutput))
	b.WriteString("\n\n<details>\n<summary>📋 View Full Plan</summary>\n\n")
	b.WriteString("```terraform\n")
	b.WriteString(planOutput)
	b.WriteString("\n```\n\n</details>\n\n---\n")
	b.WriteString("*Powered by CloudOps Terraform Action*\n")
	fmt.Fprintf(&b, "*Working Directory: `%s`*\n", workingDir)
	return b.String()
}

// extractChangeSummary pulls terraform's own "Plan: N to add..." line out
// of the plan text, falling back to a generic line.
func extractChangeSummary(planOutput string) string {
	for _, line := range strings.Split(planOutput, "\n") {
		switch {
		case strings.Contains(line, "Plan:"):
			return "**" + strings.TrimSpace(line) + "**"
		case strings.Contains(line, "No changes") && strings.Contains(strings.ToLower(line), "infrastructure"):
			return "**No changes detected** - Your infrastructure matches the configuration."
		}
	}
	return "**Changes detected** - Review the full plan below."
}

// FormatSuccessSummary renders the step summary for a successful run.
func FormatSuccessSummary(workingDir, cloud, operation string, hasChanges bool) string {
	var b strings.Builder
	b.WriteString("## ✅ CloudOps Pipeline Success\n\n")
	fmt.Fprintf(&b, "- **Working Directory**: `%s`\n", workingDir)
	fmt.Fprintf(&b, "- **Cloud Provider**: `%s`\n", cloud)
	fmt.Fprintf(&b, "- **Operation**: `%s`\n", operation)
	fmt.Fprintf(&b, "- **Changes Detected**: `%t`\n", hasChanges)
	return b.String()
}

// FormatFailureSummary renders the step summary for a failed run.
func FormatFailureSummary(errMsg string) string {
	var b strings.Builder
	b.WriteString("## ❌ CloudOps Pipeline Failed\n\n")
	fmt.Fprintf(&b, "**Error**: %s\n\n", errMsg)
	b.WriteString("See logs for details.\n")
	return b.String()
}
