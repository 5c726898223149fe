// Package config resolves and validates the pipeline configuration.
package config

import (
	"strings"
)

// CloudMode selects which provider credentials the pipeline configures.
type CloudMode string

const (
	// CloudAzure configures Azure only.
	CloudAzure CloudMode = "azure"
	// CloudAWS configures AWS only.
	CloudAWS CloudMode = "aws"
	// CloudMulti configures every provider that has credentials supplied.
	CloudMulti CloudMode = "multi"
)

// IncludesAzure reports whether the mode covers Azure.
func (m CloudMode) IncludesAzure() bool {
	return m == CloudAzure || m == CloudMulti
}

// IncludesAWS reports whether the mode covers AWS.
func (m CloudMode) IncludesAWS() bool {
	return m == CloudAWS || m == CloudMulti
}

// OperationMode selects how far the Terraform workflow runs.
type OperationMode string

const (
	// OpPlan stops after the plan step.
	OpPlan OperationMode = "plan"
	// OpApply re-plans and applies when the plan detects changes.
	OpApply OperationMode = "apply"
	// OpPlanApply plans and applies when changes are detected.
	OpPlanApply OperationMode = "plan-apply"
)

// AllowsApply reports whether the mode permits the mutating apply step.
func (m OperationMode) AllowsApply() bool {
	return m == OpApply || m == OpPlanApply
}

// Secrets holds the credential material supplied to the action. Kept apart
// from Config so it never ends up in logs or reports.
type Secrets struct {
	// AzureCredentials is the service-principal JSON blob.
	AzureCredentials string
	AWSAccessKeyID   string
	AWSSecretKey     string
	AWSRegion        string
	GitHubToken      string
}

// GitHubContext carries the CI platform context the reporter needs.
type GitHubContext struct {
	Repository string // owner/repo
	EventName  string
	Ref        string
}

// Config is the pipeline configuration, resolved once at process start and
// immutable thereafter. WorkingDir is derived exactly once by Resolve and
// never re-derived mid-run.
type Config struct {
	Workspace  string
	TfPath     string
	WorkingDir string // absolute, set by Resolve

	Cloud     CloudMode
	Operation OperationMode

	// BackendConfig and Vars are ordered K=V lines; order is preserved all
	// the way to the terraform command line because backend parameters may
	// be positionally significant.
	BackendConfig []string
	Vars          []string

	TerraformVersion string
	GHCLIVersion     string

	EnablePRComment      bool
	EnableArtifactUpload bool

	GitHub GitHubContext

	// Set by FromEnvironment when the CI environment supplied the value
	// rather than the default, so a config file cannot override an
	// explicit input that happens to match the default.
	cloudFromEnv     bool
	operationFromEnv bool
	versionFromEnv   bool
}

// LookupFunc looks up an environment variable by name.
type LookupFunc func(string) string

// FromEnvironment builds the configuration from the GitHub Actions input
// environment. It does not validate; call Validate afterwards.
func FromEnvironment(lookup LookupFunc) (*Config, *Secrets) {
	get := func(key, fallback string) string {
		v := strings.TrimSpace(lookup(key))
		if v == "" {
			return fallback
		}
		return v
	}

	cfg := &Config{
		Workspace:            get("GITHUB_WORKSPACE", ""),
		TfPath:               get("INPUT_TF_PATH", ""),
		WorkingDir:           get("INPUT_TF_WORKING_DIR", ""),
		Cloud:                CloudMode(strings.ToLower(get("INPUT_CLOUD_PROVIDER", "azure"))),
		Operation:            OperationMode(strings.ToLower(get("INPUT_TERRAFORM_OPERATION", "plan"))),
		BackendConfig:        SplitLines(get("INPUT_BACKEND_CONFIG", "")),
		Vars:                 SplitLines(get("INPUT_TF_VARS", "")),
		TerraformVersion:     get("INPUT_TF_VERSION", "latest"),
		GHCLIVersion:         get("INPUT_GH_CLI_VERSION", "latest"),
		EnablePRComment:      strings.ToLower(get("INPUT_ENABLE_PR_COMMENT", "true")) == "true",
		EnableArtifactUpload: strings.ToLower(get("INPUT_ENABLE_ARTIFACT_UPLOAD", "true")) == "true",
		GitHub: GitHubContext{
			Repository: get("GITHUB_REPOSITORY", ""),
			EventName:  get("GITHUB_EVENT_NAME", ""),
			Ref:        get("GITHUB_REF", ""),
		},
	}
	cfg.cloudFromEnv = strings.TrimSpace(lookup("INPUT_CLOUD_PROVIDER")) != ""
	cfg.operationFromEnv = strings.TrimSpace(lookup("INPUT_TERRAFORM_OPERATION")) != ""
	cfg.versionFromEnv = strings.TrimSpace(lookup("INPUT_TF_VERSION")) != ""

	secrets := &Secrets{
		AzureCredentials: strings.TrimSpace(lookup("INPUT_AZURE_CREDENTIALS")),
		AWSAccessKeyID:   strings.TrimSpace(lookup("INPUT_AWS_ACCESS_KEY_ID")),
		AWSSecretKey:     strings.TrimSpace(lookup("INPUT_AWS_SECRET_ACCESS_KEY")),
		AWSRegion:        get("INPUT_AWS_REGION", "us-east-1"),
		GitHubToken:      strings.TrimSpace(lookup("GITHUB_TOKEN")),
	}

	return cfg, secrets
}

// Validate checks required inputs and enumerations. It runs before any
// external call so bad configuration never reaches a provider.
func (c *Config) Validate() error {
	if c.TfPath == "" && c.WorkingDir == "" {
		return NewMissingInputError("tf_path")
	}

	switch c.Cloud {
	case CloudAzure, CloudAWS, CloudMulti:
	default:
		return NewInvalidInputError("cloud_provider", string(c.Cloud), "azure, aws, multi")
	}

	switch c.Operation {
	case OpPlan, OpApply, OpPlanApply:
	default:
		return NewInvalidInputError("terraform_operation", string(c.Operation), "plan, apply, plan-apply")
	}

	return nil
}

// SplitLines splits a multi-line input into trimmed, non-empty lines,
// preserving their order.
func SplitLines(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// Assignments filters lines down to valid K=V assignments, preserving
// order. Lines without an equals sign are dropped, not passed through.
func Assignments(lines []string) []string {
	var out []string
	for _, line := range lines {
		if strings.Contains(line, "=") {
			out = append(out, line)
		}
	}
	return out
}
