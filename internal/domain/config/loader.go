package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// fileConfig is the on-disk YAML shape for local (non-CI) runs. Every field
// maps onto an action input; the CI environment still wins when both are
// set so a checked-in file cannot override the workflow definition.
type fileConfig struct {
	TfPath        string   `yaml:"tf_path"`
	WorkingDir    string   `yaml:"tf_working_dir"`
	CloudProvider string   `yaml:"cloud_provider"`
	Operation     string   `yaml:"terraform_operation"`
	BackendConfig []string `yaml:"backend_config"`
	Vars          []string `yaml:"tf_vars"`
	TfVersion     string   `yaml:"tf_version"`
	PRComment     *bool    `yaml:"enable_pr_comment"`
	Artifact      *bool    `yaml:"enable_artifact_upload"`
}

// Loader loads configuration files from the filesystem.
type Loader struct{}

// NewLoader creates a new Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads a YAML config file and merges it under cfg: file values fill
// only fields the environment left empty.
func (l *Loader) Load(path string, cfg *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewUserError(ErrCodeConfigNotFound, "config file not found").WithContext(path)
		}
		return nil, err
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, NewConfigParseError(path, err)
	}

	merged := *cfg
	if merged.TfPath == "" {
		merged.TfPath = fc.TfPath
	}
	if merged.WorkingDir == "" {
		merged.WorkingDir = fc.WorkingDir
	}
	if fc.CloudProvider != "" && !merged.cloudFromEnv {
		merged.Cloud = CloudMode(strings.ToLower(fc.CloudProvider))
	}
	if fc.Operation != "" && !merged.operationFromEnv {
		merged.Operation = OperationMode(strings.ToLower(fc.Operation))
	}
	if len(merged.BackendConfig) == 0 {
		merged.BackendConfig = fc.BackendConfig
	}
	if len(merged.Vars) == 0 {
		merged.Vars = fc.Vars
	}
	if fc.TfVersion != "" && !merged.versionFromEnv {
		merged.TerraformVersion = fc.TfVersion
	}
	if fc.PRComment != nil {
		merged.EnablePRComment = *fc.PRComment
	}
	if fc.Artifact != nil {
		merged.EnableArtifactUpload = *fc.Artifact
	}

	return &merged, nil
}
