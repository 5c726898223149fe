package credentials

import (
	"bytes"
	"context"
	"path/filepath"

	"gopkg.in/ini.v1"

	"github.com/Git-Cosmo/CloudOps/internal/ports"
)

// configureAWS projects the AWS_* variables into the session overlay and
// mirrors the credentials into ~/.aws so the aws CLI sees the same
// identity. Both key halves are required; anything less is a logged no-op
// so a multi-cloud run can carry only one provider's secrets.
func (m *Manager) configureAWS(ctx context.Context, session *Session, accessKeyID, secretKey, region string) error {
	if accessKeyID == "" || secretKey == "" {
		m.logger.Info(ctx, "no aws credentials provided, skipping aws configuration")
		return nil
	}

	m.logger.Info(ctx, "configuring aws credentials", ports.F("region", region))

	session.setEnv("AWS_ACCESS_KEY_ID", accessKeyID)
	session.setEnv("AWS_SECRET_ACCESS_KEY", secretKey)
	session.setEnv("AWS_DEFAULT_REGION", region)

	home, err := m.fs.HomeDir()
	if err != nil {
		return err
	}
	awsDir := filepath.Join(home, ".aws")
	if err := m.fs.MkdirAll(awsDir, 0o700); err != nil {
		return err
	}

	credFile := ini.Empty()
	credSection, err := credFile.NewSection("default")
	if err != nil {
		return err
	}
	credSection.Key("aws_access_key_id").SetValue(accessKeyID)
	credSection.Key("aws_secret_access_key").SetValue(secretKey)

	credPath := filepath.Join(awsDir, "credentials")
	if err := m.writeINI(credFile, credPath); err != nil {
		return err
	}
	session.trackFile(credPath)

	configFile := ini.Empty()
	configSection, err := configFile.NewSection("default")
	if err != nil {
		return err
	}
	configSection.Key("region").SetValue(region)

	configPath := filepath.Join(awsDir, "config")
	if err := m.writeINI(configFile, configPath); err != nil {
		return err
	}
	session.trackFile(configPath)

	session.markConfigured(ProviderAWS)
	m.logger.Info(ctx, "aws credentials configured")
	return nil
}

func (m *Manager) writeINI(file *ini.File, path string) error {
	var buf bytes.Buffer
	if _, err := file.WriteTo(&buf); err != nil {
		return err
	}
	return m.fs.WriteFile(path, buf.Bytes(), 0o600)
}
