package credentials

import (
	"context"

	"github.com/Git-Cosmo/CloudOps/internal/domain/config"
	"github.com/Git-Cosmo/CloudOps/internal/ports"
)

// Manager establishes and tears down provider authentication state.
type Manager struct {
	runner ports.CommandRunner
	fs     ports.FileSystem
	logger ports.Logger
}

// NewManager creates a credential Manager.
func NewManager(runner ports.CommandRunner, fs ports.FileSystem, logger ports.Logger) *Manager {
	return &Manager{runner: runner, fs: fs, logger: logger}
}

// Configure sets up every provider the cloud mode selects. The returned
// session is non-nil even on error: whatever was configured before a
// failure still needs cleanup, so callers must release it on all paths.
func (m *Manager) Configure(ctx context.Context, cloud config.CloudMode, secrets *config.Secrets) (*Session, error) {
	session := NewSession()

	if cloud.IncludesAzure() {
		if err := m.configureAzure(ctx, session, secrets.AzureCredentials); err != nil {
			return session, err
		}
	}

	if cloud.IncludesAWS() {
		if err := m.configureAWS(ctx, session, secrets.AWSAccessKeyID, secrets.AWSSecretKey, secrets.AWSRegion); err != nil {
			return session, err
		}
	}

	return session, nil
}

// Cleanup releases everything the session created: the environment overlay,
// the on-disk credential files, and the az CLI login. It is idempotent and
// order-independent; failures are logged, never returned, so a cleanup
// problem can never shadow the error that triggered the unwind.
func (m *Manager) Cleanup(ctx context.Context, session *Session) {
	if session == nil || session.released {
		return
	}
	session.released = true

	m.logger.Info(ctx, "cleaning up credentials")

	for _, path := range session.files {
		if err := m.fs.Remove(path); err != nil {
			m.logger.Warn(ctx, "failed to remove credential file",
				ports.F("path", path), ports.F("error", err))
		}
	}
	session.files = nil

	if session.configured[ProviderAzure] {
		// Best effort; a failed logout leaves only runner-local state.
		if _, err := m.runner.Run(ctx, ports.CommandSpec{
			Command: "az",
			Args:    []string{"logout"},
			Capture: true,
		}); err != nil {
			m.logger.Warn(ctx, "az logout failed", ports.F("error", err))
		}
	}

	session.env = nil

	m.logger.Info(ctx, "credentials cleaned up")
}
