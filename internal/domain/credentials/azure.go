package credentials

import (
	"context"
	"encoding/json"

	"github.com/Git-Cosmo/CloudOps/internal/domain/config"
	"github.com/Git-Cosmo/CloudOps/internal/ports"
)

// servicePrincipal is the JSON shape of the azure_credentials input, the
// same document `az ad sp create-for-rbac --sdk-auth` emits.
type servicePrincipal struct {
	ClientID       string `json:"clientId"`
	ClientSecret   string `json:"clientSecret"`
	TenantID       string `json:"tenantId"`
	SubscriptionID string `json:"subscriptionId"`
}

// configureAzure logs in with the service principal and projects the ARM_*
// variables into the session overlay. An absent secret is a logged no-op;
// malformed JSON is a fatal configuration error raised before any external
// call.
func (m *Manager) configureAzure(ctx context.Context, session *Session, raw string) error {
	if raw == "" {
		m.logger.Info(ctx, "no azure credentials provided, skipping azure configuration")
		return nil
	}

	m.logger.Info(ctx, "configuring azure credentials")

	var sp servicePrincipal
	if err := json.Unmarshal([]byte(raw), &sp); err != nil {
		return config.NewUserError(config.ErrCodeCredentialsInvalid,
			"failed to parse azure credentials JSON").
			WithSuggestion("supply the JSON emitted by `az ad sp create-for-rbac --sdk-auth`").
			WithUnderlying(err)
	}

	if sp.ClientID == "" || sp.ClientSecret == "" || sp.TenantID == "" {
		return config.NewUserError(config.ErrCodeCredentialsInvalid,
			"azure credentials missing clientId, clientSecret, or tenantId")
	}

	_, err := m.runner.Run(ctx, ports.CommandSpec{
		Command: "az",
		Args: []string{
			"login", "--service-principal",
			"--username", sp.ClientID,
			"--password", sp.ClientSecret,
			"--tenant", sp.TenantID,
		},
		Capture:     true,
		MustSucceed: true,
	})
	if err != nil {
		return config.NewUserError(config.ErrCodeLoginFailed, "azure login failed").
			WithUnderlying(err)
	}
	session.markConfigured(ProviderAzure)

	if sp.SubscriptionID != "" {
		_, err := m.runner.Run(ctx, ports.CommandSpec{
			Command:     "az",
			Args:        []string{"account", "set", "--subscription", sp.SubscriptionID},
			Capture:     true,
			MustSucceed: true,
		})
		if err != nil {
			return config.NewUserError(config.ErrCodeLoginFailed, "azure subscription selection failed").
				WithUnderlying(err)
		}
	}

	session.setEnv("ARM_CLIENT_ID", sp.ClientID)
	session.setEnv("ARM_CLIENT_SECRET", sp.ClientSecret)
	session.setEnv("ARM_TENANT_ID", sp.TenantID)
	session.setEnv("ARM_SUBSCRIPTION_ID", sp.SubscriptionID)

	m.logger.Info(ctx, "azure credentials configured")
	return nil
}
