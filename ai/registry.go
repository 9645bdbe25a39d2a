package ai

import (
	"context"
	"fmt"

	"github.com/SubediGaurab/ReportingWithAIAgent-Backend/config"
	"go.uber.org/zap"
)

// SupportedRuntimes lists available runtime names for display.
var SupportedRuntimes = []string{"bedrock", "anthropic", "placeholder"}

// NewRuntime creates the agent runtime selected by the configuration.
func NewRuntime(ctx context.Context, cfg config.AgentConfig, log *zap.Logger) (Runtime, error) {
	creds := AWSCredentials{
		AccessKeyID:     cfg.AWSAccessKeyID,
		SecretAccessKey: cfg.AWSSecretAccessKey,
		SessionToken:    cfg.AWSSessionToken,
		Profile:         cfg.AWSProfile,
	}

	switch cfg.Runtime {
	case "bedrock", "":
		return NewBedrock(ctx, BedrockConfig{Credentials: creds, MaxTurns: cfg.MaxTurns}, log)

	case "anthropic":
		return NewAnthropic(ctx, AnthropicConfig{
			APIKey:      cfg.AnthropicAPIKey,
			Credentials: creds,
			MaxTurns:    cfg.MaxTurns,
		}, log)

	case "placeholder":
		return NewPlaceholder(), nil

	default:
		return nil, fmt.Errorf("unknown agent runtime %q. Supported: bedrock, anthropic, placeholder", cfg.Runtime)
	}
}
