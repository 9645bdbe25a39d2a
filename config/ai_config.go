// ai_config.go holds the hosted agent runtime configuration.
//
// The region override comes from the BedrockRegion variable: when
// present every invocation targets that region.
package config

import "time"

// AgentConfig selects and parameterizes the hosted agent runtime.
type AgentConfig struct {
	// Runtime is one of "bedrock", "anthropic", "placeholder".
	Runtime string
	ModelID string

	// RegionOverride moves the hosted runtime to another region.
	// Empty means the SDK default region chain applies.
	RegionOverride string

	// InstructionsFile replaces the built-in agent instruction when set.
	InstructionsFile string

	// CallDelay is the pause between consecutive model calls.
	CallDelay time.Duration

	// AnthropicAPIKey sends the anthropic runtime to the public API.
	// Without it the anthropic runtime goes through Bedrock.
	AnthropicAPIKey string

	// MaxTurns bounds the model calls of one invocation.
	MaxTurns int

	// AWS credentials for the hosted runtime. Empty means the default
	// chain (Lambda execution role, env, shared config).
	AWSProfile         string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSSessionToken    string
}

// Default values.
const (
	DefaultPort      = 5432
	DefaultRuntime   = "bedrock"
	DefaultModelID   = "anthropic.claude-3-5-sonnet-20241022-v2:0"
	DefaultCallDelay = 2 * time.Second
	DefaultMaxTurns  = 10
)
