package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/bedrock"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"
)

// MessagesAPI is the part of the Anthropic client used here.
type MessagesAPI interface {
	New(ctx context.Context, body anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// DefaultAnthropicModel is used against the public API when the
// configured model id is a Bedrock one.
const DefaultAnthropicModel = "claude-sonnet-4-20250514"

// AnthropicConfig holds configuration for the Anthropic runtime.
type AnthropicConfig struct {
	// APIKey selects the public Anthropic API. Without it requests go
	// through Bedrock using Credentials.
	APIKey      string
	Credentials AWSCredentials

	MaxTokens int64 // Default: 4096
	MaxTurns  int   // Default: 10
}

// Anthropic runs the agent through the Anthropic Messages API, either
// directly or with Bedrock as the backend.
type Anthropic struct {
	// clientFor returns the client for a region; "" is the default region.
	clientFor func(region string) MessagesAPI
	direct    bool
	maxTokens int64
	maxTurns  int
	log       *zap.Logger
}

var _ Runtime = (*Anthropic)(nil)

// NewAnthropic creates an Anthropic runtime.
func NewAnthropic(ctx context.Context, cfg AnthropicConfig, log *zap.Logger) (*Anthropic, error) {
	if cfg.APIKey != "" {
		client := anthropic.NewClient(option.WithAPIKey(cfg.APIKey))
		return NewAnthropicWithClient(func(string) MessagesAPI { return &client.Messages }, true, cfg, log), nil
	}

	awsCfg, err := LoadAWSConfig(ctx, cfg.Credentials)
	if err != nil {
		return nil, err
	}
	def := anthropic.NewClient(bedrock.WithConfig(awsCfg))
	clientFor := func(region string) MessagesAPI {
		if region == "" || region == awsCfg.Region {
			return &def.Messages
		}
		regional := awsCfg.Copy()
		regional.Region = region
		c := anthropic.NewClient(bedrock.WithConfig(regional))
		return &c.Messages
	}
	return NewAnthropicWithClient(clientFor, false, cfg, log), nil
}

// NewAnthropicWithClient wraps existing clients. direct reports whether
// they talk to the public API rather than Bedrock.
func NewAnthropicWithClient(clientFor func(region string) MessagesAPI, direct bool, cfg AnthropicConfig, log *zap.Logger) *Anthropic {
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = DefaultBedrockMaxTokens
	}
	if cfg.MaxTurns == 0 {
		cfg.MaxTurns = DefaultMaxTurns
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Anthropic{
		clientFor: clientFor,
		direct:    direct,
		maxTokens: cfg.MaxTokens,
		maxTurns:  cfg.MaxTurns,
		log:       log,
	}
}

// Name returns the runtime name.
func (a *Anthropic) Name() string {
	if a.direct {
		return "anthropic"
	}
	return "anthropic-bedrock"
}

func (a *Anthropic) model(id string) string {
	if a.direct && (id == "" || strings.HasPrefix(id, "anthropic.")) {
		return DefaultAnthropicModel
	}
	return id
}

// Invoke runs one agent exchange.
func (a *Anthropic) Invoke(ctx context.Context, d Descriptor, prompt, sessionID string) (string, error) {
	region := d.Region
	if a.direct {
		region = ""
	}
	client := a.clientFor(region)

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model(d.ModelID)),
		MaxTokens: a.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if d.Instruction != "" {
		params.System = []anthropic.TextBlockParam{{Text: d.Instruction}}
	}
	if len(d.Tools) > 0 {
		params.Tools = anthropicTools(d.Tools)
	}

	for turn := 0; turn < a.maxTurns; turn++ {
		if turn > 0 {
			if err := d.pause(ctx); err != nil {
				return "", err
			}
		}

		msg, err := client.New(ctx, params)
		if err != nil {
			return "", fmt.Errorf("anthropic messages call failed: %w", err)
		}

		var text strings.Builder
		var assistant []anthropic.ContentBlockParamUnion
		var uses []anthropic.ContentBlockUnion
		for _, block := range msg.Content {
			switch block.Type {
			case "text":
				text.WriteString(block.Text)
				assistant = append(assistant, anthropic.NewTextBlock(block.Text))
			case "tool_use":
				uses = append(uses, block)
				input := block.Input
				if len(input) == 0 {
					input = json.RawMessage(`{}`)
				}
				assistant = append(assistant, anthropic.NewToolUseBlock(block.ID, input, block.Name))
			}
		}

		a.log.Debug("anthropic turn",
			zap.String("session_id", sessionID),
			zap.Int("turn", turn),
			zap.String("stop_reason", string(msg.StopReason)),
			zap.Int("tool_uses", len(uses)))

		if msg.StopReason != anthropic.StopReasonToolUse || len(uses) == 0 {
			return text.String(), nil
		}

		d.Thought(text.String())
		params.Messages = append(params.Messages, anthropic.NewAssistantMessage(assistant...))

		results := make([]anthropic.ContentBlockParamUnion, 0, len(uses))
		for _, use := range uses {
			var input map[string]any
			if len(use.Input) > 0 {
				_ = json.Unmarshal(use.Input, &input)
			}
			result := CallTool(ctx, d.Tools, use.Name, input)
			results = append(results, anthropic.NewToolResultBlock(use.ID, result, false))
		}
		params.Messages = append(params.Messages, anthropic.NewUserMessage(results...))
	}

	return "", fmt.Errorf("agent did not finish within %d turns", a.maxTurns)
}

func anthropicTools(tools []Tool) []anthropic.ToolUnionParam {
	out := make([]anthropic.ToolUnionParam, 0, len(tools))
	for _, t := range tools {
		tool := anthropic.ToolParam{
			Name:        t.Name(),
			Description: anthropic.String(t.Description()),
		}
		// Round-trip through JSON to get a proper ToolInputSchemaParam.
		schemaJSON, _ := json.Marshal(t.InputSchema())
		var schema anthropic.ToolInputSchemaParam
		_ = json.Unmarshal(schemaJSON, &schema)
		tool.InputSchema = schema
		out = append(out, anthropic.ToolUnionParam{OfTool: &tool})
	}
	return out
}
