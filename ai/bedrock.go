package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/document"
	bedrocktypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"go.uber.org/zap"
)

// ConverseAPI is the part of the Bedrock runtime client used here.
type ConverseAPI interface {
	Converse(ctx context.Context, params *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

// AWSCredentials selects how AWS clients authenticate. Empty means the
// default chain (Lambda execution role, env, shared config).
type AWSCredentials struct {
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	Profile         string
}

// LoadAWSConfig loads the AWS configuration for creds.
func LoadAWSConfig(ctx context.Context, creds AWSCredentials) (aws.Config, error) {
	var opts []func(*awsconfig.LoadOptions) error
	switch {
	case creds.AccessKeyID != "" && creds.SecretAccessKey != "":
		opts = append(opts, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			creds.AccessKeyID,
			creds.SecretAccessKey,
			creds.SessionToken,
		)))
	case creds.Profile != "":
		opts = append(opts, awsconfig.WithSharedConfigProfile(creds.Profile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return awsCfg, nil
}

// BedrockConfig holds configuration for the Bedrock runtime.
type BedrockConfig struct {
	Credentials AWSCredentials

	MaxTokens int32 // Default: 4096
	MaxTurns  int   // Default: 10
}

// Default Bedrock values.
const (
	DefaultBedrockMaxTokens = 4096
	DefaultMaxTurns         = 10
)

// Bedrock runs the agent on Amazon Bedrock through the Converse API.
// Tool use requests are answered locally and handed back until the
// model produces its final answer.
type Bedrock struct {
	client    ConverseAPI
	maxTokens int32
	maxTurns  int
	log       *zap.Logger
}

var _ Runtime = (*Bedrock)(nil)

// NewBedrock creates a Bedrock runtime from the AWS default configuration.
func NewBedrock(ctx context.Context, cfg BedrockConfig, log *zap.Logger) (*Bedrock, error) {
	awsCfg, err := LoadAWSConfig(ctx, cfg.Credentials)
	if err != nil {
		return nil, err
	}
	return NewBedrockWithClient(bedrockruntime.NewFromConfig(awsCfg), cfg, log), nil
}

// NewBedrockWithClient wraps an existing Converse client.
func NewBedrockWithClient(client ConverseAPI, cfg BedrockConfig, log *zap.Logger) *Bedrock {
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = DefaultBedrockMaxTokens
	}
	if cfg.MaxTurns == 0 {
		cfg.MaxTurns = DefaultMaxTurns
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Bedrock{client: client, maxTokens: cfg.MaxTokens, maxTurns: cfg.MaxTurns, log: log}
}

// Name returns the runtime name.
func (b *Bedrock) Name() string {
	return "bedrock"
}

// Invoke runs one agent exchange.
func (b *Bedrock) Invoke(ctx context.Context, d Descriptor, prompt, sessionID string) (string, error) {
	input := &bedrockruntime.ConverseInput{
		ModelId: aws.String(d.ModelID),
		Messages: []bedrocktypes.Message{{
			Role:    bedrocktypes.ConversationRoleUser,
			Content: []bedrocktypes.ContentBlock{&bedrocktypes.ContentBlockMemberText{Value: prompt}},
		}},
		InferenceConfig: &bedrocktypes.InferenceConfiguration{
			MaxTokens: aws.Int32(b.maxTokens),
		},
	}
	if d.Instruction != "" {
		input.System = []bedrocktypes.SystemContentBlock{
			&bedrocktypes.SystemContentBlockMemberText{Value: d.Instruction},
		}
	}
	if len(d.Tools) > 0 {
		input.ToolConfig = converseTools(d.Tools)
	}

	var optFns []func(*bedrockruntime.Options)
	if d.Region != "" {
		optFns = append(optFns, func(o *bedrockruntime.Options) { o.Region = d.Region })
	}

	for turn := 0; turn < b.maxTurns; turn++ {
		if turn > 0 {
			if err := d.pause(ctx); err != nil {
				return "", err
			}
		}

		output, err := b.client.Converse(ctx, input, optFns...)
		if err != nil {
			return "", fmt.Errorf("bedrock converse failed: %w", err)
		}
		msg, ok := output.Output.(*bedrocktypes.ConverseOutputMemberMessage)
		if !ok {
			return "", fmt.Errorf("bedrock converse returned no message")
		}

		text, uses := splitConverseContent(msg.Value.Content)
		b.log.Debug("bedrock turn",
			zap.String("session_id", sessionID),
			zap.Int("turn", turn),
			zap.String("stop_reason", string(output.StopReason)),
			zap.Int("tool_uses", len(uses)))

		if output.StopReason != bedrocktypes.StopReasonToolUse || len(uses) == 0 {
			return text, nil
		}

		d.Thought(text)
		input.Messages = append(input.Messages, msg.Value)

		results := make([]bedrocktypes.ContentBlock, 0, len(uses))
		for _, use := range uses {
			name := aws.ToString(use.Name)
			result := CallTool(ctx, d.Tools, name, documentToMap(use.Input))
			results = append(results, &bedrocktypes.ContentBlockMemberToolResult{
				Value: bedrocktypes.ToolResultBlock{
					ToolUseId: use.ToolUseId,
					Content: []bedrocktypes.ToolResultContentBlock{
						&bedrocktypes.ToolResultContentBlockMemberText{Value: result},
					},
				},
			})
		}
		input.Messages = append(input.Messages, bedrocktypes.Message{
			Role:    bedrocktypes.ConversationRoleUser,
			Content: results,
		})
	}

	return "", fmt.Errorf("agent did not finish within %d turns", b.maxTurns)
}

func splitConverseContent(blocks []bedrocktypes.ContentBlock) (string, []bedrocktypes.ToolUseBlock) {
	var text strings.Builder
	var uses []bedrocktypes.ToolUseBlock
	for _, block := range blocks {
		switch v := block.(type) {
		case *bedrocktypes.ContentBlockMemberText:
			text.WriteString(v.Value)
		case *bedrocktypes.ContentBlockMemberToolUse:
			uses = append(uses, v.Value)
		}
	}
	return text.String(), uses
}

func converseTools(tools []Tool) *bedrocktypes.ToolConfiguration {
	specs := make([]bedrocktypes.Tool, 0, len(tools))
	for _, t := range tools {
		specs = append(specs, &bedrocktypes.ToolMemberToolSpec{
			Value: bedrocktypes.ToolSpecification{
				Name:        aws.String(t.Name()),
				Description: aws.String(t.Description()),
				InputSchema: &bedrocktypes.ToolInputSchemaMemberJson{
					Value: document.NewLazyDocument(t.InputSchema()),
				},
			},
		})
	}
	return &bedrocktypes.ToolConfiguration{Tools: specs}
}

// documentToMap decodes a tool input document; undecodable input yields an empty map.
func documentToMap(doc document.Interface) map[string]any {
	out := map[string]any{}
	if doc == nil {
		return out
	}
	raw, err := doc.MarshalSmithyDocument()
	if err != nil {
		return out
	}
	_ = json.Unmarshal(raw, &out)
	if out == nil {
		out = map[string]any{}
	}
	return out
}
