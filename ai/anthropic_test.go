package ai

import (
	"context"
	"encoding/json"
	"testing"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type messagesCall struct {
	model    string
	messages int
	tools    int
}

type fakeMessages struct {
	replies []*anthropic.Message
	err     error
	calls   []messagesCall
}

func (f *fakeMessages) New(_ context.Context, body anthropic.MessageNewParams, _ ...option.RequestOption) (*anthropic.Message, error) {
	f.calls = append(f.calls, messagesCall{model: string(body.Model), messages: len(body.Messages), tools: len(body.Tools)})
	if f.err != nil {
		return nil, f.err
	}
	out := f.replies[0]
	f.replies = f.replies[1:]
	return out, nil
}

func anthropicReply(stop anthropic.StopReason, blocks ...anthropic.ContentBlockUnion) *anthropic.Message {
	return &anthropic.Message{StopReason: stop, Content: blocks}
}

func TestAnthropic_ToolLoop(t *testing.T) {
	backend := &fakeBackend{}
	client := &fakeMessages{replies: []*anthropic.Message{
		anthropicReply(anthropic.StopReasonToolUse,
			anthropic.ContentBlockUnion{Type: "text", Text: "Checking tables."},
			anthropic.ContentBlockUnion{Type: "tool_use", ID: "tu1", Name: ToolGetSchema, Input: json.RawMessage(`{}`)},
			anthropic.ContentBlockUnion{Type: "tool_use", ID: "tu2", Name: ToolExecuteSQL, Input: json.RawMessage(`{"query":"SELECT 1"}`)}),
		anthropicReply(anthropic.StopReasonEndTurn,
			anthropic.ContentBlockUnion{Type: "text", Text: `{"type":"pie"}`}),
	}}

	var regions []string
	rt := NewAnthropicWithClient(func(region string) MessagesAPI {
		regions = append(regions, region)
		return client
	}, false, AnthropicConfig{}, nil)

	d := baseDescriptor()
	d.Tools = SQLTools(backend)
	d.Region = "us-west-2"
	var thoughts []string
	d.OnThought = func(s string) { thoughts = append(thoughts, s) }

	out, err := rt.Invoke(context.Background(), d, "share by region", "s1")
	require.NoError(t, err)
	assert.Equal(t, `{"type":"pie"}`, out)

	assert.Equal(t, []string{"us-west-2"}, regions)
	require.Len(t, client.calls, 2)
	assert.Equal(t, 1, client.calls[0].messages)
	assert.Equal(t, 3, client.calls[1].messages)
	assert.Equal(t, 2, client.calls[0].tools)
	assert.Equal(t, d.ModelID, client.calls[0].model)

	assert.Equal(t, []string{""}, backend.schemas)
	assert.Equal(t, []string{"SELECT 1"}, backend.queries)
	assert.Equal(t, []string{"Checking tables."}, thoughts)
	assert.Equal(t, "anthropic-bedrock", rt.Name())
}

func TestAnthropic_DirectModel(t *testing.T) {
	client := &fakeMessages{replies: []*anthropic.Message{
		anthropicReply(anthropic.StopReasonEndTurn, anthropic.ContentBlockUnion{Type: "text", Text: "{}"}),
		anthropicReply(anthropic.StopReasonEndTurn, anthropic.ContentBlockUnion{Type: "text", Text: "{}"}),
	}}
	var regions []string
	rt := NewAnthropicWithClient(func(region string) MessagesAPI {
		regions = append(regions, region)
		return client
	}, true, AnthropicConfig{}, nil)

	d := baseDescriptor()
	d.Region = "eu-central-1"
	_, err := rt.Invoke(context.Background(), d, "p", "s")
	require.NoError(t, err)

	d.ModelID = "claude-3-5-haiku-latest"
	_, err = rt.Invoke(context.Background(), d, "p", "s")
	require.NoError(t, err)

	assert.Equal(t, DefaultAnthropicModel, client.calls[0].model)
	assert.Equal(t, "claude-3-5-haiku-latest", client.calls[1].model)
	assert.Equal(t, []string{"", ""}, regions)
	assert.Equal(t, "anthropic", rt.Name())
}

func TestAnthropic_Error(t *testing.T) {
	client := &fakeMessages{err: errBoom}
	rt := NewAnthropicWithClient(func(string) MessagesAPI { return client }, true, AnthropicConfig{}, nil)

	_, err := rt.Invoke(context.Background(), baseDescriptor(), "p", "s")
	assert.ErrorIs(t, err, errBoom)
}

func TestAnthropicTools_Schema(t *testing.T) {
	tools := anthropicTools(SQLTools(&fakeBackend{}))
	require.Len(t, tools, 2)
	require.NotNil(t, tools[1].OfTool)
	assert.Equal(t, ToolExecuteSQL, tools[1].OfTool.Name)
	assert.Equal(t, []string{"query"}, tools[1].OfTool.InputSchema.Required)
}
