// Package handler adapts API Gateway events to the chart agent.
//
// Two deployment variants share one body contract ({"prompt": "..."}):
//   - WebSocket: thoughts and the final result are pushed to the caller's
//     connection while the Lambda invocation itself only returns a status.
//   - HTTP: the final result is the response body; no thoughts.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/SubediGaurab/ReportingWithAIAgent-Backend/ai"
)

// Messages sent to callers.
const (
	MissingPromptMessage = `Request body must be JSON and contain a "prompt" key.`
	InternalErrorMessage = "An internal server error occurred."
)

// ErrMissingPrompt is returned when a request carries no usable prompt.
var ErrMissingPrompt = errors.New(MissingPromptMessage) //nolint:staticcheck

// Invoker runs one prompt through the agent. *ai.Orchestrator satisfies it.
type Invoker interface {
	Invoke(ctx context.Context, prompt, sessionID string, opts ...ai.InvokeOption) string
}

// ThoughtFrame carries intermediate reasoning.
type ThoughtFrame struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// ResultFrame carries the final chart, or {"error": raw} when the agent
// did not answer with JSON.
type ResultFrame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// ErrorFrame reports a request-level failure.
type ErrorFrame struct {
	Error string `json:"error"`
}

func NewThoughtFrame(content string) ThoughtFrame {
	return ThoughtFrame{Type: "thought", Content: content}
}

func NewResultFrame(raw string) ResultFrame {
	return ResultFrame{Type: "result", Data: ShapeResult(raw)}
}

// ShapeResult isolates the JSON object in the agent's raw text. Text
// that still does not parse is wrapped as {"error": raw}.
func ShapeResult(raw string) json.RawMessage {
	trimmed := strings.TrimSpace(ai.ExtractJSON(raw))
	if trimmed != "" && json.Valid([]byte(trimmed)) {
		return json.RawMessage(trimmed)
	}
	out, _ := json.Marshal(ErrorFrame{Error: raw})
	return out
}

// DecodePrompt reads the prompt from a request body. A body that is not
// a JSON object with a non-empty string "prompt" yields ErrMissingPrompt.
func DecodePrompt(body string) (string, error) {
	var req struct {
		Prompt string `json:"prompt"`
	}
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		return "", ErrMissingPrompt
	}
	if req.Prompt == "" {
		return "", ErrMissingPrompt
	}
	return req.Prompt, nil
}
