package ai

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"go.uber.org/zap"
)

// Orchestrator drives one request/response exchange with the runtime
// per Invoke call.
type Orchestrator struct {
	runtime        Runtime
	base           Descriptor
	regionOverride string
	log            *zap.Logger
}

// NewOrchestrator binds runtime to a base descriptor. When regionOverride
// is set every invocation runs against that region.
func NewOrchestrator(runtime Runtime, base Descriptor, regionOverride string, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{runtime: runtime, base: base, regionOverride: regionOverride, log: log}
}

// InvokeOption adjusts the per-request descriptor.
type InvokeOption func(*Descriptor)

// WithThoughtCallback streams intermediate reasoning to fn.
func WithThoughtCallback(fn ThoughtFunc) InvokeOption {
	return func(d *Descriptor) { d.OnThought = fn }
}

// Descriptor builds the request-scoped descriptor for one invocation.
func (o *Orchestrator) Descriptor(opts ...InvokeOption) Descriptor {
	d := o.base
	d.Tools = append([]Tool(nil), o.base.Tools...)
	for _, opt := range opts {
		opt(&d)
	}
	if o.regionOverride != "" {
		d = d.WithRegion(o.regionOverride)
	}
	return d
}

// SessionID derives a session identifier from prompt. It is stable for
// equal prompts and not meant to be secret.
func SessionID(prompt string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(prompt))
	return fmt.Sprintf("session_%d", h.Sum32()%100000)
}

// Invoke sends prompt to the agent and returns its raw final text,
// expected but not guaranteed to be one JSON object. Runtime failures
// come back as {"error": "Agent invocation failed: ..."}.
func (o *Orchestrator) Invoke(ctx context.Context, prompt, sessionID string, opts ...InvokeOption) (out string) {
	if sessionID == "" {
		sessionID = SessionID(prompt)
	}
	d := o.Descriptor(opts...)

	LogAIRequest(o.log, "Invoke", o.runtime.Name(), map[string]string{
		"agent":        d.AgentName,
		"action_group": d.ActionGroup,
		"session_id":   sessionID,
		"model_id":     d.ModelID,
		"region":       d.Region,
		"prompt":       prompt,
	})
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic: %v", r)
			LogAIResponse(o.log, "Invoke", "", err, time.Since(start))
			out = errorJSON(fmt.Sprintf("Agent invocation failed: %v", err))
		}
	}()

	text, err := o.runtime.Invoke(ctx, d, prompt, sessionID)
	LogAIResponse(o.log, "Invoke", text, err, time.Since(start))
	if err != nil {
		return errorJSON(fmt.Sprintf("Agent invocation failed: %v", err))
	}
	return text
}
