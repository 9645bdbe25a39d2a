// Package ai drives the hosted agent that turns a prompt into a chart.
//
// Design decisions:
//   - Runtime is an interface so the hosted agent backend (Bedrock,
//     Anthropic, placeholder) can be swapped without touching the handler.
//   - Everything an invocation needs travels in a Descriptor value built
//     per request. Nothing is shared or mutated across invocations, so a
//     region override or a thought callback never leaks into another
//     request.
//   - All methods accept context for cancellation.
package ai

import (
	"context"
	"time"
)

// ThoughtFunc receives intermediate reasoning while the agent works.
type ThoughtFunc func(thought string)

// Runtime is the hosted agent capability: it accepts an instruction,
// a prompt and tool bindings, calls the tools as many times as it
// decides (including zero), and returns the final text.
type Runtime interface {
	Invoke(ctx context.Context, d Descriptor, prompt, sessionID string) (string, error)

	// Name returns the runtime name for logs.
	Name() string
}

// Descriptor binds one agent session: who the agent is, what it is told,
// which tools it may call and where it runs.
type Descriptor struct {
	AgentName   string
	ModelID     string
	Instruction string
	ActionGroup string
	Tools       []Tool

	// Region targets a specific hosted runtime region. Empty means default.
	Region string

	// OnThought may be nil.
	OnThought ThoughtFunc

	// CallDelay is the pause between consecutive model calls.
	CallDelay time.Duration
}

// WithRegion returns a copy of d bound to region. The thought callback
// is carried over.
func (d Descriptor) WithRegion(region string) Descriptor {
	out := d
	out.Tools = append([]Tool(nil), d.Tools...)
	out.Region = region
	return out
}

// Thought relays s to the registered callback, if any.
func (d Descriptor) Thought(s string) {
	if d.OnThought != nil && s != "" {
		d.OnThought(s)
	}
}

// pause waits for the descriptor's call delay or until ctx is done.
func (d Descriptor) pause(ctx context.Context) error {
	if d.CallDelay <= 0 {
		return nil
	}
	select {
	case <-time.After(d.CallDelay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
