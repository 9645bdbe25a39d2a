package ai

import (
	"context"
	"encoding/json"
	"time"
)

// Placeholder is an offline runtime for local development. It never
// calls a model or a tool and answers with a fixed bar chart.
type Placeholder struct {
	// Latency simulates the hosted runtime's response time.
	Latency time.Duration
}

var _ Runtime = (*Placeholder)(nil)

func NewPlaceholder() *Placeholder {
	return &Placeholder{Latency: 500 * time.Millisecond}
}

func (p *Placeholder) Name() string {
	return "placeholder"
}

func (p *Placeholder) Invoke(ctx context.Context, d Descriptor, prompt, sessionID string) (string, error) {
	d.Thought("Placeholder runtime: skipping the database and returning a sample chart.")

	if p.Latency > 0 {
		select {
		case <-time.After(p.Latency):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	chart := map[string]any{
		"type": "bar",
		"data": map[string]any{
			"labels": []string{"Q1", "Q2", "Q3", "Q4"},
			"datasets": []map[string]any{{
				"label": truncate(prompt, 60),
				"data":  []int{12, 19, 7, 15},
			}},
		},
		"options": map[string]any{
			"plugins": map[string]any{
				"title": map[string]any{"display": true, "text": "Sample chart"},
			},
		},
	}
	out, err := json.Marshal(chart)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
