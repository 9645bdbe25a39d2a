package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/SubediGaurab/ReportingWithAIAgent-Backend/handler"
	"github.com/charmbracelet/lipgloss"
)

// Simple palette inspired by standard terminal dark themes.
var (
	ColorAccent  = lipgloss.Color("39")  // Blue / Cyan
	ColorSuccess = lipgloss.Color("42")  // Green
	ColorError   = lipgloss.Color("196") // Red
	ColorDim     = lipgloss.Color("240") // Dimmed text

	StyleTitle   = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	StyleDimmed  = lipgloss.NewStyle().Foreground(ColorDim)
	StyleThought = lipgloss.NewStyle().Foreground(ColorAccent)
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError).Bold(true)

	StyleResult = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorDim).
			Padding(0, 1)
)

// consolePusher prints frames instead of posting them to a connection.
type consolePusher struct {
	mu       sync.Mutex
	out      io.Writer
	thoughts []string
}

var (
	_ handler.Pusher       = (*consolePusher)(nil)
	_ handler.PusherSource = (*consolePusher)(nil)
)

func newConsolePusher(out io.Writer) *consolePusher {
	return &consolePusher{out: out}
}

func (p *consolePusher) For(domainName, stage string) handler.Pusher {
	fmt.Fprintln(p.out, StyleDimmed.Render("[STREAM] endpoint "+handler.Endpoint(domainName, stage)))
	return p
}

func (p *consolePusher) Push(_ context.Context, connectionID string, frame any) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch f := frame.(type) {
	case handler.ThoughtFrame:
		p.thoughts = append(p.thoughts, f.Content)
		fmt.Fprintln(p.out, StyleThought.Render("[THOUGHT] ")+f.Content)
	case handler.ResultFrame:
		fmt.Fprintln(p.out, StyleSuccess.Render("[RESULT]"))
		fmt.Fprintln(p.out, StyleResult.Render(indentJSON(f.Data)))
	case handler.ErrorFrame:
		fmt.Fprintln(p.out, StyleError.Render("[ERROR] ")+f.Error)
	default:
		data, _ := json.Marshal(frame)
		fmt.Fprintf(p.out, "[STREAM] %s: %s\n", connectionID, data)
	}
}

func (p *consolePusher) Thoughts() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.thoughts...)
}

func indentJSON(raw json.RawMessage) string {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return string(raw)
	}
	return string(out)
}
