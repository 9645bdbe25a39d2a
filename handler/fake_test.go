package handler

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/SubediGaurab/ReportingWithAIAgent-Backend/ai"
)

type fakeInvoker struct {
	reply    string
	thoughts []string
	panicMsg string

	prompts  []string
	sessions []string
}

func (f *fakeInvoker) Invoke(_ context.Context, prompt, sessionID string, opts ...ai.InvokeOption) string {
	f.prompts = append(f.prompts, prompt)
	f.sessions = append(f.sessions, sessionID)
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	var d ai.Descriptor
	for _, opt := range opts {
		opt(&d)
	}
	for _, t := range f.thoughts {
		d.Thought(t)
	}
	return f.reply
}

type pushed struct {
	connectionID string
	frame        string
}

type fakePusher struct {
	mu     sync.Mutex
	frames []pushed
}

func (p *fakePusher) Push(_ context.Context, connectionID string, frame any) {
	data, _ := json.Marshal(frame)
	p.mu.Lock()
	p.frames = append(p.frames, pushed{connectionID: connectionID, frame: string(data)})
	p.mu.Unlock()
}

type fakeSource struct {
	pusher    *fakePusher
	endpoints []string
}

func (s *fakeSource) For(domainName, stage string) Pusher {
	s.endpoints = append(s.endpoints, Endpoint(domainName, stage))
	return s.pusher
}

func newFakeSource() *fakeSource {
	return &fakeSource{pusher: &fakePusher{}}
}
