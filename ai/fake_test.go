package ai

import (
	"context"
	"errors"
	"sync"
)

type fakeBackend struct {
	mu        sync.Mutex
	schemaErr error
	schemas   []string
	queries   []string
}

func (b *fakeBackend) GetSchema(_ context.Context, name string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.schemas = append(b.schemas, name)
	if b.schemaErr != nil {
		return "", b.schemaErr
	}
	return `[{"table_name":"sales","description":"No description provided.","columns":[]}]`, nil
}

func (b *fakeBackend) ExecuteSQL(_ context.Context, query string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.queries = append(b.queries, query)
	return `[{"region":"EU","total":42}]`
}

type fakeRuntime struct {
	mu       sync.Mutex
	reply    string
	err      error
	panicMsg string
	thoughts []string
	seen     []Descriptor
	sessions []string
}

func (r *fakeRuntime) Name() string { return "fake" }

func (r *fakeRuntime) Invoke(_ context.Context, d Descriptor, _ string, sessionID string) (string, error) {
	r.mu.Lock()
	r.seen = append(r.seen, d)
	r.sessions = append(r.sessions, sessionID)
	r.mu.Unlock()

	if r.panicMsg != "" {
		panic(r.panicMsg)
	}
	for _, t := range r.thoughts {
		d.Thought(t)
	}
	return r.reply, r.err
}

var errBoom = errors.New("boom")
