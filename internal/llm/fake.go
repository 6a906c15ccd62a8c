package llm

import (
	"context"
	"sync"
)

// FakeClient is a deterministic gateway for offline runs and tests. It
// records every request it sees and returns canned output or an injected
// error.
type FakeClient struct {
	mu       sync.Mutex
	Output   string
	Err      error
	requests []Request
}

func NewFakeClient(output string) *FakeClient {
	if output == "" {
		output = "=== [VOICE CONTEXT | EDITABLE] ===\n[PERSONA LOG]\nfake\n[VOICE SPEC]\nfake\n=== [/VOICE CONTEXT] ==="
	}
	return &FakeClient{Output: output}
}

func (f *FakeClient) Name() string { return "FakeLLM" }
func (f *FakeClient) Close() error { return nil }

func (f *FakeClient) Generate(_ context.Context, req Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.Err != nil {
		return "", f.Err
	}
	return f.Output, nil
}

// Requests returns a copy of every request seen, in order.
func (f *FakeClient) Requests() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Request, len(f.requests))
	copy(out, f.requests)
	return out
}

// Calls is the number of Generate invocations so far.
func (f *FakeClient) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}
