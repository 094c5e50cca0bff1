package testutil

import (
	"context"
	"sync"

	"github.com/alexanderramin/autofin/internal/llm"
)

// FakeLLM replays canned responses in order, repeating the last one. A
// non-nil Err fails every call.
type FakeLLM struct {
	mu        sync.Mutex
	Responses []string
	Err       error
	Requests  []llm.GenerateRequest
}

func NewFakeLLM(responses ...string) *FakeLLM {
	return &FakeLLM{Responses: responses}
}

func (f *FakeLLM) Generate(_ context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Requests = append(f.Requests, req)
	if f.Err != nil {
		return nil, f.Err
	}
	text := ""
	if n := len(f.Responses); n > 0 {
		idx := len(f.Requests) - 1
		if idx >= n {
			idx = n - 1
		}
		text = f.Responses[idx]
	}
	return &llm.GenerateResponse{Text: text, Model: "fake"}, nil
}

func (f *FakeLLM) Available(context.Context) bool { return f.Err == nil }

// Calls returns the number of Generate calls so far.
func (f *FakeLLM) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Requests)
}
