package ingestion_engine

import (
	"context"
	"sync"
)

type fakeLLM struct {
	mu       sync.Mutex
	response string
	err      error
	block    bool

	sessions []string
	systems  []string
	prompts  []string
}

func (f *fakeLLM) Generate(ctx context.Context, sessionID, systemPrompt, userPrompt string) (string, error) {
	f.mu.Lock()
	f.sessions = append(f.sessions, sessionID)
	f.systems = append(f.systems, systemPrompt)
	f.prompts = append(f.prompts, userPrompt)
	f.mu.Unlock()

	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.response, f.err
}
