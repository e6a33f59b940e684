package core

import "context"

// LLMProvider is the text-in/text-out model capability. sessionID is
// mandatory: each call gets a fresh one so no conversational state leaks
// between extraction and generation calls.
type LLMProvider interface {
	Generate(ctx context.Context, sessionID string, systemPrompt string, userPrompt string) (string, error)
}

// SystemPrompt is the system instruction for both extraction and generation calls.
const SystemPrompt = "You are an expert educational content analyzer and lesson plan generator."
