package lesson_engine

import "context"

type fakeLLM struct {
	response string
	err      error

	sessions []string
	prompts  []string
}

func (f *fakeLLM) Generate(ctx context.Context, sessionID, systemPrompt, userPrompt string) (string, error) {
	f.sessions = append(f.sessions, sessionID)
	f.prompts = append(f.prompts, userPrompt)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return f.response, f.err
}
