package llm

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/markdave123-py/Lessona/internal/core"
	"github.com/markdave123-py/Lessona/internal/pkg/logger"
)

type GeminiLLM struct {
	client    *genai.Client
	modelName string
	log       *logger.Logger
}

func NewGeminiLLM(ctx context.Context, apiKey, modelName string, log *logger.Logger) (*GeminiLLM, error) {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: api key not set")
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}
	if log == nil {
		log = logger.Nop()
	}
	return &GeminiLLM{client: cl, modelName: modelName, log: log}, nil
}

func (g *GeminiLLM) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// Generate opens a new chat session for every call and discards it afterwards,
// so nothing from a previous extraction or generation is visible to the model.
func (g *GeminiLLM) Generate(ctx context.Context, sessionID, systemPrompt, userPrompt string) (string, error) {
	if sessionID == "" {
		return "", fmt.Errorf("gemini: session id is required")
	}
	m := g.client.GenerativeModel(g.modelName)
	m.SetTemperature(0.2)
	if systemPrompt != "" {
		m.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(systemPrompt)},
		}
	}

	g.log.Debug("gemini generate", "session_id", sessionID, "model", g.modelName, "prompt_chars", len(userPrompt))

	cs := m.StartChat()
	resp, err := cs.SendMessage(ctx, genai.Text(userPrompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate (session %s): %w", sessionID, err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", nil
	}

	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if t, ok := p.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return b.String(), nil
}

var _ core.LLMProvider = (*GeminiLLM)(nil)
