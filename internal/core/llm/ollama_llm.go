package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
	"github.com/ollama/ollama/envconfig"

	"github.com/markdave123-py/Lessona/internal/core"
	"github.com/markdave123-py/Lessona/internal/pkg/logger"
)

// OllamaLLM talks to a local Ollama server. Each call is a standalone
// /api/generate request; the returned context tokens are never fed back.
type OllamaLLM struct {
	client *api.Client
	model  string
	log    *logger.Logger
}

// NewOllamaLLM uses host when set, otherwise OLLAMA_HOST through envconfig.
func NewOllamaLLM(host, model string, log *logger.Logger) (*OllamaLLM, error) {
	hostURL := envconfig.Host()
	if host != "" {
		u, err := url.Parse(host)
		if err != nil {
			return nil, fmt.Errorf("ollama: invalid host %q: %w", host, err)
		}
		hostURL = u
	}
	if model == "" {
		return nil, fmt.Errorf("ollama: model not set")
	}
	if log == nil {
		log = logger.Nop()
	}
	return &OllamaLLM{
		client: api.NewClient(hostURL, http.DefaultClient),
		model:  model,
		log:    log,
	}, nil
}

func (o *OllamaLLM) Generate(ctx context.Context, sessionID, systemPrompt, userPrompt string) (string, error) {
	if sessionID == "" {
		return "", fmt.Errorf("ollama: session id is required")
	}
	stream := false
	req := api.GenerateRequest{
		Model:  o.model,
		Prompt: userPrompt,
		System: systemPrompt,
		Stream: &stream,
		Options: map[string]interface{}{
			"temperature": 0.2,
		},
	}

	o.log.Debug("ollama generate", "session_id", sessionID, "model", o.model, "prompt_chars", len(userPrompt))

	var b strings.Builder
	err := o.client.Generate(ctx, &req, func(resp api.GenerateResponse) error {
		_, err := b.WriteString(resp.Response)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("ollama generate (session %s): %w", sessionID, err)
	}
	return b.String(), nil
}

var _ core.LLMProvider = (*OllamaLLM)(nil)
