package ingestion_engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/markdave123-py/Lessona/internal/core"
	"github.com/markdave123-py/Lessona/internal/models"
	apperrors "github.com/markdave123-py/Lessona/internal/pkg/errors"
	"github.com/markdave123-py/Lessona/internal/pkg/logger"
)

// MapExtractor asks the model for the subject/topic/focus structure of an
// outline and turns the answer into a normalized TopicMap.
type MapExtractor struct {
	llm core.LLMProvider
	cfg *IngestConfig
	log *logger.Logger
}

func NewMapExtractor(llm core.LLMProvider, cfg *IngestConfig, log *logger.Logger) *MapExtractor {
	if log == nil {
		log = logger.Nop()
	}
	return &MapExtractor{llm: llm, cfg: cfg.withDefaults(), log: log}
}

// ExtractMap performs exactly one model call with a fresh session ID. The
// returned map satisfies TopicMap.Validate; it has no ID yet.
func (x *MapExtractor) ExtractMap(ctx context.Context, text, sourceName string) (*models.TopicMap, error) {
	sessionID := uuid.NewString()
	log := x.log.With("session_id", sessionID, "source", sourceName)

	budgeted, truncated := truncateHeadTail(text, x.cfg.HeadChars, x.cfg.TailChars)
	if truncated {
		log.Info("outline truncated for extraction",
			"original_tokens", approxTokens(text), "kept_tokens", approxTokens(budgeted))
	}

	callCtx, cancel := context.WithTimeout(ctx, x.cfg.LLMTimeout)
	defer cancel()

	start := time.Now()
	resp, err := x.llm.Generate(callCtx, sessionID, core.SystemPrompt, buildExtractionPrompt(budgeted))
	if err != nil {
		log.Warn("extraction call failed", "error", err, "elapsed", time.Since(start))
		return nil, apperrors.New(apperrors.ErrExtractionUnavailable, err).WithSource(sourceName)
	}
	log.Debug("extraction call finished", "elapsed", time.Since(start), "response_chars", len(resp))

	res := ParseTopicMap(resp)
	if !res.OK() {
		return nil, apperrors.New(apperrors.ErrExtractionParse, fmt.Errorf("%s", res.Failure.Reason)).
			WithSource(sourceName).
			WithSnippet(resp)
	}
	if len(res.Map.Topics) == 0 {
		return nil, apperrors.New(apperrors.ErrExtractionEmptyResult, nil).
			WithSource(sourceName).
			WithSnippet(resp)
	}

	res.Map.SourceName = sourceName
	if err := res.Map.Validate(); err != nil {
		return nil, apperrors.New(apperrors.ErrExtractionParse, err).WithSource(sourceName)
	}

	log.Info("topic map extracted",
		"subjects", len(res.Map.Subjects), "topics", len(res.Map.Topics))
	return res.Map, nil
}
