package lesson_engine

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

// Composer turns a validated request into a sectioned LessonPlan with one
// model call.
type Composer struct {
	llm     core.LLMProvider
	timeout time.Duration
	log     *logger.Logger
	now     func() time.Time
}

func NewComposer(llm core.LLMProvider, timeout time.Duration, log *logger.Logger) *Composer {
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Composer{llm: llm, timeout: timeout, log: log, now: time.Now}
}

// Compose never retries. Errors wrap ErrInvalidRequest, ErrGenerationUnavailable
// or ErrGenerationParse.
func (c *Composer) Compose(ctx context.Context, req models.LessonPlanRequest) (*models.LessonPlan, error) {
	req = req.Normalized()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	sessionID := uuid.NewString()
	log := c.log.With("session_id", sessionID, "subject", req.SubjectName, "topic", req.Topic)

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.llm.Generate(callCtx, sessionID, core.SystemPrompt, buildPrompt(req))
	if err != nil {
		log.Warn("generation call failed", "error", err, "elapsed", time.Since(start))
		return nil, apperrors.New(apperrors.ErrGenerationUnavailable, err)
	}

	sections, repaired, found := parseSections(resp)
	if found == 0 {
		return nil, apperrors.New(apperrors.ErrGenerationParse, fmt.Errorf("no recognizable section headings")).
			WithSnippet(resp)
	}
	if len(repaired) > 0 {
		log.Warn("lesson plan repaired", "missing_headings", repaired)
	}

	plan := &models.LessonPlan{
		ID:          uuid.NewString(),
		Request:     req,
		Sections:    sections,
		Repaired:    repaired,
		RawResponse: resp,
		GeneratedAt: c.now().UTC(),
	}
	log.Info("lesson plan generated", "plan_id", plan.ID, "elapsed", time.Since(start))
	return plan, nil
}
