package core

import (
	"context"

	"github.com/markdave123-py/Lessona/internal/models"
)

// TopicMapExtractor turns outline text into a normalized TopicMap.
type TopicMapExtractor interface {
	ExtractMap(ctx context.Context, text, sourceName string) (*models.TopicMap, error)
}

type LessonComposer interface {
	Compose(ctx context.Context, req models.LessonPlanRequest) (*models.LessonPlan, error)
}

// DocumentRenderer produces the downloadable artifacts for a plan.
type DocumentRenderer interface {
	Render(plan *models.LessonPlan) ([]byte, error)
	RenderPreview(plan *models.LessonPlan) ([]byte, error)
}
