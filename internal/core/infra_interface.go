package core

import (
	"context"

	"github.com/markdave123-py/Lessona/internal/models"
)

// TopicMapStore persists extracted topic maps. Get returns an error wrapping
// errors.ErrNotFound for unknown IDs.
type TopicMapStore interface {
	SaveTopicMap(ctx context.Context, m *models.TopicMap) (id string, err error)
	GetTopicMap(ctx context.Context, id string) (*models.TopicMap, error)
	ListTopicMaps(ctx context.Context, limit int) ([]models.TopicMap, error)
	DeleteTopicMap(ctx context.Context, id string) error
}

type LessonPlanStore interface {
	SaveLessonPlan(ctx context.Context, p *models.LessonPlan) (id string, err error)
	GetLessonPlan(ctx context.Context, id string) (*models.LessonPlan, error)
	ListLessonPlans(ctx context.Context, limit int) ([]models.LessonPlan, error)
}

// DbClient defines all persistence operations the services need.
// It abstracts Postgres/SQLite so higher layers never depend on a specific DB.
type DbClient interface {
	TopicMapStore
	LessonPlanStore
	Close() error
}

// ObjectClient defines interactions with S3 or any object storage.
type ObjectClient interface {
	UploadFile(ctx context.Context, key string, data []byte, contentType string) (url string, err error)
	DeleteFile(ctx context.Context, key string) error
}
