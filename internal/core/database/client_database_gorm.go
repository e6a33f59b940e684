package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/markdave123-py/Lessona/internal/core"
	"github.com/markdave123-py/Lessona/internal/models"
	apperrors "github.com/markdave123-py/Lessona/internal/pkg/errors"
)

type topicMapRow struct {
	ID                string `gorm:"primaryKey"`
	SourceName        string
	Subjects          datatypes.JSON
	Topics            datatypes.JSON
	TopicFocusMapping datatypes.JSON
	CreatedAt         time.Time `gorm:"index"`
}

func (topicMapRow) TableName() string { return "topic_maps" }

type lessonPlanRow struct {
	ID          string `gorm:"primaryKey"`
	SubjectName string `gorm:"index"`
	RequestData datatypes.JSON
	Sections    datatypes.JSON
	Repaired    datatypes.JSON
	RawResponse string
	GeneratedAt time.Time `gorm:"index"`
}

func (lessonPlanRow) TableName() string { return "lesson_plans" }

// GormClient stores topic maps and lesson plans in SQLite. It backs local runs
// and the CLI where no Postgres is available.
type GormClient struct {
	db *gorm.DB
}

var _ core.DbClient = (*GormClient)(nil)

func NewSQLiteClient(path string) (*GormClient, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is empty")
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %q: %w", path, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// sqlite allows one writer at a time
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&topicMapRow{}, &lessonPlanRow{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &GormClient{db: db}, nil
}

func (c *GormClient) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (c *GormClient) SaveTopicMap(ctx context.Context, m *models.TopicMap) (string, error) {
	if m == nil {
		return "", errors.New("nil topic map")
	}
	if err := prepareTopicMap(m); err != nil {
		return "", err
	}
	enc, err := encodeTopicMap(m)
	if err != nil {
		return "", err
	}
	row := topicMapRow{
		ID:                m.ID,
		SourceName:        m.SourceName,
		Subjects:          datatypes.JSON(enc.subjects),
		Topics:            datatypes.JSON(enc.topics),
		TopicFocusMapping: datatypes.JSON(enc.mapping),
		CreatedAt:         m.CreatedAt,
	}
	if err := c.db.WithContext(ctx).Create(&row).Error; err != nil {
		return "", fmt.Errorf("insert topic map: %w", err)
	}
	return m.ID, nil
}

func (c *GormClient) GetTopicMap(ctx context.Context, id string) (*models.TopicMap, error) {
	var row topicMapRow
	err := c.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("topic map %q: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return row.toModel()
}

func (c *GormClient) ListTopicMaps(ctx context.Context, limit int) ([]models.TopicMap, error) {
	var rows []topicMapRow
	if err := c.db.WithContext(ctx).Order("created_at DESC").Limit(listLimit(limit)).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]models.TopicMap, 0, len(rows))
	for _, r := range rows {
		m, err := r.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, nil
}

func (c *GormClient) DeleteTopicMap(ctx context.Context, id string) error {
	res := c.db.WithContext(ctx).Where("id = ?", id).Delete(&topicMapRow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("topic map %q: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

func (r topicMapRow) toModel() (*models.TopicMap, error) {
	m := &models.TopicMap{ID: r.ID, SourceName: r.SourceName, CreatedAt: r.CreatedAt}
	if err := decodeTopicMap(m, r.Subjects, r.Topics, r.TopicFocusMapping); err != nil {
		return nil, err
	}
	return m, nil
}

func (c *GormClient) SaveLessonPlan(ctx context.Context, p *models.LessonPlan) (string, error) {
	if err := preparePlan(p); err != nil {
		return "", err
	}
	enc, err := encodePlan(p)
	if err != nil {
		return "", err
	}
	row := lessonPlanRow{
		ID:          p.ID,
		SubjectName: p.Request.SubjectName,
		RequestData: datatypes.JSON(enc.request),
		Sections:    datatypes.JSON(enc.sections),
		Repaired:    datatypes.JSON(enc.repaired),
		RawResponse: p.RawResponse,
		GeneratedAt: p.GeneratedAt,
	}
	if err := c.db.WithContext(ctx).Create(&row).Error; err != nil {
		return "", fmt.Errorf("insert lesson plan: %w", err)
	}
	return p.ID, nil
}

func (c *GormClient) GetLessonPlan(ctx context.Context, id string) (*models.LessonPlan, error) {
	var row lessonPlanRow
	err := c.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lesson plan %q: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return row.toModel()
}

func (c *GormClient) ListLessonPlans(ctx context.Context, limit int) ([]models.LessonPlan, error) {
	var rows []lessonPlanRow
	if err := c.db.WithContext(ctx).Order("generated_at DESC").Limit(listLimit(limit)).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]models.LessonPlan, 0, len(rows))
	for _, r := range rows {
		p, err := r.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, nil
}

func (r lessonPlanRow) toModel() (*models.LessonPlan, error) {
	p := &models.LessonPlan{ID: r.ID, RawResponse: r.RawResponse, GeneratedAt: r.GeneratedAt}
	if err := decodePlan(p, r.RequestData, r.Sections, r.Repaired); err != nil {
		return nil, err
	}
	return p, nil
}
