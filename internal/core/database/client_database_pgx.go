package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/markdave123-py/Lessona/internal/config"
	"github.com/markdave123-py/Lessona/internal/core"
	"github.com/markdave123-py/Lessona/internal/models"
	apperrors "github.com/markdave123-py/Lessona/internal/pkg/errors"
)

type DatabaseClient struct {
	db *sql.DB
}

var _ core.DbClient = (*DatabaseClient)(nil)

func NewDatabaseClient(ctx context.Context, cfg *config.Config) (*DatabaseClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database client configuration is nil")
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	dsn := cfg.DatabaseURL
	if cfg.SslCertPath != "" {
		if _, err := os.Stat(cfg.SslCertPath); err != nil {
			return nil, fmt.Errorf("ssl cert not accessible at %q: %w", cfg.SslCertPath, err)
		}
		// Append SSL params to the provided DATABASE_URL safely.
		u, err := url.Parse(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid DATABASE_URL: %w", err)
		}
		q := u.Query()
		q.Set("sslmode", "verify-ca")
		q.Set("sslrootcert", cfg.SslCertPath)
		u.RawQuery = q.Encode()
		dsn = u.String()
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(10 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if err := EnsureBootstrapped(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	return &DatabaseClient{db: db}, nil
}

func (c *DatabaseClient) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Topic maps

func (c *DatabaseClient) SaveTopicMap(ctx context.Context, m *models.TopicMap) (string, error) {
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
	const q = `
		INSERT INTO topic_maps (id, source_name, subjects, topics, topic_focus_mapping, created_at)
		VALUES ($1, $2, $3::jsonb, $4::jsonb, $5::jsonb, $6)
	`
	if _, err := c.db.ExecContext(ctx, q,
		m.ID, m.SourceName, string(enc.subjects), string(enc.topics), string(enc.mapping), m.CreatedAt); err != nil {
		return "", fmt.Errorf("insert topic map: %w", err)
	}
	return m.ID, nil
}

func (c *DatabaseClient) GetTopicMap(ctx context.Context, id string) (*models.TopicMap, error) {
	const q = `
		SELECT id, source_name, subjects, topics, topic_focus_mapping, created_at
		FROM topic_maps WHERE id = $1
	`
	m, err := scanTopicMap(c.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("topic map %q: %w", id, apperrors.ErrNotFound)
	}
	return m, err
}

func (c *DatabaseClient) ListTopicMaps(ctx context.Context, limit int) ([]models.TopicMap, error) {
	const q = `
		SELECT id, source_name, subjects, topics, topic_focus_mapping, created_at
		FROM topic_maps
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := c.db.QueryContext(ctx, q, listLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.TopicMap{}
	for rows.Next() {
		m, err := scanTopicMap(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

func (c *DatabaseClient) DeleteTopicMap(ctx context.Context, id string) error {
	res, err := c.db.ExecContext(ctx, `DELETE FROM topic_maps WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("topic map %q: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTopicMap(row rowScanner) (*models.TopicMap, error) {
	var (
		m                         models.TopicMap
		subjects, topics, mapping []byte
	)
	if err := row.Scan(&m.ID, &m.SourceName, &subjects, &topics, &mapping, &m.CreatedAt); err != nil {
		return nil, err
	}
	if err := decodeTopicMap(&m, subjects, topics, mapping); err != nil {
		return nil, err
	}
	return &m, nil
}

// Lesson plans

func (c *DatabaseClient) SaveLessonPlan(ctx context.Context, p *models.LessonPlan) (string, error) {
	if err := preparePlan(p); err != nil {
		return "", err
	}
	enc, err := encodePlan(p)
	if err != nil {
		return "", err
	}
	const q = `
		INSERT INTO lesson_plans (id, subject_name, request_data, sections, repaired, raw_response, generated_at)
		VALUES ($1, $2, $3::jsonb, $4::jsonb, $5::jsonb, $6, $7)
	`
	if _, err := c.db.ExecContext(ctx, q,
		p.ID, p.Request.SubjectName, string(enc.request), string(enc.sections), string(enc.repaired),
		p.RawResponse, p.GeneratedAt); err != nil {
		return "", fmt.Errorf("insert lesson plan: %w", err)
	}
	return p.ID, nil
}

func (c *DatabaseClient) GetLessonPlan(ctx context.Context, id string) (*models.LessonPlan, error) {
	const q = `
		SELECT id, request_data, sections, repaired, raw_response, generated_at
		FROM lesson_plans WHERE id = $1
	`
	p, err := scanLessonPlan(c.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("lesson plan %q: %w", id, apperrors.ErrNotFound)
	}
	return p, err
}

func (c *DatabaseClient) ListLessonPlans(ctx context.Context, limit int) ([]models.LessonPlan, error) {
	const q = `
		SELECT id, request_data, sections, repaired, raw_response, generated_at
		FROM lesson_plans
		ORDER BY generated_at DESC
		LIMIT $1
	`
	rows, err := c.db.QueryContext(ctx, q, listLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.LessonPlan{}
	for rows.Next() {
		p, err := scanLessonPlan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func scanLessonPlan(row rowScanner) (*models.LessonPlan, error) {
	var (
		p                           models.LessonPlan
		request, sections, repaired []byte
	)
	if err := row.Scan(&p.ID, &request, &sections, &repaired, &p.RawResponse, &p.GeneratedAt); err != nil {
		return nil, err
	}
	if err := decodePlan(&p, request, sections, repaired); err != nil {
		return nil, err
	}
	return &p, nil
}
