package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/markdave123-py/Lessona/internal/core"
	"github.com/markdave123-py/Lessona/internal/models"
	apperrors "github.com/markdave123-py/Lessona/internal/pkg/errors"
	"github.com/markdave123-py/Lessona/internal/pkg/logger"
)

// TopicMapService runs the outline path: extract text, derive the topic map,
// persist it. The raw upload is archived in parallel when a bucket is set.
type TopicMapService struct {
	text    core.DocumentExtractor
	mapper  core.TopicMapExtractor
	db      core.TopicMapStore
	storage core.ObjectClient
	log     *logger.Logger
}

func NewTopicMapService(text core.DocumentExtractor, mapper core.TopicMapExtractor, db core.TopicMapStore, storage core.ObjectClient, log *logger.Logger) *TopicMapService {
	if log == nil {
		log = logger.Nop()
	}
	return &TopicMapService{text: text, mapper: mapper, db: db, storage: storage, log: log}
}

// ProcessOutline extracts and stores the topic map of one document. On any
// extraction failure nothing is stored and an archived copy is removed again.
func (s *TopicMapService) ProcessOutline(ctx context.Context, name string, data []byte, contentType string) (*models.TopicMap, error) {
	id := uuid.NewString()
	log := s.log.With("topic_map_id", id, "source", name)
	start := time.Now()

	var (
		m        *models.TopicMap
		archived string
	)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		text, err := s.text.ExtractText(gctx, data, contentType)
		if err != nil {
			return apperrors.Annotate(err, name)
		}
		log.Debug("outline text extracted", "chars", len(text))
		m, err = s.mapper.ExtractMap(gctx, text, name)
		return err
	})

	if s.storage != nil {
		g.Go(func() error {
			key := outlineKey(id, name)
			url, err := s.storage.UploadFile(gctx, key, data, contentType)
			if err != nil {
				log.Warn("outline archive failed", "error", err)
				return nil
			}
			if url != "" {
				archived = key
				log.Debug("outline archived", "url", url)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.discardArchive(ctx, archived, log)
		log.Warn("outline processing failed", "error", err, "elapsed", time.Since(start))
		return nil, err
	}

	m.ID = id
	if m.SourceName == "" {
		m.SourceName = name
	}
	if _, err := s.db.SaveTopicMap(ctx, m); err != nil {
		s.discardArchive(ctx, archived, log)
		return nil, err
	}
	log.Info("topic map stored", "topics", len(m.Topics), "subjects", len(m.Subjects), "elapsed", time.Since(start))
	return m, nil
}

func (s *TopicMapService) discardArchive(ctx context.Context, key string, log *logger.Logger) {
	if key == "" {
		return
	}
	if err := s.storage.DeleteFile(context.WithoutCancel(ctx), key); err != nil {
		log.Warn("could not remove archived outline", "key", key, "error", err)
	}
}

func (s *TopicMapService) Get(ctx context.Context, id string) (*models.TopicMap, error) {
	return s.db.GetTopicMap(ctx, id)
}

func (s *TopicMapService) List(ctx context.Context, limit int) ([]models.TopicMap, error) {
	return s.db.ListTopicMaps(ctx, limit)
}

// Delete removes the map and, best effort, its archived outline.
func (s *TopicMapService) Delete(ctx context.Context, id string) error {
	m, err := s.db.GetTopicMap(ctx, id)
	if err != nil {
		return err
	}
	if err := s.db.DeleteTopicMap(ctx, id); err != nil {
		return err
	}
	if s.storage != nil {
		if err := s.storage.DeleteFile(ctx, outlineKey(id, m.SourceName)); err != nil {
			s.log.Warn("could not remove archived outline", "topic_map_id", id, "error", err)
		}
	}
	return nil
}
