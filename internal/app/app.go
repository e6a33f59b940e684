// internal/app/app.go
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/markdave123-py/Lessona/internal/config"
	"github.com/markdave123-py/Lessona/internal/core"
	db "github.com/markdave123-py/Lessona/internal/core/database"
	"github.com/markdave123-py/Lessona/internal/core/ingestion_engine"
	"github.com/markdave123-py/Lessona/internal/core/lesson_engine"
	"github.com/markdave123-py/Lessona/internal/core/llm"
	objectclient "github.com/markdave123-py/Lessona/internal/core/object-client"
	"github.com/markdave123-py/Lessona/internal/core/render_engine"
	"github.com/markdave123-py/Lessona/internal/core/watcher"
	"github.com/markdave123-py/Lessona/internal/pkg/logger"
	"github.com/markdave123-py/Lessona/internal/services"
)

type App struct {
	Cfg          *config.Config
	Log          *logger.Logger
	DBClient     core.DbClient
	ObjectClient core.ObjectClient
	TopicMaps    *services.TopicMapService
	LessonPlans  *services.LessonPlanService
	DocProcessor ingestion_engine.Ingestor
	Server       *Server

	closers []func() error
}

func NewApp(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	llmProvider, closeLLM, err := newLLM(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	a, err := NewWithProvider(ctx, cfg, log, llmProvider)
	if err != nil {
		if closeLLM != nil {
			_ = closeLLM()
		}
		return nil, err
	}
	if closeLLM != nil {
		a.closers = append(a.closers, closeLLM)
	}
	return a, nil
}

// NewWithProvider wires everything around an already constructed model
// provider. Tests pass a fake here.
func NewWithProvider(ctx context.Context, cfg *config.Config, log *logger.Logger, llmProvider core.LLMProvider) (*App, error) {
	if log == nil {
		log = logger.Nop()
	}
	appCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	dbClient, err := db.Open(appCtx, cfg)
	if err != nil {
		return nil, err
	}
	log.Info("database initialized and ready", "driver", cfg.StoreDriver)

	var objClient core.ObjectClient = objectclient.NoopClient{}
	if cfg.ArchiveEnabled() {
		s3c, err := objectclient.NewS3Client(appCtx, cfg, log)
		if err != nil {
			_ = dbClient.Close()
			return nil, err
		}
		objClient = s3c
	}

	ingCfg := &ingestion_engine.IngestConfig{
		HeadChars:  cfg.ExtractHeadChars,
		TailChars:  cfg.ExtractTailChars,
		LLMTimeout: cfg.LLMTimeout,
	}

	topicMaps := services.NewTopicMapService(
		ingestion_engine.NewOutlineExtractor(log.With("stage", "text")),
		ingestion_engine.NewMapExtractor(llmProvider, ingCfg, log.With("stage", "extract")),
		dbClient, objClient, log.With("service", "topic_maps"),
	)
	lessonPlans := services.NewLessonPlanService(
		lesson_engine.NewComposer(llmProvider, cfg.LLMTimeout, log.With("stage", "compose")),
		render_engine.NewPDFRenderer(log.With("stage", "render")),
		dbClient, objClient, log.With("service", "lesson_plans"),
	)

	docIngestor := ingestion_engine.NewDocumentIngestor(topicMaps, ingCfg, log.With("component", "ingestor"))

	router := NewRouter(cfg, log, topicMaps, lessonPlans)
	server := NewServer(cfg, log, router)

	return &App{
		Cfg:          cfg,
		Log:          log,
		DBClient:     dbClient,
		ObjectClient: objClient,
		TopicMaps:    topicMaps,
		LessonPlans:  lessonPlans,
		DocProcessor: docIngestor,
		Server:       server,
	}, nil
}

func newLLM(ctx context.Context, cfg *config.Config, log *logger.Logger) (core.LLMProvider, func() error, error) {
	switch cfg.LLMProvider {
	case "gemini":
		g, err := llm.NewGeminiLLM(ctx, cfg.AIAPIKey, cfg.GenModel, log.With("provider", "gemini"))
		if err != nil {
			return nil, nil, fmt.Errorf("couldn't initialize the gemini client: %w", err)
		}
		return g, g.Close, nil
	case "ollama":
		o, err := llm.NewOllamaLLM(cfg.OllamaHost, cfg.OllamaModel, log.With("provider", "ollama"))
		if err != nil {
			return nil, nil, fmt.Errorf("couldn't initialize the ollama client: %w", err)
		}
		return o, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown LLM provider %q", cfg.LLMProvider)
	}
}

// StartWatcher starts the ingest workers and hands every outline that lands
// in dir to them. It returns once the folder is being watched.
func (a *App) StartWatcher(ctx context.Context, dir string) error {
	a.DocProcessor.Start(ctx, a.Cfg.IngestWorkers)

	log := a.Log.With("component", "watcher")
	enqueue := func(path string) {
		if err := a.DocProcessor.Enqueue(ctx, path); err != nil {
			log.Warn("outline dropped", "path", path, "error", err)
		}
	}
	w, err := watcher.New(ingestion_engine.SupportedOutline, enqueue, 0, log)
	if err != nil {
		return err
	}
	if err := w.Watch(ctx, dir); err != nil {
		_ = w.Close()
		return err
	}
	a.closers = append(a.closers, w.Close)
	return nil
}

func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
	if a.DBClient != nil {
		_ = a.DBClient.Close()
	}
}
