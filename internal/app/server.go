package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/markdave123-py/Lessona/internal/api/handlers"
	"github.com/markdave123-py/Lessona/internal/config"
	"github.com/markdave123-py/Lessona/internal/pkg/logger"
)

// Server wraps the HTTP server instance and its handlers.
type Server struct {
	httpServer *http.Server
	log        *logger.Logger
}

// NewRouter builds and wires all routes.
func NewRouter(cfg *config.Config, log *logger.Logger, topicMaps handlers.TopicMapService, lessonPlans handlers.LessonPlanService) http.Handler {
	optsHandler := handlers.NewOptionsHandler()
	mapHandler := handlers.NewTopicMapHandler(topicMaps, cfg.MaxUploadMB, log.With("handler", "topic_maps"))
	planHandler := handlers.NewLessonPlanHandler(lessonPlans, log.With("handler", "lesson_plans"))

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	// a generation call may take the whole model timeout
	r.Use(middleware.Timeout(cfg.LLMTimeout + 30*time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CorsOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(api chi.Router) {
		api.Get("/", optsHandler.Banner)
		api.Get("/health", optsHandler.Health)
		api.Get("/options", optsHandler.Options)

		api.Route("/topic-maps", func(tm chi.Router) {
			tm.Post("/", mapHandler.Upload)
			tm.Get("/", mapHandler.List)
			tm.Get("/{id}", mapHandler.Get)
			tm.Delete("/{id}", mapHandler.Delete)
		})

		api.Route("/lesson-plans", func(lp chi.Router) {
			lp.Post("/", planHandler.Create)
			lp.Get("/", planHandler.List)
			lp.Get("/{id}", planHandler.Get)
			lp.Get("/{id}/download", planHandler.Download)
			lp.Get("/{id}/preview", planHandler.Preview)
		})
	})

	return r
}

func NewServer(cfg *config.Config, log *logger.Logger, handler http.Handler) *Server {
	httpSrv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return &Server{httpServer: httpSrv, log: log}
}

func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

// Start runs the HTTP server until Shutdown is called.
func (s *Server) Start() error {
	s.log.Info("HTTP server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
