package ingestion_engine

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/markdave123-py/Lessona/internal/models"
	"github.com/markdave123-py/Lessona/internal/pkg/logger"
)

// OutlineProcessor runs the full extract-and-persist path for one document.
type OutlineProcessor interface {
	ProcessOutline(ctx context.Context, name string, data []byte, contentType string) (*models.TopicMap, error)
}

// DocumentIngestor processes outline files dropped into a watched folder:
//
// proc: extract + persist path shared with the HTTP upload.
// jobs: in-memory queue of file paths.
// stopped: closed once the context given to Start is done.
type DocumentIngestor struct {
	proc     OutlineProcessor
	log      *logger.Logger
	jobs     chan string
	wg       sync.WaitGroup
	stopped  chan struct{}
	stopOnce sync.Once
}

// ErrIngestorStopped is returned by Enqueue once the workers have shut down.
var ErrIngestorStopped = errors.New("ingestor stopped")

// NewDocumentIngestor constructs the ingestor with a bounded job queue.
func NewDocumentIngestor(proc OutlineProcessor, cfg *IngestConfig, log *logger.Logger) *DocumentIngestor {
	if log == nil {
		log = logger.Nop()
	}
	return &DocumentIngestor{
		proc:    proc,
		log:     log,
		jobs:    make(chan string, cfg.withDefaults().QueueSize),
		stopped: make(chan struct{}),
	}
}

// Start runs numWorkers goroutines reading from the jobs channel until ctx is done.
func (i *DocumentIngestor) Start(ctx context.Context, numWorkers int) {
	if numWorkers < 1 {
		numWorkers = 1
	}
	go func() {
		<-ctx.Done()
		i.stopOnce.Do(func() { close(i.stopped) })
	}()
	for w := 1; w <= numWorkers; w++ {
		i.wg.Add(1)
		go func(w int) {
			defer i.wg.Done()
			for {
				select {
				case <-ctx.Done():
					i.log.Debug("ingest worker shutting down", "worker", w)
					return
				case path := <-i.jobs:
					i.log.Info("ingesting outline", "path", path, "worker", w)
					if err := i.ProcessOne(ctx, path); err != nil {
						i.log.Error("ingest failed", "path", path, "error", err)
					}
				}
			}
		}(w)
	}
}

// Wait blocks until every worker started by Start has returned.
func (i *DocumentIngestor) Wait() { i.wg.Wait() }

// Enqueue schedules a file path for ingestion. If the queue is full it waits
// for space, giving up when ctx is done or the workers have stopped.
func (i *DocumentIngestor) Enqueue(ctx context.Context, path string) error {
	select {
	case <-i.stopped:
		return ErrIngestorStopped
	default:
	}
	select {
	case i.jobs <- path:
		return nil
	case <-i.stopped:
		return ErrIngestorStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ProcessOne reads path and hands it to the processor.
func (i *DocumentIngestor) ProcessOne(ctx context.Context, path string) error {
	proctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	name := filepath.Base(path)
	m, err := i.proc.ProcessOutline(proctx, name, data, ContentTypeFor(name))
	if err != nil {
		return err
	}
	i.log.Info("outline ingested", "path", path, "topic_map_id", m.ID, "topics", len(m.Topics))
	return nil
}

// SupportedOutline reports whether name has an extension the extractor reads.
func SupportedOutline(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf", ".docx", ".txt":
		return true
	}
	return false
}

// ContentTypeFor guesses the content type from the file extension.
func ContentTypeFor(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return "application/pdf"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".txt":
		return "text/plain"
	}
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
