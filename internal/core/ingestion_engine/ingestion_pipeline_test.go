package ingestion_engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/markdave123-py/Lessona/internal/models"
)

type recordingProcessor struct {
	mu    sync.Mutex
	names []string
	types []string
	done  chan struct{}
}

func (p *recordingProcessor) ProcessOutline(_ context.Context, name string, data []byte, contentType string) (*models.TopicMap, error) {
	p.mu.Lock()
	p.names = append(p.names, name)
	p.types = append(p.types, contentType)
	p.mu.Unlock()
	if p.done != nil {
		p.done <- struct{}{}
	}
	return &models.TopicMap{ID: "tm-1", Topics: []string{string(data)}}, nil
}

func TestProcessOne(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "outline.txt")
	if err := os.WriteFile(path, []byte("Week 1"), 0o644); err != nil {
		t.Fatal(err)
	}

	proc := &recordingProcessor{}
	ing := NewDocumentIngestor(proc, nil, nil)
	if err := ing.ProcessOne(context.Background(), path); err != nil {
		t.Fatalf("ProcessOne: %v", err)
	}
	if len(proc.names) != 1 || proc.names[0] != "outline.txt" || proc.types[0] != "text/plain" {
		t.Fatalf("unexpected calls: %v %v", proc.names, proc.types)
	}

	if err := ing.ProcessOne(context.Background(), filepath.Join(dir, "missing.pdf")); err == nil {
		t.Fatal("expected error for a missing file")
	}
}

func TestWorkersDrainQueue(t *testing.T) {
	dir := t.TempDir()
	proc := &recordingProcessor{done: make(chan struct{}, 4)}
	ing := NewDocumentIngestor(proc, &IngestConfig{QueueSize: 4}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	ing.Start(ctx, 2)

	for _, n := range []string{"a.pdf", "b.docx"} {
		p := filepath.Join(dir, n)
		if err := os.WriteFile(p, []byte(n), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := ing.Enqueue(ctx, p); err != nil {
			t.Fatalf("Enqueue: %v", err)
		}
	}
	for i := 0; i < 2; i++ {
		select {
		case <-proc.done:
		case <-time.After(5 * time.Second):
			t.Fatal("worker did not process the queue")
		}
	}
	cancel()
	ing.Wait()
}

func TestSupportedOutline(t *testing.T) {
	for name, want := range map[string]bool{
		"a.PDF": true, "b.docx": true, "c.txt": true, "d.png": false, "noext": false,
	} {
		if SupportedOutline(name) != want {
			t.Errorf("%s: want %v", name, want)
		}
	}
}

func TestEnqueueAfterShutdownDoesNotBlock(t *testing.T) {
	ing := NewDocumentIngestor(&recordingProcessor{}, &IngestConfig{QueueSize: 1}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	ing.Start(ctx, 1)
	cancel()
	ing.Wait()

	done := make(chan error, 1)
	go func() {
		var err error
		for k := 0; k < 3; k++ {
			err = ing.Enqueue(context.Background(), "late.pdf")
		}
		done <- err
	}()

	select {
	case err := <-done:
		if !errors.Is(err, ErrIngestorStopped) {
			t.Fatalf("expected ErrIngestorStopped, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Enqueue blocked after the workers stopped")
	}
}
