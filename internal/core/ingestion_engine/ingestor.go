package ingestion_engine

import "context"

type Ingestor interface {
	Start(ctx context.Context, numWorkers int)
	Enqueue(ctx context.Context, path string) error
	ProcessOne(ctx context.Context, path string) error
	Wait()
}

var _ Ingestor = (*DocumentIngestor)(nil)
