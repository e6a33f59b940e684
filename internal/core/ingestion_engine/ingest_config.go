package ingestion_engine

import "time"

// IngestConfig tunes extraction.
//
// HeadChars/TailChars: rune budget kept from the start and end of a long outline.
// LLMTimeout:          upper bound on a single model call.
// QueueSize:           capacity of the background ingestion queue.
type IngestConfig struct {
	HeadChars  int
	TailChars  int
	LLMTimeout time.Duration
	QueueSize  int
}

func DefaultIngestConfig() *IngestConfig {
	return &IngestConfig{
		HeadChars:  8000,
		TailChars:  2000,
		LLMTimeout: 90 * time.Second,
		QueueSize:  64,
	}
}

func (c *IngestConfig) withDefaults() *IngestConfig {
	d := DefaultIngestConfig()
	if c == nil {
		return d
	}
	out := *c
	if out.HeadChars <= 0 {
		out.HeadChars = d.HeadChars
	}
	if out.TailChars < 0 {
		out.TailChars = d.TailChars
	}
	if out.LLMTimeout <= 0 {
		out.LLMTimeout = d.LLMTimeout
	}
	if out.QueueSize <= 0 {
		out.QueueSize = d.QueueSize
	}
	return &out
}
