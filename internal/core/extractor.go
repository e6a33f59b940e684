package core

import (
	"context"
)

// DocumentExtractor defines the interface for extracting text from various document types.
type DocumentExtractor interface {
	// ExtractText returns the readable text of data. The `contentType` hint
	// helps the extractor choose the right parsing strategy; the bytes are
	// sniffed as well.
	ExtractText(ctx context.Context, data []byte, contentType string) (string, error)
}
