package objectclient

import (
	"context"

	"github.com/markdave123-py/Lessona/internal/core"
)

// NoopClient is used when no bucket is configured. Uploads succeed without
// storing anything and report an empty URL.
type NoopClient struct{}

var _ core.ObjectClient = NoopClient{}

func (NoopClient) UploadFile(context.Context, string, []byte, string) (string, error) {
	return "", nil
}

func (NoopClient) DeleteFile(context.Context, string) error { return nil }
