package db

import (
	"context"
	"fmt"

	"github.com/markdave123-py/Lessona/internal/config"
	"github.com/markdave123-py/Lessona/internal/core"
)

// Open returns the store selected by STORE_DRIVER.
func Open(ctx context.Context, cfg *config.Config) (core.DbClient, error) {
	switch cfg.StoreDriver {
	case "postgres":
		c, err := NewDatabaseClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return c, nil
	case "sqlite", "":
		c, err := NewSQLiteClient(cfg.SqlitePath)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
