package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/markdave123-py/Lessona/internal/app"
	"github.com/markdave123-py/Lessona/internal/config"
	"github.com/markdave123-py/Lessona/internal/pkg/logger"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "lessonctl",
		Short:         "Extract topic maps from outlines and generate lesson plans",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(optionsCmd(), extractCmd(), composeCmd(), renderCmd(), watchCmd())
	return root
}

// openApp loads configuration from the environment and wires the pipeline.
func openApp(ctx context.Context) (*app.App, error) {
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, err
	}
	return app.NewApp(ctx, cfg, log)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
