// Package main provides a one-shot CLI that runs a chapter generation batch
// over the catalog and prints a summary.
//
// Usage:
//
//	chapgen -catalog-db ~/ChapterForge/catalog.db
//	chapgen -catalog-db ./catalog.db -force -max-parallelism 4
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/chapterforge/chapterforge-server/internal/catalog"
	"github.com/chapterforge/chapterforge-server/internal/chapterfile"
	"github.com/chapterforge/chapterforge-server/internal/config"
	"github.com/chapterforge/chapterforge-server/internal/dispatch"
	"github.com/chapterforge/chapterforge-server/internal/logger"
)

var force = flag.Bool("force", false, "Replace existing chapter files")

func main() {
	// config.LoadConfig registers the shared flags and calls flag.Parse,
	// picking up -force along the way.
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		Environment: cfg.App.Environment,
	})

	store, err := catalog.Open(cfg.Catalog.DatabasePath, log.Logger)
	if err != nil {
		log.Fatal("Failed to open catalog", "path", cfg.Catalog.DatabasePath, "error", err)
	}
	defer store.Close()

	// Ctrl-C stops scheduling new items and lets in-flight ones finish.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	segs, err := store.ListSegments(ctx)
	if err != nil {
		log.Fatal("Failed to load segments", "error", err)
	}
	if len(segs) == 0 {
		fmt.Println("No segments in catalog, nothing to do.")
		return
	}

	dispatcher := dispatch.New(store, chapterfile.NewWriter(log.Logger), cfg.Generate.SynthesisConfig(), log.Logger)

	result, err := dispatcher.Run(ctx, segs, dispatch.Options{
		ForceOverwrite:    *force,
		OverwriteExisting: cfg.Generate.OverwriteExisting,
		MaxParallelism:    cfg.Generate.MaxParallelism,
		SkipChaptered:     cfg.Generate.SkipChaptered,
		OnProgress: func(percent int) {
			fmt.Printf("\rGenerating... %3d%%", percent)
		},
	})
	fmt.Println()
	if err != nil {
		log.Fatal("Batch run aborted", "error", err)
	}

	fmt.Printf("Items:   %d\n", result.Total)
	fmt.Printf("Written: %d\n", result.Written)
	fmt.Printf("Skipped: %d\n", result.Skipped)
	fmt.Printf("Failed:  %d\n", result.Failed)

	for _, outcome := range result.Outcomes {
		if outcome.Status == dispatch.StatusFailed {
			fmt.Printf("  failed: %s (%v)\n", outcome.ItemID, outcome.Err)
		}
	}

	if result.Failed > 0 {
		os.Exit(1)
	}
}
