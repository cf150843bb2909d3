// Package main provides the entry point for the chapterforge server.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"

	"github.com/chapterforge/chapterforge-server/internal/di"
	"github.com/chapterforge/chapterforge-server/internal/di/providers"
	"github.com/chapterforge/chapterforge-server/internal/logger"
)

func main() {
	// Create DI container
	injector := di.NewContainer()

	// Bootstrap all services
	if err := di.Bootstrap(injector); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap server: %v\n", err)
		os.Exit(1)
	}

	// Get logger for shutdown messages
	log := do.MustInvoke[*logger.Logger](injector)

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	// Shutdown all services in reverse order
	// The DI container handles shutdown order automatically
	if err := injector.Shutdown(); err != nil {
		log.Error("Shutdown error", "error", err)
	}

	// The catalog store uses a wrapper type, close it explicitly.
	if catalogHandle, err := do.Invoke[*providers.CatalogHandle](injector); err == nil {
		log.Info("Closing catalog...")
		if err := catalogHandle.Shutdown(); err != nil {
			log.Error("Failed to close catalog", "error", err)
		} else {
			log.Info("Catalog closed successfully")
		}
	}

	log.Info("Goodbye")
}
