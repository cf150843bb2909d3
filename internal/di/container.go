// Package di provides dependency injection configuration for the chapterforge server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/chapterforge/chapterforge-server/internal/chapterfile"
	"github.com/chapterforge/chapterforge-server/internal/config"
	"github.com/chapterforge/chapterforge-server/internal/di/providers"
	"github.com/chapterforge/chapterforge-server/internal/dispatch"
	"github.com/chapterforge/chapterforge-server/internal/logger"
	"github.com/chapterforge/chapterforge-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Event streaming
	do.Provide(injector, providers.ProvideSSEManager)

	// Catalog layer
	do.Provide(injector, providers.ProvideCatalog)

	// Generation pipeline
	do.Provide(injector, providers.ProvideChapterFileWriter)
	do.Provide(injector, providers.ProvideDispatcher)
	do.Provide(injector, providers.ProvideGenerateService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.SSEManagerHandle](injector)
	_ = do.MustInvoke[*providers.CatalogHandle](injector)
	_ = do.MustInvoke[*chapterfile.Writer](injector)
	_ = do.MustInvoke[*dispatch.Dispatcher](injector)
	_ = do.MustInvoke[*service.GenerateService](injector)
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
