package providers

import (
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/chapterforge/chapterforge-server/internal/catalog"
	"github.com/chapterforge/chapterforge-server/internal/config"
	"github.com/chapterforge/chapterforge-server/internal/logger"
)

// CatalogHandle wraps the catalog store with shutdown capability.
type CatalogHandle struct {
	*catalog.Store
}

// Shutdown implements do.Shutdownable.
func (h *CatalogHandle) Shutdown() error {
	return h.Close()
}

// ProvideCatalog provides the SQLite catalog store.
func ProvideCatalog(i do.Injector) (*CatalogHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	dbPath := filepath.Clean(cfg.Catalog.DatabasePath)
	store, err := catalog.Open(dbPath, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Catalog initialized", "path", dbPath)

	return &CatalogHandle{Store: store}, nil
}
