package providers

import (
	"github.com/samber/do/v2"

	"github.com/chapterforge/chapterforge-server/internal/chapterfile"
	"github.com/chapterforge/chapterforge-server/internal/config"
	"github.com/chapterforge/chapterforge-server/internal/dispatch"
	"github.com/chapterforge/chapterforge-server/internal/logger"
	"github.com/chapterforge/chapterforge-server/internal/service"
)

// ProvideChapterFileWriter provides the chapter XML writer.
func ProvideChapterFileWriter(i do.Injector) (*chapterfile.Writer, error) {
	log := do.MustInvoke[*logger.Logger](i)
	return chapterfile.NewWriter(log.Logger), nil
}

// ProvideDispatcher provides the batch dispatcher.
func ProvideDispatcher(i do.Injector) (*dispatch.Dispatcher, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	catalogHandle := do.MustInvoke[*CatalogHandle](i)
	writer := do.MustInvoke[*chapterfile.Writer](i)

	return dispatch.New(catalogHandle.Store, writer, cfg.Generate.SynthesisConfig(), log.Logger), nil
}

// ProvideGenerateService provides the generation orchestration service.
func ProvideGenerateService(i do.Injector) (*service.GenerateService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	catalogHandle := do.MustInvoke[*CatalogHandle](i)
	dispatcher := do.MustInvoke[*dispatch.Dispatcher](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)

	return service.NewGenerateService(
		catalogHandle.Store,
		dispatcher,
		sseHandle.Manager,
		cfg.Generate,
		log.Logger,
	), nil
}
