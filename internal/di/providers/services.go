package providers

import (
	"github.com/samber/do/v2"

	"github.com/24061269-star/um-lost-and-found/internal/ai"
	"github.com/24061269-star/um-lost-and-found/internal/config"
	"github.com/24061269-star/um-lost-and-found/internal/enrich"
	"github.com/24061269-star/um-lost-and-found/internal/logger"
	"github.com/24061269-star/um-lost-and-found/internal/service"
)

// ProvideEnrichService provides the enrichment service.
func ProvideEnrichService(i do.Injector) (*enrich.Service, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	model := do.MustInvoke[*ai.OpenAIClient](i)
	log := do.MustInvoke[*logger.Logger](i)

	return enrich.NewService(storeHandle.Store, model, log.Logger), nil
}

// ProvideEnrichDispatcher provides the background enrichment dispatcher.
func ProvideEnrichDispatcher(i do.Injector) (*enrich.Dispatcher, error) {
	cfg := do.MustInvoke[*config.Config](i)
	svc := do.MustInvoke[*enrich.Service](i)
	log := do.MustInvoke[*logger.Logger](i)

	return enrich.NewDispatcher(svc, cfg.AI.EnrichJobTTL, log.Logger), nil
}

// ProvideItemService provides the item lifecycle service.
func ProvideItemService(i do.Injector) (*service.ItemService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	dispatcher := do.MustInvoke[*enrich.Dispatcher](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewItemService(storeHandle.Store, dispatcher, log.Logger), nil
}

// ProvideModerationService provides the moderation service.
func ProvideModerationService(i do.Injector) (*service.ModerationService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewModerationService(storeHandle.Store, log.Logger), nil
}

// ProvideSearchService provides the multi-modal search service.
func ProvideSearchService(i do.Injector) (*service.SearchService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	model := do.MustInvoke[*ai.OpenAIClient](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSearchService(storeHandle.Store, model, log.Logger), nil
}
