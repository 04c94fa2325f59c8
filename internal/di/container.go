// Package di provides dependency injection configuration for the lost-and-found server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/24061269-star/um-lost-and-found/internal/auth"
	"github.com/24061269-star/um-lost-and-found/internal/config"
	"github.com/24061269-star/um-lost-and-found/internal/di/providers"
	"github.com/24061269-star/um-lost-and-found/internal/enrich"
	"github.com/24061269-star/um-lost-and-found/internal/logger"
	"github.com/24061269-star/um-lost-and-found/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Model layer
	do.Provide(injector, providers.ProvideModelClient)
	do.Provide(injector, providers.ProvideEnrichService)
	do.Provide(injector, providers.ProvideEnrichDispatcher)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)

	// Business services
	do.Provide(injector, providers.ProvideItemService)
	do.Provide(injector, providers.ProvideModerationService)
	do.Provide(injector, providers.ProvideSearchService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*enrich.Service](injector)
	_ = do.MustInvoke[*enrich.Dispatcher](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)

	// Business services
	_ = do.MustInvoke[*service.ItemService](injector)
	_ = do.MustInvoke[*service.ModerationService](injector)
	_ = do.MustInvoke[*service.SearchService](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
