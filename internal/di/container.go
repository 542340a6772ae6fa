// Package di provides dependency injection configuration for the Telbooru server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/RickSteadX/Telbooru/internal/config"
	"github.com/RickSteadX/Telbooru/internal/di/providers"
	"github.com/RickSteadX/Telbooru/internal/logger"
	"github.com/RickSteadX/Telbooru/internal/service"
	"github.com/RickSteadX/Telbooru/internal/session"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideSessionStore)

	// Remote board client
	do.Provide(injector, providers.ProvideBooruClient)

	// Business services
	do.Provide(injector, providers.ProvideSearchService)
	do.Provide(injector, providers.ProvideUserService)

	// Workers
	do.Provide(injector, providers.ProvideSessionSweeper)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*session.Store](injector)
	_ = do.MustInvoke[*providers.BooruClientHandle](injector)
	_ = do.MustInvoke[*service.SearchService](injector)
	_ = do.MustInvoke[*service.UserService](injector)
	_ = do.MustInvoke[*providers.SessionSweeper](injector)

	return nil
}
