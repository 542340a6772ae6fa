package providers

import (
	"github.com/samber/do/v2"

	"github.com/RickSteadX/Telbooru/internal/config"
	"github.com/RickSteadX/Telbooru/internal/logger"
	"github.com/RickSteadX/Telbooru/internal/service"
	"github.com/RickSteadX/Telbooru/internal/session"
)

// ProvideSearchService provides the search orchestration service.
func ProvideSearchService(i do.Injector) (*service.SearchService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	clientHandle := do.MustInvoke[*BooruClientHandle](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sessions := do.MustInvoke[*session.Store](i)

	svc, err := service.NewSearchService(
		clientHandle.Client,
		storeHandle.Store,
		sessions,
		service.SearchConfig{
			PostsPerPage: cfg.Search.PostsPerPage,
			FetchLimit:   cfg.Search.FetchLimit,
			TagLimit:     cfg.Search.TagLimit,
		},
		log.Logger,
	)
	if err != nil {
		return nil, err
	}

	log.Info("Search service ready",
		"posts_per_page", cfg.Search.PostsPerPage,
		"fetch_limit", cfg.Search.FetchLimit,
	)

	return svc, nil
}

// ProvideUserService provides the user preference service.
func ProvideUserService(i do.Injector) (*service.UserService, error) {
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)

	return service.NewUserService(storeHandle.Store, log.Logger), nil
}
