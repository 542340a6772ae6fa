package providers

import (
	"github.com/samber/do/v2"

	"github.com/RickSteadX/Telbooru/internal/booru"
	"github.com/RickSteadX/Telbooru/internal/config"
	"github.com/RickSteadX/Telbooru/internal/logger"
)

// BooruClientHandle wraps the board client with shutdown capability.
type BooruClientHandle struct {
	*booru.Client
}

// Shutdown implements do.Shutdownable.
func (h *BooruClientHandle) Shutdown() error {
	h.Client.Close()
	return nil
}

// ProvideBooruClient provides the remote board API client.
func ProvideBooruClient(i do.Injector) (*BooruClientHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	client := booru.New(booru.Config{
		BaseURL: cfg.Booru.BaseURL,
		APIKey:  cfg.Booru.APIKey,
		UserID:  cfg.Booru.UserID,
		Timeout: cfg.Booru.Timeout,
	}, log.Logger)

	log.Info("Board client ready", "base_url", cfg.Booru.BaseURL)

	return &BooruClientHandle{Client: client}, nil
}
