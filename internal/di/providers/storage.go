package providers

import (
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/RickSteadX/Telbooru/internal/config"
	"github.com/RickSteadX/Telbooru/internal/logger"
	"github.com/RickSteadX/Telbooru/internal/session"
	"github.com/RickSteadX/Telbooru/internal/store"
)

// StoreHandle wraps the preference store with shutdown capability.
type StoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the persistent preference store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	dbPath := filepath.Join(cfg.Data.BasePath, "db")
	db, err := store.Open(dbPath, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Preference store initialized", "path", dbPath)

	return &StoreHandle{Store: db}, nil
}

// ProvideSessionStore provides the in-memory search session store.
func ProvideSessionStore(i do.Injector) (*session.Store, error) {
	log := do.MustInvoke[*logger.Logger](i)
	return session.New(log.Logger), nil
}
