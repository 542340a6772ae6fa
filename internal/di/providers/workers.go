package providers

import (
	"context"
	"time"

	"github.com/samber/do/v2"

	"github.com/RickSteadX/Telbooru/internal/config"
	"github.com/RickSteadX/Telbooru/internal/logger"
	"github.com/RickSteadX/Telbooru/internal/session"
)

// SessionSweeper runs periodic eviction of idle search sessions.
type SessionSweeper struct {
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (s *SessionSweeper) Shutdown() error {
	s.cancel()
	return nil
}

// ProvideSessionSweeper provides the periodic idle session eviction job.
func ProvideSessionSweeper(i do.Injector) (*SessionSweeper, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	sessions := do.MustInvoke[*session.Store](i)

	ttl := cfg.Session.TTL
	interval := cfg.Session.SweepInterval

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if count := sessions.EvictIdle(ttl); count > 0 {
					log.Info("Idle sessions evicted", "count", count)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	log.Info("Session sweeper started", "ttl", ttl, "interval", interval)

	return &SessionSweeper{cancel: cancel}, nil
}
