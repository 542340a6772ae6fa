package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/RickSteadX/Telbooru/internal/domain"
	"github.com/RickSteadX/Telbooru/internal/store"
)

// UserService manages per-user search preferences. All mutations are
// read-modify-write against the preference store with last-writer-wins
// semantics; same-user calls are serialized by the caller.
type UserService struct {
	prefs  store.PreferenceStore
	logger *slog.Logger
}

// NewUserService creates the user preference service.
func NewUserService(prefs store.PreferenceStore, logger *slog.Logger) *UserService {
	return &UserService{prefs: prefs, logger: logger}
}

// Preferences returns the user's preferences, defaults included.
func (s *UserService) Preferences(ctx context.Context, userID int64) (*domain.UserPreferences, error) {
	return s.prefs.Get(ctx, userID)
}

// AddAutoTag stores a tag that is appended to every search.
// Returns false when the tag was already stored.
func (s *UserService) AddAutoTag(ctx context.Context, userID int64, tag string) (bool, error) {
	prefs, err := s.prefs.Get(ctx, userID)
	if err != nil {
		return false, err
	}

	if !prefs.AddAutoTag(tag) {
		return false, nil
	}
	if err := s.prefs.Save(ctx, userID, prefs); err != nil {
		return false, fmt.Errorf("save preferences: %w", err)
	}

	s.logger.Info("auto tag added", "user_id", userID, "tag", tag)
	return true, nil
}

// RemoveAutoTag removes a stored auto tag.
// Returns false when the tag was not stored.
func (s *UserService) RemoveAutoTag(ctx context.Context, userID int64, tag string) (bool, error) {
	prefs, err := s.prefs.Get(ctx, userID)
	if err != nil {
		return false, err
	}

	if !prefs.RemoveAutoTag(tag) {
		return false, nil
	}
	if err := s.prefs.Save(ctx, userID, prefs); err != nil {
		return false, fmt.Errorf("save preferences: %w", err)
	}

	s.logger.Info("auto tag removed", "user_id", userID, "tag", tag)
	return true, nil
}

// RemoveAutoTagAt removes the auto tag at the given position, returning
// it. ok is false for an out-of-range index.
func (s *UserService) RemoveAutoTagAt(ctx context.Context, userID int64, index int) (tag string, ok bool, err error) {
	prefs, err := s.prefs.Get(ctx, userID)
	if err != nil {
		return "", false, err
	}

	tag, ok = prefs.RemoveAutoTagAt(index)
	if !ok {
		return "", false, nil
	}
	if err := s.prefs.Save(ctx, userID, prefs); err != nil {
		return "", false, fmt.Errorf("save preferences: %w", err)
	}

	s.logger.Info("auto tag removed", "user_id", userID, "tag", tag, "index", index)
	return tag, true, nil
}

// ClearAutoTags removes all auto tags and returns how many there were.
func (s *UserService) ClearAutoTags(ctx context.Context, userID int64) (int, error) {
	prefs, err := s.prefs.Get(ctx, userID)
	if err != nil {
		return 0, err
	}

	n := prefs.ClearAutoTags()
	if n == 0 {
		return 0, nil
	}
	if err := s.prefs.Save(ctx, userID, prefs); err != nil {
		return 0, fmt.Errorf("save preferences: %w", err)
	}

	s.logger.Info("auto tags cleared", "user_id", userID, "count", n)
	return n, nil
}

// ToggleRule flips a toggle rule and returns its new state. Unknown rules
// are created enabled, with the rule name as the injected fragment.
func (s *UserService) ToggleRule(ctx context.Context, userID int64, name string) (bool, error) {
	prefs, err := s.prefs.Get(ctx, userID)
	if err != nil {
		return false, err
	}

	enabled := prefs.Toggle(name)
	if err := s.prefs.Save(ctx, userID, prefs); err != nil {
		return false, fmt.Errorf("save preferences: %w", err)
	}

	s.logger.Info("rule toggled", "user_id", userID, "rule", name, "enabled", enabled)
	return enabled, nil
}

// SetRule forces a rule to a specific state.
func (s *UserService) SetRule(ctx context.Context, userID int64, name string, enabled bool) error {
	prefs, err := s.prefs.Get(ctx, userID)
	if err != nil {
		return err
	}

	prefs.SetRule(name, enabled)
	if err := s.prefs.Save(ctx, userID, prefs); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}

	s.logger.Info("rule set", "user_id", userID, "rule", name, "enabled", enabled)
	return nil
}

// EnabledRules returns the user's enabled rules in stored order.
func (s *UserService) EnabledRules(ctx context.Context, userID int64) ([]domain.ToggleRule, error) {
	prefs, err := s.prefs.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return prefs.EnabledRules(), nil
}

// ResetUser restores the user's preferences to defaults.
func (s *UserService) ResetUser(ctx context.Context, userID int64) error {
	if err := s.prefs.Save(ctx, userID, domain.NewUserPreferences(userID)); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	s.logger.Info("preferences reset", "user_id", userID)
	return nil
}

// DeleteUser removes the user's stored record entirely.
// Returns false when no record existed.
func (s *UserService) DeleteUser(ctx context.Context, userID int64) (bool, error) {
	deleted, err := s.prefs.Delete(ctx, userID)
	if err != nil {
		return false, err
	}
	if deleted {
		s.logger.Info("user deleted", "user_id", userID)
	}
	return deleted, nil
}

// Exists reports whether the user has a durable preference record.
func (s *UserService) Exists(ctx context.Context, userID int64) (bool, error) {
	return s.prefs.Exists(ctx, userID)
}

// ListUsers returns all users with stored preferences.
func (s *UserService) ListUsers(ctx context.Context) ([]int64, error) {
	return s.prefs.ListUserIDs(ctx)
}
