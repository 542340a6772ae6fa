package store

import (
	"context"
	"sync"

	"github.com/RickSteadX/Telbooru/internal/domain"
)

// Memory is a process-lifetime PreferenceStore. It backs tests and
// deployments that do not need preferences to survive a restart.
// All records are deep-copied on the way in and out, so callers never
// share mutable state with the store.
type Memory struct {
	mu      sync.RWMutex
	records map[int64]*domain.UserPreferences
}

var _ PreferenceStore = (*Memory)(nil)

// NewMemory creates an empty in-memory preference store.
func NewMemory() *Memory {
	return &Memory{records: make(map[int64]*domain.UserPreferences)}
}

// Get returns a copy of the stored preferences, or fresh defaults.
func (m *Memory) Get(ctx context.Context, userID int64) (*domain.UserPreferences, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if prefs, ok := m.records[userID]; ok {
		return prefs.Clone(), nil
	}
	return domain.NewUserPreferences(userID), nil
}

// Save replaces the stored record with a copy of prefs.
func (m *Memory) Save(ctx context.Context, userID int64, prefs *domain.UserPreferences) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[userID] = prefs.Clone()
	return nil
}

// Delete removes the record. Returns true if one existed.
func (m *Memory) Delete(ctx context.Context, userID int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[userID]; !ok {
		return false, nil
	}
	delete(m.records, userID)
	return true, nil
}

// Exists reports whether a record exists for the user.
func (m *Memory) Exists(ctx context.Context, userID int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.records[userID]
	return ok, nil
}

// ListUserIDs returns the IDs of all stored users.
func (m *Memory) ListUserIDs(ctx context.Context) ([]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]int64, 0, len(m.records))
	for id := range m.records {
		ids = append(ids, id)
	}
	return ids, nil
}

// BulkSave saves every record; in-memory saves cannot partially fail.
func (m *Memory) BulkSave(ctx context.Context, updates map[int64]*domain.UserPreferences) (int, error) {
	for userID, prefs := range updates {
		if err := m.Save(ctx, userID, prefs); err != nil {
			return 0, err
		}
	}
	return len(updates), nil
}
