package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/dgraph-io/badger/v4"

	"github.com/RickSteadX/Telbooru/internal/domain"
)

const prefsPrefix = "prefs:"

// Store is the Badger-backed PreferenceStore. Records are stored as JSON
// values under per-user keys; Badger transactions give atomic replace and
// per-key linearizability.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

var _ PreferenceStore = (*Store)(nil)

// Open opens (or creates) the preference database at path.
func Open(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil      // Disable Badger's internal logging
	opts.SyncWrites = true // Settings are tiny and precious; sync every write

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}

	if logger != nil {
		logger.Info("preference database opened", "path", path)
	}

	return &Store{db: db, logger: logger}, nil
}

// Close gracefully closes the database.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("closing preference database")
	}
	return s.db.Close()
}

func prefsKey(userID int64) []byte {
	return []byte(prefsPrefix + strconv.FormatInt(userID, 10))
}

// Get retrieves a user's preferences. Missing or unreadable records yield
// fresh defaults; no record is created.
func (s *Store) Get(ctx context.Context, userID int64) (*domain.UserPreferences, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var prefs *domain.UserPreferences
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(prefsKey(userID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			prefs = domain.NewUserPreferences(userID)
			return nil
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			var stored domain.UserPreferences
			if uerr := json.Unmarshal(val, &stored); uerr != nil {
				// Corrupt record: availability beats durability here.
				// Substitute defaults and move on.
				s.logger.Warn("unreadable preference record, using defaults",
					"user_id", userID, "error", uerr)
				prefs = domain.NewUserPreferences(userID)
				return nil
			}
			stored.UserID = userID
			prefs = normalize(&stored)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("get preferences: %w", err)
	}
	return prefs, nil
}

// Save atomically replaces a user's preference record.
func (s *Store) Save(ctx context.Context, userID int64, prefs *domain.UserPreferences) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("marshal preferences: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(prefsKey(userID), data)
	})
	if err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}

// Delete removes a user's record. Returns true if one existed.
func (s *Store) Delete(ctx context.Context, userID int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	existed, err := s.Exists(ctx, userID)
	if err != nil {
		return false, err
	}
	if !existed {
		return false, nil
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(prefsKey(userID))
	})
	if err != nil {
		return false, fmt.Errorf("delete preferences: %w", err)
	}
	return true, nil
}

// Exists reports whether a durable record exists for the user.
func (s *Store) Exists(ctx context.Context, userID int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(prefsKey(userID))
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check preferences: %w", err)
	}
	return true, nil
}

// ListUserIDs returns the IDs of all users with stored preferences.
// Keys that do not parse as user IDs are skipped.
func (s *Store) ListUserIDs(ctx context.Context) ([]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := []byte(prefsPrefix)
	var ids []int64

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := string(it.Item().Key())
			id, perr := strconv.ParseInt(key[len(prefsPrefix):], 10, 64)
			if perr != nil {
				s.logger.Warn("skipping malformed preference key", "key", key)
				continue
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list user ids: %w", err)
	}
	return ids, nil
}

// BulkSave saves each record independently; one failed record does not
// block the rest. Returns the number of successful saves.
func (s *Store) BulkSave(ctx context.Context, updates map[int64]*domain.UserPreferences) (int, error) {
	saved := 0
	for userID, prefs := range updates {
		if err := s.Save(ctx, userID, prefs); err != nil {
			s.logger.Warn("bulk save: record failed", "user_id", userID, "error", err)
			continue
		}
		saved++
	}
	return saved, nil
}

// normalize ensures a decoded record is fully shaped: nil slices become
// empty so nothing downstream sees a partially defined value.
func normalize(p *domain.UserPreferences) *domain.UserPreferences {
	if p.AutoTags == nil {
		p.AutoTags = []string{}
	}
	if p.ToggleRules == nil {
		p.ToggleRules = []domain.ToggleRule{}
	}
	return p
}
