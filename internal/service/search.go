package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/RickSteadX/Telbooru/internal/booru"
	"github.com/RickSteadX/Telbooru/internal/domain"
	"github.com/RickSteadX/Telbooru/internal/id"
	"github.com/RickSteadX/Telbooru/internal/session"
)

// ErrEmptyResult marks a search that completed successfully but matched
// nothing. It is a distinguishable outcome, not a hard failure: the
// accompanying PageView is valid and has zero pages.
var ErrEmptyResult = errors.New("service: search matched no posts")

// MediaSource is the remote board as the orchestrator sees it.
// *booru.Client satisfies it; tests substitute fakes.
type MediaSource interface {
	Posts(ctx context.Context, q booru.PostQuery) ([]domain.Post, error)
	PostByID(ctx context.Context, id int64) (*domain.Post, error)
	Tags(ctx context.Context, q booru.TagQuery) ([]domain.Tag, error)
	Comments(ctx context.Context, postID int64) ([]domain.Comment, error)
	DeletedSince(ctx context.Context, lastID int64) ([]domain.Post, error)
}

// PreferenceReader is the slice of the preference store the orchestrator
// needs: it only ever reads.
type PreferenceReader interface {
	Get(ctx context.Context, userID int64) (*domain.UserPreferences, error)
}

// Direction selects the target page of a page turn.
type Direction struct {
	jump  bool
	page  int
	delta int
}

// Next moves one page forward.
func Next() Direction { return Direction{delta: 1} }

// Prev moves one page back.
func Prev() Direction { return Direction{delta: -1} }

// JumpTo moves to an absolute page index.
func JumpTo(page int) Direction { return Direction{jump: true, page: page} }

// SearchConfig tunes the orchestrator.
type SearchConfig struct {
	// PostsPerPage is the page size served to the front end (default 5).
	PostsPerPage int
	// FetchLimit is how many posts one search pulls from the board and
	// snapshots for pagination (default 50).
	FetchLimit int
	// TagLimit caps tag lookups when the caller passes no limit (default 20).
	TagLimit int
	// TagCacheSize bounds the in-process tag lookup cache (default 256).
	TagCacheSize int
}

func (c *SearchConfig) applyDefaults() {
	if c.PostsPerPage <= 0 {
		c.PostsPerPage = 5
	}
	if c.FetchLimit <= 0 {
		c.FetchLimit = 50
	}
	if c.TagLimit <= 0 {
		c.TagLimit = 20
	}
	if c.TagCacheSize <= 0 {
		c.TagCacheSize = 256
	}
}

// SearchService is the search orchestrator: the only component the
// conversational front end talks to for searching and paging. It merges
// preferences into the query, fetches once per search, and serves page
// turns from the session snapshot without touching the network.
type SearchService struct {
	source   MediaSource
	prefs    PreferenceReader
	sessions *session.Store
	tagCache *lru.Cache[string, []domain.Tag]
	logger   *slog.Logger
	cfg      SearchConfig
}

// NewSearchService creates the orchestrator.
func NewSearchService(source MediaSource, prefs PreferenceReader, sessions *session.Store, cfg SearchConfig, logger *slog.Logger) (*SearchService, error) {
	cfg.applyDefaults()

	tagCache, err := lru.New[string, []domain.Tag](cfg.TagCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create tag cache: %w", err)
	}

	return &SearchService{
		source:   source,
		prefs:    prefs,
		sessions: sessions,
		tagCache: tagCache,
		logger:   logger,
		cfg:      cfg,
	}, nil
}

// NewSearch runs a fresh search for the user: stored preferences merge
// into the raw query, the board is queried once, and the full result set
// is snapshotted into a new session starting at page zero.
//
// A zero-match search returns an empty PageView together with
// ErrEmptyResult and stores no session. Transport and payload failures
// from the board propagate unchanged.
func (s *SearchService) NewSearch(ctx context.Context, userID int64, rawQuery string) (*domain.PageView, error) {
	prefs, err := s.prefs.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load preferences: %w", err)
	}

	criteria := domain.BuildCriteria(rawQuery, prefs, s.cfg.FetchLimit, 0)
	s.logger.Debug("search criteria built",
		"user_id", userID,
		"raw_query", rawQuery,
		"tags", criteria.TagString(),
	)

	posts, err := s.source.Posts(ctx, booru.PostQuery{
		Tags:  criteria.TagString(),
		Limit: criteria.PageSize,
		Page:  criteria.PageOffset,
	})
	if err != nil {
		return nil, err
	}

	if len(posts) == 0 {
		s.logger.Info("search matched nothing", "user_id", userID, "tags", criteria.TagString())
		return &domain.PageView{PageIndex: 0, TotalPages: 0}, ErrEmptyResult
	}

	for i := range posts {
		posts[i].MediaKind = domain.ClassifyMediaKind(posts[i].FileURL)
	}

	sess := &domain.SearchSession{
		ID:           id.MustNew("search"),
		UserID:       userID,
		Query:        rawQuery,
		Tags:         criteria.Tags,
		Posts:        posts,
		PageIndex:    0,
		PostsPerPage: s.cfg.PostsPerPage,
	}
	s.sessions.Create(userID, sess)

	s.logger.Info("search completed",
		"user_id", userID,
		"posts", len(posts),
		"pages", sess.TotalPages(),
	)
	return sess.View(), nil
}

// TurnPage serves the next, previous, or an absolute page from the user's
// session snapshot. Purely in-memory: the board is never contacted. Fails
// with session.ErrNoActiveSession when no search preceded it.
func (s *SearchService) TurnPage(userID int64, dir Direction) (*domain.PageView, error) {
	sess, ok := s.sessions.Get(userID)
	if !ok {
		return nil, session.ErrNoActiveSession
	}

	target := dir.page
	if !dir.jump {
		target = sess.PageIndex + dir.delta
	}

	updated, err := s.sessions.SetPage(userID, target)
	if err != nil {
		return nil, err
	}
	return updated.View(), nil
}

// ClearSearch drops the user's session, if any.
func (s *SearchService) ClearSearch(userID int64) bool {
	return s.sessions.Clear(userID)
}

// ActiveSearches returns the number of users with a live session.
func (s *SearchService) ActiveSearches() int {
	return s.sessions.ActiveUserCount()
}

// TagLookup searches the board's tag index. The literal pattern is tried
// first; when it matches nothing the lookup retries exactly once with the
// pattern loosened to a substring wildcard. The fallback lives here so the
// client stays a faithful transport. Results are cached for the process
// lifetime in a bounded LRU.
func (s *SearchService) TagLookup(ctx context.Context, pattern string, limit int) ([]domain.Tag, error) {
	if limit <= 0 {
		limit = s.cfg.TagLimit
	}

	cacheKey := strconv.Itoa(limit) + ":" + pattern
	if tags, ok := s.tagCache.Get(cacheKey); ok {
		return tags, nil
	}

	tags, err := s.source.Tags(ctx, booru.TagQuery{Pattern: pattern, Limit: limit})
	if err != nil {
		return nil, err
	}

	if len(tags) == 0 {
		loosened := "%" + strings.Trim(pattern, "%*") + "%"
		s.logger.Debug("tag lookup fallback", "pattern", pattern, "loosened", loosened)
		tags, err = s.source.Tags(ctx, booru.TagQuery{Pattern: loosened, Limit: limit})
		if err != nil {
			return nil, err
		}
	}

	if len(tags) > 0 {
		s.tagCache.Add(cacheKey, tags)
	}
	return tags, nil
}

// PostByID fetches a single post, classified like search results.
// Returns nil, nil when the post does not exist.
func (s *SearchService) PostByID(ctx context.Context, postID int64) (*domain.Post, error) {
	post, err := s.source.PostByID(ctx, postID)
	if err != nil || post == nil {
		return post, err
	}
	post.MediaKind = domain.ClassifyMediaKind(post.FileURL)
	return post, nil
}

// Comments fetches the comments on a post.
func (s *SearchService) Comments(ctx context.Context, postID int64) ([]domain.Comment, error) {
	return s.source.Comments(ctx, postID)
}

// DeletedSince fetches posts deleted after the given ID.
func (s *SearchService) DeletedSince(ctx context.Context, lastID int64) ([]domain.Post, error) {
	return s.source.DeletedSince(ctx, lastID)
}
