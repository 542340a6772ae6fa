package booru

import (
	"context"
	"net/url"
	"strconv"

	"github.com/RickSteadX/Telbooru/internal/domain"
)

// PostQuery describes a post search against the board.
type PostQuery struct {
	Tags     string // space-joined canonical tags
	Limit    int    // records per request, clamped to the board maximum
	Page     int    // zero-based page offset (dapi "pid")
	ID       int64  // fetch a single post when > 0
	ChangeID int64  // filter by change sequence when > 0
}

// Posts retrieves posts matching the query. A syntactically valid query
// with no matches returns an empty slice and no error.
func (c *Client) Posts(ctx context.Context, q PostQuery) ([]domain.Post, error) {
	limit := q.Limit
	if limit <= 0 || limit > maxLimit {
		limit = maxLimit
	}

	query := url.Values{}
	query.Set("s", "post")
	query.Set("limit", strconv.Itoa(limit))
	query.Set("pid", strconv.Itoa(q.Page))
	if q.Tags != "" {
		query.Set("tags", q.Tags)
	}
	if q.ID > 0 {
		query.Set("id", strconv.FormatInt(q.ID, 10))
	}
	if q.ChangeID > 0 {
		query.Set("cid", strconv.FormatInt(q.ChangeID, 10))
	}

	body, err := c.doRequest(ctx, query)
	if err != nil {
		return nil, wrapError("posts", err)
	}

	raws, err := decodeList[rawPost](body, "post", "posts")
	if err != nil {
		return nil, wrapError("posts", err)
	}

	posts := make([]domain.Post, 0, len(raws))
	for _, r := range raws {
		posts = append(posts, domain.Post{
			ID:         r.ID,
			Width:      r.Width,
			Height:     r.Height,
			Score:      r.Score,
			PreviewURL: r.PreviewURL,
			SampleURL:  r.SampleURL,
			FileURL:    r.FileURL,
		})
	}
	return posts, nil
}

// PostByID retrieves a single post. Returns nil, nil when the post does
// not exist.
func (c *Client) PostByID(ctx context.Context, id int64) (*domain.Post, error) {
	posts, err := c.Posts(ctx, PostQuery{ID: id, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, nil
	}
	return &posts[0], nil
}

// DeletedSince retrieves posts deleted after the given ID. A zero lastID
// retrieves the full deletion log the board is willing to serve.
func (c *Client) DeletedSince(ctx context.Context, lastID int64) ([]domain.Post, error) {
	query := url.Values{}
	query.Set("s", "post")
	query.Set("deleted", "show")
	if lastID > 0 {
		query.Set("last_id", strconv.FormatInt(lastID, 10))
	}

	body, err := c.doRequest(ctx, query)
	if err != nil {
		return nil, wrapError("deleted", err)
	}

	raws, err := decodeList[rawPost](body, "post", "posts")
	if err != nil {
		return nil, wrapError("deleted", err)
	}

	posts := make([]domain.Post, 0, len(raws))
	for _, r := range raws {
		posts = append(posts, domain.Post{
			ID:         r.ID,
			Width:      r.Width,
			Height:     r.Height,
			Score:      r.Score,
			PreviewURL: r.PreviewURL,
			SampleURL:  r.SampleURL,
			FileURL:    r.FileURL,
		})
	}
	return posts, nil
}
