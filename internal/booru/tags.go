package booru

import (
	"context"
	"net/url"
	"strconv"

	"github.com/RickSteadX/Telbooru/internal/domain"
)

// TagQuery describes a tag search against the board's tag index.
// The client sends the caller's pattern verbatim; any fallback rewriting
// is the orchestrator's business, never this package's.
type TagQuery struct {
	Pattern string // wildcard pattern matched against tag names
	Name    string // exact tag name
	Names   string // space-separated list of exact names
	Limit   int
	AfterID int64  // return tags with an ID greater than this
	Order   string // ASC or DESC, defaults to ASC
	OrderBy string // sort field, defaults to name
}

// Tags retrieves tag records matching the query, in board order.
func (c *Client) Tags(ctx context.Context, q TagQuery) ([]domain.Tag, error) {
	limit := q.Limit
	if limit <= 0 || limit > maxLimit {
		limit = maxLimit
	}

	order := q.Order
	if order == "" {
		order = "ASC"
	}
	orderBy := q.OrderBy
	if orderBy == "" {
		orderBy = "name"
	}

	query := url.Values{}
	query.Set("s", "tag")
	query.Set("limit", strconv.Itoa(limit))
	query.Set("order", order)
	query.Set("orderby", orderBy)
	if q.Pattern != "" {
		query.Set("tags", q.Pattern)
	}
	if q.Name != "" {
		query.Set("name", q.Name)
	}
	if q.Names != "" {
		query.Set("names", q.Names)
	}
	if q.AfterID > 0 {
		query.Set("after_id", strconv.FormatInt(q.AfterID, 10))
	}

	body, err := c.doRequest(ctx, query)
	if err != nil {
		return nil, wrapError("tags", err)
	}

	raws, err := decodeList[rawTag](body, "tag", "tags")
	if err != nil {
		return nil, wrapError("tags", err)
	}

	tags := make([]domain.Tag, 0, len(raws))
	for _, r := range raws {
		tags = append(tags, domain.Tag{
			ID:    r.ID,
			Name:  r.Name,
			Count: r.Count,
			Type:  r.Type,
		})
	}
	return tags, nil
}

// Comments retrieves comments for a post.
func (c *Client) Comments(ctx context.Context, postID int64) ([]domain.Comment, error) {
	query := url.Values{}
	query.Set("s", "comment")
	query.Set("post_id", strconv.FormatInt(postID, 10))

	body, err := c.doRequest(ctx, query)
	if err != nil {
		return nil, wrapError("comments", err)
	}

	raws, err := decodeList[rawComment](body, "comment", "comments")
	if err != nil {
		return nil, wrapError("comments", err)
	}

	comments := make([]domain.Comment, 0, len(raws))
	for _, r := range raws {
		comments = append(comments, domain.Comment{
			ID:        r.ID,
			PostID:    r.PostID,
			Author:    r.Author,
			Body:      r.Body,
			CreatedAt: r.CreatedAt,
		})
	}
	return comments, nil
}
