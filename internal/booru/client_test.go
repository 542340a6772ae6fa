package booru

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func fixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return data
}

// newTestServer serves the given body and captures the last request query.
func newTestServer(t *testing.T, status int, body []byte) (*httptest.Server, *url.Values) {
	t.Helper()
	var captured url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.URL.Query()
		w.WriteHeader(status)
		_, _ = w.Write(body)
	}))
	t.Cleanup(server.Close)
	return server, &captured
}

func TestPostsDecodesEnvelope(t *testing.T) {
	server, captured := newTestServer(t, http.StatusOK, fixture(t, "posts_response.json"))
	client := New(Config{BaseURL: server.URL}, testLogger())

	posts, err := client.Posts(context.Background(), PostQuery{Tags: "cat", Limit: 50, Page: 2})
	require.NoError(t, err)
	require.Len(t, posts, 2)

	assert.Equal(t, int64(9001), posts[0].ID)
	assert.Equal(t, 1920, posts[0].Width)
	assert.Equal(t, 1080, posts[0].Height)
	assert.Equal(t, 42, posts[0].Score)
	assert.Contains(t, posts[0].FileURL, ".jpg")
	assert.Contains(t, posts[1].FileURL, ".webm")

	// dapi protocol switches plus the caller's parameters.
	q := *captured
	assert.Equal(t, "dapi", q.Get("page"))
	assert.Equal(t, "post", q.Get("s"))
	assert.Equal(t, "index", q.Get("q"))
	assert.Equal(t, "1", q.Get("json"))
	assert.Equal(t, "cat", q.Get("tags"))
	assert.Equal(t, "50", q.Get("limit"))
	assert.Equal(t, "2", q.Get("pid"))
}

func TestPostsBareArray(t *testing.T) {
	server, _ := newTestServer(t, http.StatusOK, []byte(`[{"id": 1, "file_url": "https://x/a.png"}]`))
	client := New(Config{BaseURL: server.URL}, testLogger())

	posts, err := client.Posts(context.Background(), PostQuery{Tags: "cat"})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, int64(1), posts[0].ID)
}

func TestPostsLoneObject(t *testing.T) {
	server, _ := newTestServer(t, http.StatusOK, []byte(`{"post": {"id": 5, "file_url": "https://x/a.png"}}`))
	client := New(Config{BaseURL: server.URL}, testLogger())

	posts, err := client.Posts(context.Background(), PostQuery{ID: 5})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, int64(5), posts[0].ID)
}

func TestPostsZeroMatches(t *testing.T) {
	bodies := [][]byte{
		[]byte(`{"@attributes": {"limit": 100, "offset": 0, "count": 0}}`),
		[]byte(``),
		[]byte(`[]`),
	}

	for _, body := range bodies {
		server, _ := newTestServer(t, http.StatusOK, body)
		client := New(Config{BaseURL: server.URL}, testLogger())

		posts, err := client.Posts(context.Background(), PostQuery{Tags: "nomatches"})
		require.NoError(t, err, "body %q", body)
		assert.Empty(t, posts)
	}
}

func TestPostsLimitClamped(t *testing.T) {
	server, captured := newTestServer(t, http.StatusOK, []byte(`[]`))
	client := New(Config{BaseURL: server.URL}, testLogger())

	_, err := client.Posts(context.Background(), PostQuery{Limit: 9999})
	require.NoError(t, err)
	assert.Equal(t, "100", (*captured).Get("limit"))

	_, err = client.Posts(context.Background(), PostQuery{})
	require.NoError(t, err)
	assert.Equal(t, "100", (*captured).Get("limit"))
}

func TestPostByID(t *testing.T) {
	server, captured := newTestServer(t, http.StatusOK, []byte(`{"post": [{"id": 9001, "file_url": "https://x/a.jpg"}]}`))
	client := New(Config{BaseURL: server.URL}, testLogger())

	post, err := client.PostByID(context.Background(), 9001)
	require.NoError(t, err)
	require.NotNil(t, post)
	assert.Equal(t, int64(9001), post.ID)
	assert.Equal(t, "9001", (*captured).Get("id"))
}

func TestPostByIDNotFound(t *testing.T) {
	server, _ := newTestServer(t, http.StatusOK, []byte(`{"@attributes": {"count": 0}}`))
	client := New(Config{BaseURL: server.URL}, testLogger())

	post, err := client.PostByID(context.Background(), 404404)
	require.NoError(t, err)
	assert.Nil(t, post)
}

func TestDeletedSince(t *testing.T) {
	server, captured := newTestServer(t, http.StatusOK, []byte(`{"post": [{"id": 777}]}`))
	client := New(Config{BaseURL: server.URL}, testLogger())

	posts, err := client.DeletedSince(context.Background(), 500)
	require.NoError(t, err)
	require.Len(t, posts, 1)

	q := *captured
	assert.Equal(t, "show", q.Get("deleted"))
	assert.Equal(t, "500", q.Get("last_id"))
}

func TestTags(t *testing.T) {
	server, captured := newTestServer(t, http.StatusOK, fixture(t, "tags_response.json"))
	client := New(Config{BaseURL: server.URL}, testLogger())

	tags, err := client.Tags(context.Background(), TagQuery{Pattern: "cat*", Limit: 20})
	require.NoError(t, err)
	require.Len(t, tags, 3)
	assert.Equal(t, "cat", tags[0].Name)
	assert.Equal(t, 241893, tags[0].Count)

	q := *captured
	assert.Equal(t, "tag", q.Get("s"))
	assert.Equal(t, "cat*", q.Get("tags"))
	assert.Equal(t, "20", q.Get("limit"))
	// Defaults applied when the caller leaves ordering unset.
	assert.Equal(t, "ASC", q.Get("order"))
	assert.Equal(t, "name", q.Get("orderby"))
}

func TestComments(t *testing.T) {
	server, captured := newTestServer(t, http.StatusOK, fixture(t, "comments_response.json"))
	client := New(Config{BaseURL: server.URL}, testLogger())

	comments, err := client.Comments(context.Background(), 9001)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "first_commenter", comments[0].Author)
	assert.Equal(t, int64(9001), comments[0].PostID)
	assert.Equal(t, "9001", (*captured).Get("post_id"))
}

func TestAuthCredentials(t *testing.T) {
	server, captured := newTestServer(t, http.StatusOK, []byte(`[]`))
	client := New(Config{BaseURL: server.URL, APIKey: "secret", UserID: "1234"}, testLogger())

	_, err := client.Posts(context.Background(), PostQuery{Tags: "cat"})
	require.NoError(t, err)

	q := *captured
	assert.Equal(t, "secret", q.Get("api_key"))
	assert.Equal(t, "1234", q.Get("user_id"))
}

func TestNoAuthWhenUnconfigured(t *testing.T) {
	server, captured := newTestServer(t, http.StatusOK, []byte(`[]`))
	client := New(Config{BaseURL: server.URL}, testLogger())

	_, err := client.Posts(context.Background(), PostQuery{Tags: "cat"})
	require.NoError(t, err)

	assert.False(t, (*captured).Has("api_key"))
	assert.False(t, (*captured).Has("user_id"))
}

func TestServerErrorsMapToConnection(t *testing.T) {
	for _, status := range []int{http.StatusInternalServerError, http.StatusBadGateway, http.StatusTooManyRequests} {
		server, _ := newTestServer(t, status, nil)
		client := New(Config{BaseURL: server.URL}, testLogger())

		_, err := client.Posts(context.Background(), PostQuery{Tags: "cat"})
		assert.ErrorIs(t, err, ErrConnection, "status %d", status)
	}
}

func TestClientErrorsMapToData(t *testing.T) {
	server, _ := newTestServer(t, http.StatusForbidden, []byte("access denied"))
	client := New(Config{BaseURL: server.URL}, testLogger())

	_, err := client.Posts(context.Background(), PostQuery{Tags: "cat"})
	assert.ErrorIs(t, err, ErrData)
	assert.NotErrorIs(t, err, ErrConnection)
}

func TestMalformedPayloadMapsToData(t *testing.T) {
	server, _ := newTestServer(t, http.StatusOK, []byte(`<html>maintenance</html>`))
	client := New(Config{BaseURL: server.URL}, testLogger())

	_, err := client.Posts(context.Background(), PostQuery{Tags: "cat"})
	assert.ErrorIs(t, err, ErrData)
}

func TestUnreachableHostMapsToConnection(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()
	client := New(Config{BaseURL: server.URL}, testLogger())

	_, err := client.Posts(context.Background(), PostQuery{Tags: "cat"})
	assert.ErrorIs(t, err, ErrConnection)
}

func TestCancelledContext(t *testing.T) {
	server, _ := newTestServer(t, http.StatusOK, []byte(`[]`))
	client := New(Config{BaseURL: server.URL}, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Posts(ctx, PostQuery{Tags: "cat"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestErrorCarriesOperation(t *testing.T) {
	server, _ := newTestServer(t, http.StatusForbidden, nil)
	client := New(Config{BaseURL: server.URL}, testLogger())

	_, err := client.Tags(context.Background(), TagQuery{Pattern: "cat*"})
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "tags", apiErr.Op)
}
