package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coloredin/coloredin-server/internal/domain"
	"github.com/coloredin/coloredin-server/internal/plan"
	"github.com/coloredin/coloredin-server/internal/service"
)

func TestGetFeed_UserPalettesFirstOnPageZero(t *testing.T) {
	ts := setupTestServer(t)
	mine := createPalette(t, ts, "user-1", CreatePaletteRequest{
		Name:   "Mine",
		Colors: []string{"#000000", "#111111", "#222222", "#333333", "#444444"},
	})

	resp := ts.api.Get("/api/v1/feed?page=0&page_size=10", ts.bearer(t, "user-1"))
	require.Equal(t, http.StatusOK, resp.Code)

	feed := decodeData[service.FeedPage](t, resp.Body.Bytes())
	assert.Equal(t, plan.Free, feed.Plan)
	assert.Equal(t, 1, feed.UserCount)
	require.Len(t, feed.Items, 11)
	assert.Equal(t, mine.ID, feed.Items[0].ID)
	assert.Equal(t, domain.FeedSourceUser, feed.Items[0].Source)
	for _, item := range feed.Items[1:] {
		assert.Equal(t, domain.FeedSourceCatalog, item.Source)
	}

	resp = ts.api.Get("/api/v1/feed?page=1&page_size=10", ts.bearer(t, "user-1"))
	require.Equal(t, http.StatusOK, resp.Code)
	feed = decodeData[service.FeedPage](t, resp.Body.Bytes())
	assert.Zero(t, feed.UserCount)
	require.Len(t, feed.Items, 10)
	assert.Equal(t, "11", feed.Items[0].ID)
}

func TestGetFeed_Anonymous(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/feed")
	require.Equal(t, http.StatusOK, resp.Code)

	feed := decodeData[service.FeedPage](t, resp.Body.Bytes())
	assert.Zero(t, feed.UserCount)
	assert.Equal(t, plan.Free.Ceiling(), feed.Total)
	assert.Len(t, feed.Items, 50)
	assert.True(t, feed.HasMore)
}
