package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/24061269-star/um-lost-and-found/internal/domain"
	domainerrors "github.com/24061269-star/um-lost-and-found/internal/errors"
	"github.com/24061269-star/um-lost-and-found/internal/ratelimit"
)

// seedSearchCorpus stores approved items with embeddings along a single
// axis, plus a pending item that must never surface.
func (ts *testServer) seedSearchCorpus(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	vectors := map[string][]float32{
		"item-wallet": {1, 0},
		"item-bottle": {0, 1},
	}
	for itemID, vec := range vectors {
		ts.seedItem(t, itemID, "owner-1", domain.ItemStatusApproved)
		require.NoError(t, ts.store.UpsertItemEmbedding(ctx, &domain.ItemEmbedding{
			ItemID: itemID, Vector: vec, Provider: "test",
		}))
	}
	require.NoError(t, ts.store.ReplaceItemTags(ctx, "item-wallet", []string{"black", "wallet"}))

	pending := ts.seedItem(t, "item-hidden", "owner-1", domain.ItemStatusPending)
	require.NoError(t, ts.store.UpsertItemEmbedding(ctx, &domain.ItemEmbedding{
		ItemID: pending.ID, Vector: []float32{1, 0}, Provider: "test",
	}))
}

func TestSearch_Browse(t *testing.T) {
	ts := setupTestServer(t)
	ts.seedSearchCorpus(t)

	resp := ts.api.Post("/api/v1/search", map[string]any{})
	require.Equal(t, http.StatusOK, resp.Code, "search failed: %s", resp.Body.String())

	envelope := decodeEnvelope[SearchResponse](t, resp.Body.Bytes())
	assert.Len(t, envelope.Data.Results, 2, "only approved items surface")
	for _, r := range envelope.Data.Results {
		assert.Nil(t, r.Similarity, "browse carries no similarity")
		assert.NotEqual(t, "item-hidden", r.Item.ID)
	}
}

func TestSearch_Keyword(t *testing.T) {
	ts := setupTestServer(t)
	ts.seedSearchCorpus(t)
	ts.model.vector = []float32{1, 0}

	resp := ts.api.Post("/api/v1/search", map[string]any{"keyword": "black wallet"})
	require.Equal(t, http.StatusOK, resp.Code)

	envelope := decodeEnvelope[SearchResponse](t, resp.Body.Bytes())
	require.NotEmpty(t, envelope.Data.Results)
	assert.Equal(t, "item-wallet", envelope.Data.Results[0].Item.ID)
	require.NotNil(t, envelope.Data.Results[0].Similarity)
	assert.InDelta(t, 1.0, *envelope.Data.Results[0].Similarity, 0.001)
}

func TestSearch_TagFilter(t *testing.T) {
	ts := setupTestServer(t)
	ts.seedSearchCorpus(t)

	resp := ts.api.Post("/api/v1/search", map[string]any{"tags": []string{"wallet"}})
	require.Equal(t, http.StatusOK, resp.Code)

	envelope := decodeEnvelope[SearchResponse](t, resp.Body.Bytes())
	require.Len(t, envelope.Data.Results, 1)
	assert.Equal(t, "item-wallet", envelope.Data.Results[0].Item.ID)

	// A tag nothing carries short-circuits to an empty result.
	resp = ts.api.Post("/api/v1/search", map[string]any{"tags": []string{"umbrella"}})
	require.Equal(t, http.StatusOK, resp.Code)

	envelope = decodeEnvelope[SearchResponse](t, resp.Body.Bytes())
	assert.Empty(t, envelope.Data.Results)
}

func TestSearch_InvalidLimit(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/search", map[string]any{"limit": 100})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	envelope := decodeEnvelope[struct{}](t, resp.Body.Bytes())
	assert.Equal(t, "VALIDATION", envelope.Code)
}

func TestSearch_ModelFailure(t *testing.T) {
	ts := setupTestServer(t)
	ts.seedSearchCorpus(t)
	ts.model.embedErr = domainerrors.Dependency("model request failed")

	resp := ts.api.Post("/api/v1/search", map[string]any{"keyword": "wallet"})
	assert.Equal(t, http.StatusBadGateway, resp.Code)

	envelope := decodeEnvelope[struct{}](t, resp.Body.Bytes())
	assert.Equal(t, "DEPENDENCY", envelope.Code)
}

func TestSearch_RateLimited(t *testing.T) {
	ts := setupTestServer(t)
	ts.seedSearchCorpus(t)

	// Swap in a limiter that allows exactly one request.
	ts.searchLimiter.Stop()
	ts.searchLimiter = ratelimit.New(0, 1)

	resp := ts.api.Post("/api/v1/search", map[string]any{})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Post("/api/v1/search", map[string]any{})
	assert.Equal(t, http.StatusTooManyRequests, resp.Code)

	// Other endpoints stay unthrottled.
	resp = ts.api.Get("/api/v1/items")
	assert.Equal(t, http.StatusOK, resp.Code)
}
