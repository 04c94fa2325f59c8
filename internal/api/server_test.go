package api

import (
	"context"
	"encoding/hex"
	"encoding/json/v2"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	"github.com/24061269-star/um-lost-and-found/internal/auth"
	"github.com/24061269-star/um-lost-and-found/internal/config"
	"github.com/24061269-star/um-lost-and-found/internal/domain"
	"github.com/24061269-star/um-lost-and-found/internal/enrich"
	"github.com/24061269-star/um-lost-and-found/internal/service"
	"github.com/24061269-star/um-lost-and-found/internal/store/sqlite"
)

// testServer wraps the API server for handler tests.
type testServer struct {
	*Server
	api    humatest.TestAPI
	tokens *auth.TokenService
	model  *fakeModel
}

// setupTestServer builds a full server on a temp SQLite store with a
// deterministic model double behind the AI-facing services.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	st, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	tokens, err := auth.NewTokenService(testKeyHex(), time.Hour)
	require.NoError(t, err)

	model := &fakeModel{tagText: "black, wallet", vector: []float32{1, 0}}
	enrichService := enrich.NewService(st, model, logger)
	dispatcher := enrich.NewDispatcher(enrichService, time.Minute, logger)

	services := &Services{
		Item:       service.NewItemService(st, dispatcher, logger),
		Moderation: service.NewModerationService(st, logger),
		Search:     service.NewSearchService(st, model, logger),
		Enrich:     enrichService,
	}

	cfg := &config.Config{
		Server: config.ServerConfig{CORSOrigins: "*"},
		Search: config.SearchConfig{RatePerMinute: 6000, RateBurst: 100},
	}

	s := NewServer(st, services, tokens, cfg, logger)
	t.Cleanup(s.Close)

	return &testServer{
		Server: s,
		api:    humatest.Wrap(t, s.api),
		tokens: tokens,
		model:  model,
	}
}

// testKeyHex returns a stable 64-char hex key for token tests.
func testKeyHex() string {
	return hex.EncodeToString([]byte("test-key-test-key-test-key-test-"))
}

// authHeader issues a token for userID and formats it as a request header.
func (ts *testServer) authHeader(t *testing.T, userID string) string {
	t.Helper()
	token, err := ts.tokens.IssueToken(userID)
	require.NoError(t, err)
	return "Authorization: Bearer " + token
}

// seedProfile stores a profile so role checks can resolve the user.
func (ts *testServer) seedProfile(t *testing.T, userID string, role domain.Role) {
	t.Helper()
	require.NoError(t, ts.store.UpsertProfile(context.Background(), &domain.Profile{
		ID:          userID,
		DisplayName: userID,
		Email:       userID + "@example.edu",
		Role:        role,
	}))
}

// seedItem stores an item directly, bypassing the HTTP surface.
func (ts *testServer) seedItem(t *testing.T, itemID, ownerID string, status domain.ItemStatus) *domain.Item {
	t.Helper()
	now := time.Now().UTC()
	item := &domain.Item{
		ID:        itemID,
		Title:     "Black wallet",
		Kind:      domain.ItemKindLost,
		Location:  "Central Library",
		OwnerID:   ownerID,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, ts.store.CreateItem(context.Background(), item))
	return item
}

// testEnvelope mirrors the wire envelope for decoding in tests.
type testEnvelope[T any] struct {
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// decodeEnvelope parses a response body into a typed envelope.
func decodeEnvelope[T any](t *testing.T, body []byte) testEnvelope[T] {
	t.Helper()
	var envelope testEnvelope[T]
	require.NoError(t, json.Unmarshal(body, &envelope))
	return envelope
}

// fakeModel is a deterministic stand-in for the model provider.
type fakeModel struct {
	tagText    string
	tagErr     error
	caption    string
	captionErr error
	vectors    map[string][]float32 // keyed by input text
	vector     []float32            // fallback when input is not in vectors
	embedErr   error
}

func (f *fakeModel) SuggestTags(_ context.Context, _, _ string, _ []string) (string, error) {
	return f.tagText, f.tagErr
}

func (f *fakeModel) CaptionImage(_ context.Context, _ string) (string, error) {
	return f.caption, f.captionErr
}

func (f *fakeModel) EmbedText(_ context.Context, text string) ([]float32, error) {
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	if v, ok := f.vectors[text]; ok {
		return v, nil
	}
	return f.vector, nil
}
