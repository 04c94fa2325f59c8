package service

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/24061269-star/um-lost-and-found/internal/domain"
	"github.com/24061269-star/um-lost-and-found/internal/store"
	"github.com/24061269-star/um-lost-and-found/internal/store/sqlite"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (store.Store, *slog.Logger) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	s, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, logger
}

func seedItem(t *testing.T, s store.Store, itemID, ownerID string, status domain.ItemStatus) *domain.Item {
	t.Helper()
	now := time.Now().UTC()
	item := &domain.Item{
		ID:        itemID,
		Title:     "Black wallet",
		Kind:      domain.ItemKindLost,
		Location:  "Faculty of Engineering",
		OwnerID:   ownerID,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, s.CreateItem(context.Background(), item))
	return item
}

func seedProfile(t *testing.T, s store.Store, userID string, role domain.Role) {
	t.Helper()
	require.NoError(t, s.UpsertProfile(context.Background(), &domain.Profile{
		ID:          userID,
		DisplayName: userID,
		Email:       userID + "@example.edu",
		Role:        role,
	}))
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

	captionedURL string
	embeddedText []string
}

func (f *fakeModel) SuggestTags(_ context.Context, _, _ string, _ []string) (string, error) {
	return f.tagText, f.tagErr
}

func (f *fakeModel) CaptionImage(_ context.Context, url string) (string, error) {
	f.captionedURL = url
	return f.caption, f.captionErr
}

func (f *fakeModel) EmbedText(_ context.Context, text string) ([]float32, error) {
	f.embeddedText = append(f.embeddedText, text)
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	if v, ok := f.vectors[text]; ok {
		return v, nil
	}
	return f.vector, nil
}
