// Package enrich runs the AI enrichment pass over posted items: tag
// generation, embedding creation, and persistence of both.
package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/24061269-star/um-lost-and-found/internal/ai"
	"github.com/24061269-star/um-lost-and-found/internal/domain"
	"github.com/24061269-star/um-lost-and-found/internal/store"
)

const (
	// maxTags caps how many tags one item can carry.
	maxTags = 4

	// embeddingProvider labels stored vectors for later model migrations.
	embeddingProvider = "openai"
)

var (
	tagStripPattern = regexp.MustCompile(`[^a-z0-9,\s-]`)
	tagSplitPattern = regexp.MustCompile(`[,\n]`)
)

// modelClient is the slice of the AI provider enrichment needs.
type modelClient interface {
	ai.TagSuggester
	ai.Embedder
}

// Request carries the item snapshot an enrichment pass works from.
type Request struct {
	ItemID      string
	Title       string
	Description string
	ImageURLs   []string
}

// Service generates tags and an embedding for an item and persists them.
type Service struct {
	store  store.Store
	model  modelClient
	logger *slog.Logger
}

// NewService creates an enrichment service.
func NewService(store store.Store, model modelClient, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		model:  model,
		logger: logger,
	}
}

// Enrich runs one enrichment pass and returns how many tags were stored.
//
// Tags the model suggests are sanitized before storage; a model that returns
// nothing usable still produces an embedding from the item's own text. The
// tag set is replaced and the embedding upserted, so re-running enrichment
// for an item converges instead of accumulating.
func (s *Service) Enrich(ctx context.Context, req Request) (int, error) {
	raw, err := s.model.SuggestTags(ctx, req.Title, req.Description, req.ImageURLs)
	if err != nil {
		return 0, fmt.Errorf("suggest tags: %w", err)
	}
	tags := sanitizeTags(raw)

	text := buildEmbeddingText(req.Title, req.Description, tags)
	vector, err := s.model.EmbedText(ctx, text)
	if err != nil {
		return 0, fmt.Errorf("embed item text: %w", err)
	}

	if len(tags) > 0 {
		if err := s.store.ReplaceItemTags(ctx, req.ItemID, tags); err != nil {
			return 0, fmt.Errorf("store tags: %w", err)
		}
	}

	emb := &domain.ItemEmbedding{
		ItemID:   req.ItemID,
		Vector:   vector,
		Provider: embeddingProvider,
	}
	if err := s.store.UpsertItemEmbedding(ctx, emb); err != nil {
		return 0, fmt.Errorf("store embedding: %w", err)
	}

	s.logger.Info("item enriched",
		"item_id", req.ItemID,
		"tags", len(tags),
		"dims", len(vector),
	)
	return len(tags), nil
}

// sanitizeTags normalizes raw model output into at most maxTags clean tags.
// Lowercases, strips everything outside [a-z0-9,\s-], splits on commas and
// newlines, trims, and drops empties. Order is preserved.
func sanitizeTags(raw string) []string {
	cleaned := tagStripPattern.ReplaceAllString(strings.ToLower(raw), "")

	tags := make([]string, 0, maxTags)
	for _, part := range tagSplitPattern.Split(cleaned, -1) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		tags = append(tags, part)
		if len(tags) == maxTags {
			break
		}
	}
	return tags
}

// buildEmbeddingText assembles the text that gets embedded for an item:
// title, description, and the tag words, newline-joined, empties skipped.
func buildEmbeddingText(title, description string, tags []string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{title, description, strings.Join(tags, " ")} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "\n")
}
