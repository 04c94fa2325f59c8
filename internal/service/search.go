package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/24061269-star/um-lost-and-found/internal/ai"
	"github.com/24061269-star/um-lost-and-found/internal/domain"
	"github.com/24061269-star/um-lost-and-found/internal/store"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 50
)

// queryModel is the slice of the AI provider search needs.
type queryModel interface {
	ai.Captioner
	ai.Embedder
}

// SearchService answers multi-modal queries over approved items.
type SearchService struct {
	store  store.Store
	model  queryModel
	logger *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(store store.Store, model queryModel, logger *slog.Logger) *SearchService {
	return &SearchService{
		store:  store,
		model:  model,
		logger: logger,
	}
}

// SearchRequest is one query. All fields are optional; an empty request
// browses the newest approved items.
type SearchRequest struct {
	Keyword  string
	Tags     []string
	ImageURL string
	Limit    int
}

// SearchResult pairs an item with its query similarity (nil off the
// vector path) and its primary image.
type SearchResult struct {
	Item       *domain.Item
	Similarity *float64
	Image      string
}

// Search runs one query. An image beats a keyword for the semantic part:
// the image is captioned and the caption embedded; a keyword alone is
// embedded directly; with neither, this is a plain browse. Tags filter
// with OR semantics, and a keyword only falls back to substring matching
// when no embedding query exists. Any model failure aborts the search.
func (s *SearchService) Search(ctx context.Context, req SearchRequest) ([]SearchResult, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	keyword := strings.TrimSpace(req.Keyword)

	queryVec, err := s.buildQueryEmbedding(ctx, req.ImageURL, keyword)
	if err != nil {
		return nil, err
	}

	var matches []store.EmbeddingMatch
	if queryVec != nil {
		matches, err = s.store.NearestEmbeddings(ctx, queryVec, limit)
		if err != nil {
			return nil, fmt.Errorf("nearest embeddings: %w", err)
		}
	}

	q := store.ApprovedQuery{Limit: limit}

	// Tag OR-filter. No item carrying any requested tag means an empty
	// result, model call or not.
	var tagIDs []string
	if len(req.Tags) > 0 {
		tagIDs, err = s.store.ListItemIDsWithAnyTag(ctx, req.Tags)
		if err != nil {
			return nil, fmt.Errorf("resolve tag filter: %w", err)
		}
		if len(tagIDs) == 0 {
			return []SearchResult{}, nil
		}
		q.IDs = tagIDs
	}

	// Substring fallback applies only when there is no embedding query.
	if queryVec == nil && keyword != "" {
		q.Keyword = keyword
	}

	if len(matches) > 0 {
		matchIDs := make([]string, len(matches))
		for i, m := range matches {
			matchIDs[i] = m.ItemID
		}
		if tagIDs != nil {
			q.IDs = intersect(tagIDs, matchIDs)
		} else {
			q.IDs = matchIDs
		}
	}

	items, err := s.store.ListApprovedItems(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list approved items: %w", err)
	}

	similarity := make(map[string]float64, len(matches))
	for _, m := range matches {
		similarity[m.ItemID] = m.Similarity
	}

	results := make([]SearchResult, 0, len(items))
	for _, item := range items {
		r := SearchResult{
			Item:  item,
			Image: item.PrimaryImageURL(),
		}
		if sim, ok := similarity[item.ID]; ok {
			r.Similarity = &sim
		}
		results = append(results, r)
	}

	// Vector queries rank by similarity; browse keeps newest-first store order.
	if len(matches) > 0 {
		sort.SliceStable(results, func(i, j int) bool {
			return similarityOrZero(results[i]) > similarityOrZero(results[j])
		})
	}

	s.logger.Debug("search completed",
		"keyword", keyword,
		"tags", len(req.Tags),
		"image", req.ImageURL != "",
		"vector", queryVec != nil,
		"results", len(results),
	)
	return results, nil
}

// buildQueryEmbedding turns the query's image or keyword into a vector.
// Returns nil with no error when the request has neither.
func (s *SearchService) buildQueryEmbedding(ctx context.Context, imageURL, keyword string) ([]float32, error) {
	switch {
	case imageURL != "":
		caption, err := s.model.CaptionImage(ctx, imageURL)
		if err != nil {
			return nil, fmt.Errorf("caption query image: %w", err)
		}
		vec, err := s.model.EmbedText(ctx, caption)
		if err != nil {
			return nil, fmt.Errorf("embed image caption: %w", err)
		}
		return vec, nil
	case keyword != "":
		vec, err := s.model.EmbedText(ctx, keyword)
		if err != nil {
			return nil, fmt.Errorf("embed keyword: %w", err)
		}
		return vec, nil
	}
	return nil, nil
}

func similarityOrZero(r SearchResult) float64 {
	if r.Similarity == nil {
		return 0
	}
	return *r.Similarity
}

// intersect keeps the elements of a that also appear in b, preserving a's order.
func intersect(a, b []string) []string {
	inB := make(map[string]struct{}, len(b))
	for _, id := range b {
		inB[id] = struct{}{}
	}

	out := []string{}
	for _, id := range a {
		if _, ok := inB[id]; ok {
			out = append(out, id)
		}
	}
	return out
}
