package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/24061269-star/um-lost-and-found/internal/domain"
	"github.com/24061269-star/um-lost-and-found/internal/id"
	"github.com/24061269-star/um-lost-and-found/internal/store"
)

// ReplaceItemTags swaps the full tag set for an item in one transaction.
// Re-running enrichment therefore never accumulates duplicate rows.
func (s *Store) ReplaceItemTags(ctx context.Context, itemID string, tags []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM item_tags WHERE item_id = ?`, itemID); err != nil {
		return fmt.Errorf("clear item tags: %w", err)
	}

	now := time.Now().UTC()
	for _, tag := range tags {
		tagID, err := id.Generate("tag")
		if err != nil {
			return fmt.Errorf("generate tag id: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO item_tags (id, item_id, tag, created_at)
			VALUES (?, ?, ?, ?)`,
			tagID, itemID, tag, formatTime(now))
		if err != nil {
			return fmt.Errorf("insert item tag: %w", err)
		}
	}

	return tx.Commit()
}

// UpsertItemEmbedding stores the embedding for an item, replacing any
// previous vector. At most one embedding row exists per item.
func (s *Store) UpsertItemEmbedding(ctx context.Context, emb *domain.ItemEmbedding) error {
	if len(emb.Vector) == 0 {
		return store.ErrInvalidInput.WithMessage("empty embedding vector")
	}

	embID := emb.ID
	if embID == "" {
		var err error
		embID, err = id.Generate("emb")
		if err != nil {
			return fmt.Errorf("generate embedding id: %w", err)
		}
	}

	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO item_embeddings (id, item_id, vector, dim, provider, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(item_id) DO UPDATE SET
			vector = excluded.vector,
			dim = excluded.dim,
			provider = excluded.provider,
			updated_at = excluded.updated_at`,
		embID,
		emb.ItemID,
		encodeVector(emb.Vector),
		len(emb.Vector),
		emb.Provider,
		formatTime(now),
		formatTime(now),
	)
	if err != nil {
		return fmt.Errorf("upsert item embedding: %w", err)
	}
	return nil
}

// GetItemEmbedding returns the current embedding for an item.
// Returns store.ErrNotFound when the item has not been enriched yet.
func (s *Store) GetItemEmbedding(ctx context.Context, itemID string) (*domain.ItemEmbedding, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, item_id, vector, provider, created_at, updated_at
		FROM item_embeddings WHERE item_id = ?`, itemID)

	var (
		emb       domain.ItemEmbedding
		blob      []byte
		createdAt string
		updatedAt string
	)
	err := row.Scan(&emb.ID, &emb.ItemID, &blob, &emb.Provider, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound.WithMessage("item has no embedding")
	}
	if err != nil {
		return nil, err
	}

	emb.Vector = decodeVector(blob)
	if emb.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if emb.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &emb, nil
}

// ListItemIDsWithAnyTag returns the distinct ids of items carrying at least
// one of the given tags (OR semantics).
func (s *Store) ListItemIDsWithAnyTag(ctx context.Context, tags []string) ([]string, error) {
	if len(tags) == 0 {
		return []string{}, nil
	}

	placeholders := "?" + strings.Repeat(",?", len(tags)-1)
	args := make([]any, 0, len(tags))
	for _, tag := range tags {
		args = append(args, tag)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT item_id FROM item_tags WHERE tag IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("query tagged items: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var itemID string
		if err := rows.Scan(&itemID); err != nil {
			return nil, err
		}
		ids = append(ids, itemID)
	}
	return ids, rows.Err()
}

// NearestEmbeddings scans all stored embeddings and returns the `limit`
// most similar to the query vector by cosine similarity, best first.
// Ties break on item id so identical inputs rank stably.
//
// The scan is linear; campus-scale item counts keep this cheap, and it
// avoids a native vector index dependency.
func (s *Store) NearestEmbeddings(ctx context.Context, query []float32, limit int) ([]store.EmbeddingMatch, error) {
	if len(query) == 0 || limit <= 0 {
		return []store.EmbeddingMatch{}, nil
	}

	rows, err := s.db.QueryContext(ctx, `SELECT item_id, vector FROM item_embeddings`)
	if err != nil {
		return nil, fmt.Errorf("query embeddings: %w", err)
	}
	defer rows.Close()

	matches := []store.EmbeddingMatch{}
	for rows.Next() {
		var itemID string
		var blob []byte
		if err := rows.Scan(&itemID, &blob); err != nil {
			return nil, err
		}
		vec := decodeVector(blob)
		if len(vec) != len(query) {
			// Dimension drift after a model change; skip rather than fail.
			continue
		}
		matches = append(matches, store.EmbeddingMatch{
			ItemID:     itemID,
			Similarity: cosineSimilarity(query, vec),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Similarity != matches[j].Similarity {
			return matches[i].Similarity > matches[j].Similarity
		}
		return matches[i].ItemID < matches[j].ItemID
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// encodeVector serializes a float32 vector to a little-endian blob.
func encodeVector(vec []float32) []byte {
	buf := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// decodeVector deserializes a little-endian blob back to float32s.
func decodeVector(blob []byte) []float32 {
	vec := make([]float32, len(blob)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4:]))
	}
	return vec
}

// cosineSimilarity returns the cosine of the angle between a and b.
// Higher means more similar; zero vectors score 0.
func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
