package vectorstore

import (
	"context"
	"fmt"

	"github.com/pgvector/pgvector-go"
	"github.com/rs/zerolog/log"

	"github.com/helpdesk-labs/support-agent/internal/retrieval"
)

// Point is one passage ready for the dense index: an id, its embedding and
// the document payload returned by searches.
type Point struct {
	ID       string
	Vector   []float32
	Document retrieval.Document
}

// Upsert inserts or replaces points in the dense index. Used only at
// ingestion time, never on the query path.
func (db *DB) Upsert(ctx context.Context, points []Point) error {
	query := `
		INSERT INTO kb_chunks (id, text, source, file, embedding)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET text = EXCLUDED.text,
		    source = EXCLUDED.source,
		    file = EXCLUDED.file,
		    embedding = EXCLUDED.embedding`

	for i, point := range points {
		vector := pgvector.NewVector(point.Vector)
		_, err := db.Pool.Exec(ctx, query,
			point.ID,
			point.Document.Text,
			point.Document.Source,
			point.Document.File,
			vector,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert point %d: %w", i, err)
		}
	}

	log.Info().Int("points", len(points)).Msg("Points upserted")
	return nil
}

// Search runs cosine similarity search and returns hits in descending
// similarity order. pgvector's <=> operator yields cosine distance in [0,2];
// it is converted to a similarity score clamped to [0,1].
func (db *DB) Search(ctx context.Context, vector []float32, limit int) ([]retrieval.ScoredDocument, error) {
	query := `
		SELECT
			text,
			source,
			file,
			embedding <=> $1 AS distance
		FROM kb_chunks
		ORDER BY distance ASC
		LIMIT $2`

	rows, err := db.Pool.Query(ctx, query, pgvector.NewVector(vector), limit)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}
	defer rows.Close()

	var hits []retrieval.ScoredDocument
	for rows.Next() {
		var doc retrieval.Document
		var distance float64
		if err := rows.Scan(&doc.Text, &doc.Source, &doc.File, &distance); err != nil {
			return nil, fmt.Errorf("failed to scan search row: %w", err)
		}
		hits = append(hits, retrieval.ScoredDocument{
			Document: doc,
			Score:    distanceToScore(distance),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return hits, nil
}

// LoadAll returns every indexed passage in insertion order, used to rebuild
// the sparse index at startup.
func (db *DB) LoadAll(ctx context.Context) ([]retrieval.Document, error) {
	query := `SELECT text, source, file FROM kb_chunks ORDER BY id`

	rows, err := db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load chunks: %w", err)
	}
	defer rows.Close()

	var docs []retrieval.Document
	for rows.Next() {
		var doc retrieval.Document
		if err := rows.Scan(&doc.Text, &doc.Source, &doc.File); err != nil {
			return nil, fmt.Errorf("failed to scan chunk row: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return docs, nil
}

// Truncate wipes the dense index for a full re-index.
func (db *DB) Truncate(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, `TRUNCATE kb_chunks`); err != nil {
		return fmt.Errorf("failed to truncate kb_chunks: %w", err)
	}
	log.Info().Msg("Dense index truncated")
	return nil
}

// distanceToScore converts cosine distance (0 identical, 2 opposite) to a
// similarity score in [0,1].
func distanceToScore(distance float64) float64 {
	score := 1.0 - distance
	if score < 0.0 {
		return 0.0
	}
	if score > 1.0 {
		return 1.0
	}
	return score
}
