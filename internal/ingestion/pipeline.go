package ingestion

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/helpdesk-labs/support-agent/internal/retrieval"
	"github.com/helpdesk-labs/support-agent/internal/vectorstore"
)

// BatchEmbedder turns chunk texts into vectors; satisfied by
// *embedding.TitanEmbedder.
type BatchEmbedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// PointWriter persists embedded chunks; satisfied by *vectorstore.DB.
type PointWriter interface {
	Upsert(ctx context.Context, points []vectorstore.Point) error
}

type Pipeline struct {
	parser         *Parser
	embedder       BatchEmbedder
	store          PointWriter
	maxChunkLength int
	logger         zerolog.Logger
}

func NewPipeline(parser *Parser, embedder BatchEmbedder, store PointWriter, maxChunkLength int, logger zerolog.Logger) *Pipeline {
	if maxChunkLength <= 0 {
		maxChunkLength = retrieval.DefaultMaxChunkLength
	}
	return &Pipeline{
		parser:         parser,
		embedder:       embedder,
		store:          store,
		maxChunkLength: maxChunkLength,
		logger:         logger,
	}
}

// IngestFile chunks, embeds and stores one knowledge-base file.
func (p *Pipeline) IngestFile(ctx context.Context, path string) (int, error) {
	p.logger.Info().Str("file", path).Msg("Starting ingestion")

	doc, err := p.parser.ParseFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to parse file: %w", err)
	}

	chunks := retrieval.Chunk(doc.Content, p.maxChunkLength)
	if len(chunks) == 0 {
		return 0, fmt.Errorf("file %s produced no chunks", path)
	}
	p.logger.Info().Str("title", doc.Title).Int("chunks", len(chunks)).Msg("Document chunked")

	embeddings, err := p.embedder.EmbedBatch(ctx, chunks)
	if err != nil {
		return 0, fmt.Errorf("failed to generate embeddings: %w", err)
	}
	if len(embeddings) != len(chunks) {
		return 0, fmt.Errorf("got %d embeddings for %d chunks", len(embeddings), len(chunks))
	}

	points := make([]vectorstore.Point, 0, len(chunks))
	for i, chunk := range chunks {
		points = append(points, vectorstore.Point{
			ID:     uuid.New().String(),
			Vector: embeddings[i],
			Document: retrieval.Document{
				Text:   chunk,
				Source: doc.Title,
				File:   filepath.Base(doc.Path),
			},
		})
	}

	if err := p.store.Upsert(ctx, points); err != nil {
		return 0, fmt.Errorf("failed to store chunks: %w", err)
	}

	p.logger.Info().
		Str("title", doc.Title).
		Int("chunks", len(chunks)).
		Msg("Ingestion complete")

	return len(chunks), nil
}

// IngestDirectory ingests every .txt and .md file in dir. Files that fail
// are logged and skipped; the rest of the directory still goes in.
func (p *Pipeline) IngestDirectory(ctx context.Context, dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".txt" && ext != ".md" {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)

	if len(paths) == 0 {
		return 0, fmt.Errorf("no .txt or .md files in %s", dir)
	}

	total := 0
	for _, path := range paths {
		count, err := p.IngestFile(ctx, path)
		if err != nil {
			p.logger.Error().Err(err).Str("file", path).Msg("Skipping file")
			continue
		}
		total += count
	}

	p.logger.Info().Int("files", len(paths)).Int("chunks", total).Msg("Directory ingestion complete")
	return total, nil
}
