package rag

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/raggerhq/ragger/internal/collection"
	"github.com/raggerhq/ragger/internal/document"
	"github.com/raggerhq/ragger/internal/embedding"
	"github.com/raggerhq/ragger/internal/vectorindex"
)

// UpsertBatchSize is the number of chunks embedded and written per index
// round trip.
const UpsertBatchSize = 100

// Ingestor embeds chunks and writes them into a vector collection.
type Ingestor struct {
	embedder BatchEmbedder
	index    Upserter
	locks    *collection.Locks
	logger   *slog.Logger
}

// NewIngestor creates an ingestor.
func NewIngestor(embedder BatchEmbedder, index Upserter, locks *collection.Locks, logger *slog.Logger) *Ingestor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ingestor{embedder: embedder, index: index, locks: locks, logger: logger}
}

// Ingest embeds chunks in document mode and upserts them into the collection
// in batches of UpsertBatchSize, returning the number of chunks written.
// Concurrent ingests into the same collection may interleave; a concurrent
// clear of the collection is excluded for the duration.
func (in *Ingestor) Ingest(ctx context.Context, collectionName string, chunks []document.Chunk) (int, error) {
	if len(chunks) == 0 {
		return 0, nil
	}

	lock := in.locks.Get(collectionName)
	lock.RLock()
	defer lock.RUnlock()

	for start := 0; start < len(chunks); start += UpsertBatchSize {
		end := min(start+UpsertBatchSize, len(chunks))
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.PageContent
		}

		vectors, err := in.embedder.EmbedBatch(ctx, texts, embedding.TaskDocument)
		if err != nil {
			return 0, fmt.Errorf("embedding batch at offset %d: %w", start, err)
		}

		points := make([]vectorindex.Point, len(batch))
		for i, c := range batch {
			points[i] = vectorindex.Point{
				ID:      uuid.NewString(),
				Vector:  vectors[i],
				Payload: payloadFromChunk(c),
			}
		}

		if err := in.index.Upsert(ctx, collectionName, points); err != nil {
			return 0, fmt.Errorf("upserting batch at offset %d: %w", start, err)
		}
	}

	in.logger.Info("chunks ingested", "collection", collectionName, "count", len(chunks))
	return len(chunks), nil
}
