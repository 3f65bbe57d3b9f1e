// Package rag implements the retrieval-augmented pipeline: ingesting chunks
// into a vector collection, answering questions grounded in retrieved chunks,
// and summarizing indexed content. Prompting keeps the model inside the
// retrieved context; answers outside it are the fallback response.
package rag

import (
	"context"

	"github.com/raggerhq/ragger/internal/document"
	"github.com/raggerhq/ragger/internal/embedding"
	"github.com/raggerhq/ragger/internal/vectorindex"
)

// Payload keys stored with every point. Content is the canonical text key;
// retrieval reads the same key ingestion writes.
const (
	PayloadContent = "content"
	PayloadSource  = "source"
	PayloadURL     = "url"
	PayloadTitle   = "title"
)

// QueryEmbedder embeds a single query string.
type QueryEmbedder interface {
	Embed(ctx context.Context, text string, task embedding.Task) ([]float32, error)
}

// BatchEmbedder embeds document texts in batches.
type BatchEmbedder interface {
	EmbedBatch(ctx context.Context, texts []string, task embedding.Task) ([][]float32, error)
}

// Searcher retrieves the nearest points from a named collection.
type Searcher interface {
	Search(ctx context.Context, name string, vector []float32, k int) ([]vectorindex.ScoredPoint, error)
}

// Upserter writes points into a named collection.
type Upserter interface {
	Upsert(ctx context.Context, name string, points []vectorindex.Point) error
}

// Generator produces a completion from a system prompt and a user prompt.
// Implementations must return raw model output constrained to JSON.
type Generator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// payloadFromChunk maps a chunk to the point payload written at ingestion.
func payloadFromChunk(c document.Chunk) map[string]any {
	payload := map[string]any{PayloadContent: c.PageContent}
	for _, key := range []string{PayloadSource, PayloadURL, PayloadTitle} {
		if v := c.Metadata[key]; v != "" {
			payload[key] = v
		}
	}
	return payload
}

// chunkFromPayload reverses payloadFromChunk for retrieved points. Unknown or
// non-string payload values are dropped rather than guessed at.
func chunkFromPayload(payload map[string]any) document.Chunk {
	chunk := document.Chunk{Metadata: map[string]string{}}
	if content, ok := payload[PayloadContent].(string); ok {
		chunk.PageContent = content
	}
	for _, key := range []string{PayloadSource, PayloadURL, PayloadTitle} {
		if v, ok := payload[key].(string); ok && v != "" {
			chunk.Metadata[key] = v
		}
	}
	return chunk
}
