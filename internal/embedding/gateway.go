// Package embedding converts text into fixed-length vectors through a Genkit
// embedder. Documents and queries are embedded with distinct task hints; the
// hint changes vector geometry but not shape, and both sides must use the
// same model or retrieval quality silently degrades.
package embedding

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/firebase/genkit/go/ai"
	"google.golang.org/genai"
)

// Dimension is the vector length produced by the gateway. It must match the
// collection dimension in the vector index (see collection.VectorDimension).
const Dimension int32 = 768

// Task selects the provider-side embedding hint.
type Task string

const (
	// TaskDocument embeds content for indexing.
	TaskDocument Task = "RETRIEVAL_DOCUMENT"

	// TaskQuery embeds a search query.
	TaskQuery Task = "RETRIEVAL_QUERY"
)

// Gateway wraps an ai.Embedder with the task-type and dimensionality
// configuration the pipeline requires. Safe for concurrent use.
type Gateway struct {
	embedder ai.Embedder
	logger   *slog.Logger
}

// NewGateway creates an embedding gateway.
func NewGateway(embedder ai.Embedder, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{embedder: embedder, logger: logger}
}

// Embed converts one text into a Dimension-length vector.
func (g *Gateway) Embed(ctx context.Context, text string, task Task) ([]float32, error) {
	vectors, err := g.EmbedBatch(ctx, []string{text}, task)
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch converts texts into vectors in a single provider call.
// The result is aligned with the input: vectors[i] embeds texts[i].
func (g *Gateway) EmbedBatch(ctx context.Context, texts []string, task Task) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	docs := make([]*ai.Document, len(texts))
	for i, t := range texts {
		docs[i] = ai.DocumentFromText(t, nil)
	}

	dim := Dimension
	resp, err := g.embedder.Embed(ctx, &ai.EmbedRequest{
		Input: docs,
		Options: &genai.EmbedContentConfig{
			TaskType:             string(task),
			OutputDimensionality: &dim,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("embedding %d texts: %w", len(texts), err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(resp.Embeddings), len(texts))
	}

	vectors := make([][]float32, len(resp.Embeddings))
	for i, e := range resp.Embeddings {
		if len(e.Embedding) == 0 {
			return nil, fmt.Errorf("empty embedding at index %d", i)
		}
		vectors[i] = e.Embedding
	}

	g.logger.Debug("texts embedded", "count", len(texts), "task", string(task))
	return vectors, nil
}
