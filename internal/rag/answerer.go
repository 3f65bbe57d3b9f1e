package rag

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/raggerhq/ragger/internal/document"
	"github.com/raggerhq/ragger/internal/embedding"
)

// ChatTopK is the number of chunks retrieved to ground an answer.
const ChatTopK = 3

// Answer is the chat result: the model's raw JSON output plus the chunks it
// was grounded on. Response is passed through unparsed so the client sees the
// exact {answer, sources} object the model produced.
type Answer struct {
	Response string           `json:"response"`
	Sources  []document.Chunk `json:"sources"`
}

// Answerer answers questions against a named collection using retrieved
// context only.
type Answerer struct {
	embedder  QueryEmbedder
	searcher  Searcher
	generator Generator
	logger    *slog.Logger
}

// NewAnswerer creates an answerer.
func NewAnswerer(embedder QueryEmbedder, searcher Searcher, generator Generator, logger *slog.Logger) *Answerer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Answerer{embedder: embedder, searcher: searcher, generator: generator, logger: logger}
}

// Answer embeds the query, retrieves the top chunks from the collection, and
// asks the model for a grounded JSON answer. When retrieval returns nothing
// the model is not called; the literal fallback object comes back instead.
func (a *Answerer) Answer(ctx context.Context, collectionName, query string) (*Answer, error) {
	vector, err := a.embedder.Embed(ctx, query, embedding.TaskQuery)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	hits, err := a.searcher.Search(ctx, collectionName, vector, ChatTopK)
	if err != nil {
		return nil, fmt.Errorf("retrieving context: %w", err)
	}

	chunks := make([]document.Chunk, 0, len(hits))
	for _, hit := range hits {
		chunks = append(chunks, chunkFromPayload(hit.Payload))
	}

	if len(chunks) == 0 {
		a.logger.Info("no context retrieved", "collection", collectionName)
		return &Answer{Response: fallbackResponse(), Sources: []document.Chunk{}}, nil
	}

	chunksJSON, err := json.Marshal(chunks)
	if err != nil {
		return nil, fmt.Errorf("encoding context: %w", err)
	}

	response, err := a.generator.Generate(ctx, groundingPrompt(string(chunksJSON)), query)
	if err != nil {
		return nil, fmt.Errorf("generating answer: %w", err)
	}

	a.logger.Info("answer generated", "collection", collectionName, "chunks", len(chunks))
	return &Answer{Response: response, Sources: chunks}, nil
}

// fallbackResponse builds the exact JSON object the prompt mandates for
// unanswerable questions, so empty retrieval and model-declared ignorance are
// indistinguishable to the client.
func fallbackResponse() string {
	out, _ := json.Marshal(map[string]any{
		"answer":  FallbackAnswer,
		"sources": []string{},
	})
	return string(out)
}
