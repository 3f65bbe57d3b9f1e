package rag

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/raggerhq/ragger/internal/embedding"
)

// ErrNoContent indicates the collection held nothing to summarize.
var ErrNoContent = errors.New("no indexed content to summarize")

// summaryTopK is the number of chunks retrieved for summarization: the single
// best match for the seed query.
const summaryTopK = 1

// Summarizer produces a short summary of the most relevant indexed chunk.
type Summarizer struct {
	embedder  QueryEmbedder
	searcher  Searcher
	generator Generator
	logger    *slog.Logger
}

// NewSummarizer creates a summarizer.
func NewSummarizer(embedder QueryEmbedder, searcher Searcher, generator Generator, logger *slog.Logger) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Summarizer{embedder: embedder, searcher: searcher, generator: generator, logger: logger}
}

// Summarize retrieves the chunk closest to the seed query and asks the model
// for a {summary} JSON object, returning the summary text. ErrNoContent is
// returned when the collection has no matching content.
func (s *Summarizer) Summarize(ctx context.Context, collectionName, query string) (string, error) {
	vector, err := s.embedder.Embed(ctx, query, embedding.TaskQuery)
	if err != nil {
		return "", fmt.Errorf("embedding query: %w", err)
	}

	hits, err := s.searcher.Search(ctx, collectionName, vector, summaryTopK)
	if err != nil {
		return "", fmt.Errorf("retrieving content: %w", err)
	}
	if len(hits) == 0 {
		return "", ErrNoContent
	}

	content, _ := hits[0].Payload[PayloadContent].(string)
	if content == "" {
		return "", ErrNoContent
	}

	raw, err := s.generator.Generate(ctx, summaryPrompt(content), query)
	if err != nil {
		return "", fmt.Errorf("generating summary: %w", err)
	}

	var parsed struct {
		Summary string `json:"summary"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil || parsed.Summary == "" {
		// The model broke the contract; surface its raw output rather
		// than failing the request.
		s.logger.Warn("summary output was not the expected JSON", "collection", collectionName)
		return raw, nil
	}

	s.logger.Info("summary generated", "collection", collectionName)
	return parsed.Summary, nil
}
