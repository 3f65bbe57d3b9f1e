package rag

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raggerhq/ragger/internal/collection"
	"github.com/raggerhq/ragger/internal/document"
	"github.com/raggerhq/ragger/internal/embedding"
	"github.com/raggerhq/ragger/internal/log"
	"github.com/raggerhq/ragger/internal/vectorindex"
)

type fakeEmbedder struct {
	batches [][]string
	tasks   []embedding.Task
	err     error
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string, task embedding.Task) ([]float32, error) {
	vecs, err := f.EmbedBatch(ctx, []string{text}, task)
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (f *fakeEmbedder) EmbedBatch(_ context.Context, texts []string, task embedding.Task) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.batches = append(f.batches, texts)
	f.tasks = append(f.tasks, task)
	vecs := make([][]float32, len(texts))
	for i := range vecs {
		vecs[i] = []float32{0.1, 0.2}
	}
	return vecs, nil
}

type fakeSearcher struct {
	hits []vectorindex.ScoredPoint
	err  error
	k    int
	name string
}

func (f *fakeSearcher) Search(_ context.Context, name string, _ []float32, k int) ([]vectorindex.ScoredPoint, error) {
	f.name, f.k = name, k
	return f.hits, f.err
}

type fakeGenerator struct {
	system string
	prompt string
	out    string
	err    error
	calls  int
}

func (f *fakeGenerator) Generate(_ context.Context, system, prompt string) (string, error) {
	f.calls++
	f.system, f.prompt = system, prompt
	return f.out, f.err
}

type fakeUpserter struct {
	batches [][]vectorindex.Point
	err     error
}

func (f *fakeUpserter) Upsert(_ context.Context, _ string, points []vectorindex.Point) error {
	if f.err != nil {
		return f.err
	}
	f.batches = append(f.batches, points)
	return nil
}

func TestAnswerer_GroundedAnswer(t *testing.T) {
	searcher := &fakeSearcher{hits: []vectorindex.ScoredPoint{
		{Score: 0.9, Payload: map[string]any{
			PayloadContent: "Zenith is the capital.",
			PayloadSource:  "https://example.com/report",
		}},
		{Score: 0.7, Payload: map[string]any{PayloadContent: "Unrelated text."}},
	}}
	gen := &fakeGenerator{out: `{"answer": "Zenith.", "sources": ["https://example.com/report"]}`}
	a := NewAnswerer(&fakeEmbedder{}, searcher, gen, log.NewNop())

	answer, err := a.Answer(context.Background(), "user123-proj", "what is the capital?")

	require.NoError(t, err)
	assert.Equal(t, gen.out, answer.Response)
	require.Len(t, answer.Sources, 2)
	assert.Equal(t, "Zenith is the capital.", answer.Sources[0].PageContent)
	assert.Equal(t, "https://example.com/report", answer.Sources[0].Metadata[document.MetaSource])

	assert.Equal(t, "user123-proj", searcher.name)
	assert.Equal(t, ChatTopK, searcher.k)

	// The system prompt must carry the retrieved chunks verbatim and the
	// user turn carries the raw query.
	assert.Contains(t, gen.system, "Zenith is the capital.")
	assert.Contains(t, gen.system, FallbackAnswer)
	assert.Equal(t, "what is the capital?", gen.prompt)
}

func TestAnswerer_EmptyCollectionFallback(t *testing.T) {
	gen := &fakeGenerator{out: "should not be called"}
	a := NewAnswerer(&fakeEmbedder{}, &fakeSearcher{}, gen, log.NewNop())

	answer, err := a.Answer(context.Background(), "empty-coll", "anything?")

	require.NoError(t, err)
	assert.Zero(t, gen.calls, "model must not be called without context")
	assert.Empty(t, answer.Sources)

	var parsed struct {
		Answer  string   `json:"answer"`
		Sources []string `json:"sources"`
	}
	require.NoError(t, json.Unmarshal([]byte(answer.Response), &parsed))
	assert.Equal(t, FallbackAnswer, parsed.Answer)
	assert.Empty(t, parsed.Sources)
}

func TestAnswerer_SearchError(t *testing.T) {
	searcher := &fakeSearcher{err: errors.New("index down")}
	a := NewAnswerer(&fakeEmbedder{}, searcher, &fakeGenerator{}, log.NewNop())

	_, err := a.Answer(context.Background(), "coll", "q")
	assert.Error(t, err)
}

func TestSummarizer_Summarize(t *testing.T) {
	searcher := &fakeSearcher{hits: []vectorindex.ScoredPoint{
		{Score: 0.8, Payload: map[string]any{PayloadContent: "A long indexed passage."}},
	}}
	gen := &fakeGenerator{out: `{"summary": "A short summary."}`}
	s := NewSummarizer(&fakeEmbedder{}, searcher, gen, log.NewNop())

	summary, err := s.Summarize(context.Background(), "coll", "summarize this")

	require.NoError(t, err)
	assert.Equal(t, "A short summary.", summary)
	assert.Equal(t, 1, searcher.k)
	assert.Contains(t, gen.system, "A long indexed passage.")
}

func TestSummarizer_NoContent(t *testing.T) {
	s := NewSummarizer(&fakeEmbedder{}, &fakeSearcher{}, &fakeGenerator{}, log.NewNop())

	_, err := s.Summarize(context.Background(), "coll", "q")
	assert.ErrorIs(t, err, ErrNoContent)
}

func TestSummarizer_NonJSONOutputPassedThrough(t *testing.T) {
	searcher := &fakeSearcher{hits: []vectorindex.ScoredPoint{
		{Payload: map[string]any{PayloadContent: "text"}},
	}}
	gen := &fakeGenerator{out: "plain prose summary"}
	s := NewSummarizer(&fakeEmbedder{}, searcher, gen, log.NewNop())

	summary, err := s.Summarize(context.Background(), "coll", "q")

	require.NoError(t, err)
	assert.Equal(t, "plain prose summary", summary)
}

func TestIngestor_Batches(t *testing.T) {
	embedder := &fakeEmbedder{}
	index := &fakeUpserter{}
	in := NewIngestor(embedder, index, collection.NewLocks(), log.NewNop())

	chunks := make([]document.Chunk, 250)
	for i := range chunks {
		chunks[i] = document.Chunk{
			PageContent: "chunk text",
			Metadata:    map[string]string{document.MetaSource: "notes.txt"},
		}
	}

	count, err := in.Ingest(context.Background(), "coll", chunks)

	require.NoError(t, err)
	assert.Equal(t, 250, count)

	require.Len(t, index.batches, 3)
	assert.Len(t, index.batches[0], 100)
	assert.Len(t, index.batches[1], 100)
	assert.Len(t, index.batches[2], 50)

	for _, task := range embedder.tasks {
		assert.Equal(t, embedding.TaskDocument, task)
	}

	seen := map[string]bool{}
	for _, batch := range index.batches {
		for _, p := range batch {
			assert.False(t, seen[p.ID], "point IDs must be unique")
			seen[p.ID] = true
			assert.Equal(t, "chunk text", p.Payload[PayloadContent])
			assert.Equal(t, "notes.txt", p.Payload[PayloadSource])
		}
	}
}

func TestIngestor_Empty(t *testing.T) {
	index := &fakeUpserter{}
	in := NewIngestor(&fakeEmbedder{}, index, collection.NewLocks(), log.NewNop())

	count, err := in.Ingest(context.Background(), "coll", nil)

	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, index.batches)
}

func TestIngestor_UpsertError(t *testing.T) {
	index := &fakeUpserter{err: errors.New("write failed")}
	in := NewIngestor(&fakeEmbedder{}, index, collection.NewLocks(), log.NewNop())

	_, err := in.Ingest(context.Background(), "coll", []document.Chunk{{PageContent: "x"}})
	assert.Error(t, err)
}
