package embedding

import (
	"context"
	"errors"
	"testing"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/core/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/raggerhq/ragger/internal/log"
)

// fakeEmbedder records the last request and returns canned vectors.
type fakeEmbedder struct {
	lastReq *ai.EmbedRequest
	err     error
	short   bool // return fewer vectors than inputs
}

func (f *fakeEmbedder) Name() string { return "fake/embedder" }

func (f *fakeEmbedder) Register(_ api.Registry) {}

func (f *fakeEmbedder) Embed(_ context.Context, req *ai.EmbedRequest) (*ai.EmbedResponse, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	n := len(req.Input)
	if f.short {
		n--
	}
	resp := &ai.EmbedResponse{}
	for i := 0; i < n; i++ {
		resp.Embeddings = append(resp.Embeddings, &ai.Embedding{
			Embedding: []float32{float32(i), 1.0},
		})
	}
	return resp, nil
}

func TestGateway_EmbedBatch_TaskAndDimension(t *testing.T) {
	fake := &fakeEmbedder{}
	g := NewGateway(fake, log.NewNop())

	vectors, err := g.EmbedBatch(context.Background(), []string{"a", "b"}, TaskDocument)

	require.NoError(t, err)
	require.Len(t, vectors, 2)

	cfg, ok := fake.lastReq.Options.(*genai.EmbedContentConfig)
	require.True(t, ok, "options must be an EmbedContentConfig")
	assert.Equal(t, "RETRIEVAL_DOCUMENT", cfg.TaskType)
	require.NotNil(t, cfg.OutputDimensionality)
	assert.Equal(t, Dimension, *cfg.OutputDimensionality)
}

func TestGateway_Embed_QueryTask(t *testing.T) {
	fake := &fakeEmbedder{}
	g := NewGateway(fake, log.NewNop())

	vec, err := g.Embed(context.Background(), "what is zenith?", TaskQuery)

	require.NoError(t, err)
	assert.NotEmpty(t, vec)

	cfg := fake.lastReq.Options.(*genai.EmbedContentConfig)
	assert.Equal(t, "RETRIEVAL_QUERY", cfg.TaskType)
}

func TestGateway_EmbedBatch_Empty(t *testing.T) {
	g := NewGateway(&fakeEmbedder{}, log.NewNop())

	vectors, err := g.EmbedBatch(context.Background(), nil, TaskDocument)

	require.NoError(t, err)
	assert.Nil(t, vectors)
}

func TestGateway_EmbedBatch_ProviderError(t *testing.T) {
	fake := &fakeEmbedder{err: errors.New("quota exceeded")}
	g := NewGateway(fake, log.NewNop())

	_, err := g.EmbedBatch(context.Background(), []string{"a"}, TaskDocument)
	assert.Error(t, err)
}

func TestGateway_EmbedBatch_CountMismatch(t *testing.T) {
	fake := &fakeEmbedder{short: true}
	g := NewGateway(fake, log.NewNop())

	_, err := g.EmbedBatch(context.Background(), []string{"a", "b"}, TaskDocument)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vectors for")
}
