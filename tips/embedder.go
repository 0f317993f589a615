package tips

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/embeddings"

	"tripplanner/services"
)

const embedBatch = 32

// NewEmbedder wraps a services.Embedder for the langchaingo vector stores,
// batching documents embedBatch at a time.
func NewEmbedder(e services.Embedder) (embeddings.Embedder, error) {
	return embeddings.NewEmbedder(embedderClient{e}, embeddings.WithBatchSize(embedBatch))
}

type embedderClient struct {
	e services.Embedder
}

// CreateEmbedding converts to float32 and refuses replies whose vector count
// differs from the number of texts sent.
func (c embedderClient) CreateEmbedding(ctx context.Context, texts []string) ([][]float32, error) {
	vectors, err := c.e.Embed(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(vectors), len(texts))
	}

	out := make([][]float32, len(vectors))
	for i, v := range vectors {
		f := make([]float32, len(v))
		for j, x := range v {
			f[j] = float32(x)
		}
		out[i] = f
	}
	return out, nil
}
