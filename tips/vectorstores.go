package tips

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/vectorstores/chroma"
	"github.com/tmc/langchaingo/vectorstores/pgvector"
)

// NewChromaIndex stores tips in a Chroma collection. dir only holds the
// build manifest.
func NewChromaIndex(url, collection, dir string, emb embeddings.Embedder) (*VectorIndex, error) {
	vs, err := chroma.New(
		chroma.WithChromaURL(url),
		chroma.WithNameSpace(collection),
		chroma.WithEmbedder(emb),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to chroma at %s: %w", url, err)
	}
	return NewVectorIndex(vs, DirMarker{Dir: dir}), nil
}

// NewPgvectorIndex stores tips in the langchaingo pgvector tables. db is used
// only to check whether the collection already has rows.
func NewPgvectorIndex(ctx context.Context, dsn, collection string, db *sql.DB, emb embeddings.Embedder) (*VectorIndex, error) {
	vs, err := pgvector.New(ctx,
		pgvector.WithConnectionURL(dsn),
		pgvector.WithCollectionName(collection),
		pgvector.WithEmbedder(emb),
	)
	if err != nil {
		return nil, fmt.Errorf("open pgvector store: %w", err)
	}
	return NewVectorIndex(vs, CollectionMarker{DB: db, Collection: collection}), nil
}
