package tips

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/vectorstores"

	"tripplanner/database"
)

const sourceKey = "source"

// Chunk is a piece of blog text and the page it came from.
type Chunk struct {
	Source  string `json:"source"`
	Content string `json:"content"`
}

// Match is a chunk returned by a similarity search.
type Match struct {
	Chunk
	Score float64 `json:"score"`
}

// Store persists the tip index.
type Store interface {
	// HasIndex reports whether an index was already built. No staleness
	// check is made.
	HasIndex(ctx context.Context) (bool, error)
	Save(ctx context.Context, chunks []Chunk) error
	Search(ctx context.Context, query string, k int) ([]Match, error)
}

// Marker records that an index was built, independently of the vector
// backend, which has no cheap "is anything stored" call.
type Marker interface {
	Exists(ctx context.Context) (bool, error)
	Mark(ctx context.Context, chunks int) error
}

// VectorIndex adapts a langchaingo vector store to Store.
type VectorIndex struct {
	vs     vectorstores.VectorStore
	marker Marker
}

func NewVectorIndex(vs vectorstores.VectorStore, marker Marker) *VectorIndex {
	return &VectorIndex{vs: vs, marker: marker}
}

func (s *VectorIndex) HasIndex(ctx context.Context) (bool, error) {
	return s.marker.Exists(ctx)
}

// Save embeds and stores chunks, then marks the index built.
func (s *VectorIndex) Save(ctx context.Context, chunks []Chunk) error {
	docs := make([]schema.Document, 0, len(chunks))
	for _, c := range chunks {
		docs = append(docs, schema.Document{
			PageContent: c.Content,
			Metadata:    map[string]any{sourceKey: c.Source},
		})
	}
	if _, err := s.vs.AddDocuments(ctx, docs); err != nil {
		return fmt.Errorf("add tip documents: %w", err)
	}
	return s.marker.Mark(ctx, len(chunks))
}

func (s *VectorIndex) Search(ctx context.Context, query string, k int) ([]Match, error) {
	docs, err := s.vs.SimilaritySearch(ctx, query, k)
	if err != nil {
		return nil, err
	}
	out := make([]Match, 0, len(docs))
	for _, d := range docs {
		src, _ := d.Metadata[sourceKey].(string)
		out = append(out, Match{
			Chunk: Chunk{Source: src, Content: d.PageContent},
			Score: float64(d.Score),
		})
	}
	return out, nil
}

// ─── Markers ─────────────────────────────────────────────────────────────────

const manifestFile = "manifest.json"

// DirMarker treats any existing, non-empty directory as a built index, the
// way a persisted collection directory is checked.
type DirMarker struct {
	Dir string
}

func (m DirMarker) Exists(context.Context) (bool, error) {
	entries, err := os.ReadDir(m.Dir)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read index dir: %w", err)
	}
	return len(entries) > 0, nil
}

func (m DirMarker) Mark(_ context.Context, chunks int) error {
	if err := os.MkdirAll(m.Dir, 0o755); err != nil {
		return fmt.Errorf("create index dir: %w", err)
	}
	data, err := json.Marshal(map[string]any{"chunks": chunks, "built_at": time.Now().UTC()})
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(m.Dir, manifestFile+".*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(m.Dir, manifestFile))
}

// CollectionMarker reports a built index once the pgvector collection holds rows.
type CollectionMarker struct {
	DB         database.Querier
	Collection string
}

func (m CollectionMarker) Exists(ctx context.Context) (bool, error) {
	n, err := database.CountCollectionEmbeddings(ctx, m.DB, m.Collection)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Mark is a no-op: the stored rows are the record.
func (CollectionMarker) Mark(context.Context, int) error { return nil }
