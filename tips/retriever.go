// Package tips builds and queries the travel-blog tip index used to enrich
// itineraries.
package tips

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/tmc/langchaingo/textsplitter"
)

const (
	chunkSize    = 1000
	chunkOverlap = 200
	defaultTopK  = 5
	tipExcerpt   = 500
)

type Retriever struct {
	fetcher  Fetcher
	store    Store
	sources  []string
	splitter textsplitter.TextSplitter
	k        int

	// build serialises first-time index construction within the process.
	build sync.Mutex
}

func NewRetriever(fetcher Fetcher, store Store, sources []string) *Retriever {
	return &Retriever{
		fetcher: fetcher,
		store:   store,
		sources: sources,
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(chunkSize),
			textsplitter.WithChunkOverlap(chunkOverlap),
		),
		k: defaultTopK,
	}
}

// EnsureIndex builds the index unless one already exists. Sources that fail
// to download are skipped; if none yields text, no index is written.
func (r *Retriever) EnsureIndex(ctx context.Context) error {
	r.build.Lock()
	defer r.build.Unlock()

	ok, err := r.store.HasIndex(ctx)
	if err != nil {
		return fmt.Errorf("check tip index: %w", err)
	}
	if ok {
		return nil
	}

	var chunks []Chunk
	for _, src := range r.sources {
		text, err := r.fetcher.Fetch(ctx, src)
		if err != nil {
			log.Printf("⚠️  skipping tip source %s: %v", src, err)
			continue
		}
		pieces, err := r.splitter.SplitText(text)
		if err != nil {
			log.Printf("⚠️  skipping tip source %s: split: %v", src, err)
			continue
		}
		for _, piece := range pieces {
			if strings.TrimSpace(piece) != "" {
				chunks = append(chunks, Chunk{Source: src, Content: piece})
			}
		}
	}
	if len(chunks) == 0 {
		log.Println("⚠️  no tip text scraped, index not built")
		return nil
	}

	if err := r.store.Save(ctx, chunks); err != nil {
		return fmt.Errorf("save tip index: %w", err)
	}
	log.Printf("✅ tip index built: %d chunks from %d sources", len(chunks), len(r.sources))
	return nil
}

// Query returns the closest tips as "- excerpt (source: url)" lines, or ""
// when there is no index or any step fails.
func (r *Retriever) Query(ctx context.Context, q string) string {
	ok, err := r.store.HasIndex(ctx)
	if err != nil || !ok {
		return ""
	}

	matches, err := r.store.Search(ctx, q, r.k)
	if err != nil {
		log.Printf("⚠️  tip search failed: %v", err)
		return ""
	}

	lines := make([]string, 0, len(matches))
	for _, m := range matches {
		lines = append(lines, fmt.Sprintf("- %s (source: %s)", excerpt(m.Content, tipExcerpt), m.Source))
	}
	return strings.Join(lines, "\n")
}

func excerpt(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
