package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq"
)

// Querier is the part of *sql.DB used by the read helpers.
type Querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ─── Init ─────────────────────────────────────────────────────────────────────

// Open connects to PostgreSQL, waiting for it to come up. The pgvector store
// creates its own tables.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Retry connection up to 10 times (the DB container may take a moment to be ready)
	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		log.Printf("⏳ Waiting for database... attempt %d/10: %v", i+1, err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database after retries: %w", err)
	}

	log.Println("✅ Database connected")
	return db, nil
}

// ─── Queries ──────────────────────────────────────────────────────────────────

// Default table names of the langchaingo pgvector store.
const (
	collectionTable = "langchain_pg_collection"
	embeddingTable  = "langchain_pg_embedding"
)

// CountCollectionEmbeddings returns how many vectors the named collection
// holds, or 0 when the pgvector tables do not exist yet.
func CountCollectionEmbeddings(ctx context.Context, db Querier, collection string) (int, error) {
	var exists bool
	if err := db.QueryRowContext(ctx, `SELECT to_regclass($1) IS NOT NULL`, embeddingTable).Scan(&exists); err != nil {
		return 0, fmt.Errorf("check %s: %w", embeddingTable, err)
	}
	if !exists {
		return 0, nil
	}

	var n int
	err := db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM `+embeddingTable+` e
		JOIN `+collectionTable+` c ON c.uuid = e.collection_id
		WHERE c.name = $1`, collection).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count %s embeddings: %w", collection, err)
	}
	return n, nil
}
