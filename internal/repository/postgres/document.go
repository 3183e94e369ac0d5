package postgres

import (
	"context"
	"encoding/json"

	"github.com/jmoiron/sqlx"
	"github.com/pgvector/pgvector-go"

	"cryptoadvisor/internal/adapters/embeddings"
	"cryptoadvisor/internal/knowledge"
	"cryptoadvisor/pkg/errors"
)

// Compile-time check
var _ knowledge.Searcher = (*DocumentRepository)(nil)

// DocumentRepository provides semantic search over the documents table
// using sqlx and pgvector.
type DocumentRepository struct {
	db       *sqlx.DB
	embedder embeddings.Provider
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *sqlx.DB, embedder embeddings.Provider) *DocumentRepository {
	return &DocumentRepository{db: db, embedder: embedder}
}

type documentRow struct {
	Content  string `db:"content"`
	Metadata []byte `db:"metadata"`
}

// Search embeds the query and returns the limit nearest documents by
// cosine distance.
func (r *DocumentRepository) Search(ctx context.Context, query string, limit int) ([]knowledge.Document, error) {
	vec, err := r.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "embed query")
	}

	var rows []documentRow
	sqlQuery := `
		SELECT content, metadata
		FROM documents
		ORDER BY embedding <=> $1
		LIMIT $2`

	if err := r.db.SelectContext(ctx, &rows, sqlQuery, pgvector.NewVector(vec), limit); err != nil {
		return nil, errors.Wrap(err, "search documents")
	}

	docs := make([]knowledge.Document, 0, len(rows))
	for _, row := range rows {
		doc := knowledge.Document{Content: row.Content}
		if len(row.Metadata) > 0 {
			if err := json.Unmarshal(row.Metadata, &doc.Metadata); err != nil {
				return nil, errors.Wrap(err, "decode document metadata")
			}
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// Count returns the number of ingested documents.
func (r *DocumentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM documents`); err != nil {
		return 0, errors.Wrap(err, "count documents")
	}
	return count, nil
}
