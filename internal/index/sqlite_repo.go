package index

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dsmirnov/docshare/internal/dbx"
	"github.com/dsmirnov/docshare/internal/docs"
)

// PendingRepository stores documents awaiting migration into the remote
// index.
type PendingRepository interface {
	// GetAll returns the pending documents.
	GetAll(ctx context.Context) ([]*docs.Document, error)

	// ReplaceAll atomically replaces the pending set with list; an
	// empty list clears it.
	ReplaceAll(ctx context.Context, list []*docs.Document) error
}

// SQLiteRepository implements PendingRepository over the local SQLite
// database.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]*docs.Document, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT payload FROM pending_documents ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("querying pending documents: %w", err)
	}
	defer rows.Close()

	var list []*docs.Document
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scanning pending document: %w", err)
		}
		doc, err := docs.Deserialize(payload)
		if err != nil {
			return nil, fmt.Errorf("parsing pending document: %w", err)
		}
		list = append(list, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading pending documents: %w", err)
	}
	return list, nil
}

func (r *SQLiteRepository) ReplaceAll(ctx context.Context, list []*docs.Document) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM pending_documents`); err != nil {
			return fmt.Errorf("clearing pending documents: %w", err)
		}
		for _, doc := range list {
			payload, err := doc.Serialize()
			if err != nil {
				return fmt.Errorf("serializing pending document %q: %w", doc.ID(), err)
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO pending_documents (id, payload) VALUES (?, ?)`,
				doc.ID(), payload,
			); err != nil {
				return fmt.Errorf("inserting pending document %q: %w", doc.ID(), err)
			}
		}
		return nil
	})
}
