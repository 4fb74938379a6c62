package index

import (
	"context"
	"fmt"

	"github.com/dsmirnov/docshare/internal/docs"
	"github.com/dsmirnov/docshare/internal/logging"
)

// Local is the holding area for documents created before the remote
// index finished loading. It is never a second authoritative source:
// once its documents are handed to the remote index, the caller clears
// it via SetTempDocuments(nil).
type Local struct {
	repo PendingRepository
	log  logging.Logger
}

func NewLocal(repo PendingRepository, log logging.Logger) *Local {
	return &Local{repo: repo, log: log}
}

// Load reads any previously cached pending documents.
func (ix *Local) Load(ctx context.Context) ([]*docs.Document, error) {
	list, err := ix.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading pending documents: %w", err)
	}
	if len(list) > 0 {
		ix.log.Info(ctx, "pending documents found", "count", len(list))
	}
	return list, nil
}

// SetTempDocuments replaces the pending set. Passing an empty list
// clears it after migration.
func (ix *Local) SetTempDocuments(ctx context.Context, list []*docs.Document) error {
	if err := ix.repo.ReplaceAll(ctx, list); err != nil {
		return fmt.Errorf("storing pending documents: %w", err)
	}
	return nil
}
