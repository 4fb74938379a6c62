package transfer

import (
	"context"
	"errors"
	"fmt"

	"github.com/dsmirnov/docshare/internal/common"
	"github.com/dsmirnov/docshare/internal/logging"
	"github.com/dsmirnov/docshare/internal/storage"
)

// Remover erases the physical objects belonging to a document: one
// object for whole-object transfers, numParts part-objects otherwise.
type Remover struct {
	backend storage.Backend
	log     logging.Logger
}

func NewRemover(backend storage.Backend, log logging.Logger) *Remover {
	return &Remover{backend: backend, log: log}
}

// Remove deletes every object owned by the record at path. With a
// partitioned record every part is attempted even when some deletions
// fail; the failures are collected into a single DeletionError so
// cleanup stays best-effort instead of stopping at the first miss.
func (r *Remover) Remove(ctx context.Context, path string, numParts int) error {
	if numParts == 0 {
		if err := r.backend.DeleteFile(ctx, path); err != nil {
			return fmt.Errorf("removing %q: %w", path, err)
		}
		return nil
	}

	var (
		failed []int
		errs   []error
	)
	for i := 0; i < numParts; i++ {
		if err := r.backend.DeleteFile(ctx, common.PartPath(path, i)); err != nil {
			failed = append(failed, i)
			errs = append(errs, err)
			r.log.Warn(ctx, "part deletion failed", "path", path, "index", i, "error", err)
		}
	}

	if len(failed) > 0 {
		return &common.DeletionError{FailedParts: failed, Err: errors.Join(errs...)}
	}
	return nil
}
