package docs

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dsmirnov/docshare/internal/common"
	"github.com/dsmirnov/docshare/internal/logging"
	"github.com/dsmirnov/docshare/internal/randx"
	"github.com/dsmirnov/docshare/internal/record"
	"github.com/dsmirnov/docshare/internal/storage"
	"github.com/dsmirnov/docshare/internal/transfer"
)

// TransferConfig selects and parameterizes the upload strategy.
type TransferConfig struct {
	// SingleFileSizeLimit is the size threshold, in bytes: content at or
	// below it is stored as one object, above it as parts.
	SingleFileSizeLimit int64

	// PartSize is the size of one part of a partitioned upload.
	PartSize int64

	// UploadConcurrency bounds how many parts are in flight at once;
	// 1 means sequential.
	UploadConcurrency int
}

// NewRegistry assembles the document lifecycle. Identity hooks run
// first, then the file-capability hooks; for delete, the remover runs
// before the index entry's payload is dropped.
func NewRegistry(backend storage.Backend, cfg TransferConfig, log logging.Logger) *record.Registry {
	reg := record.NewRegistry()
	reg.BeforeSave(Kind, ensureIdentity, uploadContent(backend, cfg, log))
	reg.BeforeDelete(Kind, removeContent(backend, log))
	return reg
}

// ensureIdentity assigns the stable id and creation timestamp on first
// save; both are immutable afterwards.
func ensureIdentity(ctx context.Context, r record.Record) error {
	doc, ok := r.(*Document)
	if !ok {
		return fmt.Errorf("%w: not a document", common.ErrInvalidArgument)
	}
	if doc.Id == "" {
		doc.Id = uuid.NewString()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	return nil
}

// uploadContent is the one place that turns "a file" into N remote
// objects: it assigns the storage path, picks the transfer strategy by
// size, runs it, and records the part count.
func uploadContent(backend storage.Backend, cfg TransferConfig, log logging.Logger) record.Hook {
	return func(ctx context.Context, r record.Record) error {
		doc, ok := r.(*Document)
		if !ok {
			return fmt.Errorf("%w: not a document", common.ErrInvalidArgument)
		}

		// Re-saving an already uploaded document (e.g. while migrating
		// pending entries into the remote index) must not re-transfer
		// content it no longer holds.
		if doc.Uploaded {
			return nil
		}

		if doc.FilePath == "" {
			if doc.FileName() == "" {
				return fmt.Errorf("file name: %w", common.ErrMissingAttribute)
			}
			doc.FilePath = randx.Hash(common.StoragePrefixLength) + "/" + doc.FileName()
		}

		uploader, err := newUploader(backend, cfg, doc, log)
		if err != nil {
			return err
		}
		doc.attachUploader(uploader)

		numParts, err := uploader.Upload(ctx, doc.FilePath, doc.Content)
		if err != nil {
			return err
		}
		doc.NumParts = numParts
		return nil
	}
}

func newUploader(backend storage.Backend, cfg TransferConfig, doc *Document, log logging.Logger) (transfer.Uploader, error) {
	if doc.FileSize <= 0 {
		return nil, fmt.Errorf("file size: %w", common.ErrMissingAttribute)
	}
	if doc.FileSize <= cfg.SingleFileSizeLimit {
		return transfer.NewSingleUploader(backend), nil
	}
	return transfer.NewPartitionedUploader(backend, cfg.PartSize, cfg.UploadConcurrency, log), nil
}

func removeContent(backend storage.Backend, log logging.Logger) record.Hook {
	remover := transfer.NewRemover(backend, log)
	return func(ctx context.Context, r record.Record) error {
		doc, ok := r.(*Document)
		if !ok {
			return fmt.Errorf("%w: not a document", common.ErrInvalidArgument)
		}
		return remover.Remove(ctx, doc.FilePath, doc.NumParts)
	}
}
