package transfer

import (
	"bytes"
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/dsmirnov/docshare/internal/common"
	"github.com/dsmirnov/docshare/internal/storage"
)

// PartitionedDownloader fetches all parts of a partitioned object and
// reassembles them in index order, regardless of arrival order.
type PartitionedDownloader struct {
	backend  storage.Backend
	opts     storage.GetOptions
	workers  int
	progress *Notifier
}

func NewPartitionedDownloader(backend storage.Backend, opts storage.GetOptions, workers int) *PartitionedDownloader {
	if workers < 1 {
		workers = 1
	}
	return &PartitionedDownloader{
		backend:  backend,
		opts:     opts,
		workers:  workers,
		progress: &Notifier{},
	}
}

func (d *PartitionedDownloader) OnProgress(fn ProgressFunc) {
	d.progress.Observe(fn)
}

// Download fetches numParts objects and concatenates them by index. A
// missing or failing part aborts the whole download.
func (d *PartitionedDownloader) Download(ctx context.Context, path string, numParts int) ([]byte, error) {
	if numParts <= 0 {
		return nil, common.ErrMissingAttribute
	}

	var (
		mu      sync.Mutex
		fetched int
		parts   = make([][]byte, numParts)
	)

	getPart := func(ctx context.Context, index int) error {
		data, err := d.backend.GetFile(ctx, common.PartPath(path, index), d.opts)
		if err != nil {
			return &common.TransferError{Stage: common.StageDownload, PartIndex: index, Err: err}
		}

		mu.Lock()
		parts[index] = data
		fetched++
		done := fetched
		mu.Unlock()

		d.progress.emit(float64(done) / float64(numParts))
		return nil
	}

	if d.workers == 1 {
		for i := 0; i < numParts; i++ {
			if err := getPart(ctx, i); err != nil {
				return nil, err
			}
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(d.workers)
		for i := 0; i < numParts; i++ {
			g.Go(func() error { return getPart(gctx, i) })
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	return bytes.Join(parts, nil), nil
}
