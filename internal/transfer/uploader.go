package transfer

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/dsmirnov/docshare/internal/common"
	"github.com/dsmirnov/docshare/internal/logging"
	"github.com/dsmirnov/docshare/internal/storage"
)

// Uploader writes a payload to the backend. Upload returns the number
// of parts written: 0 for a whole-object transfer, >= 1 for a
// partitioned one.
type Uploader interface {
	OnProgress(fn ProgressFunc)
	Upload(ctx context.Context, path string, data []byte) (numParts int, err error)
}

// SingleUploader writes the whole payload in one backend call. Progress
// is a single 1 event on completion; no partial progress is possible.
type SingleUploader struct {
	backend  storage.Backend
	progress *Notifier
}

func NewSingleUploader(backend storage.Backend) *SingleUploader {
	return &SingleUploader{backend: backend, progress: &Notifier{}}
}

func (u *SingleUploader) OnProgress(fn ProgressFunc) {
	u.progress.Observe(fn)
}

func (u *SingleUploader) Upload(ctx context.Context, path string, data []byte) (int, error) {
	if err := u.backend.PutFile(ctx, path, data); err != nil {
		return 0, &common.TransferError{Stage: common.StageUpload, PartIndex: 0, Err: err}
	}
	u.progress.emit(1)
	return 0, nil
}

// PartitionedUploader splits the payload into fixed-index parts named
// <path>.part<index>. Parts are written sequentially unless workers > 1,
// in which case completion order is not guaranteed; either way every
// part must exist before Upload returns nil.
type PartitionedUploader struct {
	backend  storage.Backend
	partSize int64
	workers  int
	progress *Notifier
	log      logging.Logger
}

func NewPartitionedUploader(backend storage.Backend, partSize int64, workers int, log logging.Logger) *PartitionedUploader {
	if workers < 1 {
		workers = 1
	}
	return &PartitionedUploader{
		backend:  backend,
		partSize: partSize,
		workers:  workers,
		progress: &Notifier{},
		log:      log,
	}
}

func (u *PartitionedUploader) OnProgress(fn ProgressFunc) {
	u.progress.Observe(fn)
}

func (u *PartitionedUploader) Upload(ctx context.Context, path string, data []byte) (int, error) {
	if u.partSize <= 0 {
		return 0, common.ErrInvalidArgument
	}
	if len(data) == 0 {
		return 0, common.ErrMissingAttribute
	}

	size := int64(len(data))
	numParts := int((size + u.partSize - 1) / u.partSize)

	var (
		mu        sync.Mutex
		completed int
		written   = make([]bool, numParts)
	)

	putPart := func(ctx context.Context, index int) error {
		start := int64(index) * u.partSize
		end := min(start+u.partSize, size)

		if err := u.backend.PutFile(ctx, common.PartPath(path, index), data[start:end]); err != nil {
			return &common.TransferError{Stage: common.StageUpload, PartIndex: index, Err: err}
		}

		mu.Lock()
		written[index] = true
		completed++
		done := completed
		mu.Unlock()

		u.progress.emit(float64(done) / float64(numParts))
		return nil
	}

	var err error
	if u.workers == 1 {
		for i := 0; i < numParts; i++ {
			if err = putPart(ctx, i); err != nil {
				break
			}
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(u.workers)
		for i := 0; i < numParts; i++ {
			g.Go(func() error { return putPart(gctx, i) })
		}
		err = g.Wait()
	}

	if err != nil {
		u.cleanup(context.WithoutCancel(ctx), path, written)
		return 0, err
	}

	return numParts, nil
}

// cleanup best-effort deletes parts already written by an aborted
// upload so a failed transfer does not leave orphaned objects behind.
func (u *PartitionedUploader) cleanup(ctx context.Context, path string, written []bool) {
	for i, ok := range written {
		if !ok {
			continue
		}
		if err := u.backend.DeleteFile(ctx, common.PartPath(path, i)); err != nil {
			u.log.Warn(ctx, "orphaned part left after failed upload", "path", path, "index", i, "error", err)
		}
	}
}
