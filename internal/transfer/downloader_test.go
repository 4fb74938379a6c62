package transfer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dsmirnov/docshare/internal/common"
	"github.com/dsmirnov/docshare/internal/logging"
	"github.com/dsmirnov/docshare/internal/storage"
)

func uploadParts(t *testing.T, b *storage.MemoryBackend, path string, data []byte, partSize int64) int {
	t.Helper()
	u := NewPartitionedUploader(b, partSize, 1, logging.NewDefault())
	numParts, err := u.Upload(context.Background(), path, data)
	require.NoError(t, err)
	return numParts
}

func TestPartitionedDownloader_ReassemblesInOrder(t *testing.T) {
	ctx := context.Background()
	b := newBackend()
	numParts := uploadParts(t, b, "p", []byte("0123456789"), 4)

	d := NewPartitionedDownloader(b, storage.GetOptions{}, 1)

	var events []float64
	d.OnProgress(func(f float64) { events = append(events, f) })

	data, err := d.Download(ctx, "p", numParts)
	require.NoError(t, err)
	require.Equal(t, []byte("0123456789"), data)
	require.InDeltaSlice(t, []float64{1.0 / 3, 2.0 / 3, 1}, events, 1e-9)
}

func TestPartitionedDownloader_BoundedWorkersStillOrdered(t *testing.T) {
	ctx := context.Background()
	b := newBackend()
	payload := make([]byte, 103)
	for i := range payload {
		payload[i] = byte(i)
	}
	numParts := uploadParts(t, b, "p", payload, 10)

	d := NewPartitionedDownloader(b, storage.GetOptions{}, 4)
	data, err := d.Download(ctx, "p", numParts)
	require.NoError(t, err)
	require.Equal(t, payload, data)
}

func TestPartitionedDownloader_MissingPart(t *testing.T) {
	ctx := context.Background()
	b := newBackend()
	uploadParts(t, b, "p", []byte("0123456789"), 4)
	require.NoError(t, b.DeleteFile(ctx, "p.part1"))

	d := NewPartitionedDownloader(b, storage.GetOptions{}, 1)
	_, err := d.Download(ctx, "p", 3)

	var te *common.TransferError
	require.ErrorAs(t, err, &te)
	require.Equal(t, common.StageDownload, te.Stage)
	require.Equal(t, 1, te.PartIndex)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestPartitionedDownloader_BackendFailure(t *testing.T) {
	ctx := context.Background()
	b := newBackend()
	uploadParts(t, b, "p", []byte("0123456789"), 4)
	b.GetErr = func(path string) error {
		if path == "p.part2" {
			return errors.New("denied")
		}
		return nil
	}

	d := NewPartitionedDownloader(b, storage.GetOptions{}, 1)
	_, err := d.Download(ctx, "p", 3)

	var te *common.TransferError
	require.ErrorAs(t, err, &te)
	require.Equal(t, 2, te.PartIndex)
}

func TestPartitionedDownloader_NoParts(t *testing.T) {
	d := NewPartitionedDownloader(newBackend(), storage.GetOptions{}, 1)
	_, err := d.Download(context.Background(), "p", 0)
	require.ErrorIs(t, err, common.ErrMissingAttribute)
}
