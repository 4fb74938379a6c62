package transfer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dsmirnov/docshare/internal/common"
	"github.com/dsmirnov/docshare/internal/logging"
)

func TestRemover_SingleObject(t *testing.T) {
	ctx := context.Background()
	b := newBackend()
	require.NoError(t, b.PutFile(ctx, "abc/doc.txt", []byte("x")))

	r := NewRemover(b, logging.NewDefault())
	require.NoError(t, r.Remove(ctx, "abc/doc.txt", 0))
	require.Zero(t, b.Len())
}

func TestRemover_AllParts(t *testing.T) {
	ctx := context.Background()
	b := newBackend()
	numParts := uploadParts(t, b, "p", []byte("0123456789"), 4)

	r := NewRemover(b, logging.NewDefault())
	require.NoError(t, r.Remove(ctx, "p", numParts))
	require.Zero(t, b.Len())
}

func TestRemover_BestEffortCollectsFailures(t *testing.T) {
	ctx := context.Background()
	b := newBackend()
	uploadParts(t, b, "p", []byte("0123456789"), 4)

	denied := errors.New("denied")
	b.DeleteErr = func(path string) error {
		if path == "p.part1" {
			return denied
		}
		return nil
	}

	r := NewRemover(b, logging.NewDefault())
	err := r.Remove(ctx, "p", 3)

	var de *common.DeletionError
	require.ErrorAs(t, err, &de)
	require.Equal(t, []int{1}, de.FailedParts)
	require.ErrorIs(t, err, denied)

	// the other two parts are gone despite the failure
	_, ok := b.Object("p.part0")
	require.False(t, ok)
	_, ok = b.Object("p.part2")
	require.False(t, ok)
}
