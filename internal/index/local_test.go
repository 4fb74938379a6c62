package index

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dsmirnov/docshare/internal/docs"
	"github.com/dsmirnov/docshare/internal/logging"
)

func newLocal(t *testing.T) *Local {
	t.Helper()
	ctx := context.Background()
	db, err := InitDatabase(ctx, filepath.Join(t.TempDir(), "pending.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewLocal(NewSQLiteRepository(db), logging.NewDefault())
}

func pendingDoc(id, name string) *docs.Document {
	return &docs.Document{
		Id:        id,
		FilePath:  "abcdef/" + name,
		FileSize:  10,
		CreatedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Uploaded:  true,
	}
}

func TestLocal_EmptyOnFirstRun(t *testing.T) {
	ctx := context.Background()
	ix := newLocal(t)

	list, err := ix.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestLocal_RoundTrip(t *testing.T) {
	ctx := context.Background()
	ix := newLocal(t)

	require.NoError(t, ix.SetTempDocuments(ctx, []*docs.Document{
		pendingDoc("1", "a.txt"),
		pendingDoc("2", "b.txt"),
	}))

	list, err := ix.Load(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "1", list[0].Id)
	require.Equal(t, "a.txt", list[0].FileName())
	require.True(t, list[0].Uploaded)
}

func TestLocal_SetReplacesPreviousSet(t *testing.T) {
	ctx := context.Background()
	ix := newLocal(t)

	require.NoError(t, ix.SetTempDocuments(ctx, []*docs.Document{pendingDoc("1", "a.txt")}))
	require.NoError(t, ix.SetTempDocuments(ctx, []*docs.Document{pendingDoc("2", "b.txt")}))

	list, err := ix.Load(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "2", list[0].Id)
}

func TestLocal_ClearAfterMigration(t *testing.T) {
	ctx := context.Background()
	ix := newLocal(t)

	require.NoError(t, ix.SetTempDocuments(ctx, []*docs.Document{pendingDoc("1", "a.txt")}))
	require.NoError(t, ix.SetTempDocuments(ctx, nil))

	list, err := ix.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, list)
}
