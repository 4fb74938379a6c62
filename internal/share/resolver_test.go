package share

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dsmirnov/docshare/internal/common"
	"github.com/dsmirnov/docshare/internal/docs"
	"github.com/dsmirnov/docshare/internal/session"
	"github.com/dsmirnov/docshare/internal/storage"
)

func seedSharedDoc(t *testing.T, b *storage.MemoryBackend, owner, id string) {
	t.Helper()
	doc := &docs.Document{Id: id, FilePath: "abcdef/report.pdf", FileSize: 500, Uploaded: true}
	payload, err := doc.Serialize()
	require.NoError(t, err)
	b.PutAs(owner, id, payload)
}

func TestResolve_BareUsernameIsExpanded(t *testing.T) {
	ctx := context.Background()
	b := storage.NewMemoryBackend(session.New("alice"))
	seedSharedDoc(t, b, "bob"+session.DefaultNamespaceSuffix, "doc1")

	doc, err := NewResolver(b).Resolve(ctx, "bob", "doc1")
	require.NoError(t, err)
	require.Equal(t, "abcdef/report.pdf", doc.FilePath)
	require.Equal(t, "bob"+session.DefaultNamespaceSuffix, doc.Username)
}

func TestResolve_QualifiedUsernameUnchanged(t *testing.T) {
	ctx := context.Background()
	b := storage.NewMemoryBackend(session.New("alice"))
	seedSharedDoc(t, b, "bob.example.org", "doc1")

	doc, err := NewResolver(b).Resolve(ctx, "bob.example.org", "doc1")
	require.NoError(t, err)
	require.Equal(t, "bob.example.org", doc.Username)
}

func TestResolve_DownloadReadsOwnerNamespace(t *testing.T) {
	ctx := context.Background()
	b := storage.NewMemoryBackend(session.New("alice"))
	owner := "bob" + session.DefaultNamespaceSuffix
	seedSharedDoc(t, b, owner, "doc1")
	b.PutAs(owner, "abcdef/report.pdf", []byte("content"))

	doc, err := NewResolver(b).Resolve(ctx, "bob", "doc1")
	require.NoError(t, err)

	dl, err := doc.Download(ctx, b)
	require.NoError(t, err)
	require.Equal(t, "memory://"+owner+"/abcdef/report.pdf", dl.URL)
}

func TestResolve_Miss(t *testing.T) {
	ctx := context.Background()
	b := storage.NewMemoryBackend(session.New("alice"))

	_, err := NewResolver(b).Resolve(ctx, "bob", "nope")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestParseLocator(t *testing.T) {
	username, contentID, err := ParseLocator("/bob.example.org/doc1")
	require.NoError(t, err)
	require.Equal(t, "bob.example.org", username)
	require.Equal(t, "doc1", contentID)

	username, contentID, err = ParseLocator("bob/doc1")
	require.NoError(t, err)
	require.Equal(t, "bob", username)
	require.Equal(t, "doc1", contentID)

	_, _, err = ParseLocator("/justone")
	require.ErrorIs(t, err, common.ErrInvalidArgument)
	_, _, err = ParseLocator("")
	require.ErrorIs(t, err, common.ErrInvalidArgument)
}

func TestFormatLocator(t *testing.T) {
	require.Equal(t, "/bob"+session.DefaultNamespaceSuffix+"/doc1", FormatLocator("bob", "doc1"))
}
