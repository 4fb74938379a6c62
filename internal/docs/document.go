// Package docs defines the Document record: a stored file described by
// a version-tagged payload, with upload/download orchestration layered
// on top of the record lifecycle.
package docs

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dsmirnov/docshare/internal/common"
	"github.com/dsmirnov/docshare/internal/storage"
	"github.com/dsmirnov/docshare/internal/transfer"
)

// Kind is the registry key for document lifecycle hooks.
const Kind = "document"

// Document describes one stored file.
//
// FilePath is the remote object key, generated once on first save as
// <24-char-random>/<fileName> and never mutated afterwards. NumParts is
// 0 for whole-object storage and >= 1 when the content is partitioned
// into <FilePath>.part<index> objects. Uploaded stays false until the
// save lifecycle completes without error.
type Document struct {
	Id          string
	ContentType string
	Version     int
	CreatedAt   time.Time
	FilePath    string
	FileSize    int64
	NumParts    int
	Uploaded    bool

	// Username is set on documents hydrated from a third-party public
	// namespace; reads then target that namespace instead of the
	// session's own.
	Username string

	// Content is the in-memory payload handed to the upload strategy.
	// It is not part of the serialized form.
	Content []byte

	mu                sync.Mutex
	fileName          string
	uploader          transfer.Uploader
	downloader        *transfer.PartitionedDownloader
	uploadCallbacks   []transfer.ProgressFunc
	downloadCallbacks []transfer.ProgressFunc
}

// NewFromFile builds an unsaved Document from a selected file's name
// and content.
func NewFromFile(fileName string, content []byte) *Document {
	d := &Document{
		Version:  CurrentVersion,
		FileSize: int64(len(content)),
		Content:  content,
	}
	d.fileName = fileName
	d.ContentType = d.MimeType()
	return d
}

func (d *Document) Kind() string { return Kind }
func (d *Document) ID() string   { return d.Id }
func (d *Document) Path() string { return d.Id }

// MarkSaved flags the completed save lifecycle.
func (d *Document) MarkSaved() { d.Uploaded = true }

// FileName is derived lazily from the trailing segment of FilePath. It
// can be set directly when the document is constructed from a raw file
// before a path exists.
func (d *Document) FileName() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fileName != "" {
		return d.fileName
	}
	if d.FilePath == "" {
		return ""
	}
	segments := strings.Split(d.FilePath, "/")
	d.fileName = segments[len(segments)-1]
	return d.fileName
}

func (d *Document) SetFileName(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fileName = name
}

// MimeType looks the type up by filename extension only; there is no
// content sniffing.
func (d *Document) MimeType() string {
	return mime.TypeByExtension(filepath.Ext(d.FileName()))
}

// PartPaths lists the backend keys of the document's part objects;
// empty for whole-object documents.
func (d *Document) PartPaths() []string {
	if d.NumParts == 0 {
		return nil
	}
	paths := make([]string, d.NumParts)
	for i := range paths {
		paths[i] = common.PartPath(d.FilePath, i)
	}
	return paths
}

// OnUploadProgress registers an observer invoked with a fraction in
// [0,1]. Registering before a transfer starts is legal; registering
// while one is running attaches to the live strategy.
func (d *Document) OnUploadProgress(fn transfer.ProgressFunc) error {
	if fn == nil {
		return fmt.Errorf("upload progress observer: %w", common.ErrInvalidArgument)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.uploadCallbacks = append(d.uploadCallbacks, fn)
	if d.uploader != nil {
		d.uploader.OnProgress(fn)
	}
	return nil
}

// OnDownloadProgress mirrors OnUploadProgress for retrieval.
func (d *Document) OnDownloadProgress(fn transfer.ProgressFunc) error {
	if fn == nil {
		return fmt.Errorf("download progress observer: %w", common.ErrInvalidArgument)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.downloadCallbacks = append(d.downloadCallbacks, fn)
	if d.downloader != nil {
		d.downloader.OnProgress(fn)
	}
	return nil
}

func (d *Document) attachUploader(u transfer.Uploader) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.uploader = u
	for _, fn := range d.uploadCallbacks {
		u.OnProgress(fn)
	}
}

// Download is the result of retrieving a document's content. Exactly
// one field is set: Data carries reassembled bytes for partitioned
// documents; URL points at the single object so the caller can let the
// backend serve it directly.
type Download struct {
	URL  string
	Data []byte
}

// Download retrieves the document's content. Partitioned documents are
// fetched part by part and reassembled; single-object documents resolve
// to a direct URL.
func (d *Document) Download(ctx context.Context, backend storage.Backend) (*Download, error) {
	opts := storage.GetOptions{Username: d.Username, Decrypt: false, Verify: false}

	if d.NumParts > 1 {
		dl := transfer.NewPartitionedDownloader(backend, opts, 1)
		d.mu.Lock()
		d.downloader = dl
		for _, fn := range d.downloadCallbacks {
			dl.OnProgress(fn)
		}
		d.mu.Unlock()

		data, err := dl.Download(ctx, d.FilePath, d.NumParts)
		if err != nil {
			return nil, err
		}
		return &Download{Data: data}, nil
	}

	url, err := backend.GetFileURL(ctx, d.FilePath, opts)
	if err != nil {
		return nil, fmt.Errorf("resolving %q: %w", d.FilePath, err)
	}

	d.mu.Lock()
	callbacks := append([]transfer.ProgressFunc(nil), d.downloadCallbacks...)
	d.mu.Unlock()
	for _, fn := range callbacks {
		fn(1)
	}

	return &Download{URL: url}, nil
}

// Get fetches and hydrates the document payload stored under id in the
// session's own namespace.
func Get(ctx context.Context, backend storage.Backend, id string) (*Document, error) {
	data, err := backend.GetFile(ctx, id, storage.GetOptions{Decrypt: false, Verify: false})
	if err != nil {
		return nil, fmt.Errorf("document %q: %w", id, err)
	}
	doc, err := Deserialize(data)
	if err != nil {
		return nil, fmt.Errorf("document %q: %w", id, err)
	}
	return doc, nil
}
