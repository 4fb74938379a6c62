// Package index maintains the two document lists: the remote
// authoritative index persisted in the backend, and the local pending
// cache used before the remote index has loaded.
package index

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/dsmirnov/docshare/internal/common"
	"github.com/dsmirnov/docshare/internal/docs"
	"github.com/dsmirnov/docshare/internal/logging"
	"github.com/dsmirnov/docshare/internal/record"
	"github.com/dsmirnov/docshare/internal/storage"
)

// Remote is the authoritative list of the user's documents, persisted
// as a backend object. All mutations go through Remote itself; external
// callers only read the snapshots handed to their observers.
type Remote struct {
	backend storage.Backend
	store   *record.Store
	log     logging.Logger

	mu        sync.Mutex
	documents []*docs.Document
	observers []func([]*docs.Document)
}

func NewRemote(backend storage.Backend, store *record.Store, log logging.Logger) *Remote {
	return &Remote{backend: backend, store: store, log: log}
}

// OnChange registers an observer invoked synchronously after every
// applied mutation with a snapshot of the full current list.
func (ix *Remote) OnChange(fn func([]*docs.Document)) error {
	if fn == nil {
		return fmt.Errorf("change observer: %w", common.ErrInvalidArgument)
	}
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.observers = append(ix.observers, fn)
	return nil
}

// Documents returns a snapshot of the current list.
func (ix *Remote) Documents() []*docs.Document {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return append([]*docs.Document(nil), ix.documents...)
}

// Load fetches the index object and replaces the in-memory snapshot.
// A missing index object means a first run and yields an empty list.
// Calling Load again refreshes the snapshot.
func (ix *Remote) Load(ctx context.Context) error {
	data, err := ix.backend.GetFile(ctx, common.IndexFilePath, storage.GetOptions{Decrypt: false, Verify: false})
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			ix.swap(ctx, nil)
			return nil
		}
		return fmt.Errorf("loading index: %w", err)
	}

	var payloads []json.RawMessage
	if err := json.Unmarshal(data, &payloads); err != nil {
		return fmt.Errorf("parsing index: %w", err)
	}

	list := make([]*docs.Document, 0, len(payloads))
	for _, p := range payloads {
		doc, err := docs.Deserialize(p)
		if err != nil {
			return fmt.Errorf("parsing index entry: %w", err)
		}
		list = append(list, doc)
	}

	ix.swap(ctx, list)
	return nil
}

// AddDocument persists doc and appends it to the index.
func (ix *Remote) AddDocument(ctx context.Context, doc *docs.Document) error {
	return ix.AddDocuments(ctx, []*docs.Document{doc})
}

// AddDocuments persists every document, then the updated index object,
// and fires one change notification covering the whole batch. Any
// failure leaves the in-memory list unchanged.
func (ix *Remote) AddDocuments(ctx context.Context, list []*docs.Document) error {
	if len(list) == 0 {
		return nil
	}

	for _, doc := range list {
		if err := ix.store.Save(ctx, doc); err != nil {
			return fmt.Errorf("saving document %q: %w", doc.ID(), err)
		}
	}

	ix.mu.Lock()
	next := append(append([]*docs.Document(nil), ix.documents...), list...)
	ix.mu.Unlock()

	if err := ix.persist(ctx, next); err != nil {
		return err
	}

	ix.swap(ctx, next)
	return nil
}

// DeleteDocument deletes doc's objects and drops it from the index. If
// deletion fails the document stays listed, so consumers keep showing
// an entry whose delete did not take effect.
func (ix *Remote) DeleteDocument(ctx context.Context, doc *docs.Document) error {
	if err := ix.store.Delete(ctx, doc); err != nil {
		return fmt.Errorf("deleting document %q: %w", doc.ID(), err)
	}

	ix.mu.Lock()
	next := make([]*docs.Document, 0, len(ix.documents))
	for _, d := range ix.documents {
		if d.Id != doc.Id {
			next = append(next, d)
		}
	}
	ix.mu.Unlock()

	if err := ix.persist(ctx, next); err != nil {
		return err
	}

	ix.swap(ctx, next)
	return nil
}

// persist writes the index object for list.
func (ix *Remote) persist(ctx context.Context, list []*docs.Document) error {
	payloads := make([]json.RawMessage, 0, len(list))
	for _, doc := range list {
		p, err := doc.Serialize()
		if err != nil {
			return fmt.Errorf("serializing index entry %q: %w", doc.ID(), err)
		}
		payloads = append(payloads, p)
	}

	data, err := json.Marshal(payloads)
	if err != nil {
		return fmt.Errorf("serializing index: %w", err)
	}

	if err := ix.backend.PutFile(ctx, common.IndexFilePath, data); err != nil {
		return &common.PersistenceError{Path: common.IndexFilePath, Err: err}
	}
	return nil
}

// swap installs list as the current snapshot and notifies observers.
// Observers run synchronously and always see a fully applied list.
func (ix *Remote) swap(ctx context.Context, list []*docs.Document) {
	ix.mu.Lock()
	ix.documents = list
	observers := append(([]func([]*docs.Document))(nil), ix.observers...)
	snapshot := append([]*docs.Document(nil), list...)
	ix.mu.Unlock()

	for _, fn := range observers {
		fn(snapshot)
	}
	ix.log.Debug(ctx, "index changed", "documents", len(snapshot))
}
