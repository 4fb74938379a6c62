// Package storage defines the capability surface of the remote object
// store and its implementations. All keys are namespaced by username,
// so one user's objects never collide with another's; reads may target
// a third-party namespace for public sharing.
package storage

import "context"

// GetOptions control a read. Username selects a third-party namespace
// instead of the session's own; empty means the current user. Decrypt
// and Verify are passed through to backends that support them; public
// shared reads set both to false.
type GetOptions struct {
	Username string
	Decrypt  bool
	Verify   bool
}

// Backend is the opaque remote-storage capability the document store is
// built on.
type Backend interface {
	// PutFile writes data at path in the session's namespace.
	PutFile(ctx context.Context, path string, data []byte) error

	// GetFile reads the object at path. A missing object yields
	// common.ErrNotFound.
	GetFile(ctx context.Context, path string, opts GetOptions) ([]byte, error)

	// GetFileURL resolves a direct URL for the object at path, letting
	// callers fetch single objects without proxying bytes through the
	// client.
	GetFileURL(ctx context.Context, path string, opts GetOptions) (string, error)

	// DeleteFile removes the object at path in the session's namespace.
	DeleteFile(ctx context.Context, path string) error

	// ListFiles enumerates object paths under prefix in the session's
	// namespace.
	ListFiles(ctx context.Context, prefix string) ([]string, error)
}
