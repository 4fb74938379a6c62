// Package common defines shared constants and errors used across the
// document-store layers. Sentinel values are matched with errors.Is;
// the typed errors below carry transfer details and are matched with
// errors.As.
package common

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingAttribute signals that a required record attribute was
	// absent before an operation that needs it (e.g. no file size when
	// picking a transfer strategy). This is a programming error, not a
	// runtime condition.
	ErrMissingAttribute = errors.New("missing required attribute")

	// ErrInvalidArgument signals a malformed argument, such as a nil
	// progress observer.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound is returned when the backend reports no object at the
	// requested path.
	ErrNotFound = errors.New("not found")

	// ErrUnknownVersion is returned when a payload carries a version this
	// build does not know how to read.
	ErrUnknownVersion = errors.New("unknown payload version")
)

// Stage identifies which half of a transfer failed.
type Stage string

const (
	StageUpload   Stage = "upload"
	StageDownload Stage = "download"
)

// TransferError reports the first part that failed during a partitioned
// transfer. Remaining parts are not attempted.
type TransferError struct {
	Stage     Stage
	PartIndex int
	Err       error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("%s failed at part %d: %v", e.Stage, e.PartIndex, e.Err)
}

func (e *TransferError) Unwrap() error { return e.Err }

// DeletionError reports parts that survived a best-effort cleanup. Every
// part is attempted before this is returned.
type DeletionError struct {
	FailedParts []int
	Err         error
}

func (e *DeletionError) Error() string {
	return fmt.Sprintf("failed to delete parts %v: %v", e.FailedParts, e.Err)
}

func (e *DeletionError) Unwrap() error { return e.Err }

// PersistenceError wraps a backend rejection of a record or index write.
type PersistenceError struct {
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persisting %q: %v", e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
