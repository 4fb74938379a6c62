package common

import "fmt"

const (
	// SingleFileSizeLimit is the default size threshold, in bytes, above
	// which an upload is split into parts.
	SingleFileSizeLimit = 5 * 1024 * 1024

	// DefaultPartSize is the default size, in bytes, of one part of a
	// partitioned transfer.
	DefaultPartSize = 5 * 1024 * 1024

	// IndexFilePath is the backend key of the document index object.
	IndexFilePath = "index"

	// StoragePrefixLength is the length of the random prefix that
	// namespaces a document's objects under one key prefix.
	StoragePrefixLength = 24
)

// PartPath returns the backend key of one part of a partitioned object.
// Part indexes start at 0.
func PartPath(path string, index int) string {
	return fmt.Sprintf("%s.part%d", path, index)
}
