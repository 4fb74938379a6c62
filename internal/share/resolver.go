// Package share resolves public share locators into downloadable
// documents. Resolution is read-only and never touches the index.
package share

import (
	"context"
	"fmt"
	"strings"

	"github.com/dsmirnov/docshare/internal/common"
	"github.com/dsmirnov/docshare/internal/docs"
	"github.com/dsmirnov/docshare/internal/session"
	"github.com/dsmirnov/docshare/internal/storage"
)

// Resolver hydrates documents from other users' public namespaces.
type Resolver struct {
	backend storage.Backend
}

func NewResolver(backend storage.Backend) *Resolver {
	return &Resolver{backend: backend}
}

// Resolve fetches the document stored by username under contentID and
// returns it ready for Download. A bare username is expanded with the
// default namespace suffix first. A miss yields common.ErrNotFound.
func (r *Resolver) Resolve(ctx context.Context, username, contentID string) (*docs.Document, error) {
	username = session.FullyQualified(username)

	data, err := r.backend.GetFile(ctx, contentID, storage.GetOptions{
		Username: username,
		Decrypt:  false,
		Verify:   false,
	})
	if err != nil {
		return nil, fmt.Errorf("shared document %s/%s: %w", username, contentID, err)
	}

	doc, err := docs.Deserialize(data)
	if err != nil {
		return nil, fmt.Errorf("shared document %s/%s: %w", username, contentID, err)
	}
	doc.Username = username
	return doc, nil
}

// ParseLocator splits a share locator of the form
// /<namespace>/<contentId>. The leading slash is optional.
func ParseLocator(locator string) (username, contentID string, err error) {
	trimmed := strings.TrimPrefix(locator, "/")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("share locator %q: %w", locator, common.ErrInvalidArgument)
	}
	return parts[0], parts[1], nil
}

// FormatLocator renders the share locator for a document owned by
// username.
func FormatLocator(username, contentID string) string {
	return "/" + session.FullyQualified(username) + "/" + contentID
}
