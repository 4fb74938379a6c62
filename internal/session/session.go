// Package session carries the identity of the storage user. A Session
// is passed explicitly to every component that reads or writes the
// backend; there is no process-global session state.
package session

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultNamespaceSuffix is appended to usernames that carry no
// namespace of their own (no dot).
const DefaultNamespaceSuffix = ".id.docshare"

var ErrTokenExpired = errors.New("hub token expired")

// Session identifies the current user towards the storage backend.
// Username is the user's own read/write namespace; HubToken is the
// bearer token presented to the storage hub.
type Session struct {
	Username string
	HubToken string
}

func New(username string) *Session {
	return &Session{Username: FullyQualified(username)}
}

// FullyQualified expands a bare username to its namespaced form. Names
// that already contain a dot are returned unchanged.
func FullyQualified(username string) string {
	if username == "" || strings.Contains(username, ".") {
		return username
	}
	return username + DefaultNamespaceSuffix
}

// Claims are the hub-token claims this client cares about.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

// FromToken builds a Session from a hub bearer token. The signature is
// the hub's concern; the client only extracts the username claim and
// rejects tokens that are already expired.
func FromToken(tokenString string) (*Session, error) {
	claims := &Claims{}

	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, err
	}

	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
		return nil, ErrTokenExpired
	}

	return &Session{
		Username: FullyQualified(claims.Username),
		HubToken: tokenString,
	}, nil
}
