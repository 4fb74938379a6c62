package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestFullyQualified(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"alice", "alice" + DefaultNamespaceSuffix},
		{"alice.id.docshare", "alice.id.docshare"},
		{"bob.example.org", "bob.example.org"},
		{"", ""},
	}
	for _, tc := range tests {
		require.Equal(t, tc.want, FullyQualified(tc.in))
	}
}

func signedToken(t *testing.T, username string, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Username: username,
	})
	s, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func TestFromToken_OK(t *testing.T) {
	ts := signedToken(t, "alice", time.Now().Add(time.Hour))

	s, err := FromToken(ts)
	require.NoError(t, err)
	require.Equal(t, "alice"+DefaultNamespaceSuffix, s.Username)
	require.Equal(t, ts, s.HubToken)
}

func TestFromToken_Expired(t *testing.T) {
	ts := signedToken(t, "alice", time.Now().Add(-time.Hour))

	_, err := FromToken(ts)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestFromToken_Garbage(t *testing.T) {
	_, err := FromToken("not-a-token")
	require.Error(t, err)
}
