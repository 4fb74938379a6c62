package randx

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHash_LengthAndCharset(t *testing.T) {
	re := regexp.MustCompile(`^[a-zA-Z0-9]+$`)
	for _, n := range []int{1, 24, 64} {
		s := Hash(n)
		require.Len(t, s, n)
		require.Regexp(t, re, s)
	}
}

func TestHash_NotConstant(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 16; i++ {
		seen[Hash(24)] = true
	}
	require.Greater(t, len(seen), 1)
}
