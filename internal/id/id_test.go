package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	got, err := New("search")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "search-"), "got %q", got)
	assert.Greater(t, len(got), len("search-"))
}

func TestNewUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		got, err := New("search")
		require.NoError(t, err)
		_, dup := seen[got]
		require.False(t, dup, "duplicate id %q", got)
		seen[got] = struct{}{}
	}
}

func TestMustNew(t *testing.T) {
	assert.NotPanics(t, func() {
		got := MustNew("user")
		assert.True(t, strings.HasPrefix(got, "user-"))
	})
}
