package cache

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeyIsDeterministic(t *testing.T) {
	t.Parallel()

	a := Key([]byte("same audio bytes"))
	b := Key([]byte("same audio bytes"))
	require.Equal(t, a, b)
}

func TestKeyDiffersByContent(t *testing.T) {
	t.Parallel()

	require.NotEqual(t, Key([]byte("audio one")), Key([]byte("audio two")))
}

func TestKeyCarriesNamespace(t *testing.T) {
	t.Parallel()

	require.Contains(t, Key([]byte("x")), "voxrelay:transcript:")
}
