package util

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetOnce(t *testing.T) {
	set := NewSetOnce[int]()
	require.False(t, set.IsSet())
	require.Equal(t, "undefined", set.String())
	set.Set(5)
	require.True(t, set.IsSet())
	require.Equal(t, 5, set.Get())
	require.Panics(t, func() { set.Set(7) })
	require.Equal(t, 5, set.Get())
}
