package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetUint32Slice(t *testing.T) {
	t.Run("returns empty slice with capacity", func(t *testing.T) {
		slice, cleanup := GetUint32Slice(100)
		defer cleanup()

		require.Empty(t, slice)
		require.GreaterOrEqual(t, cap(slice), 100)
	})

	t.Run("pooled slice is returned empty", func(t *testing.T) {
		slice, cleanup := GetUint32Slice(10)
		slice = append(slice, 1, 2, 3)
		require.Len(t, slice, 3)
		cleanup()

		again, cleanup2 := GetUint32Slice(10)
		defer cleanup2()
		require.Empty(t, again)
	})

	t.Run("zero size", func(t *testing.T) {
		slice, cleanup := GetUint32Slice(0)
		defer cleanup()
		require.Empty(t, slice)
	})
}
