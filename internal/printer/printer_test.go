package printer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestError(t *testing.T) {
	t.Run("returns error with title", func(t *testing.T) {
		err := Error("Save failed", "the selection was empty", []string{})
		require.Error(t, err)
		require.Equal(t, "Save failed", err.Error())
	})

	t.Run("returns error with title when including suggestions", func(t *testing.T) {
		err := Error("Save failed", "the selection was empty", []string{
			"Select the rig's root transform before saving",
		})
		require.Error(t, err)
		require.Equal(t, "Save failed", err.Error())
	})

	t.Run("returns error with title for multiple suggestions", func(t *testing.T) {
		err := Error("Load failed", "item not in the catalog", []string{
			"Check the library path",
			"Run 'prefabctl list' to see saved items",
		})
		require.Error(t, err)
		require.Equal(t, "Load failed", err.Error())
	})
}

// The Error function prints formatted output to stderr with colors. The error
// object returned only contains the title for Cobra's error handling, so the
// message is not printed twice.
