package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunImpressionStoreContract runs a suite of tests to verify that an
// ImpressionStore implementation adheres to the interface contract.
// The store is Reset at the end.
func RunImpressionStoreContract(t *testing.T, store ImpressionStore) {
	t.Helper()
	ctx := context.Background()
	section := "contract-" + time.Now().Format("20060102150405")

	t.Run("Mark Once", func(t *testing.T) {
		fresh, err := store.MarkImpressed(ctx, section, section+"-a")
		require.NoError(t, err)
		assert.True(t, fresh, "first mark should report a new key")

		fresh, err = store.MarkImpressed(ctx, section, section+"-a")
		require.NoError(t, err)
		assert.False(t, fresh, "second mark of the same key should not be new")
	})

	t.Run("Sections Are Independent", func(t *testing.T) {
		other := section + "-other"
		fresh, err := store.MarkImpressed(ctx, other, section+"-a")
		require.NoError(t, err)
		assert.True(t, fresh)
	})

	t.Run("List", func(t *testing.T) {
		_, err := store.MarkImpressed(ctx, section, section+"-b")
		require.NoError(t, err)

		keys, err := store.Impressed(ctx, section)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{section + "-a", section + "-b"}, keys)

		keys, err = store.Impressed(ctx, "never-seen-"+section)
		require.NoError(t, err)
		assert.Empty(t, keys)
	})

	t.Run("Reset", func(t *testing.T) {
		require.NoError(t, store.Reset(ctx))

		keys, err := store.Impressed(ctx, section)
		require.NoError(t, err)
		assert.Empty(t, keys)

		fresh, err := store.MarkImpressed(ctx, section, section+"-a")
		require.NoError(t, err)
		assert.True(t, fresh, "keys are new again after Reset")
		require.NoError(t, store.Reset(ctx))
	})
}
