package ports

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/outliner/pkg/domain"
)

// RunBlobStoreContract runs a suite of tests to verify that a BlobStore implementation
// adheres to the defined interface contract.
func RunBlobStoreContract(t *testing.T, store BlobStore) {
	ctx := context.Background()
	payload := []byte("{\n  \"type\": \"FeatureCollection\"\n}")

	t.Run("Create and Open", func(t *testing.T) {
		ref, err := store.Create(ctx, payload, "application/json")
		require.NoError(t, err, "Create should not return error")
		require.NotEmpty(t, ref)

		blob, err := store.Open(ctx, ref)
		require.NoError(t, err, "Open should not return error")
		assert.Equal(t, payload, blob.Data)
		assert.Equal(t, "application/json", blob.ContentType)
	})

	t.Run("References Are Distinct", func(t *testing.T) {
		a, err := store.Create(ctx, payload, "application/json")
		require.NoError(t, err)
		b, err := store.Create(ctx, payload, "application/json")
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})

	t.Run("Open Unknown", func(t *testing.T) {
		_, err := store.Open(ctx, "unknown-"+time.Now().Format("20060102150405"))
		assert.ErrorIs(t, err, domain.ErrBlobNotFound)
	})

	t.Run("Revoke", func(t *testing.T) {
		ref, err := store.Create(ctx, payload, "application/json")
		require.NoError(t, err)

		require.NoError(t, store.Revoke(ctx, ref), "Revoke should not return error")
		_, err = store.Open(ctx, ref)
		assert.ErrorIs(t, err, domain.ErrBlobNotFound, "Open after Revoke should return ErrBlobNotFound")

		assert.NoError(t, store.Revoke(ctx, ref), "Revoke is idempotent")
	})
}

// RunHistoryStoreContract runs a suite of tests to verify that a HistoryStore
// implementation adheres to the defined interface contract.
func RunHistoryStoreContract(t *testing.T, store HistoryStore) {
	ctx := context.Background()
	shell := "contract-shell-" + time.Now().Format("20060102150405")

	t.Run("Append and Load", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			require.NoError(t, store.Append(ctx, shell, fmt.Sprintf("expression %d", i)))
		}
		entries, err := store.Load(ctx, shell)
		require.NoError(t, err)
		assert.Equal(t, []string{"expression 0", "expression 1", "expression 2"}, entries)
	})

	t.Run("Shells Are Separate", func(t *testing.T) {
		require.NoError(t, store.Append(ctx, shell+"-other", "other"))
		entries, err := store.Load(ctx, shell+"-other")
		require.NoError(t, err)
		assert.Equal(t, []string{"other"}, entries)
	})

	t.Run("Load Unknown", func(t *testing.T) {
		entries, err := store.Load(ctx, "unknown-"+shell)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}
