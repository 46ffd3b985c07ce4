// Package providertest holds the behaviour every SnapshotProvider must share.
package providertest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/storefront/domain"
	"github.com/fastygo/storefront/repository"
)

// Run exercises p against the provider contract. p must start empty.
func Run(t *testing.T, p repository.SnapshotProvider) {
	t.Helper()
	ctx := context.Background()
	base := time.UnixMilli(1700000000000)
	first := repository.SnapshotName("site-data", "data", base)
	second := repository.SnapshotName("site-data", "data", base.Add(time.Second))

	t.Run("List empty", func(t *testing.T) {
		locs, err := p.List(ctx, "site-data/")
		require.NoError(t, err)
		assert.Empty(t, locs)
	})

	t.Run("Write and Read", func(t *testing.T) {
		loc, err := p.Write(ctx, first, []byte(`{"v":1}`))
		require.NoError(t, err)
		assert.Equal(t, first, loc.Name)
		assert.True(t, loc.Timestamp.Equal(base))
		assert.EqualValues(t, 7, loc.Size)

		body, err := p.Read(ctx, first)
		require.NoError(t, err)
		assert.JSONEq(t, `{"v":1}`, string(body))
	})

	t.Run("Write is write-once", func(t *testing.T) {
		_, err := p.Write(ctx, first, []byte(`{"v":2}`))
		require.Error(t, err)
		assert.True(t, domain.IsDomainError(err, domain.ErrCodeConflict))

		body, err := p.Read(ctx, first)
		require.NoError(t, err)
		assert.JSONEq(t, `{"v":1}`, string(body))
	})

	t.Run("Read missing", func(t *testing.T) {
		_, err := p.Read(ctx, "site-data/data-1.json")
		assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
	})

	t.Run("List filters by prefix", func(t *testing.T) {
		_, err := p.Write(ctx, second, []byte(`{"v":3}`))
		require.NoError(t, err)
		_, err = p.Write(ctx, repository.SnapshotName("other", "data", base), []byte(`{}`))
		require.NoError(t, err)

		locs, err := p.List(ctx, "site-data/")
		require.NoError(t, err)
		require.Len(t, locs, 2)
		names := []string{locs[0].Name, locs[1].Name}
		assert.ElementsMatch(t, []string{first, second}, names)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, p.Delete(ctx, first))
		require.NoError(t, p.Delete(ctx, first), "deleting twice is not an error")

		locs, err := p.List(ctx, "site-data/")
		require.NoError(t, err)
		require.Len(t, locs, 1)
		assert.Equal(t, second, locs[0].Name)
	})

	t.Run("Ping", func(t *testing.T) {
		assert.NoError(t, p.Ping(ctx))
	})
}
