package store_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/hariprasanth02/2203031240132/internal/shortener"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// registryContract exercises the shortener.Registry guarantees that every
// backend must provide. Codes are prefixed so runs against shared backends
// do not collide; prefix plus suffix stays within 15 characters.
func registryContract(t *testing.T, reg shortener.Registry, prefix string) {
	t.Helper()

	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	record := func(suffix string) *shortener.ShortURL {
		return &shortener.ShortURL{
			Code:        shortener.Code(prefix + suffix),
			Destination: "https://example.com/" + suffix,
			CreatedAt:   now,
			ExpiresAt:   now.Add(time.Hour),
		}
	}

	t.Run("insert then get round trips", func(t *testing.T) {
		rec := record("rt")
		require.NoError(t, reg.Insert(ctx, rec))

		got, err := reg.Get(ctx, rec.Code)
		require.NoError(t, err)
		assert.Equal(t, rec.Code, got.Code)
		assert.Equal(t, rec.Destination, got.Destination)
		assert.True(t, rec.CreatedAt.Equal(got.CreatedAt))
		assert.True(t, rec.ExpiresAt.Equal(got.ExpiresAt))
		assert.Zero(t, got.Hits)

		exists, err := reg.Exists(ctx, rec.Code)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("far future expiry round trips", func(t *testing.T) {
		rec := record("far")
		rec.ExpiresAt = now.Add(shortener.ParseDurationMinutes("130000000"))
		require.NoError(t, reg.Insert(ctx, rec))

		got, err := reg.Get(ctx, rec.Code)
		require.NoError(t, err)
		assert.True(t, rec.ExpiresAt.Equal(got.ExpiresAt), "got %s", got.ExpiresAt)
		assert.True(t, got.ExpiresAt.After(got.CreatedAt))
		assert.False(t, got.Expired(now))
	})

	t.Run("missing code", func(t *testing.T) {
		exists, err := reg.Exists(ctx, shortener.Code(prefix+"none"))
		require.NoError(t, err)
		assert.False(t, exists)

		_, err = reg.Get(ctx, shortener.Code(prefix+"none"))
		assert.ErrorIs(t, err, shortener.ErrNotFound)

		_, err = reg.IncrementHits(ctx, shortener.Code(prefix+"none"))
		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})

	t.Run("duplicate insert fails", func(t *testing.T) {
		require.NoError(t, reg.Insert(ctx, record("dup")))

		err := reg.Insert(ctx, record("dup"))
		assert.ErrorIs(t, err, shortener.ErrDuplicateCode)
	})

	t.Run("concurrent claims have one winner", func(t *testing.T) {
		const n = 20

		var (
			wg   sync.WaitGroup
			mu   sync.Mutex
			wins int
			dups int
		)

		for range n {
			wg.Add(1)

			go func() {
				defer wg.Done()

				err := reg.Insert(ctx, record("race"))

				mu.Lock()
				defer mu.Unlock()

				switch {
				case err == nil:
					wins++
				case errors.Is(err, shortener.ErrDuplicateCode):
					dups++
				}
			}()
		}

		wg.Wait()

		assert.Equal(t, 1, wins)
		assert.Equal(t, n-1, dups)
	})

	t.Run("concurrent increments are all counted", func(t *testing.T) {
		rec := record("hits")
		require.NoError(t, reg.Insert(ctx, rec))

		const n = 50

		var wg sync.WaitGroup

		for range n {
			wg.Add(1)

			go func() {
				defer wg.Done()

				_, err := reg.IncrementHits(ctx, rec.Code)
				assert.NoError(t, err)
			}()
		}

		wg.Wait()

		got, err := reg.Get(ctx, rec.Code)
		require.NoError(t, err)
		assert.Equal(t, int64(n), got.Hits)
	})

	t.Run("list keeps insertion order", func(t *testing.T) {
		suffixes := []string{"ordc", "orda", "ordb"}
		for _, s := range suffixes {
			require.NoError(t, reg.Insert(ctx, record(s)))
		}

		links, err := reg.List(ctx)
		require.NoError(t, err)

		var ours []string

		for _, link := range links {
			for _, s := range suffixes {
				if string(link.Code) == prefix+s {
					ours = append(ours, s)
				}
			}
		}

		assert.Equal(t, suffixes, ours)
	})
}
