package ports

import (
	"context"
	"sync"
	"testing"

	"github.com/Moosa-Imran/Content-Machine-sub001/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunFrameworkStoreContract runs a suite of tests to verify that a FrameworkStore implementation
// adheres to the defined interface contract. The store must be empty when passed in.
func RunFrameworkStoreContract(t *testing.T, store FrameworkStore) {
	ctx := context.Background()

	t.Run("Load Absent", func(t *testing.T) {
		_, err := store.Load(ctx)
		assert.ErrorIs(t, err, domain.ErrFrameworkAbsent)
	})

	t.Run("Persist and Load", func(t *testing.T) {
		fw := domain.NewFramework()
		fw[domain.CategoryHooks] = []string{"first", "second", "first"}
		fw[domain.CategoryExtraHooks] = []string{"extra"}

		err := store.Persist(ctx, fw)
		require.NoError(t, err, "Persist should not return error")

		loaded, err := store.Load(ctx)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, []string{"first", "second", "first"}, loaded[domain.CategoryHooks], "order and duplicates must survive")
		assert.Equal(t, []string{"extra"}, loaded[domain.CategoryExtraHooks])
		assert.Empty(t, loaded[domain.CategoryStories])
	})

	t.Run("Persist Overwrites", func(t *testing.T) {
		first := domain.NewFramework()
		first[domain.CategoryStories] = []string{"old story"}
		require.NoError(t, store.Persist(ctx, first))

		second := domain.NewFramework()
		second[domain.CategoryHooks] = []string{"new hook"}
		require.NoError(t, store.Persist(ctx, second))

		loaded, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, loaded[domain.CategoryStories], "persist is a full replacement")
		assert.Equal(t, []string{"new hook"}, loaded[domain.CategoryHooks])
	})

	t.Run("Isolation", func(t *testing.T) {
		fw := domain.NewFramework()
		fw[domain.CategoryBuildUps] = []string{"kept"}
		require.NoError(t, store.Persist(ctx, fw))

		// Mutating the caller's copy after persist must not leak into the store.
		fw[domain.CategoryBuildUps][0] = "mutated"

		loaded, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"kept"}, loaded[domain.CategoryBuildUps])

		// Neither may mutating a loaded copy.
		loaded[domain.CategoryBuildUps][0] = "mutated again"
		reloaded, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"kept"}, reloaded[domain.CategoryBuildUps])
	})

	t.Run("Concurrent Persist Is Atomic", func(t *testing.T) {
		a := domain.NewFramework()
		b := domain.NewFramework()
		for i := 0; i < 20; i++ {
			a[domain.CategoryHooks] = append(a[domain.CategoryHooks], "a")
			a[domain.CategoryStories] = append(a[domain.CategoryStories], "a")
			b[domain.CategoryHooks] = append(b[domain.CategoryHooks], "b")
			b[domain.CategoryStories] = append(b[domain.CategoryStories], "b")
		}

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				_ = store.Persist(ctx, a)
			}()
			go func() {
				defer wg.Done()
				_ = store.Persist(ctx, b)
			}()
		}
		wg.Wait()

		loaded, err := store.Load(ctx)
		require.NoError(t, err)
		assert.True(t, loaded.Equal(a) || loaded.Equal(b), "final document must match one payload in its entirety")
	})
}
