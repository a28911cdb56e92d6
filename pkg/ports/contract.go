package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/lattice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSnapshotStoreContract runs a suite of tests verifying that a
// SnapshotStore implementation adheres to the interface contract.
func RunSnapshotStoreContract(t *testing.T, store SnapshotStore) {
	ctx := context.Background()
	id := "contract-test-machine-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		snap := lattice.Snapshot{State: 3, UpdatedAt: time.Now().UTC().Truncate(time.Second)}

		err := store.Save(ctx, id, snap)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, snap.State, loaded.State)
		assert.WithinDuration(t, snap.UpdatedAt, loaded.UpdatedAt, time.Second)
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, id, lattice.Snapshot{State: 1}))
		require.NoError(t, store.Save(ctx, id, lattice.Snapshot{State: 2}))

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, uint32(2), loaded.State)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+id)
		assert.ErrorIs(t, err, ErrSnapshotNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, id, lattice.Snapshot{State: 1}))

		err := store.Delete(ctx, id)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, id)
		assert.ErrorIs(t, err, ErrSnapshotNotFound, "Load after Delete should return ErrSnapshotNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := id + "-1"
		id2 := id + "-2"
		_ = store.Save(ctx, id1, lattice.Snapshot{State: 1})
		_ = store.Save(ctx, id2, lattice.Snapshot{State: 2})

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}
