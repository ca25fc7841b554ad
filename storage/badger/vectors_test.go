package badger

import (
	"context"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/rematch/core"
	"github.com/poiesic/rematch/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorRepository_PutGet(t *testing.T) {
	store, err := NewMemoryVectorStore("test-model")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	a := core.IDFromContent("alpha")
	b := core.IDFromContent("beta")
	missing := core.IDFromContent("gamma")

	err = store.PutVectors(ctx, map[core.ID][]float32{
		a: {0.1, 0.2, 0.3},
		b: {-1, 0, 1},
	})
	require.NoError(t, err)

	got, err := store.GetVectors(ctx, a, b, missing)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, got[a])
	assert.Equal(t, []float32{-1, 0, 1}, got[b])
	_, ok := got[missing]
	assert.False(t, ok)
}

func TestVectorRepository_Overwrite(t *testing.T) {
	store, err := NewMemoryVectorStore("test-model")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	id := core.IDFromContent("alpha")
	require.NoError(t, store.PutVectors(ctx, map[core.ID][]float32{id: {1}}))
	require.NoError(t, store.PutVectors(ctx, map[core.ID][]float32{id: {2, 3}}))

	got, err := store.GetVectors(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []float32{2, 3}, got[id])
}

func TestVectorRepository_NamespacesIsolated(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	small, err := newVectorRepository(backend, "small-model")
	require.NoError(t, err)
	large, err := newVectorRepository(backend, "large-model")
	require.NoError(t, err)

	id := core.IDFromContent("shared text")
	require.NoError(t, small.PutVectors(ctx, map[core.ID][]float32{id: {1, 2}}))

	got, err := large.GetVectors(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, got)

	count, err := small.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = large.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestVectorRepository_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	id := core.IDFromContent("persist me")

	backend, err := OpenBackend(dir, false)
	require.NoError(t, err)
	store, err := NewVectorRepository(backend, "m")
	require.NoError(t, err)
	require.NoError(t, store.PutVectors(ctx, map[core.ID][]float32{id: {0.5, 0.25}}))
	require.NoError(t, store.Close())
	require.NoError(t, backend.Close())

	backend, err = OpenBackend(dir, false)
	require.NoError(t, err)
	defer backend.Close()
	store, err = NewVectorRepository(backend, "m")
	require.NoError(t, err)

	got, err := store.GetVectors(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, 0.25}, got[id])
}

func TestVectorRepository_Closed(t *testing.T) {
	store, err := NewMemoryVectorStore("m")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	_, err = store.GetVectors(context.Background(), core.ID(1))
	assert.ErrorIs(t, err, storage.ErrStorageClosed)

	err = store.PutVectors(context.Background(), map[core.ID][]float32{1: {1}})
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}

func TestNewVectorRepository_NilBackend(t *testing.T) {
	_, err := NewVectorRepository(nil, "m")
	assert.Error(t, err)
}

func TestVectorRepository_MismatchedRecord(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()

	repo, err := newVectorRepository(backend, "m")
	require.NoError(t, err)

	a := core.IDFromContent("alpha")
	b := core.IDFromContent("beta")
	err = backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeVectorKey("m", a), storage.MarshalVector(b, []float32{1})); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	require.NoError(t, err)

	_, err = repo.GetVectors(context.Background(), a)
	assert.ErrorIs(t, err, storage.ErrSerializationFailed)
}
