package offline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadThroughFreshUpdatesSnapshot(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySnapshotStore()

	data, stale, err := ReadThrough(ctx, store, "studio-1", "gallery:ensaio-carla", func(context.Context) ([]byte, error) {
		return []byte(`{"title":"Ensaio Carla"}`), nil
	})

	assert.NoError(t, err)
	assert.False(t, stale)
	assert.JSONEq(t, `{"title":"Ensaio Carla"}`, string(data))

	snap, err := store.GetSnapshot(ctx, "studio-1", "gallery:ensaio-carla")
	assert.NoError(t, err)
	assert.JSONEq(t, `{"title":"Ensaio Carla"}`, string(snap.Data))
}

func TestReadThroughServesStaleOnFetchFailure(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySnapshotStore()

	// Primeira leitura popula o snapshot.
	_, _, err := ReadThrough(ctx, store, "studio-1", "gallery:x", func(context.Context) ([]byte, error) {
		return []byte(`{"v":1}`), nil
	})
	assert.NoError(t, err)

	// Remoto caiu: serve o snapshot anterior, marcado como stale.
	data, stale, err := ReadThrough(ctx, store, "studio-1", "gallery:x", func(context.Context) ([]byte, error) {
		return nil, errors.New("connection refused")
	})

	assert.NoError(t, err)
	assert.True(t, stale)
	assert.JSONEq(t, `{"v":1}`, string(data))
}

func TestReadThroughNoSnapshotPropagatesError(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySnapshotStore()

	fetchErr := errors.New("connection refused")
	data, stale, err := ReadThrough(ctx, store, "studio-1", "gallery:nunca-vista", func(context.Context) ([]byte, error) {
		return nil, fetchErr
	})

	assert.Nil(t, data)
	assert.False(t, stale)
	assert.ErrorIs(t, err, fetchErr)
}

func TestReadThroughIsolatesStudios(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySnapshotStore()

	_, _, _ = ReadThrough(ctx, store, "studio-1", "gallery:x", func(context.Context) ([]byte, error) {
		return []byte(`{"dono":"studio-1"}`), nil
	})

	// Mesmo key, outro estúdio: sem snapshot emprestado.
	data, stale, err := ReadThrough(ctx, store, "studio-2", "gallery:x", func(context.Context) ([]byte, error) {
		return nil, errors.New("offline")
	})

	assert.Error(t, err)
	assert.False(t, stale)
	assert.Nil(t, data)
}
