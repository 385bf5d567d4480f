package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryArtifactStore_PutCopiesData(t *testing.T) {
	store := NewMemoryArtifactStore()
	ctx := context.Background()

	data := []byte("annotated")
	ref, err := store.Put(ctx, "req", "annotated.jpg", data)
	require.NoError(t, err)
	data[0] = 'X'

	got, err := store.Get(ctx, ref)
	require.NoError(t, err)
	require.Equal(t, "annotated", string(got))
	require.Equal(t, 1, store.Len())
}

func TestMemoryArtifactStore_Errors(t *testing.T) {
	store := NewMemoryArtifactStore()
	ctx := context.Background()

	_, err := store.Get(ctx, "req/none.png")
	require.ErrorIs(t, err, ErrArtifactNotFound)

	_, err = store.Get(ctx, "../none.png")
	require.ErrorIs(t, err, ErrInvalidRef)

	_, err = store.Put(ctx, "", "mask.png", nil)
	require.ErrorIs(t, err, ErrInvalidRef)
}
