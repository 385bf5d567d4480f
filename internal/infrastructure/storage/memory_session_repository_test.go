package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"line-detector/internal/domain/entity"
)

func TestMemorySessionRepository_GetCreatesIdleSession(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()

	s, err := repo.Get(ctx, 42)
	require.NoError(t, err)
	require.Equal(t, entity.SessionIdle, s.State)
	require.Equal(t, int64(42), s.ChatID)
}

func TestMemorySessionRepository_SaveRoundTrip(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()

	s, err := repo.Get(ctx, 7)
	require.NoError(t, err)

	// изменения без Save не видны другим читателям
	s.SetState(entity.SessionProcessing)
	fresh, err := repo.Get(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, entity.SessionIdle, fresh.State)

	require.NoError(t, repo.Save(ctx, s))
	fresh, err = repo.Get(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, entity.SessionProcessing, fresh.State)
}
