package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"line-detector/internal/domain/entity"
	"line-detector/internal/infrastructure/storage"
)

func TestSessionService_BeginCheckAndCancel(t *testing.T) {
	svc := NewSessionService(storage.NewMemorySessionRepository())
	ctx := context.Background()

	session, err := svc.BeginCheck(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, entity.SessionAwaitingImage, session.State)

	session, err = svc.Cancel(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, entity.SessionIdle, session.State)
}

func TestSessionService_ProcessingIsExclusive(t *testing.T) {
	svc := NewSessionService(storage.NewMemorySessionRepository())
	ctx := context.Background()

	session, err := svc.StartProcessing(ctx, 20)
	require.NoError(t, err)
	require.Equal(t, entity.SessionProcessing, session.State)

	_, err = svc.StartProcessing(ctx, 20)
	require.ErrorIs(t, err, ErrSessionBusy)

	session, err = svc.Finish(ctx, 20, "req-5")
	require.NoError(t, err)
	require.Equal(t, entity.SessionIdle, session.State)
	require.Equal(t, "req-5", session.LastRequestID)

	_, err = svc.StartProcessing(ctx, 20)
	require.NoError(t, err)
}
