package chat

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/thereayou/burnchat/internal/models"
	"github.com/thereayou/burnchat/internal/store"
)

func TestResyncPropagatesMetaTTL(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	roomID, err := env.registry.CreateRoom(ctx)
	require.NoError(t, err)

	_, err = env.messages.Append(ctx, roomID, "alice", "hi", "tok")
	require.NoError(t, err)
	require.NoError(t, env.store.RPush(ctx, models.HistoryKey(roomID), "event"))

	require.NoError(t, env.coordinator.Resync(ctx, roomID))

	metaTTL, err := env.store.TTL(ctx, models.MetaKey(roomID))
	require.NoError(t, err)

	for _, key := range []string{models.MessagesKey(roomID), models.HistoryKey(roomID)} {
		ttl, err := env.store.TTL(ctx, key)
		require.NoError(t, err)
		require.Greater(t, ttl, time.Duration(0))
		require.LessOrEqual(t, ttl, metaTTL)
	}
}

func TestResyncIsNoopForMissingRoom(t *testing.T) {
	env := newTestEnv()

	require.NoError(t, env.coordinator.Resync(context.Background(), "missing"))
}

func TestResyncDoesNotResurrectDestroyedKeys(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	roomID, err := env.registry.CreateRoom(ctx)
	require.NoError(t, err)
	_, err = env.messages.Append(ctx, roomID, "alice", "hi", "tok")
	require.NoError(t, err)

	require.NoError(t, env.registry.DestroyRoom(ctx, roomID))

	require.NoError(t, env.coordinator.Resync(ctx, roomID))

	for _, key := range []string{models.MetaKey(roomID), models.MessagesKey(roomID), models.HistoryKey(roomID)} {
		_, err := env.store.TTL(ctx, key)
		require.ErrorIs(t, err, store.ErrNil, "key %s must stay gone", key)
	}
}

func TestResyncIsNoopAfterNaturalExpiry(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	roomID, err := env.registry.CreateRoom(ctx)
	require.NoError(t, err)
	_, err = env.messages.Append(ctx, roomID, "alice", "hi", "tok")
	require.NoError(t, err)

	// Метаданные истекли естественным образом.
	base := time.Now()
	env.store.SetClock(func() time.Time { return base.Add(DefaultRoomTTL + time.Second) })

	require.NoError(t, env.coordinator.Resync(ctx, roomID))

	// Лог не получил нового срока жизни.
	ttl, err := env.store.TTL(ctx, models.MessagesKey(roomID))
	require.NoError(t, err)
	require.Negative(t, ttl)
}
