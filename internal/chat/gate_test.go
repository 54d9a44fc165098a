package chat

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/thereayou/burnchat/internal/broadcast"
	"github.com/thereayou/burnchat/internal/models"
	"github.com/thereayou/burnchat/internal/store"
)

func TestAuthenticateMissingCredentials(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.gate.Authenticate(ctx, "", "tok")
	require.ErrorIs(t, err, ErrMissingCredentials)

	_, err = env.gate.Authenticate(ctx, "room", "")
	require.ErrorIs(t, err, ErrMissingCredentials)
}

func TestAuthenticateUnknownRoom(t *testing.T) {
	env := newTestEnv()

	_, err := env.gate.Authenticate(context.Background(), "missing", "tok")
	require.ErrorIs(t, err, ErrRoomNotFound)
}

func TestAuthenticateJoinIsIdempotent(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	roomID, err := env.registry.CreateRoom(ctx)
	require.NoError(t, err)

	first, err := env.gate.Authenticate(ctx, roomID, "tok-a")
	require.NoError(t, err)
	require.True(t, first.Joined)
	require.Equal(t, []string{"tok-a"}, first.Members)

	second, err := env.gate.Authenticate(ctx, roomID, "tok-a")
	require.NoError(t, err)
	require.False(t, second.Joined)
	require.Equal(t, []string{"tok-a"}, second.Members)
}

func TestAuthenticateCapacityLimit(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	roomID, err := env.registry.CreateRoom(ctx)
	require.NoError(t, err)

	_, err = env.gate.Authenticate(ctx, roomID, "tok-0")
	require.NoError(t, err)

	// Повторный вход того же токена не занимает место.
	m, err := env.gate.Authenticate(ctx, roomID, "tok-0")
	require.NoError(t, err)
	require.Len(t, m.Members, 1)

	for i := 1; i < MaxRoomMembers; i++ {
		m, err = env.gate.Authenticate(ctx, roomID, fmt.Sprintf("tok-%d", i))
		require.NoError(t, err)
		require.True(t, m.Joined)
	}
	require.Len(t, m.Members, MaxRoomMembers)

	_, err = env.gate.Authenticate(ctx, roomID, "tok-extra")
	require.ErrorIs(t, err, ErrRoomFull)

	// Уже принятые токены продолжают входить и в полной комнате.
	m, err = env.gate.Authenticate(ctx, roomID, "tok-3")
	require.NoError(t, err)
	require.False(t, m.Joined)
	require.Len(t, m.Members, MaxRoomMembers)
}

func TestAuthenticatePreservesInsertionOrder(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	roomID, err := env.registry.CreateRoom(ctx)
	require.NoError(t, err)

	want := []string{"tok-c", "tok-a", "tok-b"}
	for _, token := range want {
		_, err := env.gate.Authenticate(ctx, roomID, token)
		require.NoError(t, err)
	}

	m, err := env.gate.Authenticate(ctx, roomID, "tok-c")
	require.NoError(t, err)
	require.Equal(t, want, m.Members)
}

func TestAuthenticateRecoversMalformedTokenSet(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	roomID, err := env.registry.CreateRoom(ctx)
	require.NoError(t, err)

	// Битое поле connected трактуется как пустая комната, не как ошибка.
	err = env.store.HSet(ctx, models.MetaKey(roomID), map[string]interface{}{"connected": "{broken"})
	require.NoError(t, err)

	m, err := env.gate.Authenticate(ctx, roomID, "tok-a")
	require.NoError(t, err)
	require.True(t, m.Joined)
	require.Equal(t, []string{"tok-a"}, m.Members)
}

func TestAuthenticateWarnsOnUnreadableTokenSet(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	kv := store.NewMemoryStore()
	registry := NewRoomRegistry(kv, &broadcast.Recorder{}, 0, logger)
	gate := NewMembershipGate(kv, 0, logger)
	ctx := context.Background()

	roomID, err := registry.CreateRoom(ctx)
	require.NoError(t, err)
	err = kv.HSet(ctx, models.MetaKey(roomID), map[string]interface{}{"connected": "{broken"})
	require.NoError(t, err)

	// Восстановление битого набора как пустого оставляет след в логе.
	_, err = gate.Authenticate(ctx, roomID, "tok-a")
	require.NoError(t, err)
	require.Contains(t, buf.String(), "unreadable")

	// Поле перезаписано каноничной формой, повторный вход уже не шумит.
	buf.Reset()
	_, err = gate.Authenticate(ctx, roomID, "tok-a")
	require.NoError(t, err)
	require.NotContains(t, buf.String(), "unreadable")
}

func TestAuthenticateConcurrentJoinsNeverExceedLimit(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	roomID, err := env.registry.CreateRoom(ctx)
	require.NoError(t, err)

	const callers = 50
	var wg sync.WaitGroup
	results := make([]error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := env.gate.Authenticate(ctx, roomID, fmt.Sprintf("tok-%d", i))
			results[i] = err
		}(i)
	}
	wg.Wait()

	admitted := 0
	for _, err := range results {
		if err == nil {
			admitted++
		} else {
			require.ErrorIs(t, err, ErrRoomFull)
		}
	}
	require.Equal(t, MaxRoomMembers, admitted)

	raw, err := env.store.HGet(ctx, models.MetaKey(roomID), "connected")
	require.NoError(t, err)
	tokens, err := models.DecodeTokenSet(raw)
	require.NoError(t, err)
	require.Len(t, tokens, MaxRoomMembers)
}
