package chat

import (
	"io"
	"log/slog"

	"github.com/thereayou/burnchat/internal/broadcast"
	"github.com/thereayou/burnchat/internal/store"
)

type testEnv struct {
	store       *store.MemoryStore
	events      *broadcast.Recorder
	registry    *RoomRegistry
	gate        *MembershipGate
	messages    *MessageLog
	coordinator *TTLCoordinator
}

func newTestEnv() *testEnv {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	kv := store.NewMemoryStore()
	events := &broadcast.Recorder{}
	registry := NewRoomRegistry(kv, events, 0, logger)

	return &testEnv{
		store:       kv,
		events:      events,
		registry:    registry,
		gate:        NewMembershipGate(kv, 0, logger),
		messages:    NewMessageLog(kv, events, logger),
		coordinator: NewTTLCoordinator(registry, kv, logger),
	}
}
