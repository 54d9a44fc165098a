package chat

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/thereayou/burnchat/internal/broadcast"
	"github.com/thereayou/burnchat/internal/models"
	"github.com/thereayou/burnchat/internal/store"
)

const (
	// DefaultRoomTTL — срок жизни комнаты с момента создания.
	DefaultRoomTTL = 10 * time.Minute
	// MaxRoomMembers — предел участников одной комнаты.
	MaxRoomMembers = 10

	connectedField = "connected"
	createdAtField = "createdAt"
)

// RoomRegistry владеет метаданными комнат: создание, проверка
// существования, чтение оставшегося TTL и уничтожение.
type RoomRegistry struct {
	store   store.KeyValueStore
	events  broadcast.Broadcaster
	roomTTL time.Duration
	log     *slog.Logger
}

func NewRoomRegistry(kv store.KeyValueStore, events broadcast.Broadcaster, roomTTL time.Duration, log *slog.Logger) *RoomRegistry {
	if roomTTL <= 0 {
		roomTTL = DefaultRoomTTL
	}
	return &RoomRegistry{store: kv, events: events, roomTTL: roomTTL, log: log}
}

// CreateRoom создаёт комнату с пустым набором токенов и возвращает её id.
func (r *RoomRegistry) CreateRoom(ctx context.Context) (string, error) {
	roomID := uuid.NewString()
	meta := models.MetaKey(roomID)

	err := r.store.HSet(ctx, meta, map[string]interface{}{
		connectedField: models.EncodeTokenSet(nil),
		createdAtField: time.Now().UnixMilli(),
	})
	if err != nil {
		return "", err
	}
	if _, err := r.store.Expire(ctx, meta, r.roomTTL); err != nil {
		return "", err
	}

	r.log.Info("room created", "room", roomID, "ttl", r.roomTTL)
	return roomID, nil
}

func (r *RoomRegistry) RoomExists(ctx context.Context, roomID string) (bool, error) {
	return r.store.Exists(ctx, models.MetaKey(roomID))
}

// TTL возвращает оставшийся срок жизни метаданных комнаты.
// Исчезнувшая комната неотличима от никогда не существовавшей.
func (r *RoomRegistry) TTL(ctx context.Context, roomID string) (time.Duration, error) {
	d, err := r.store.TTL(ctx, models.MetaKey(roomID))
	if errors.Is(err, store.ErrNil) {
		return 0, ErrRoomNotFound
	}
	if err != nil {
		return 0, err
	}
	return d, nil
}

// TTLSeconds — оставшиеся секунды для внешнего API, не меньше нуля.
func (r *RoomRegistry) TTLSeconds(ctx context.Context, roomID string) (int64, error) {
	d, err := r.TTL(ctx, roomID)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, nil
	}
	return int64(d / time.Second), nil
}

// DestroyRoom удаляет метаданные, лог сообщений и журнал событий.
// Удаления независимы: отказ одного не отменяет остальные.
// Подписчики получают best-effort событие destroy до зачистки:
// след события в журнале сносится ею же и не воскрешает ключ.
func (r *RoomRegistry) DestroyRoom(ctx context.Context, roomID string) error {
	err := r.events.Publish(ctx, roomID, broadcast.EventDestroy, broadcast.DestroyPayload{IsDestroyed: true})
	if err != nil {
		r.log.Warn("destroy event publish failed", "room", roomID, "err", err)
	}

	var errs []error
	for _, key := range []string{
		models.MetaKey(roomID),
		models.MessagesKey(roomID),
		models.HistoryKey(roomID),
	} {
		if err := r.store.Del(ctx, key); err != nil {
			r.log.Error("room key delete failed", "room", roomID, "key", key, "err", err)
			errs = append(errs, err)
		}
	}

	if len(errs) == 0 {
		r.log.Info("room destroyed", "room", roomID)
	}
	return errors.Join(errs...)
}
