package chat

import (
	"context"
	"errors"
	"log/slog"

	"github.com/thereayou/burnchat/internal/models"
	"github.com/thereayou/burnchat/internal/store"
)

// TTLCoordinator подтягивает срок жизни зависимых ключей комнаты
// к авторитетному TTL её метаданных. Вызывается после каждой
// мутирующей операции (вход, отправка сообщения).
type TTLCoordinator struct {
	registry *RoomRegistry
	store    store.KeyValueStore
	log      *slog.Logger
}

func NewTTLCoordinator(registry *RoomRegistry, kv store.KeyValueStore, log *slog.Logger) *TTLCoordinator {
	return &TTLCoordinator{registry: registry, store: kv, log: log}
}

// Resync читает оставшийся TTL метаданных и выставляет его логу
// сообщений и журналу событий. Если метаданных уже нет или срок
// не положителен — no-op: зависимые ключи истекут сами, оживлять
// их нельзя. EXPIRE на отсутствующем ключе ничего не создаёт,
// поэтому гонка с уничтожением комнаты безопасна.
func (c *TTLCoordinator) Resync(ctx context.Context, roomID string) error {
	d, err := c.registry.TTL(ctx, roomID)
	if errors.Is(err, ErrRoomNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}

	var errs []error
	for _, key := range []string{models.MessagesKey(roomID), models.HistoryKey(roomID)} {
		if _, err := c.store.Expire(ctx, key, d); err != nil {
			c.log.Warn("ttl resync failed", "room", roomID, "key", key, "err", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
