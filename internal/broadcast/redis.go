package broadcast

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/thereayou/burnchat/internal/models"
)

// RedisBroadcaster публикует события в pub/sub-канал комнаты и
// зеркалит их в список history:<roomId> — журнал для опоздавших
// подписчиков. Журнал живёт не дольше метаданных комнаты.
type RedisBroadcaster struct {
	client    *redis.Client
	opTimeout time.Duration
	log       *slog.Logger
}

func NewRedisBroadcaster(client *redis.Client, opTimeout time.Duration, log *slog.Logger) *RedisBroadcaster {
	if opTimeout <= 0 {
		opTimeout = 5 * time.Second
	}
	return &RedisBroadcaster{client: client, opTimeout: opTimeout, log: log}
}

func (b *RedisBroadcaster) Publish(ctx context.Context, roomID string, event Event, payload interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, b.opTimeout)
	defer cancel()

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	data, err := json.Marshal(Envelope{Event: event, Payload: body})
	if err != nil {
		return err
	}

	if err := b.client.Publish(ctx, ChannelFor(roomID), data).Err(); err != nil {
		return err
	}

	// Журнал — побочная запись, его отказ не считается отказом публикации.
	// Событие destroy не зеркалим: запись после зачистки пересоздала бы
	// history-ключ без срока жизни.
	if event != EventDestroy {
		if err := b.client.RPush(ctx, models.HistoryKey(roomID), data).Err(); err != nil {
			b.log.Warn("event history append failed", "room", roomID, "event", event, "err", err)
		}
	}
	return nil
}
