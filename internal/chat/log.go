package chat

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/thereayou/burnchat/internal/broadcast"
	"github.com/thereayou/burnchat/internal/models"
	"github.com/thereayou/burnchat/internal/store"
)

const (
	// MaxSenderLen и MaxTextLen — пределы полей сообщения, в рунах.
	MaxSenderLen = 100
	MaxTextLen   = 1000
)

// MessageLog — append-only лог сообщений комнаты.
// Порядок определяется вставкой, не меткой времени.
type MessageLog struct {
	store  store.KeyValueStore
	events broadcast.Broadcaster
	log    *slog.Logger
}

func NewMessageLog(kv store.KeyValueStore, events broadcast.Broadcaster, log *slog.Logger) *MessageLog {
	return &MessageLog{store: kv, events: events, log: log}
}

// Append сохраняет сообщение в хвост лога и рассылает его подписчикам.
// Сообщение считается отправленным после записи в хранилище: отказ
// рассылки логируется и не возвращается вызывающему.
func (l *MessageLog) Append(ctx context.Context, roomID, sender, text, token string) (models.Message, error) {
	if utf8.RuneCountInString(sender) > MaxSenderLen || utf8.RuneCountInString(text) > MaxTextLen {
		return models.Message{}, ErrInvalidInput
	}

	exists, err := l.store.Exists(ctx, models.MetaKey(roomID))
	if err != nil {
		return models.Message{}, err
	}
	if !exists {
		return models.Message{}, ErrRoomNotFound
	}

	msg := models.Message{
		ID:        uuid.NewString(),
		Sender:    sender,
		Text:      text,
		Timestamp: time.Now().UnixMilli(),
		Token:     token,
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return models.Message{}, err
	}
	if err := l.store.RPush(ctx, models.MessagesKey(roomID), data); err != nil {
		return models.Message{}, err
	}

	if err := l.events.Publish(ctx, roomID, broadcast.EventMessage, msg.Public()); err != nil {
		l.log.Warn("message fan-out failed", "room", roomID, "message", msg.ID, "err", err)
	}

	return msg, nil
}

// List возвращает лог комнаты в порядке вставки, без токенов.
// Единичная нечитаемая запись логируется и пропускается,
// остальной лог остаётся читаемым.
func (l *MessageLog) List(ctx context.Context, roomID string) ([]models.MessageView, error) {
	exists, err := l.store.Exists(ctx, models.MetaKey(roomID))
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrRoomNotFound
	}

	raw, err := l.store.LRange(ctx, models.MessagesKey(roomID), 0, -1)
	if err != nil {
		return nil, err
	}

	views := make([]models.MessageView, 0, len(raw))
	for _, item := range raw {
		var msg models.Message
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			l.log.Warn("dropping malformed message record", "room", roomID, "err", err)
			continue
		}
		views = append(views, msg.Public())
	}
	return views, nil
}
