package broadcast

import (
	"context"
	"encoding/json"
	"strings"
)

// Event — тип события в канале комнаты.
type Event string

const (
	EventMessage Event = "message"
	EventDestroy Event = "destroy"
)

const channelPrefix = "room:"

// ChannelFor возвращает имя канала для комнаты.
func ChannelFor(roomID string) string { return channelPrefix + roomID }

// RoomFromChannel извлекает id комнаты из имени канала.
func RoomFromChannel(channel string) (string, bool) {
	roomID, ok := strings.CutPrefix(channel, channelPrefix)
	if !ok || roomID == "" {
		return "", false
	}
	return roomID, true
}

// Envelope — конверт события, как он уходит подписчикам.
type Envelope struct {
	Event   Event           `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// DestroyPayload — полезная нагрузка события destroy.
type DestroyPayload struct {
	IsDestroyed bool `json:"isDestroyed"`
}

// Broadcaster рассылает события комнаты живым подписчикам.
// Доставка не гарантируется: ошибки публикации не должны
// проваливать вызвавшую операцию.
type Broadcaster interface {
	Publish(ctx context.Context, roomID string, event Event, payload interface{}) error
}
