package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/go-redis/redis/v8"

	"github.com/thereayou/burnchat/internal/broadcast"
)

// Hub раздаёт события комнат подключённым websocket-клиентам.
// Источник событий — pub/sub-подписка на каналы комнат, поэтому
// рассылка работает и при нескольких экземплярах сервера.
type Hub struct {
	client *redis.Client

	// Клиенты по комнатам
	rooms map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	// Контекст для graceful shutdown
	ctx    context.Context
	cancel context.CancelFunc
}

// NewHub создает новый Hub
func NewHub(client *redis.Client) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		client:     client,
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Run запускает hub: подписывается на каналы комнат и раздаёт события.
func (h *Hub) Run() {
	pubsub := h.client.PSubscribe(h.ctx, broadcast.ChannelFor("*"))
	defer pubsub.Close()

	events := pubsub.Channel()

	for {
		select {
		case <-h.ctx.Done():
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case msg, ok := <-events:
			if !ok {
				return
			}
			roomID, ok := broadcast.RoomFromChannel(msg.Channel)
			if !ok {
				continue
			}
			h.dispatch(roomID, []byte(msg.Payload))
		}
	}
}

// Stop останавливает hub
func (h *Hub) Stop() {
	h.cancel()

	h.mu.Lock()
	defer h.mu.Unlock()

	for roomID, room := range h.rooms {
		for client := range room {
			close(client.Send)
			client.Conn.Close()
		}
		delete(h.rooms, roomID)
	}
}

// Register регистрирует нового клиента.
// После остановки hub-а вызов возвращается, не блокируясь.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.ctx.Done():
	}
}

// Unregister отменяет регистрацию клиента
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.ctx.Done():
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.rooms[client.RoomID]; !ok {
		h.rooms[client.RoomID] = make(map[*Client]bool)
	}
	h.rooms[client.RoomID][client] = true

	log.Printf("Subscriber connected: room %s", client.RoomID)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[client.RoomID]
	if !ok {
		return
	}
	if _, ok := room[client]; !ok {
		return
	}

	delete(room, client)
	close(client.Send)
	if len(room) == 0 {
		delete(h.rooms, client.RoomID)
	}

	log.Printf("Subscriber disconnected: room %s", client.RoomID)
}

// dispatch пересылает событие всем клиентам комнаты.
// После события destroy соединения комнаты закрываются.
func (h *Hub) dispatch(roomID string, data []byte) {
	h.mu.RLock()
	for client := range h.rooms[roomID] {
		select {
		case client.Send <- data:
		default:
			log.Printf("Subscriber queue full, dropping event: room %s", roomID)
		}
	}
	h.mu.RUnlock()

	var env broadcast.Envelope
	if err := json.Unmarshal(data, &env); err == nil && env.Event == broadcast.EventDestroy {
		h.closeRoom(roomID)
	}
}

func (h *Hub) closeRoom(roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[roomID]
	if !ok {
		return
	}
	for client := range room {
		close(client.Send)
		client.Conn.Close()
	}
	delete(h.rooms, roomID)

	log.Printf("Room channel closed: %s", roomID)
}

// RoomSubscribers возвращает число живых подписчиков комнаты.
func (h *Hub) RoomSubscribers(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.rooms[roomID])
}
