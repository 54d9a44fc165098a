package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/thereayou/burnchat/internal/chat"
	"github.com/thereayou/burnchat/internal/middleware"
)

type RoomHandler struct {
	registry    *chat.RoomRegistry
	gate        *chat.MembershipGate
	coordinator *chat.TTLCoordinator
}

func NewRoomHandler(registry *chat.RoomRegistry, gate *chat.MembershipGate, coordinator *chat.TTLCoordinator) *RoomHandler {
	return &RoomHandler{registry: registry, gate: gate, coordinator: coordinator}
}

// CreateRoom создает новую комнату
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	roomID, err := h.registry.CreateRoom(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create room"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"roomId": roomID})
}

// JoinRoom выдаёт токен при первом контакте и проводит вход в комнату.
// Повторный вход с тем же токеном идемпотентен.
func (h *RoomHandler) JoinRoom(c *gin.Context) {
	roomID := c.Query("roomId")
	if roomID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "roomId is required"})
		return
	}

	token := middleware.ExtractToken(c)
	if token == "" {
		token = uuid.NewString()
	}

	membership, err := h.gate.Authenticate(c.Request.Context(), roomID, token)
	switch {
	case errors.Is(err, chat.ErrRoomNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	case errors.Is(err, chat.ErrRoomFull):
		c.JSON(http.StatusConflict, gin.H{"error": "room is full"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to join room"})
		return
	}

	if membership.Joined {
		if err := h.coordinator.Resync(c.Request.Context(), roomID); err != nil {
			log.Printf("ttl resync after join failed: room %s: %v", roomID, err)
		}
	}

	c.SetCookie(middleware.TokenCookie, membership.Token, 0, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"token": membership.Token})
}

// RoomTTL возвращает оставшиеся секунды жизни комнаты, не меньше нуля.
func (h *RoomHandler) RoomTTL(c *gin.Context) {
	roomID := c.GetString(middleware.RoomIDKey)

	ttl, err := h.registry.TTLSeconds(c.Request.Context(), roomID)
	if errors.Is(err, chat.ErrRoomNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ttl": ttl})
}

// DestroyRoom удаляет комнату и оповещает подписчиков
func (h *RoomHandler) DestroyRoom(c *gin.Context) {
	roomID := c.GetString(middleware.RoomIDKey)

	exists, err := h.registry.RoomExists(c.Request.Context(), roomID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}

	if err := h.registry.DestroyRoom(c.Request.Context(), roomID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to destroy room"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "room destroyed"})
}
