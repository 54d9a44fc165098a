package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thereayou/burnchat/internal/chat"
	"github.com/thereayou/burnchat/internal/middleware"
)

type MessageHandler struct {
	messages    *chat.MessageLog
	coordinator *chat.TTLCoordinator
}

func NewMessageHandler(messages *chat.MessageLog, coordinator *chat.TTLCoordinator) *MessageHandler {
	return &MessageHandler{messages: messages, coordinator: coordinator}
}

// SendMessage добавляет сообщение в лог комнаты и рассылает его.
// Сообщение считается отправленным после записи в хранилище,
// независимо от исхода рассылки.
func (h *MessageHandler) SendMessage(c *gin.Context) {
	var req struct {
		Sender string `json:"sender" binding:"required,max=100"`
		Text   string `json:"text" binding:"required,max=1000"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	roomID := c.GetString(middleware.RoomIDKey)
	token := c.GetString(middleware.TokenKey)

	msg, err := h.messages.Append(c.Request.Context(), roomID, req.Sender, req.Text, token)
	switch {
	case errors.Is(err, chat.ErrRoomNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	case errors.Is(err, chat.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is too long"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send message"})
		return
	}

	if err := h.coordinator.Resync(c.Request.Context(), roomID); err != nil {
		log.Printf("ttl resync after message failed: room %s: %v", roomID, err)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "messageId": msg.ID})
}

// ListMessages возвращает лог комнаты в порядке вставки, без токенов
func (h *MessageHandler) ListMessages(c *gin.Context) {
	roomID := c.GetString(middleware.RoomIDKey)

	views, err := h.messages.List(c.Request.Context(), roomID)
	if errors.Is(err, chat.ErrRoomNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": views})
}
