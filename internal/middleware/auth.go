package middleware

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thereayou/burnchat/internal/chat"
	"github.com/thereayou/burnchat/internal/store"
)

const (
	RoomIDKey = "roomID"
	TokenKey  = "authToken"

	// TokenCookie — cookie с токеном членства.
	TokenCookie = "x-auth-token"
)

// AuthMiddleware пропускает запрос через протокол входа в комнату.
// Уже принятый токен проходит без мутаций; если токен был добавлен
// только что, срок жизни зависимых ключей пересинхронизируется.
// Отсутствующая и истёкшая комната наружу неразличимы.
func AuthMiddleware(gate *chat.MembershipGate, coordinator *chat.TTLCoordinator) gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID := c.Query("roomId")
		token := ExtractToken(c)

		membership, err := gate.Authenticate(c.Request.Context(), roomID, token)
		if err != nil {
			abortAuth(c, err)
			return
		}

		if membership.Joined {
			if err := coordinator.Resync(c.Request.Context(), roomID); err != nil {
				log.Printf("ttl resync after join failed: room %s: %v", roomID, err)
			}
		}

		c.Set(RoomIDKey, roomID)
		c.Set(TokenKey, membership.Token)
		c.Next()
	}
}

// ExtractToken достаёт токен членства: cookie, затем заголовок
// (для клиентов без cookie-jar).
func ExtractToken(c *gin.Context) string {
	if token, err := c.Cookie(TokenCookie); err == nil && token != "" {
		return token
	}
	return c.GetHeader("X-Auth-Token")
}

func abortAuth(c *gin.Context, err error) {
	switch {
	case errors.Is(err, chat.ErrRoomFull):
		c.JSON(http.StatusConflict, gin.H{"error": "room is full"})
	case errors.Is(err, store.ErrUnavailable):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	default:
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	}
	c.Abort()
}
