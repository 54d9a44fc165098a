package server

import (
	"github.com/gin-gonic/gin"

	"github.com/thereayou/burnchat/internal/chat"
	"github.com/thereayou/burnchat/internal/handlers"
	"github.com/thereayou/burnchat/internal/middleware"
)

func APIEndpoints(r *gin.Engine, roomH *handlers.RoomHandler, messageH *handlers.MessageHandler, wsH *handlers.WebSocketHandler, gate *chat.MembershipGate, coordinator *chat.TTLCoordinator) {
	authRequired := middleware.AuthMiddleware(gate, coordinator)

	api := r.Group("/api")
	{
		api.GET("/username", handlers.Username)

		room := api.Group("/room")
		{
			room.POST("/create", roomH.CreateRoom)
			room.POST("/join", roomH.JoinRoom)
			room.GET("/ttl", authRequired, roomH.RoomTTL)
			room.DELETE("/destroy", authRequired, roomH.DestroyRoom)
			room.GET("/ws", authRequired, wsH.HandleWebSocket)
		}

		message := api.Group("/message", authRequired)
		{
			message.GET("", messageH.ListMessages)
			message.POST("", messageH.SendMessage)
		}
	}
}
