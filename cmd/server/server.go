package server

import (
	"context"
	"log"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	"github.com/thereayou/burnchat/internal/broadcast"
	"github.com/thereayou/burnchat/internal/chat"
	"github.com/thereayou/burnchat/internal/config"
	"github.com/thereayou/burnchat/internal/handlers"
	"github.com/thereayou/burnchat/internal/store"
	ws "github.com/thereayou/burnchat/internal/websocket"
)

type Server struct {
	Router   *gin.Engine
	Redis    *redis.Client
	Hub      *ws.Hub
	Registry *chat.RoomRegistry

	cfg *config.Config
}

func NewServer() *Server {
	if err := godotenv.Load(".env.local"); err != nil {
		if err := godotenv.Load(); err != nil {
			log.Println(".env not found, using environment variables")
		}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("invalid REDIS_URL: %v", err)
	}
	rdb := redis.NewClient(redisOpts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Redis connect failed: %v", err)
	}

	logger := slog.Default()

	kv := store.NewRedisStore(rdb, cfg.StoreTimeout)
	events := broadcast.NewRedisBroadcaster(rdb, cfg.StoreTimeout, logger)

	registry := chat.NewRoomRegistry(kv, events, cfg.RoomTTL, logger)
	gate := chat.NewMembershipGate(kv, cfg.MaxMembers, logger)
	messages := chat.NewMessageLog(kv, events, logger)
	coordinator := chat.NewTTLCoordinator(registry, kv, logger)

	hub := ws.NewHub(rdb)
	go hub.Run()

	roomH := handlers.NewRoomHandler(registry, gate, coordinator)
	messageH := handlers.NewMessageHandler(messages, coordinator)
	wsH := handlers.NewWebSocketHandler(hub)

	router := gin.Default()
	APIEndpoints(router, roomH, messageH, wsH, gate, coordinator)

	return &Server{
		Router:   router,
		Redis:    rdb,
		Hub:      hub,
		Registry: registry,
		cfg:      cfg,
	}
}

func (s *Server) Run() {
	log.Printf("Server starting on port %s", s.cfg.Port)
	if err := s.Router.Run(":" + s.cfg.Port); err != nil {
		log.Fatalf("Server run error: %v", err)
	}
}
