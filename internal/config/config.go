package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config — конфигурация сервера из окружения.
type Config struct {
	Port         string        `envconfig:"PORT" default:"8080"`
	RedisURL     string        `envconfig:"REDIS_URL" default:"redis://localhost:6379"`
	StoreTimeout time.Duration `envconfig:"STORE_TIMEOUT" default:"5s"`
	RoomTTL      time.Duration `envconfig:"ROOM_TTL" default:"10m"`
	MaxMembers   int           `envconfig:"MAX_ROOM_MEMBERS" default:"10"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
