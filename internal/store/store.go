package store

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNil — ключ или поле отсутствует.
	ErrNil = errors.New("store: nil value")
	// ErrUnavailable — временная недоступность хранилища, запрос можно повторить.
	ErrUnavailable = errors.New("store: unavailable")
)

// AdmitStatus — результат условного добавления токена в набор комнаты.
type AdmitStatus int

const (
	AdmitNotFound AdmitStatus = iota
	AdmitMember
	AdmitAdded
	AdmitFull
)

// AdmitResult возвращает статус и актуальный набор токенов после операции.
// Malformed взводится, когда хранимое поле не распарсилось как JSON-массив
// строк и было восстановлено как пустой набор.
type AdmitResult struct {
	Status    AdmitStatus
	Tokens    []string
	Malformed bool
}

// KeyValueStore — внешнее хранилище состояния. Все операции обязаны
// завершаться за ограниченное время; реализация сама навешивает таймаут.
type KeyValueStore interface {
	HGet(ctx context.Context, key, field string) (string, error)
	HSet(ctx context.Context, key string, fields map[string]interface{}) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)

	RPush(ctx context.Context, key string, values ...interface{}) error
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)

	Exists(ctx context.Context, key string) (bool, error)
	Del(ctx context.Context, keys ...string) error

	TTL(ctx context.Context, key string) (time.Duration, error)
	Expire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// TryAdmit атомарно выполняет протокол входа: проверка существования
	// ключа, поиск токена в наборе, проверка лимита и дозапись. Замыкает
	// гонку конкурентных join-ов на стороне хранилища.
	TryAdmit(ctx context.Context, key, field, token string, limit int) (AdmitResult, error)
}
