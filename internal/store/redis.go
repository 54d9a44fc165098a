package store

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/thereayou/burnchat/internal/models"
)

// Скрипт протокола входа. Выполняется на стороне Redis, поэтому
// проверка лимита и дозапись токена не расходятся между клиентами.
// Нечитаемое поле (не-JSON, не-массив, JSON-объект) трактуется как
// пустой набор (fail closed) и помечается флагом malformed, чтобы
// вызывающая сторона могла залогировать потерю. Проверка
// decoded[1] ~= nil or next(decoded) == nil отсекает объекты: cjson
// декодирует их в таблицу с нечисловыми ключами, которую ipairs
// молча пропустил бы, а encode вернул бы обратно объектом.
var admitScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
  return {'none', '', 0}
end
local raw = redis.call('HGET', KEYS[1], ARGV[1])
local list = {}
local malformed = 0
if raw and raw ~= '' and raw ~= '[]' then
  local ok, decoded = pcall(cjson.decode, raw)
  if ok and type(decoded) == 'table' and (decoded[1] ~= nil or next(decoded) == nil) then
    list = decoded
  else
    malformed = 1
  end
end
for _, t in ipairs(list) do
  if t == ARGV[2] then
    return {'member', raw, malformed}
  end
end
if #list >= tonumber(ARGV[3]) then
  return {'full', raw, malformed}
end
table.insert(list, ARGV[2])
local encoded = cjson.encode(list)
redis.call('HSET', KEYS[1], ARGV[1], encoded)
return {'added', encoded, malformed}
`)

// RedisStore реализует KeyValueStore поверх go-redis.
// Каждый вызов ограничен таймаутом opTimeout.
type RedisStore struct {
	client    *redis.Client
	opTimeout time.Duration
}

func NewRedisStore(client *redis.Client, opTimeout time.Duration) *RedisStore {
	if opTimeout <= 0 {
		opTimeout = 5 * time.Second
	}
	return &RedisStore{client: client, opTimeout: opTimeout}
}

func (s *RedisStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.opTimeout)
}

func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	if err == redis.Nil {
		return ErrNil
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

func (s *RedisStore) HGet(ctx context.Context, key, field string) (string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	val, err := s.client.HGet(ctx, key, field).Result()
	return val, wrapErr(err)
}

func (s *RedisStore) HSet(ctx context.Context, key string, fields map[string]interface{}) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	return wrapErr(s.client.HSet(ctx, key, fields).Err())
}

func (s *RedisStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	val, err := s.client.HGetAll(ctx, key).Result()
	return val, wrapErr(err)
}

func (s *RedisStore) RPush(ctx context.Context, key string, values ...interface{}) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	return wrapErr(s.client.RPush(ctx, key, values...).Err())
}

func (s *RedisStore) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	val, err := s.client.LRange(ctx, key, start, stop).Result()
	return val, wrapErr(err)
}

func (s *RedisStore) Exists(ctx context.Context, key string) (bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, wrapErr(err)
	}
	return n > 0, nil
}

func (s *RedisStore) Del(ctx context.Context, keys ...string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	return wrapErr(s.client.Del(ctx, keys...).Err())
}

func (s *RedisStore) TTL(ctx context.Context, key string) (time.Duration, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	d, err := s.client.TTL(ctx, key).Result()
	if err != nil {
		return 0, wrapErr(err)
	}
	// -2ns — ключа нет, -1ns — ключ без срока жизни.
	if d == -2*time.Nanosecond {
		return 0, ErrNil
	}
	return d, nil
}

func (s *RedisStore) Expire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	ok, err := s.client.Expire(ctx, key, ttl).Result()
	return ok, wrapErr(err)
}

func (s *RedisStore) TryAdmit(ctx context.Context, key, field, token string, limit int) (AdmitResult, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	raw, err := admitScript.Run(ctx, s.client, []string{key}, field, token, limit).Result()
	if err != nil {
		return AdmitResult{}, wrapErr(err)
	}

	reply, ok := raw.([]interface{})
	if !ok || len(reply) < 3 {
		return AdmitResult{}, fmt.Errorf("%w: unexpected admit reply %v", ErrUnavailable, raw)
	}

	status, _ := reply[0].(string)
	encoded, _ := reply[1].(string)
	malformed, _ := reply[2].(int64)

	res := AdmitResult{}
	switch status {
	case "none":
		res.Status = AdmitNotFound
		return res, nil
	case "member":
		res.Status = AdmitMember
	case "added":
		res.Status = AdmitAdded
	case "full":
		res.Status = AdmitFull
	default:
		return AdmitResult{}, fmt.Errorf("%w: unexpected admit status %q", ErrUnavailable, status)
	}

	tokens, err := models.DecodeTokenSet(encoded)
	res.Tokens = tokens
	res.Malformed = malformed == 1 || err != nil
	return res, nil
}
