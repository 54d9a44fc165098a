package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/thereayou/burnchat/internal/models"
)

// MemoryStore — in-memory реализация KeyValueStore для тестов.
// Повторяет семантику Redis, включая ленивое истечение ключей.
type MemoryStore struct {
	mu        sync.Mutex
	hashes    map[string]map[string]string
	lists     map[string][]string
	deadlines map[string]time.Time
	now       func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		hashes:    make(map[string]map[string]string),
		lists:     make(map[string][]string),
		deadlines: make(map[string]time.Time),
		now:       time.Now,
	}
}

// SetClock подменяет источник времени в тестах.
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// purge удаляет ключ, если его срок жизни истёк. Вызывать под мьютексом.
func (s *MemoryStore) purge(key string) {
	deadline, ok := s.deadlines[key]
	if ok && !s.now().After(deadline) {
		return
	}
	if ok {
		delete(s.hashes, key)
		delete(s.lists, key)
		delete(s.deadlines, key)
	}
}

func (s *MemoryStore) exists(key string) bool {
	s.purge(key)
	_, okH := s.hashes[key]
	_, okL := s.lists[key]
	return okH || okL
}

func (s *MemoryStore) HGet(_ context.Context, key, field string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purge(key)
	fields, ok := s.hashes[key]
	if !ok {
		return "", ErrNil
	}
	val, ok := fields[field]
	if !ok {
		return "", ErrNil
	}
	return val, nil
}

func (s *MemoryStore) HSet(_ context.Context, key string, fields map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purge(key)
	dst, ok := s.hashes[key]
	if !ok {
		dst = make(map[string]string)
		s.hashes[key] = dst
	}
	for field, value := range fields {
		dst[field] = fmt.Sprint(value)
	}
	return nil
}

func (s *MemoryStore) HGetAll(_ context.Context, key string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purge(key)
	out := make(map[string]string)
	for field, value := range s.hashes[key] {
		out[field] = value
	}
	return out, nil
}

func (s *MemoryStore) RPush(_ context.Context, key string, values ...interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purge(key)
	for _, value := range values {
		switch v := value.(type) {
		case []byte:
			s.lists[key] = append(s.lists[key], string(v))
		default:
			s.lists[key] = append(s.lists[key], fmt.Sprint(v))
		}
	}
	return nil
}

func (s *MemoryStore) LRange(_ context.Context, key string, start, stop int64) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purge(key)
	list := s.lists[key]
	n := int64(len(list))
	if start < 0 {
		start += n
	}
	if stop < 0 {
		stop += n
	}
	if start < 0 {
		start = 0
	}
	if stop >= n {
		stop = n - 1
	}
	if n == 0 || start > stop {
		return []string{}, nil
	}
	out := make([]string, 0, stop-start+1)
	out = append(out, list[start:stop+1]...)
	return out, nil
}

func (s *MemoryStore) Exists(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.exists(key), nil
}

func (s *MemoryStore) Del(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		delete(s.hashes, key)
		delete(s.lists, key)
		delete(s.deadlines, key)
	}
	return nil
}

func (s *MemoryStore) TTL(_ context.Context, key string) (time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.exists(key) {
		return 0, ErrNil
	}
	deadline, ok := s.deadlines[key]
	if !ok {
		return -1 * time.Nanosecond, nil
	}
	return deadline.Sub(s.now()), nil
}

func (s *MemoryStore) Expire(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.exists(key) {
		return false, nil
	}
	s.deadlines[key] = s.now().Add(ttl)
	return true, nil
}

func (s *MemoryStore) TryAdmit(_ context.Context, key, field, token string, limit int) (AdmitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.exists(key) {
		return AdmitResult{Status: AdmitNotFound}, nil
	}
	fields, ok := s.hashes[key]
	if !ok {
		return AdmitResult{Status: AdmitNotFound}, nil
	}

	tokens, decodeErr := models.DecodeTokenSet(fields[field])
	malformed := decodeErr != nil
	if lo.Contains(tokens, token) {
		return AdmitResult{Status: AdmitMember, Tokens: tokens, Malformed: malformed}, nil
	}
	if len(tokens) >= limit {
		return AdmitResult{Status: AdmitFull, Tokens: tokens, Malformed: malformed}, nil
	}

	tokens = append(tokens, token)
	fields[field] = models.EncodeTokenSet(tokens)
	return AdmitResult{Status: AdmitAdded, Tokens: tokens, Malformed: malformed}, nil
}
