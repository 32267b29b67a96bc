// Package session keeps per-session conversation history and the last
// issued receipt. Redis is the primary backend; when it is unreachable
// at startup the service degrades to an in-process store so chat keeps
// working on a single node.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"bakery-assistant-api/config"

	"github.com/go-redis/redis/v8"
)

// Turn is one message in a session's conversation history.
type Turn struct {
	Role      string    `json:"role"` // "user" or "assistant"
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Store persists conversation history and the last receipt per session.
type Store interface {
	AppendTurn(ctx context.Context, sessionID string, t Turn) error
	History(ctx context.Context, sessionID string) ([]Turn, error)
	SetLastReceipt(ctx context.Context, sessionID, receipt string) error
	LastReceipt(ctx context.Context, sessionID string) (string, bool, error)
}

// Connect returns a Redis-backed store, or a memory store (with a
// non-nil error describing why) when Redis does not answer a ping.
func Connect(cfg *config.Config) (Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return NewMemoryStore(), fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
	}
	return &RedisStore{client: client, ttl: cfg.SessionTTL}, nil
}

// RedisStore keeps each session's history as a list and its receipt as
// a string key, both expiring after the session TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func historyKey(sessionID string) string { return "session:" + sessionID + ":history" }
func receiptKey(sessionID string) string { return "session:" + sessionID + ":receipt" }

func (s *RedisStore) AppendTurn(ctx context.Context, sessionID string, t Turn) error {
	if t.Timestamp.IsZero() {
		t.Timestamp = time.Now()
	}
	raw, err := json.Marshal(t)
	if err != nil {
		return err
	}
	key := historyKey(sessionID)
	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, key, raw)
	pipe.Expire(ctx, key, s.ttl)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisStore) History(ctx context.Context, sessionID string) ([]Turn, error) {
	raws, err := s.client.LRange(ctx, historyKey(sessionID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	turns := make([]Turn, 0, len(raws))
	for _, raw := range raws {
		var t Turn
		if err := json.Unmarshal([]byte(raw), &t); err != nil {
			continue // skip rows written by older formats
		}
		turns = append(turns, t)
	}
	return turns, nil
}

func (s *RedisStore) SetLastReceipt(ctx context.Context, sessionID, receipt string) error {
	return s.client.Set(ctx, receiptKey(sessionID), receipt, s.ttl).Err()
}

func (s *RedisStore) LastReceipt(ctx context.Context, sessionID string) (string, bool, error) {
	v, err := s.client.Get(ctx, receiptKey(sessionID)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// MemoryStore is the single-process fallback. No TTL eviction; data
// lives as long as the process.
type MemoryStore struct {
	mu       sync.RWMutex
	history  map[string][]Turn
	receipts map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		history:  make(map[string][]Turn),
		receipts: make(map[string]string),
	}
}

func (s *MemoryStore) AppendTurn(_ context.Context, sessionID string, t Turn) error {
	if t.Timestamp.IsZero() {
		t.Timestamp = time.Now()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history[sessionID] = append(s.history[sessionID], t)
	return nil
}

func (s *MemoryStore) History(_ context.Context, sessionID string) ([]Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	turns := make([]Turn, len(s.history[sessionID]))
	copy(turns, s.history[sessionID])
	return turns, nil
}

func (s *MemoryStore) SetLastReceipt(_ context.Context, sessionID, receipt string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.receipts[sessionID] = receipt
	return nil
}

func (s *MemoryStore) LastReceipt(_ context.Context, sessionID string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.receipts[sessionID]
	return r, ok, nil
}
