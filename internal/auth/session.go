package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/villageveggies/backend/internal/models"
)

// SessionStore issues, validates and destroys session tokens.
type SessionStore interface {
	Create(ctx context.Context, accountID int64, email string) (string, error)
	// Get returns nil, nil for an absent or expired session.
	Get(ctx context.Context, sessionID string) (*models.Session, error)
	// Delete must succeed for unknown sessions.
	Delete(ctx context.Context, sessionID string) error
}

// RedisSessionStore keeps sessions in Redis under session:<id> with a TTL
// that is renewed on every read.
type RedisSessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisSessionStore(rdb *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb, ttl: ttl}
}

func sessionKey(sid string) string { return "session:" + sid }

// Create stores a new session mapping sessionID -> {account_id, email}.
func (s *RedisSessionStore) Create(ctx context.Context, accountID int64, email string) (string, error) {
	sid := uuid.New().String()
	payload, err := json.Marshal(models.Session{AccountID: accountID, Email: email})
	if err != nil {
		return "", err
	}
	if err := s.rdb.Set(ctx, sessionKey(sid), payload, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return sid, nil
}

func (s *RedisSessionStore) Get(ctx context.Context, sessionID string) (*models.Session, error) {
	val, err := s.rdb.GetEx(ctx, sessionKey(sessionID), s.ttl).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	var sess models.Session
	if err := json.Unmarshal(val, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	sess.ID = sessionID
	sess.Expire = time.Now().Add(s.ttl)
	return &sess, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.rdb.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
