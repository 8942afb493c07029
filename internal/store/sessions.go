package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/villageveggies/backend/internal/models"
)

// SessionStore keeps sessions in the Postgres sessions table. Each
// successful Get pushes the expiry out by the TTL.
type SessionStore struct {
	pool *pgxpool.Pool
	ttl  time.Duration
	now  func() time.Time
}

func NewSessionStore(pool *pgxpool.Pool, ttl time.Duration) *SessionStore {
	return &SessionStore{pool: pool, ttl: ttl, now: time.Now}
}

// Create stores a new session for the account and returns its token.
// Expired rows are pruned on the way.
func (s *SessionStore) Create(ctx context.Context, accountID int64, email string) (string, error) {
	now := s.now()
	if _, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE expire <= $1`, now); err != nil {
		return "", fmt.Errorf("prune sessions: %w", err)
	}

	sid := uuid.New().String()
	payload, err := json.Marshal(models.Session{AccountID: accountID, Email: email})
	if err != nil {
		return "", err
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO sessions (id, payload, expire) VALUES ($1, $2, $3)`,
		sid, payload, now.Add(s.ttl),
	)
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return sid, nil
}

// Get returns the session, or nil if it is absent or expired.
func (s *SessionStore) Get(ctx context.Context, sessionID string) (*models.Session, error) {
	now := s.now()
	var payload []byte
	err := s.pool.QueryRow(ctx,
		`UPDATE sessions SET expire = $2
		 WHERE id = $1 AND expire > $3
		 RETURNING payload`,
		sessionID, now.Add(s.ttl), now,
	).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	var sess models.Session
	if err := json.Unmarshal(payload, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	sess.ID = sessionID
	sess.Expire = now.Add(s.ttl)
	return &sess, nil
}

// Delete removes a session. Deleting an unknown session is not an error.
func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
