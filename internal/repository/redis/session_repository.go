package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"veena-assistant-be/pkg/store"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "veena:session:"

// SessionRepository shares dialog positions between replicas. Redis owns
// expiry and eviction (configure maxmemory-policy volatile-ttl for a bound).
type SessionRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSessionRepository(rdb *redis.Client, ttl time.Duration) *SessionRepository {
	return &SessionRepository{rdb: rdb, ttl: ttl}
}

func sessionKey(userID string) string {
	return sessionKeyPrefix + userID
}

func (r *SessionRepository) Get(ctx context.Context, userID string) (*store.Session, bool, error) {
	raw, err := r.rdb.Get(ctx, sessionKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load session: %w", err)
	}

	var session store.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		// Unreadable entries are treated as missing; the next Set replaces them.
		return nil, false, nil
	}
	return &session, true, nil
}

func (r *SessionRepository) Set(ctx context.Context, session *store.Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return err
	}
	if err := r.rdb.Set(ctx, sessionKey(session.UserID), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Evict(ctx context.Context, userID string) error {
	return r.rdb.Del(ctx, sessionKey(userID)).Err()
}
