package memory

import (
	"context"
	"sync"
	"time"

	"veena-assistant-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

type SessionRepository struct {
	cache      *cache.Cache
	maxEntries int
	mu         sync.Mutex
}

// NewSessionRepository keeps sessions for ttl. When maxEntries is reached
// the entry closest to expiry is dropped to make room.
func NewSessionRepository(ttl time.Duration, maxEntries int) *SessionRepository {
	cleanup := ttl / 6
	if cleanup < time.Minute {
		cleanup = time.Minute
	}
	return &SessionRepository{
		cache:      cache.New(ttl, cleanup),
		maxEntries: maxEntries,
	}
}

func (r *SessionRepository) Get(ctx context.Context, userID string) (*store.Session, bool, error) {
	if x, found := r.cache.Get(userID); found {
		session := *x.(*store.Session)
		return &session, true, nil
	}
	return nil, false, nil
}

func (r *SessionRepository) Set(ctx context.Context, session *store.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.maxEntries > 0 {
		if _, exists := r.cache.Get(session.UserID); !exists && r.cache.ItemCount() >= r.maxEntries {
			r.cache.DeleteExpired()
			if r.cache.ItemCount() >= r.maxEntries {
				r.evictOldest()
			}
		}
	}

	copied := *session
	r.cache.Set(session.UserID, &copied, cache.DefaultExpiration)
	return nil
}

func (r *SessionRepository) Evict(ctx context.Context, userID string) error {
	r.cache.Delete(userID)
	return nil
}

func (r *SessionRepository) Len() int {
	return r.cache.ItemCount()
}

func (r *SessionRepository) evictOldest() {
	var (
		oldestKey string
		oldestExp int64
	)
	for key, item := range r.cache.Items() {
		if oldestKey == "" || item.Expiration < oldestExp {
			oldestKey, oldestExp = key, item.Expiration
		}
	}
	if oldestKey != "" {
		r.cache.Delete(oldestKey)
	}
}
