package store

import (
	"context"
	"time"
)

// Session is the per-user dialog position. Only the node id is kept; the
// node itself is resolved against the currently loaded tree.
type Session struct {
	UserID    string    `json:"user_id"`
	NodeID    string    `json:"node_id"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SessionStore is a bounded, expiring map of user id to Session.
type SessionStore interface {
	Get(ctx context.Context, userID string) (*Session, bool, error)
	Set(ctx context.Context, session *Session) error
	Evict(ctx context.Context, userID string) error
}
