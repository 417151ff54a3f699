package session

import (
	"context"
	"time"

	"veena-assistant-be/pkg/rag/dialog"
	"veena-assistant-be/pkg/store"
)

// Manager handles dialog positions on top of a SessionStore
type Manager struct {
	store store.SessionStore
	now   func() time.Time
}

func NewManager(sessionStore store.SessionStore) *Manager {
	return &Manager{store: sessionStore, now: time.Now}
}

// Reset moves the user back to root, discarding any earlier position.
func (m *Manager) Reset(ctx context.Context, userID string, root dialog.NodeID) (*store.Session, error) {
	session := &store.Session{
		UserID:    userID,
		NodeID:    string(root),
		UpdatedAt: m.now(),
	}
	if err := m.store.Set(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Current resolves the user's node. Users without a session stand at the
// root. A stored id the tree no longer knows yields nil, which callers
// render as an unknown step.
func (m *Manager) Current(ctx context.Context, userID string, tree *dialog.Tree) (*dialog.Node, error) {
	session, found, err := m.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !found {
		return tree.Root(), nil
	}
	node, ok := tree.Node(dialog.NodeID(session.NodeID))
	if !ok {
		return nil, nil
	}
	return node, nil
}

// Advance stores an explicit transition from the current node.
func (m *Manager) Advance(ctx context.Context, userID string, tree *dialog.Tree, from *dialog.Node, edge string) (*dialog.Node, error) {
	next, err := tree.Transition(from.ID, edge)
	if err != nil {
		return nil, err
	}
	session := &store.Session{UserID: userID, NodeID: string(next.ID), UpdatedAt: m.now()}
	if err := m.store.Set(ctx, session); err != nil {
		return nil, err
	}
	return next, nil
}

func (m *Manager) Forget(ctx context.Context, userID string) error {
	return m.store.Evict(ctx, userID)
}
