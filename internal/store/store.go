// Package store persists user quota counters and session memory (facts +
// conversation history) in SQLite.
package store

import (
	"context"

	"github.com/wayfinder-ai/wayfinder/pkg/model"
)

// Store is the persistence boundary used by the pipeline. Logic tests
// substitute an in-memory fake.
type Store interface {
	// GetOrCreateUser returns the user record, creating a free-tier user on
	// first authentication.
	GetOrCreateUser(ctx context.Context, id string) (*model.User, error)
	SaveUser(ctx context.Context, user *model.User) error

	// GetOrCreateSession returns the session record for an opaque session
	// key, creating an empty one lazily.
	GetOrCreateSession(ctx context.Context, key string) (*model.Session, error)
	SaveSession(ctx context.Context, session *model.Session) error

	Close() error
}
