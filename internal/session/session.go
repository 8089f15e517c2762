// Package session provides the admin session store: opaque tokens mapped to
// authenticated usernames with a 24-hour lifetime. Two backends exist: an
// in-process guarded map for single-instance deployments and a Redis store
// with native TTL expiry for multi-instance ones.
package session

import (
	"context"
	"errors"
	"time"
)

// ErrNoSession is returned by Validate when the token is unknown or expired.
var ErrNoSession = errors.New("no valid session")

type Session struct {
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store is the admin session abstraction. Tokens are opaque and minted by the
// store itself; expiry is enforced server-side only.
type Store interface {
	// Create mints a new session token for username.
	Create(ctx context.Context, username string) (string, error)
	// Validate returns the session for token, or ErrNoSession if the token
	// is absent or older than the store's TTL. Expired sessions are evicted.
	Validate(ctx context.Context, token string) (Session, error)
	// Revoke removes the session. Revoking an unknown token is not an error.
	Revoke(ctx context.Context, token string) error
}
