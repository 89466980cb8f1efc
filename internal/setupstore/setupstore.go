// Package setupstore suppresses repeated alerts for the same setup across scan cycles.
package setupstore

import (
	"context"
	"time"
)

// SetupStore remembers claimed setup IDs for a cooldown window.
type SetupStore interface {
	// Claim records id for ttl. It returns false when id is already claimed.
	Claim(ctx context.Context, id string, ttl time.Duration) (bool, error)
	Close() error
}
