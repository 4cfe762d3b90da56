package ports

import (
	"context"
	"time"
)

// TokenDenylist records revoked access tokens until they would have expired.
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
