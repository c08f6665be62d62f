// Package revocation holds the token revocation list: the only persisted
// piece of token state. Entries carry a TTL matching the token's remaining
// lifetime, so the list never grows past the live token set.
package revocation

import (
	"context"
	"time"
)

// List is the revocation store contract.
//
// Error contract: IsRevoked returns (false, nil) for unknown or expired
// entries; an error means the store could not answer and callers must fail
// closed.
type List interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
