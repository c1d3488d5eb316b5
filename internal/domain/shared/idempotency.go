package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers which event ids have been handled. Webhook
// deliveries and in-process events share the same store so either path can
// suppress the other's duplicate.
type IdempotencyStore interface {
	// MarkProcessed records an id with a TTL. It reports true when the id
	// was newly recorded and false when it was already present.
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)

	// IsProcessed reports whether an id has been recorded
	IsProcessed(ctx context.Context, eventID string) (bool, error)

	Close() error
}

// IdempotencyConfig controls duplicate suppression
type IdempotencyConfig struct {
	// TTL bounds how long an id is remembered. After it expires the same id
	// would be processed again; it also acts as the retry cooldown for
	// failed handlers.
	TTL time.Duration

	Enabled bool
}

// DefaultIdempotencyConfig remembers ids for a day
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
