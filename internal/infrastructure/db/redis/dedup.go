package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultDedupTTL = 72 * time.Hour

// DedupChecker remembers delivered webhook events in Redis.
// Key format: webhook:dedup:<event_id>
type DedupChecker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDedupChecker wraps client. Keys expire after ttl, or 72h when ttl <= 0;
// Stripe stops retrying a delivery well before that.
func NewDedupChecker(client *redis.Client, ttl time.Duration) *DedupChecker {
	if ttl <= 0 {
		ttl = defaultDedupTTL
	}
	return &DedupChecker{client: client, ttl: ttl}
}

// IsDuplicate reports whether eventID was already delivered.
func (d *DedupChecker) IsDuplicate(ctx context.Context, eventID string) (bool, error) {
	n, err := d.client.Exists(ctx, DedupKey(eventID)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records eventID as delivered.
func (d *DedupChecker) Mark(ctx context.Context, eventID string) error {
	if err := d.client.Set(ctx, DedupKey(eventID), time.Now().UTC().Format(time.RFC3339), d.ttl).Err(); err != nil {
		return fmt.Errorf("dedup mark: %w", err)
	}
	return nil
}

func DedupKey(eventID string) string {
	return "webhook:dedup:" + eventID
}
