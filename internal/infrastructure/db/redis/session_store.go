package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/roletapro/roleta-client/internal/pkg/claims"
)

// SessionStore keeps a profile's bearer token in Redis.
// Key format: roleta:session:<profile>
type SessionStore struct {
	client  *redis.Client
	profile string
	now     func() time.Time
}

func NewSessionStore(client *redis.Client, profile string) *SessionStore {
	return &SessionStore{client: client, profile: profile, now: time.Now}
}

func (s *SessionStore) Get(ctx context.Context) (string, error) {
	token, err := s.client.Get(ctx, SessionKey(s.profile)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get session: %w", err)
	}
	return token, nil
}

// minSessionTTL is the expiry given to a token whose exp has already passed.
const minSessionTTL = time.Second

// Set stores token. The key expires with the token when it carries an exp
// claim; otherwise it is kept until removed.
func (s *SessionStore) Set(ctx context.Context, token string) error {
	if err := s.client.Set(ctx, SessionKey(s.profile), token, sessionExpiration(token, s.now())).Err(); err != nil {
		return fmt.Errorf("set session: %w", err)
	}
	return nil
}

// sessionExpiration returns the key expiry for token. Zero means no expiry and
// is only returned for tokens without an exp claim.
func sessionExpiration(token string, now time.Time) time.Duration {
	ttl, ok := claims.TTL(token, now)
	if !ok {
		return 0
	}
	return max(ttl, minSessionTTL)
}

func (s *SessionStore) Remove(ctx context.Context) error {
	if err := s.client.Del(ctx, SessionKey(s.profile)).Err(); err != nil {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

func SessionKey(profile string) string {
	return "roleta:session:" + profile
}
