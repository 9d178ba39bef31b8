// Package claims reads the registered claims of a backend access token.
package claims

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/roletapro/roleta-client/internal/core/domain"
)

// Decode reads sub and exp from token without checking its signature. The
// client never holds the backend's signing key.
func Decode(token string, now time.Time) (domain.SessionInfo, error) {
	info := domain.SessionInfo{Present: token != ""}
	if token == "" {
		return info, nil
	}

	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mc); err != nil {
		return info, fmt.Errorf("%w: %v", domain.ErrMalformedToken, err)
	}

	sub, err := mc.GetSubject()
	if err != nil {
		return info, fmt.Errorf("%w: %v", domain.ErrMalformedToken, err)
	}
	info.Subject = sub

	exp, err := mc.GetExpirationTime()
	if err != nil {
		return info, fmt.Errorf("%w: %v", domain.ErrMalformedToken, err)
	}
	if exp != nil {
		info.ExpiresAt = exp.Time.UTC()
		info.Expired = !now.Before(info.ExpiresAt)
	}
	return info, nil
}

// TTL returns how long token should be kept by a store with expiring keys.
// ok is false when the token has no usable expiry, in which case the caller
// keeps it without a TTL.
func TTL(token string, now time.Time) (ttl time.Duration, ok bool) {
	info, err := Decode(token, now)
	if err != nil || info.ExpiresAt.IsZero() {
		return 0, false
	}
	return info.Remaining(now), true
}
