package claims

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/roletapro/roleta-client/internal/core/domain"
)

func mint(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("super-secret-key"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tok
}

func TestDecode(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tok := mint(t, jwt.MapClaims{"sub": "ana@example.com", "exp": now.Add(30 * time.Minute).Unix()})

	info, err := Decode(tok, now)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !info.Present || info.Subject != "ana@example.com" || info.Expired {
		t.Fatalf("unexpected info: %+v", info)
	}
	if !info.ExpiresAt.Equal(now.Add(30 * time.Minute)) {
		t.Fatalf("unexpected expiry %s", info.ExpiresAt)
	}
}

func TestDecode_Expired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tok := mint(t, jwt.MapClaims{"sub": "ana@example.com", "exp": now.Add(-time.Minute).Unix()})

	info, err := Decode(tok, now)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !info.Expired {
		t.Fatalf("expected expired session")
	}
	if _, ok := TTL(tok, now); !ok {
		t.Fatalf("expired token still has an expiry")
	}
	if ttl, _ := TTL(tok, now); ttl != 0 {
		t.Fatalf("expired token ttl = %s", ttl)
	}
}

func TestDecode_Empty(t *testing.T) {
	info, err := Decode("", time.Now())
	if err != nil || info.Present {
		t.Fatalf("unexpected result: %+v %v", info, err)
	}
}

func TestDecode_Malformed(t *testing.T) {
	_, err := Decode("not-a-jwt", time.Now())
	if !errors.Is(err, domain.ErrMalformedToken) {
		t.Fatalf("expected ErrMalformedToken, got %v", err)
	}
	if _, ok := TTL("not-a-jwt", time.Now()); ok {
		t.Fatalf("malformed token must not yield a ttl")
	}
}

func TestTTL_NoExpiry(t *testing.T) {
	tok := mint(t, jwt.MapClaims{"sub": "x"})
	if _, ok := TTL(tok, time.Now()); ok {
		t.Fatalf("token without exp must not yield a ttl")
	}
}
