package domain

import "time"

// SessionInfo describes the token held for a profile. Claims are read without
// verifying the signature; only the backend can do that.
type SessionInfo struct {
	Profile   string    `json:"profile" yaml:"profile"`
	Present   bool      `json:"present" yaml:"present"`
	Subject   string    `json:"subject,omitempty" yaml:"subject,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitzero" yaml:"expires_at,omitempty"`
	Expired   bool      `json:"expired" yaml:"expired"`
}

// Remaining returns how long the token stays valid after now. Zero means the
// token is expired or carries no expiry.
func (s SessionInfo) Remaining(now time.Time) time.Duration {
	if s.ExpiresAt.IsZero() || !now.Before(s.ExpiresAt) {
		return 0
	}
	return s.ExpiresAt.Sub(now)
}
