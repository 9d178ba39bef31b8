package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/roletapro/roleta-client/internal/core/domain"
	"github.com/roletapro/roleta-client/internal/core/ports"
	"github.com/roletapro/roleta-client/internal/pkg/claims"
	"github.com/roletapro/roleta-client/pkg/payload"
)

// SessionService implements session restore and inspection for one profile.
type SessionService struct {
	client  ports.SessionClient
	profile string
	log     zerolog.Logger
	now     func() time.Time
}

func NewSessionService(client ports.SessionClient, profile string, log zerolog.Logger) *SessionService {
	return &SessionService{client: client, profile: profile, log: log, now: time.Now}
}

// Restore mirrors the start-up check of the web shell: with no token the user
// is signed out; with a token the backend is asked who the user is, and any
// failure there drops the token.
func (s *SessionService) Restore(ctx context.Context) (*domain.User, error) {
	token, err := s.client.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}
	if token == "" {
		return nil, domain.ErrNotAuthenticated
	}

	resp, err := s.client.GetCurrentUser(ctx)
	if err != nil {
		s.log.Info().Err(err).Str("profile", s.profile).Msg("stored session rejected, clearing token")
		if rmErr := s.client.RemoveToken(context.WithoutCancel(ctx)); rmErr != nil {
			s.log.Warn().Err(rmErr).Str("profile", s.profile).Msg("failed to clear token")
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrNotAuthenticated, err)
	}

	user, err := payload.As[domain.User](resp)
	if err != nil {
		return nil, fmt.Errorf("restore session: decode user: %w", err)
	}
	s.log.Debug().Str("profile", s.profile).Int("user_id", user.ID).Msg("session restored")
	return &user, nil
}

// Inspect decodes the stored token. A token that is not a JWT is reported as
// present with ErrMalformedToken.
func (s *SessionService) Inspect(ctx context.Context) (domain.SessionInfo, error) {
	token, err := s.client.Token(ctx)
	if err != nil {
		return domain.SessionInfo{Profile: s.profile}, fmt.Errorf("inspect session: %w", err)
	}
	info, err := claims.Decode(token, s.now())
	info.Profile = s.profile
	if err != nil {
		return info, fmt.Errorf("inspect session: %w", err)
	}
	return info, nil
}
