package ports

import (
	"context"

	"github.com/roletapro/roleta-client/internal/core/domain"
)

type SessionService interface {
	// Restore returns the signed-in user, clearing the stored token when the
	// backend no longer accepts it.
	Restore(ctx context.Context) (*domain.User, error)
	// Inspect describes the stored token without calling the backend.
	Inspect(ctx context.Context) (domain.SessionInfo, error)
}
