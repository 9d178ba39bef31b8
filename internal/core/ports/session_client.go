package ports

import (
	"context"

	"github.com/roletapro/roleta-client/pkg/payload"
)

// SessionClient is the part of the API client the session use-cases need.
// *apiclient.Client satisfies it.
type SessionClient interface {
	Token(ctx context.Context) (string, error)
	RemoveToken(ctx context.Context) error
	GetCurrentUser(ctx context.Context) (payload.Value, error)
}
