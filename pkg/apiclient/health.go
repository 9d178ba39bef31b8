package apiclient

import (
	"context"

	"github.com/roletapro/roleta-client/pkg/payload"
)

// HealthCheck pings the backend. It never sends the bearer token.
func (c *Client) HealthCheck(ctx context.Context) (payload.Value, error) {
	return c.Get(ctx, "/health", NoAuth())
}
