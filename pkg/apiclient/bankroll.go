package apiclient

import (
	"context"
	"fmt"

	"github.com/roletapro/roleta-client/pkg/payload"
)

// DefaultBankrollHistoryLimit is used when GetBankrollHistory gets limit <= 0.
const DefaultBankrollHistoryLimit = 30

// GetBankrollConfig fetches the user's bankroll configuration.
func (c *Client) GetBankrollConfig(ctx context.Context) (payload.Value, error) {
	return c.Get(ctx, "/api/bankroll/config")
}

// SaveBankrollConfig creates or replaces the bankroll configuration.
func (c *Client) SaveBankrollConfig(ctx context.Context, config any) (payload.Value, error) {
	return c.Post(ctx, "/api/bankroll/config", config)
}

// GetBankrollHistory returns up to limit history records.
func (c *Client) GetBankrollHistory(ctx context.Context, limit int) (payload.Value, error) {
	if limit <= 0 {
		limit = DefaultBankrollHistoryLimit
	}
	return c.Get(ctx, fmt.Sprintf("/api/bankroll/history?limit=%d", limit))
}

// GetBankrollStats returns aggregate bankroll statistics.
func (c *Client) GetBankrollStats(ctx context.Context) (payload.Value, error) {
	return c.Get(ctx, "/api/bankroll/stats")
}
