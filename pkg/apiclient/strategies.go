package apiclient

import (
	"context"
	"fmt"

	"github.com/roletapro/roleta-client/pkg/payload"
)

type createStrategyRequest struct {
	Name     string        `json:"name"`
	Type     string        `json:"type"`
	Config   payload.Value `json:"config"`
	IsActive bool          `json:"is_active"`
}

// GetStrategies lists the user's strategies.
func (c *Client) GetStrategies(ctx context.Context) (payload.Value, error) {
	return c.Get(ctx, "/api/strategies/")
}

// GetStrategy fetches one strategy.
func (c *Client) GetStrategy(ctx context.Context, strategyID int) (payload.Value, error) {
	return c.Get(ctx, strategyPath(strategyID))
}

// CreateStrategy stores a new strategy. config is forwarded untouched; its
// shape depends on strategyType.
func (c *Client) CreateStrategy(ctx context.Context, name, strategyType string, config payload.Value, isActive bool) (payload.Value, error) {
	return c.Post(ctx, "/api/strategies/", createStrategyRequest{
		Name:     name,
		Type:     strategyType,
		Config:   config,
		IsActive: isActive,
	})
}

// UpdateStrategy replaces fields of a strategy with data.
func (c *Client) UpdateStrategy(ctx context.Context, strategyID int, data any) (payload.Value, error) {
	return c.Put(ctx, strategyPath(strategyID), data)
}

// DeleteStrategy removes a strategy.
func (c *Client) DeleteStrategy(ctx context.Context, strategyID int) (payload.Value, error) {
	return c.Delete(ctx, strategyPath(strategyID))
}

// ToggleStrategy flips is_active on the backend.
func (c *Client) ToggleStrategy(ctx context.Context, strategyID int) (payload.Value, error) {
	return c.Post(ctx, strategyPath(strategyID)+"/toggle", nil)
}

func strategyPath(id int) string {
	return fmt.Sprintf("/api/strategies/%d", id)
}
