package apiclient

import (
	"context"
	"fmt"

	"github.com/roletapro/roleta-client/pkg/payload"
)

const (
	// DefaultBetsHistoryLimit is used when GetBetsHistory gets limit <= 0.
	DefaultBetsHistoryLimit = 50
	// DefaultRouletteHistoryLimit is used when GetRouletteHistory gets limit <= 0.
	DefaultRouletteHistoryLimit = 10
)

type executeBetRequest struct {
	StrategyID int  `json:"strategy_id"`
	Manual     bool `json:"manual"`
}

type createBetRequest struct {
	BetAmount float64 `json:"bet_amount"`
	Result    string  `json:"result"`
	Payout    float64 `json:"payout"`
}

// ExecuteBet places a bet driven by a strategy.
func (c *Client) ExecuteBet(ctx context.Context, strategyID int, manual bool) (payload.Value, error) {
	return c.Post(ctx, "/api/bets/execute", executeBetRequest{
		StrategyID: strategyID,
		Manual:     manual,
	})
}

// CreateBet records a bet outcome.
func (c *Client) CreateBet(ctx context.Context, betAmount float64, result string, payout float64) (payload.Value, error) {
	return c.Post(ctx, "/api/bets/", createBetRequest{
		BetAmount: betAmount,
		Result:    result,
		Payout:    payout,
	})
}

// GetBetsHistory returns up to limit past bets.
func (c *Client) GetBetsHistory(ctx context.Context, limit int) (payload.Value, error) {
	if limit <= 0 {
		limit = DefaultBetsHistoryLimit
	}
	return c.Get(ctx, fmt.Sprintf("/api/bets/history?limit=%d", limit))
}

// GetRouletteHistory returns up to limit past spins.
func (c *Client) GetRouletteHistory(ctx context.Context, limit int) (payload.Value, error) {
	if limit <= 0 {
		limit = DefaultRouletteHistoryLimit
	}
	return c.Get(ctx, fmt.Sprintf("/api/bets/roulette/history?limit=%d", limit))
}

// SpinRoulette asks the backend for a new spin.
func (c *Client) SpinRoulette(ctx context.Context) (payload.Value, error) {
	return c.Post(ctx, "/api/bets/spin", nil)
}
