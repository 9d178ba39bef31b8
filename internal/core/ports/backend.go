package ports

import (
	"context"

	"github.com/roletapro/roleta-client/pkg/payload"
)

// HealthChecker pings the backend.
type HealthChecker interface {
	HealthCheck(ctx context.Context) (payload.Value, error)
}

// BetCreator records one bet on the backend.
type BetCreator interface {
	CreateBet(ctx context.Context, betAmount float64, result string, payout float64) (payload.Value, error)
}
