package ports

import (
	"context"

	"github.com/roletapro/roleta-client/internal/core/domain"
	"github.com/roletapro/roleta-client/pkg/payload"
)

// WebhookForwarder delivers a raw Stripe event to the backend.
type WebhookForwarder interface {
	HandleStripeWebhook(ctx context.Context, body []byte, signature string) (payload.Value, error)
}

// EventDeduper remembers which webhook events were already delivered.
type EventDeduper interface {
	IsDuplicate(ctx context.Context, eventID string) (bool, error)
	Mark(ctx context.Context, eventID string) error
}

// WebhookService relays Stripe deliveries to the backend exactly once per event id.
type WebhookService interface {
	Relay(ctx context.Context, event domain.WebhookEvent) (*domain.WebhookResult, error)
}
