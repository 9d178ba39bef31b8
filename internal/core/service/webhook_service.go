package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/roletapro/roleta-client/internal/core/domain"
	"github.com/roletapro/roleta-client/internal/core/ports"
	"github.com/roletapro/roleta-client/pkg/payload"
)

type webhookService struct {
	forwarder ports.WebhookForwarder
	dedup     ports.EventDeduper
	log       zerolog.Logger
}

// NewWebhookService returns a WebhookService. A nil dedup disables duplicate
// detection.
func NewWebhookService(forwarder ports.WebhookForwarder, dedup ports.EventDeduper, log zerolog.Logger) ports.WebhookService {
	if dedup == nil {
		dedup = noDedup{}
	}
	return &webhookService{forwarder: forwarder, dedup: dedup, log: log}
}

// ParseWebhookEvent reads the event id and type from a raw Stripe body.
func ParseWebhookEvent(body []byte, signature string) (domain.WebhookEvent, error) {
	ev := domain.WebhookEvent{Body: body, Signature: signature}
	if signature == "" {
		return ev, domain.ErrMissingSignature
	}

	v, err := payload.Parse(body)
	if err != nil {
		return ev, fmt.Errorf("%w: %v", domain.ErrInvalidWebhookPayload, err)
	}
	idField, _ := v.Get("id")
	id, ok := idField.AsString()
	if !ok || id == "" {
		return ev, fmt.Errorf("%w: missing event id", domain.ErrInvalidWebhookPayload)
	}
	ev.ID = id
	if typeField, ok := v.Get("type"); ok {
		ev.Type, _ = typeField.AsString()
	}
	return ev, nil
}

// Relay forwards one event unless it was already delivered.
func (s *webhookService) Relay(ctx context.Context, ev domain.WebhookEvent) (*domain.WebhookResult, error) {
	// Dedup failures must not block payments; forward anyway.
	isDup, err := s.dedup.IsDuplicate(ctx, ev.ID)
	if err != nil {
		s.log.Warn().Err(err).Str("event_id", ev.ID).Msg("dedup check failed, forwarding anyway")
	} else if isDup {
		s.log.Debug().Str("event_id", ev.ID).Str("type", ev.Type).Msg("duplicate webhook skipped")
		return &domain.WebhookResult{Status: domain.WebhookDuplicate}, nil
	}

	resp, err := s.forwarder.HandleStripeWebhook(ctx, ev.Body, ev.Signature)
	if err != nil {
		return nil, fmt.Errorf("relay webhook %s: %w", ev.ID, err)
	}

	// Marked only after the backend accepted it, so Stripe retries of a failed
	// delivery are forwarded again.
	if err := s.dedup.Mark(ctx, ev.ID); err != nil {
		s.log.Warn().Err(err).Str("event_id", ev.ID).Msg("failed to set dedup key")
	}

	s.log.Info().
		Str("event_id", ev.ID).
		Str("type", ev.Type).
		Msg("webhook forwarded")

	return &domain.WebhookResult{Status: domain.WebhookForwarded, Response: resp}, nil
}

type noDedup struct{}

func (noDedup) IsDuplicate(context.Context, string) (bool, error) { return false, nil }
func (noDedup) Mark(context.Context, string) error                { return nil }
