package domain

import "github.com/roletapro/roleta-client/pkg/payload"

// WebhookStatus is reported to Stripe by the relay.
type WebhookStatus string

const (
	WebhookForwarded WebhookStatus = "forwarded"
	WebhookDuplicate WebhookStatus = "duplicate"
)

// WebhookEvent is a Stripe delivery as received by the relay. Body is kept
// byte for byte because the signature covers it.
type WebhookEvent struct {
	ID        string
	Type      string
	Body      []byte
	Signature string
}

// WebhookResult is the outcome of relaying one event.
type WebhookResult struct {
	Status   WebhookStatus
	Response payload.Value
}
