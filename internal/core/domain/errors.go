package domain

import "errors"

var (
	ErrNotAuthenticated      = errors.New("not authenticated")
	ErrMalformedToken        = errors.New("malformed token")
	ErrMissingSignature      = errors.New("missing Stripe-Signature header")
	ErrInvalidWebhookPayload = errors.New("invalid webhook payload")
	ErrInvalidBetRecord      = errors.New("invalid bet record")
)
