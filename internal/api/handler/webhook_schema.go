package handler

// webhookHeaders is bound from the request headers of a Stripe delivery.
type webhookHeaders struct {
	Signature string `header:"Stripe-Signature" validate:"required"`
}

// statusResponse is returned for deliveries that were not forwarded.
type statusResponse struct {
	Status string `json:"status" example:"duplicate"`
}

// errorResponse mirrors the backend's error envelope.
type errorResponse struct {
	Detail string `json:"detail" example:"Invalid signature"`
}
