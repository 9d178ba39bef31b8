package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/roletapro/roleta-client/pkg/payload"
)

// HeaderStripeSignature is forwarded with webhook payloads.
const HeaderStripeSignature = "Stripe-Signature"

type checkoutRequest struct {
	PlanID int `json:"plan_id"`
}

type reactivateRequest struct {
	NewPlanID int `json:"new_plan_id"`
}

// GetSubscriptionPlans lists the plans on sale.
func (c *Client) GetSubscriptionPlans(ctx context.Context) (payload.Value, error) {
	return c.Get(ctx, "/api/subscriptions/plans/")
}

// GetUserActiveSubscription returns the current user's active subscription.
func (c *Client) GetUserActiveSubscription(ctx context.Context) (payload.Value, error) {
	return c.Get(ctx, "/api/subscriptions/user-subscriptions/me")
}

// CreateCheckoutSession starts a Stripe checkout for planID.
func (c *Client) CreateCheckoutSession(ctx context.Context, planID int) (payload.Value, error) {
	return c.Post(ctx, "/api/subscriptions/checkout", checkoutRequest{PlanID: planID})
}

// CancelUserSubscription cancels a user subscription.
func (c *Client) CancelUserSubscription(ctx context.Context, userSubscriptionID int) (payload.Value, error) {
	return c.Post(ctx, userSubscriptionPath(userSubscriptionID)+"/cancel", nil)
}

// ReactivateUserSubscription reactivates a user subscription on newPlanID.
func (c *Client) ReactivateUserSubscription(ctx context.Context, userSubscriptionID, newPlanID int) (payload.Value, error) {
	return c.Post(ctx, userSubscriptionPath(userSubscriptionID)+"/reactivate", reactivateRequest{NewPlanID: newPlanID})
}

// GetUserPayments lists the current user's payments.
func (c *Client) GetUserPayments(ctx context.Context) (payload.Value, error) {
	return c.Get(ctx, "/api/subscriptions/payments/me")
}

// HandleStripeWebhook forwards a raw Stripe event. The body is sent byte for
// byte so the backend can verify signature against it.
func (c *Client) HandleStripeWebhook(ctx context.Context, body []byte, signature string) (payload.Value, error) {
	if body == nil {
		body = []byte{}
	}
	return c.Request(ctx, "/webhooks/stripe", RequestOptions{
		Method: http.MethodPost,
		Body:   body,
		Header: http.Header{HeaderStripeSignature: []string{signature}},
	})
}

func userSubscriptionPath(id int) string {
	return fmt.Sprintf("/api/subscriptions/user-subscriptions/%d", id)
}
