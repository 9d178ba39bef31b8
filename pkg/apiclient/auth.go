package apiclient

import (
	"context"
	"errors"

	"github.com/roletapro/roleta-client/pkg/payload"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an account. When the response carries an access_token it is
// stored before the response is returned.
func (c *Client) Register(ctx context.Context, name, email, password string) (payload.Value, error) {
	resp, err := c.Post(ctx, "/api/auth/register", registerRequest{
		Name:     name,
		Email:    email,
		Password: password,
	}, NoAuth())
	if err != nil {
		return resp, err
	}
	return resp, c.keepAccessToken(ctx, resp)
}

// Login authenticates and stores the returned access_token.
func (c *Client) Login(ctx context.Context, email, password string) (payload.Value, error) {
	resp, err := c.Post(ctx, "/api/auth/login", loginRequest{
		Email:    email,
		Password: password,
	}, NoAuth())
	if err != nil {
		return resp, err
	}
	return resp, c.keepAccessToken(ctx, resp)
}

// Logout notifies the backend and clears the stored token. The token is
// removed whatever the outcome of the call.
func (c *Client) Logout(ctx context.Context) (err error) {
	defer func() {
		// The caller's context may already be done; removal must still run.
		if rmErr := c.RemoveToken(context.WithoutCancel(ctx)); rmErr != nil {
			err = errors.Join(err, rmErr)
		}
	}()

	_, err = c.Post(ctx, "/api/auth/logout", nil)
	return err
}

// GetCurrentUser fetches the authenticated user. Callers treat a failure as
// "not signed in" and clear the token themselves.
func (c *Client) GetCurrentUser(ctx context.Context) (payload.Value, error) {
	return c.Get(ctx, "/api/auth/me")
}

// keepAccessToken stores resp.access_token when it is a non-empty string; any
// previously stored token is left alone otherwise.
func (c *Client) keepAccessToken(ctx context.Context, resp payload.Value) error {
	field, ok := resp.Get("access_token")
	if !ok {
		return nil
	}
	token, ok := field.AsString()
	if !ok || token == "" {
		return nil
	}
	return c.SetToken(ctx, token)
}
