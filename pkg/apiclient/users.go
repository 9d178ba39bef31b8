package apiclient

import (
	"context"

	"github.com/roletapro/roleta-client/pkg/payload"
)

type updatePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// UpdateUserProfile sends profile fields for the current user.
func (c *Client) UpdateUserProfile(ctx context.Context, data any) (payload.Value, error) {
	return c.Put(ctx, "/api/users/me", data)
}

// UpdateUserPassword changes the current user's password.
func (c *Client) UpdateUserPassword(ctx context.Context, oldPassword, newPassword string) (payload.Value, error) {
	return c.Put(ctx, "/api/users/me/password", updatePasswordRequest{
		OldPassword: oldPassword,
		NewPassword: newPassword,
	})
}
