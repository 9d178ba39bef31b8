package apiclient

import (
	"context"
	"fmt"

	"github.com/roletapro/roleta-client/pkg/payload"
)

const (
	// DefaultNotificationsLimit is used when GetNotifications gets limit <= 0.
	DefaultNotificationsLimit = 100
	// DefaultNotificationType is used when CreateNotification gets an empty type.
	DefaultNotificationType = "info"
)

type createNotificationRequest struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// GetNotifications pages through the user's notifications. A negative skip is
// sent as 0.
func (c *Client) GetNotifications(ctx context.Context, skip, limit int) (payload.Value, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = DefaultNotificationsLimit
	}
	return c.Get(ctx, fmt.Sprintf("/api/notifications/?skip=%d&limit=%d", skip, limit))
}

// MarkNotificationAsRead flags a notification as read.
func (c *Client) MarkNotificationAsRead(ctx context.Context, notificationID int) (payload.Value, error) {
	return c.Put(ctx, fmt.Sprintf("/api/notifications/%d/read", notificationID), struct{}{})
}

// CreateNotification posts a notification for the current user.
func (c *Client) CreateNotification(ctx context.Context, message, notificationType string) (payload.Value, error) {
	if notificationType == "" {
		notificationType = DefaultNotificationType
	}
	return c.Post(ctx, "/api/notifications/", createNotificationRequest{
		Message: message,
		Type:    notificationType,
	})
}
