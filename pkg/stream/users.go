package stream

import (
	"context"
	"net/http"
	"net/url"
)

// UserRecord is the messaging-platform mirror of an account.
type UserRecord struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Image string `json:"image,omitempty"`
	Email string `json:"email,omitempty"`
}

// UpsertUser creates or updates the platform-side user record. Users must
// exist on the platform before they can be channel members or call creators.
func (c *Client) UpsertUser(ctx context.Context, user UserRecord) error {
	payload := map[string]interface{}{
		"users": map[string]UserRecord{user.ID: user},
	}
	return c.do(ctx, http.MethodPost, "/users", nil, payload, nil)
}

// DeleteUser removes the platform-side user record and its messages.
func (c *Client) DeleteUser(ctx context.Context, userID string) error {
	query := url.Values{}
	query.Set("mark_messages_deleted", "true")
	return c.do(ctx, http.MethodDelete, "/users/"+userID, query, nil, nil)
}
