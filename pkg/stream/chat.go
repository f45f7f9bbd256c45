package stream

import (
	"context"
	"fmt"
	"net/http"
)

// Chat channels live in the "messaging" channel type, one per session,
// keyed by the session callId.
const channelType = "messaging"

type channelRequest struct {
	Data channelData `json:"data"`
}

type channelData struct {
	Name        string   `json:"name,omitempty"`
	CreatedById string   `json:"created_by_id"`
	Members     []string `json:"members,omitempty"`
}

// CreateChannel creates the chat channel keyed by callId with the given
// initial members.
func (c *Client) CreateChannel(ctx context.Context, callId, name, creatorId string, members []string) error {
	path := fmt.Sprintf("/channels/%s/%s/query", channelType, callId)
	payload := channelRequest{
		Data: channelData{
			Name:        name,
			CreatedById: creatorId,
			Members:     members,
		},
	}
	return c.do(ctx, http.MethodPost, path, nil, payload, nil)
}

// AddChannelMembers adds messaging user ids to an existing channel.
func (c *Client) AddChannelMembers(ctx context.Context, callId string, members []string) error {
	path := fmt.Sprintf("/channels/%s/%s", channelType, callId)
	payload := map[string]interface{}{"add_members": members}
	return c.do(ctx, http.MethodPost, path, nil, payload, nil)
}

// DeleteChannel removes the channel and its messages.
func (c *Client) DeleteChannel(ctx context.Context, callId string) error {
	path := fmt.Sprintf("/channels/%s/%s", channelType, callId)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}
