package stream

import (
	"context"
	"fmt"
	"net/http"
)

// The call type is fixed: every practice session uses the platform's
// "default" video call type.
const callType = "default"

type callRequest struct {
	Data callData `json:"data"`
}

type callData struct {
	CreatedById string                 `json:"created_by_id"`
	Custom      map[string]interface{} `json:"custom,omitempty"`
}

// CreateCall creates (or fetches) the video call keyed by callId, tagging it
// with the given custom metadata.
func (c *Client) CreateCall(ctx context.Context, callId, creatorId string, custom map[string]interface{}) error {
	path := fmt.Sprintf("/video/call/%s/%s", callType, callId)
	payload := callRequest{
		Data: callData{
			CreatedById: creatorId,
			Custom:      custom,
		},
	}
	return c.do(ctx, http.MethodPost, path, nil, payload, nil)
}

// DeleteCall removes the video call. hard permanently destroys the call and
// its recordings instead of soft-deleting it.
func (c *Client) DeleteCall(ctx context.Context, callId string, hard bool) error {
	path := fmt.Sprintf("/video/call/%s/%s/delete", callType, callId)
	return c.do(ctx, http.MethodPost, path, nil, map[string]interface{}{"hard": hard}, nil)
}
