package stream

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type recordedRequest struct {
	method string
	path   string
	query  map[string]string
	header http.Header
	body   map[string]interface{}
}

func newTestClient(t *testing.T, status int, response string) (*Client, *[]recordedRequest) {
	t.Helper()
	var requests []recordedRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{
			method: r.Method,
			path:   r.URL.Path,
			query:  map[string]string{},
			header: r.Header.Clone(),
		}
		for k, v := range r.URL.Query() {
			rec.query[k] = v[0]
		}
		if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
			json.Unmarshal(raw, &rec.body)
		}
		requests = append(requests, rec)

		w.WriteHeader(status)
		w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)

	return NewClient("key123", "secret123", srv.URL), &requests
}

func TestRequestAuthentication(t *testing.T) {
	client, requests := newTestClient(t, 200, "{}")

	if err := client.DeleteChannel(context.Background(), "session_abc"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := (*requests)[0]
	if req.query["api_key"] != "key123" {
		t.Errorf("expected api_key query param, got %q", req.query["api_key"])
	}
	if req.header.Get("Stream-Auth-Type") != "jwt" {
		t.Errorf("expected jwt auth type header")
	}

	// Authorization must be a server-scoped token signed with the secret.
	token, err := jwt.Parse(req.header.Get("Authorization"), func(t *jwt.Token) (interface{}, error) {
		return []byte("secret123"), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("authorization header is not a valid token: %v", err)
	}
	claims := token.Claims.(jwt.MapClaims)
	if claims["server"] != true {
		t.Errorf("expected server claim, got %v", claims)
	}
}

func TestCreateCallRequestShape(t *testing.T) {
	client, requests := newTestClient(t, 201, "{}")

	err := client.CreateCall(context.Background(), "session_abc", "user_1", map[string]interface{}{
		"problem": "Two Sum",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := (*requests)[0]
	if req.method != http.MethodPost || req.path != "/video/call/default/session_abc" {
		t.Fatalf("unexpected request: %s %s", req.method, req.path)
	}
	data := req.body["data"].(map[string]interface{})
	if data["created_by_id"] != "user_1" {
		t.Errorf("expected creator user_1, got %v", data["created_by_id"])
	}
	custom := data["custom"].(map[string]interface{})
	if custom["problem"] != "Two Sum" {
		t.Errorf("custom metadata not forwarded: %v", custom)
	}
}

func TestDeleteCallHard(t *testing.T) {
	client, requests := newTestClient(t, 200, "{}")

	if err := client.DeleteCall(context.Background(), "session_abc", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := (*requests)[0]
	if req.path != "/video/call/default/session_abc/delete" {
		t.Fatalf("unexpected path: %s", req.path)
	}
	if req.body["hard"] != true {
		t.Errorf("expected hard delete flag, got %v", req.body)
	}
}

func TestAddChannelMembers(t *testing.T) {
	client, requests := newTestClient(t, 200, "{}")

	if err := client.AddChannelMembers(context.Background(), "session_abc", []string{"user_2"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := (*requests)[0]
	if req.method != http.MethodPost || req.path != "/channels/messaging/session_abc" {
		t.Fatalf("unexpected request: %s %s", req.method, req.path)
	}
	members := req.body["add_members"].([]interface{})
	if len(members) != 1 || members[0] != "user_2" {
		t.Errorf("unexpected members payload: %v", members)
	}
}

func TestAPIErrorSurfaced(t *testing.T) {
	client, _ := newTestClient(t, 404, `{"code": 16, "message": "channel not found"}`)

	err := client.DeleteChannel(context.Background(), "session_missing")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "channel not found") {
		t.Errorf("platform message not surfaced: %v", err)
	}
}

func TestUserTokenClaims(t *testing.T) {
	client := NewClient("key123", "secret123", "")

	signed, err := client.UserToken("user_42", time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	token, err := jwt.Parse(signed, func(t *jwt.Token) (interface{}, error) {
		return []byte("secret123"), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("invalid token: %v", err)
	}
	claims := token.Claims.(jwt.MapClaims)
	if claims["user_id"] != "user_42" {
		t.Errorf("expected user_id claim, got %v", claims)
	}
	if _, ok := claims["exp"]; !ok {
		t.Error("expected exp claim")
	}
}
