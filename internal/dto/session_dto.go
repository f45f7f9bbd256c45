package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateSessionRequest struct {
	Problem    string `json:"problem" validate:"required"`
	Difficulty string `json:"difficulty" validate:"required,oneof=easy medium hard"`
}

// UserSummary carries the identity fields the frontend needs to render a
// session card.
type UserSummary struct {
	Id         uuid.UUID `json:"id"`
	FullName   string    `json:"full_name"`
	Email      string    `json:"email"`
	AvatarURL  *string   `json:"avatar_url"`
	ExternalId string    `json:"external_id"`
}

type SessionResponse struct {
	Id            uuid.UUID    `json:"id"`
	Problem       string       `json:"problem"`
	Difficulty    string       `json:"difficulty"`
	Host          *UserSummary `json:"host"`
	ParticipantId *uuid.UUID   `json:"participant_id"`
	Participant   *UserSummary `json:"participant"`
	Status        string       `json:"status"`
	CallId        string       `json:"call_id"`
	CreatedAt     time.Time    `json:"created_at"`
}

// Response envelopes mirror the HTTP contract: {session}, {sessions} and
// {session, message}.
type SessionEnvelope struct {
	Session *SessionResponse `json:"session"`
}

type SessionListEnvelope struct {
	Sessions []*SessionResponse `json:"sessions"`
}

type EndSessionEnvelope struct {
	Session *SessionResponse `json:"session"`
	Message string           `json:"message"`
}

type ChatTokenResponse struct {
	Token     string `json:"token"`
	APIKey    string `json:"api_key"`
	UserId    string `json:"user_id"`
	ExpiresIn int64  `json:"expires_in"`
}
