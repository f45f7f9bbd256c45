package entity

import (
	"time"

	"github.com/google/uuid"
)

type Difficulty string
type SessionStatus string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"

	SessionStatusActive    SessionStatus = "active"
	SessionStatusCompleted SessionStatus = "completed"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Session is a hosted practice room: one problem, one host, at most one
// participant, and a paired video call + chat channel on the messaging
// platform, all correlated by CallId ("session_<uuid>").
type Session struct {
	Id            uuid.UUID
	Problem       string
	Difficulty    Difficulty
	HostId        uuid.UUID
	Host          *User
	ParticipantId *uuid.UUID
	Participant   *User
	Status        SessionStatus
	CallId        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
