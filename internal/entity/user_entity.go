package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserStatus string

const (
	UserStatusActive  UserStatus = "active"
	UserStatusBlocked UserStatus = "blocked"
)

// User is an account. ExternalId is the messaging-platform user id used for
// call creators and channel members; it is mirrored onto the platform by the
// user-lifecycle event consumer.
type User struct {
	Id           uuid.UUID
	Email        string
	PasswordHash *string
	FullName     string
	AvatarURL    *string
	ExternalId   string
	Status       UserStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
