package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"pairprep-be/internal/entity"
)

// ByCallId filters sessions by their call id.
type ByCallId struct {
	CallId string
}

func (s ByCallId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("call_id = ?", s.CallId)
}

// ByStatus filters sessions by lifecycle status.
type ByStatus struct {
	Status entity.SessionStatus
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

// HostedOrJoinedBy filters sessions where the user is host or participant.
type HostedOrJoinedBy struct {
	UserId uuid.UUID
}

func (s HostedOrJoinedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("host_id = ? OR participant_id = ?", s.UserId, s.UserId)
}

// WithUsers preloads the host and participant relations.
type WithUsers struct{}

func (s WithUsers) Apply(db *gorm.DB) *gorm.DB {
	return db.Preload("Host").Preload("Participant")
}
