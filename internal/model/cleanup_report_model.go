package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// CleanupReport archives the per-step outcome of a rollback or teardown
// sequence so partial external-cleanup failures stay visible to operators.
type CleanupReport struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CallId    string         `gorm:"type:varchar(255);not null;index"`
	Operation string         `gorm:"type:varchar(50);not null"`
	Report    datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
}

func (CleanupReport) TableName() string {
	return "cleanup_reports"
}
