package model

import (
	"time"

	"github.com/google/uuid"
)

type Session struct {
	Id            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Problem       string     `gorm:"type:text;not null"`
	Difficulty    string     `gorm:"type:varchar(20);not null"`
	HostId        uuid.UUID  `gorm:"type:uuid;not null;index"`
	Host          *User      `gorm:"foreignKey:HostId"`
	ParticipantId *uuid.UUID `gorm:"type:uuid;index"`
	Participant   *User      `gorm:"foreignKey:ParticipantId"`
	Status        string     `gorm:"type:varchar(20);not null;default:'active';index"`
	CallId        string     `gorm:"type:varchar(255);uniqueIndex;not null"`
	CreatedAt     time.Time  `gorm:"autoCreateTime;index"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime"`
}

func (Session) TableName() string {
	return "sessions"
}
