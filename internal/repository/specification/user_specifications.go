package specification

import "gorm.io/gorm"

// ByEmail filters users by email.
type ByEmail struct {
	Email string
}

func (s ByEmail) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("email = ?", s.Email)
}

// ByExternalId filters users by the identity provider id.
type ByExternalId struct {
	ExternalId string
}

func (s ByExternalId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("external_id = ?", s.ExternalId)
}
