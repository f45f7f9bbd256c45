package dto

import (
	"time"

	"github.com/google/uuid"
)

type UserProfileResponse struct {
	Id         uuid.UUID `json:"id"`
	Email      string    `json:"email"`
	FullName   string    `json:"full_name"`
	AvatarURL  *string   `json:"avatar_url"`
	ExternalId string    `json:"external_id"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

type UpdateProfileRequest struct {
	FullName string `json:"full_name" validate:"required"`
}
