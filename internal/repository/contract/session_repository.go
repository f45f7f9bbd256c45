package contract

import (
	"context"

	"pairprep-be/internal/entity"
	"pairprep-be/internal/repository/specification"

	"github.com/google/uuid"
)

type SessionRepository interface {
	Create(ctx context.Context, session *entity.Session) error
	Update(ctx context.Context, session *entity.Session) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByCallId(ctx context.Context, callId string) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Session, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Session, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SetParticipant claims the participant seat. It only writes when the
	// session is still active and the seat is empty, and reports whether the
	// claim won.
	SetParticipant(ctx context.Context, id uuid.UUID, participantId uuid.UUID) (bool, error)
	// CompleteSession flips an active session to completed and reports
	// whether this call performed the flip.
	CompleteSession(ctx context.Context, id uuid.UUID) (bool, error)
}
