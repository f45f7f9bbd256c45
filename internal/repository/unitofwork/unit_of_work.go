package unitofwork

import (
	"context"

	"pairprep-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	SessionRepository() contract.SessionRepository
	CleanupReportRepository() contract.CleanupReportRepository
}
