package unitofwork

import (
	"context"

	"careercoach-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ProjectRepository() contract.ProjectRepository
	SessionRepository() contract.SessionRepository
	TurnRepository() contract.TurnRepository
}
