package contract

import (
	"context"

	"careercoach-be/internal/entity"
	"careercoach-be/internal/repository/specification"

	"github.com/google/uuid"
)

type TurnRepository interface {
	Create(ctx context.Context, turn *entity.Turn) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Turn, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Turn, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// MaxTurnIndex returns the highest persisted turn_index for the session,
	// or 0 when it has no turns yet.
	MaxTurnIndex(ctx context.Context, sessionId uuid.UUID) (int, error)
}
