package contract

import (
	"context"

	"careercoach-be/internal/entity"
	"careercoach-be/internal/repository/specification"
)

type ProjectRepository interface {
	Create(ctx context.Context, project *entity.Project) error
	Update(ctx context.Context, project *entity.Project) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Project, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Project, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
