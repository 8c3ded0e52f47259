package implementation

import (
	"context"
	"errors"

	"careercoach-be/internal/entity"
	"careercoach-be/internal/mapper"
	"careercoach-be/internal/model"
	"careercoach-be/internal/repository/contract"
	"careercoach-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TurnRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SessionMapper
}

func NewTurnRepository(db *gorm.DB) contract.TurnRepository {
	return &TurnRepositoryImpl{
		db:     db,
		mapper: mapper.NewSessionMapper(),
	}
}

func (r *TurnRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *TurnRepositoryImpl) Create(ctx context.Context, turn *entity.Turn) error {
	m := r.mapper.TurnToModel(turn)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*turn = *r.mapper.TurnToEntity(m)
	return nil
}

func (r *TurnRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Turn, error) {
	var m model.Turn
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.TurnToEntity(&m), nil
}

func (r *TurnRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Turn, error) {
	var models []*model.Turn
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Turn, len(models))
	for i, m := range models {
		entities[i] = r.mapper.TurnToEntity(m)
	}
	return entities, nil
}

func (r *TurnRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Turn{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// MaxTurnIndex reads the persisted maximum so retries and inspection tools
// can never desynchronize the sequence from the session row.
func (r *TurnRepositoryImpl) MaxTurnIndex(ctx context.Context, sessionId uuid.UUID) (int, error) {
	var max *int
	err := r.db.WithContext(ctx).
		Model(&model.Turn{}).
		Select("MAX(turn_index)").
		Where("session_id = ?", sessionId).
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}
