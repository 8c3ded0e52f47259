package mapper

import (
	"time"

	"careercoach-be/internal/entity"
	"careercoach-be/internal/model"
)

type ProjectMapper struct{}

func NewProjectMapper() *ProjectMapper {
	return &ProjectMapper{}
}

func (m *ProjectMapper) ToEntity(p *model.Project) *entity.Project {
	if p == nil {
		return nil
	}

	var updatedAt *time.Time
	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		updatedAt = &t
	}

	return &entity.Project{
		Id:          p.Id,
		UserId:      p.UserId,
		CompanyName: p.CompanyName,
		RoleTitle:   p.RoleTitle,
		PostingText: p.PostingText,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *ProjectMapper) ToModel(p *entity.Project) *model.Project {
	if p == nil {
		return nil
	}

	var updatedAt time.Time
	if p.UpdatedAt != nil {
		updatedAt = *p.UpdatedAt
	}

	return &model.Project{
		Id:          p.Id,
		UserId:      p.UserId,
		CompanyName: p.CompanyName,
		RoleTitle:   p.RoleTitle,
		PostingText: p.PostingText,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}
