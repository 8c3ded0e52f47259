package service

import (
	"context"
	"time"

	"careercoach-be/internal/dto"
	"careercoach-be/internal/entity"
	"careercoach-be/internal/pkg/apperror"
	"careercoach-be/internal/pkg/logger"
	"careercoach-be/internal/repository/specification"
	"careercoach-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IProjectService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateProjectRequest) (*dto.CreateProjectResponse, error)
	List(ctx context.Context, userId uuid.UUID) ([]dto.ProjectResponse, error)
	Show(ctx context.Context, userId uuid.UUID, projectId uuid.UUID) (*dto.ProjectResponse, error)
}

type projectService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewProjectService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) IProjectService {
	return &projectService{
		uowFactory: uowFactory,
		logger:     log,
	}
}

func toProjectResponse(project *entity.Project) dto.ProjectResponse {
	return dto.ProjectResponse{
		Id:          project.Id,
		CompanyName: project.CompanyName,
		RoleTitle:   project.RoleTitle,
		PostingText: project.PostingText,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
}

func (s *projectService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateProjectRequest) (*dto.CreateProjectResponse, error) {
	project := &entity.Project{
		Id:          uuid.New(),
		UserId:      userId,
		CompanyName: req.CompanyName,
		RoleTitle:   req.RoleTitle,
		PostingText: req.PostingText,
		CreatedAt:   time.Now().UTC(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.ProjectRepository().Create(ctx, project); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("project_service", "project created", map[string]interface{}{
		"project_id": project.Id.String(),
		"user_id":    userId.String(),
	})
	return &dto.CreateProjectResponse{Id: project.Id}, nil
}

func (s *projectService) List(ctx context.Context, userId uuid.UUID) ([]dto.ProjectResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	projects, err := uow.ProjectRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]dto.ProjectResponse, 0, len(projects))
	for _, project := range projects {
		res = append(res, toProjectResponse(project))
	}
	return res, nil
}

func (s *projectService) Show(ctx context.Context, userId uuid.UUID, projectId uuid.UUID) (*dto.ProjectResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	project, err := uow.ProjectRepository().FindOne(ctx,
		specification.ByID{ID: projectId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, apperror.NotFound("project not found")
	}
	res := toProjectResponse(project)
	return &res, nil
}
