package service

import (
	"context"

	"careercoach-be/internal/constant"
	"careercoach-be/internal/dto"
	"careercoach-be/internal/pkg/logger"
	"careercoach-be/internal/repository/memory"
	"careercoach-be/internal/repository/specification"
	"careercoach-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IHomeService interface {
	Dashboard(ctx context.Context, userId uuid.UUID) (*dto.HomeDashboardResponse, error)
}

type homeService struct {
	uowFactory unitofwork.RepositoryFactory
	cache      *memory.DashboardCache
	logger     logger.ILogger
}

func NewHomeService(uowFactory unitofwork.RepositoryFactory, cache *memory.DashboardCache, log logger.ILogger) IHomeService {
	return &homeService{
		uowFactory: uowFactory,
		cache:      cache,
		logger:     log,
	}
}

var homeModes = []string{
	constant.SessionModeDeepInterview,
	constant.SessionModeMockInterview,
	constant.SessionModeJobSimulation,
}

func (s *homeService) Dashboard(ctx context.Context, userId uuid.UUID) (*dto.HomeDashboardResponse, error) {
	if cached, found := s.cache.Get(userId.String()); found {
		return cached, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	projects, err := uow.ProjectRepository().Count(ctx, specification.UserOwnedBy{UserID: userId})
	if err != nil {
		return nil, err
	}

	dashboard := &dto.HomeDashboardResponse{
		Projects: int(projects),
		Sessions: make([]dto.HomeModeSummary, 0, len(homeModes)),
	}

	for _, mode := range homeModes {
		owned := specification.UserOwnedBy{UserID: userId}
		total, err := uow.SessionRepository().Count(ctx, owned, specification.ByMode{Mode: mode})
		if err != nil {
			return nil, err
		}
		completed, err := uow.SessionRepository().Count(ctx, owned, specification.ByMode{Mode: mode}, specification.ByStatus{Status: constant.SessionStatusCompleted})
		if err != nil {
			return nil, err
		}
		dashboard.Sessions = append(dashboard.Sessions, dto.HomeModeSummary{
			Mode:      mode,
			Total:     int(total),
			Completed: int(completed),
			Active:    int(total - completed),
		})
	}

	if avg := s.averageMockScore(ctx, userId); avg != nil {
		dashboard.AverageMockScore = avg
	}

	s.cache.Save(userId.String(), dashboard)
	return dashboard, nil
}

// averageMockScore is best effort: a broken result document skips the metric
// instead of failing the dashboard.
func (s *homeService) averageMockScore(ctx context.Context, userId uuid.UUID) *float64 {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	sessions, err := uow.SessionRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ByMode{Mode: constant.SessionModeMockInterview},
		specification.ByStatus{Status: constant.SessionStatusCompleted},
	)
	if err != nil {
		s.logger.Warn("home_service", "failed to load mock sessions for average score", map[string]interface{}{
			"user_id": userId.String(),
			"error":   err.Error(),
		})
		return nil
	}

	sum := 0.0
	count := 0
	for _, session := range sessions {
		overall := asMap(session.Result["overall"])
		if _, ok := overall["score"]; !ok {
			continue
		}
		sum += asFloat(overall["score"])
		count++
	}
	if count == 0 {
		return nil
	}
	avg := sum / float64(count)
	return &avg
}
