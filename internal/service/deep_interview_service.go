package service

import (
	"context"

	"careercoach-be/internal/constant"
	"careercoach-be/internal/dto"
	"careercoach-be/internal/entity"
	"careercoach-be/pkg/coach/policy"

	"github.com/google/uuid"
)

type IDeepInterviewService interface {
	Start(ctx context.Context, userId uuid.UUID, req *dto.DeepInterviewStartRequest) (*dto.DeepInterviewStartResponse, error)
	Answer(ctx context.Context, userId uuid.UUID, req *dto.DeepInterviewAnswerRequest) (*dto.DeepInterviewAnswerResponse, error)
	GetSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.DeepInterviewSessionResponse, error)
	GenerateGuide(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.DeepInterviewGuideResponse, error)
	InsightDoc(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.InsightDocResponse, error)
}

type deepInterviewService struct {
	sessionService ISessionService
	policy         *policy.DeepInterview
}

func NewDeepInterviewService(sessionService ISessionService, deepPolicy *policy.DeepInterview) IDeepInterviewService {
	return &deepInterviewService{
		sessionService: sessionService,
		policy:         deepPolicy,
	}
}

func questionFromTurn(turn *entity.Turn) dto.DeepInterviewQuestion {
	question := dto.DeepInterviewQuestion{Prompt: turn.Prompt}
	if turn.Meta != nil {
		if id, ok := turn.Meta["questionId"].(string); ok {
			question.QuestionId = id
		}
	}
	return question
}

func (s *deepInterviewService) Start(ctx context.Context, userId uuid.UUID, req *dto.DeepInterviewStartRequest) (*dto.DeepInterviewStartResponse, error) {
	session, opening, err := s.sessionService.OpenSession(ctx, userId, req.ProjectId, constant.SessionModeDeepInterview, policy.StartConfig{})
	if err != nil {
		return nil, err
	}

	total := opening.TotalItems
	if session.TotalItems != nil {
		total = *session.TotalItems
	}
	return &dto.DeepInterviewStartResponse{
		SessionId:      session.Id,
		TotalQuestions: total,
		CurrentIndex:   session.CurrentIndex,
		FirstQuestion:  questionFromTurn(opening.Turns[0]),
	}, nil
}

func (s *deepInterviewService) Answer(ctx context.Context, userId uuid.UUID, req *dto.DeepInterviewAnswerRequest) (*dto.DeepInterviewAnswerResponse, error) {
	outcome, err := s.sessionService.Step(ctx, userId, req.SessionId, constant.SessionModeDeepInterview, StepRequest{
		QuestionId: req.QuestionId,
		Answer:     req.Answer,
	})
	if err != nil {
		return nil, err
	}

	if outcome.Decision.Complete {
		return &dto.DeepInterviewAnswerResponse{
			Completed: true,
			NextStep:  outcome.Decision.NextStep,
		}, nil
	}

	next := questionFromTurn(outcome.Replies[0])
	total := 0
	if outcome.Session.TotalItems != nil {
		total = *outcome.Session.TotalItems
	}
	return &dto.DeepInterviewAnswerResponse{
		NextQuestion: &next,
		Progress: &dto.DeepInterviewProgress{
			Current: outcome.Session.CurrentIndex,
			Total:   total,
		},
	}, nil
}

func (s *deepInterviewService) GetSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.DeepInterviewSessionResponse, error) {
	session, err := s.sessionService.OwnedSession(ctx, userId, sessionId, constant.SessionModeDeepInterview)
	if err != nil {
		return nil, err
	}

	total := 0
	if session.TotalItems != nil {
		total = *session.TotalItems
	}
	res := &dto.DeepInterviewSessionResponse{
		SessionId:      session.Id,
		CurrentIndex:   session.CurrentIndex,
		TotalQuestions: total,
	}
	if session.Status != constant.SessionStatusCompleted {
		question := s.policy.FallbackQuestion(session.CurrentIndex)
		res.CurrentQuestion = &dto.DeepInterviewQuestion{
			QuestionId: question.QuestionId,
			Prompt:     question.Prompt,
		}
	}
	return res, nil
}

func (s *deepInterviewService) buildContext(ctx context.Context, userId uuid.UUID, session *entity.Session, turns []*entity.Turn) (string, error) {
	project, err := s.sessionService.OwnedProject(ctx, userId, session.ProjectId)
	if err != nil {
		return "", err
	}
	subject := policy.Subject{
		CompanyName: project.CompanyName,
		RoleTitle:   project.RoleTitle,
		PostingText: project.PostingText,
	}
	return s.policy.BuildContext(subject, session, turns), nil
}

func (s *deepInterviewService) GenerateGuide(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.DeepInterviewGuideResponse, error) {
	session, err := s.sessionService.OwnedSession(ctx, userId, sessionId, constant.SessionModeDeepInterview)
	if err != nil {
		return nil, err
	}
	turns, err := s.sessionService.SessionTurns(ctx, session.Id)
	if err != nil {
		return nil, err
	}
	contextText, err := s.buildContext(ctx, userId, session, turns)
	if err != nil {
		return nil, err
	}

	sections := s.policy.Guide(ctx, contextText, s.policy.CollectAnswers(turns))

	stored := make([]map[string]interface{}, 0, len(sections))
	res := &dto.DeepInterviewGuideResponse{GuideSections: make([]dto.GuideSectionResponse, 0, len(sections))}
	for _, section := range sections {
		stored = append(stored, map[string]interface{}{
			"type":  section.Type,
			"title": section.Title,
			"items": section.Items,
		})
		res.GuideSections = append(res.GuideSections, dto.GuideSectionResponse{
			Type:  section.Type,
			Title: section.Title,
			Items: section.Items,
		})
	}

	session.Result = mergePatch(session.Result, map[string]interface{}{"guideSections": stored})
	if err := s.sessionService.UpdateSession(ctx, session); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *deepInterviewService) InsightDoc(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.InsightDocResponse, error) {
	session, err := s.sessionService.OwnedSession(ctx, userId, sessionId, constant.SessionModeDeepInterview)
	if err != nil {
		return nil, err
	}
	turns, err := s.sessionService.SessionTurns(ctx, session.Id)
	if err != nil {
		return nil, err
	}
	contextText, err := s.buildContext(ctx, userId, session, turns)
	if err != nil {
		return nil, err
	}

	insight := s.policy.Insight(ctx, contextText, s.policy.CollectAnswers(turns))

	session.Result = mergePatch(session.Result, map[string]interface{}{
		"insightDoc": map[string]interface{}{
			"summary":         insight.Summary,
			"strengthPoints":  insight.StrengthPoints,
			"weakPoints":      insight.WeakPoints,
			"evidenceQuotes":  insight.EvidenceQuotes,
			"actionChecklist": insight.ActionChecklist,
		},
	})
	if err := s.sessionService.UpdateSession(ctx, session); err != nil {
		return nil, err
	}

	return &dto.InsightDocResponse{
		Summary:         insight.Summary,
		StrengthPoints:  insight.StrengthPoints,
		WeakPoints:      insight.WeakPoints,
		EvidenceQuotes:  insight.EvidenceQuotes,
		ActionChecklist: insight.ActionChecklist,
	}, nil
}
