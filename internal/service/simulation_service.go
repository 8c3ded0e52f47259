package service

import (
	"context"
	"fmt"

	"careercoach-be/internal/constant"
	"careercoach-be/internal/dto"
	"careercoach-be/internal/entity"
	"careercoach-be/pkg/coach/policy"

	"github.com/google/uuid"
)

type ISimulationService interface {
	Preview(ctx context.Context, projectId uuid.UUID) (*dto.SimulationPreviewResponse, error)
	Start(ctx context.Context, userId uuid.UUID, projectId uuid.UUID, req *dto.SimulationStartRequest) (*dto.SimulationStartResponse, error)
	GetSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.SimulationSessionResponse, error)
	AppendTurn(ctx context.Context, userId uuid.UUID, req *dto.SimulationTurnRequest) (*dto.SimulationTurnResponse, error)
	Result(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (map[string]interface{}, error)
}

type simulationService struct {
	sessionService ISessionService
	policy         *policy.JobSimulation
}

func NewSimulationService(sessionService ISessionService, simPolicy *policy.JobSimulation) ISimulationService {
	return &simulationService{
		sessionService: sessionService,
		policy:         simPolicy,
	}
}

// Preview is intentionally static and unauthenticated per project: it is the
// marketing card shown before a session exists.
func (s *simulationService) Preview(ctx context.Context, projectId uuid.UUID) (*dto.SimulationPreviewResponse, error) {
	return &dto.SimulationPreviewResponse{
		ProjectId: projectId,
		Title:     "실전처럼, 직무 시뮬레이션",
		Intro: map[string]interface{}{
			"headline": "면접보다 생생한 실무 압박 상황",
			"bullets": []string{
				"실제 협업 상황을 재현한 멀티 페르소나 대화",
				"답변마다 즉각적인 가벼운 피드백",
				"종료 후 적합도 리포트 제공",
			},
		},
		ScenarioPreview: map[string]interface{}{
			"difficulty":      "중급",
			"expectedMinutes": 15,
			"goals":           []string{"시간 관리", "의사소통", "위기 대처"},
		},
		Cta: map[string]interface{}{
			"label":  "시뮬레이션 시작하기",
			"action": "START_SIMULATION",
		},
	}, nil
}

func simMessageFromTurn(turn *entity.Turn) dto.SimulationMessage {
	text := turn.Message
	if text == "" {
		text = turn.Prompt
	}
	return dto.SimulationMessage{
		MessageId: turn.Id.String(),
		Role:      turn.Role,
		Speaker:   turn.Speaker,
		Text:      text,
	}
}

func simMessages(turns []*entity.Turn) []dto.SimulationMessage {
	messages := make([]dto.SimulationMessage, 0, len(turns))
	for _, turn := range turns {
		if turn.Message == "" && turn.Prompt == "" && turn.Answer == "" {
			continue
		}
		msg := simMessageFromTurn(turn)
		if msg.Text == "" {
			msg.Text = turn.Answer
		}
		messages = append(messages, msg)
	}
	return messages
}

func simMaxTurns(session *entity.Session, fallback int) int {
	if session.TotalItems != nil && *session.TotalItems > 0 {
		return *session.TotalItems
	}
	return fallback
}

func (s *simulationService) Start(ctx context.Context, userId uuid.UUID, projectId uuid.UUID, req *dto.SimulationStartRequest) (*dto.SimulationStartResponse, error) {
	session, opening, err := s.sessionService.OpenSession(ctx, userId, projectId, constant.SessionModeJobSimulation, policy.StartConfig{
		TotalItems: req.MaxTurns,
		Role:       req.Role,
		ScenarioId: req.ScenarioId,
		Variant:    policy.SimPresetScenario,
	})
	if err != nil {
		return nil, err
	}

	return &dto.SimulationStartResponse{
		SessionId: session.Id,
		ProjectId: session.ProjectId,
		Status:    session.Status,
		MaxTurns:  simMaxTurns(session, len(opening.Turns)),
		Turn:      1,
		Messages:  simMessages(opening.Turns),
	}, nil
}

func (s *simulationService) GetSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.SimulationSessionResponse, error) {
	session, err := s.sessionService.OwnedSession(ctx, userId, sessionId, constant.SessionModeJobSimulation)
	if err != nil {
		return nil, err
	}
	turns, err := s.sessionService.SessionTurns(ctx, session.Id)
	if err != nil {
		return nil, err
	}

	return &dto.SimulationSessionResponse{
		SessionId: session.Id,
		Status:    session.Status,
		MaxTurns:  simMaxTurns(session, 0),
		Turn:      policy.UserTurnCount(turns) + 1,
		Messages:  simMessages(turns),
	}, nil
}

func (s *simulationService) AppendTurn(ctx context.Context, userId uuid.UUID, req *dto.SimulationTurnRequest) (*dto.SimulationTurnResponse, error) {
	outcome, err := s.sessionService.Step(ctx, userId, req.SessionId, constant.SessionModeJobSimulation, StepRequest{
		Answer: req.Text,
	})
	if err != nil {
		return nil, err
	}

	res := &dto.SimulationTurnResponse{
		Turn:             asInt(outcome.Decision.Extra["turn"]),
		MessagesAppended: simMessages(outcome.Replies),
		LightFeedback:    asMap(outcome.Decision.Extra["lightFeedback"]),
		Done:             outcome.Decision.Complete,
	}
	if outcome.Decision.Complete {
		res.Next = map[string]interface{}{
			"type":      "RESULT",
			"resultUrl": fmt.Sprintf("/v1/simulations/sessions/%s/result", outcome.Session.Id),
		}
	}
	return res, nil
}

func (s *simulationService) Result(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (map[string]interface{}, error) {
	session, err := s.sessionService.OwnedSession(ctx, userId, sessionId, constant.SessionModeJobSimulation)
	if err != nil {
		return nil, err
	}
	turns, err := s.sessionService.SessionTurns(ctx, session.Id)
	if err != nil {
		return nil, err
	}

	base := session.Result
	if _, ok := base["fitScorePercent"]; !ok {
		base = s.policy.Summarize(ctx, session, turns)
	}
	refined := s.policy.RefineResult(ctx, session, turns, base)

	session.Result = mergePatch(session.Result, refined)
	if err := s.sessionService.UpdateSession(ctx, session); err != nil {
		return nil, err
	}
	return refined, nil
}
