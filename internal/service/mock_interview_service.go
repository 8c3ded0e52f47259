package service

import (
	"context"
	"fmt"
	"time"

	"careercoach-be/internal/constant"
	"careercoach-be/internal/dto"
	"careercoach-be/internal/entity"
	"careercoach-be/pkg/coach/policy"

	"github.com/google/uuid"
)

type IMockInterviewService interface {
	Start(ctx context.Context, userId uuid.UUID, projectId uuid.UUID, req *dto.MockInterviewStartRequest) (*dto.MockInterviewStartResponse, error)
	Answer(ctx context.Context, userId uuid.UUID, req *dto.MockInterviewAnswerRequest) (*dto.MockInterviewAnswerResponse, error)
	Result(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.MockInterviewResultResponse, error)
	Save(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.MockInterviewSaveResponse, error)
}

type mockInterviewService struct {
	sessionService ISessionService
	policy         *policy.MockInterview
}

func NewMockInterviewService(sessionService ISessionService, mockPolicy *policy.MockInterview) IMockInterviewService {
	return &mockInterviewService{
		sessionService: sessionService,
		policy:         mockPolicy,
	}
}

func mockQuestionDTO(question policy.Question) dto.MockInterviewQuestion {
	return dto.MockInterviewQuestion{
		QuestionId:    question.QuestionId,
		Prompt:        question.Prompt,
		PrepSeconds:   policy.MockPrepSeconds,
		AnswerSeconds: policy.MockAnswerSeconds,
	}
}

func (s *mockInterviewService) Start(ctx context.Context, userId uuid.UUID, projectId uuid.UUID, req *dto.MockInterviewStartRequest) (*dto.MockInterviewStartResponse, error) {
	session, _, err := s.sessionService.OpenSession(ctx, userId, projectId, constant.SessionModeMockInterview, policy.StartConfig{
		TotalItems: req.QuestionCount,
		Variant:    req.Mode,
	})
	if err != nil {
		return nil, err
	}

	total := 0
	if session.TotalItems != nil {
		total = *session.TotalItems
	}
	return &dto.MockInterviewStartResponse{
		SessionId:      session.Id,
		TotalQuestions: total,
		CurrentIndex:   session.CurrentIndex,
		FirstQuestion:  mockQuestionDTO(s.policy.QuestionFor(1)),
	}, nil
}

func (s *mockInterviewService) Answer(ctx context.Context, userId uuid.UUID, req *dto.MockInterviewAnswerRequest) (*dto.MockInterviewAnswerResponse, error) {
	outcome, err := s.sessionService.Step(ctx, userId, req.SessionId, constant.SessionModeMockInterview, StepRequest{
		QuestionId: req.QuestionId,
		Answer:     req.Answer,
	})
	if err != nil {
		return nil, err
	}

	if outcome.Decision.Complete {
		return &dto.MockInterviewAnswerResponse{
			Completed: true,
			ResultUrl: fmt.Sprintf("/v1/mock-interviews/sessions/%s/result", outcome.Session.Id),
		}, nil
	}

	total := 0
	if outcome.Session.TotalItems != nil {
		total = *outcome.Session.TotalItems
	}
	next := mockQuestionDTO(s.policy.QuestionFor(outcome.Session.CurrentIndex))
	return &dto.MockInterviewAnswerResponse{
		NextQuestion: &next,
		Progress: &dto.DeepInterviewProgress{
			Current: outcome.Session.CurrentIndex,
			Total:   total,
		},
	}, nil
}

// resultDocument returns the materialized result, computing and persisting it
// when the session has only the incremental per-question rows so far.
func (s *mockInterviewService) resultDocument(ctx context.Context, session *entity.Session) (map[string]interface{}, error) {
	if _, ok := session.Result["overall"]; ok {
		return session.Result, nil
	}

	turns, err := s.sessionService.SessionTurns(ctx, session.Id)
	if err != nil {
		return nil, err
	}
	result := s.policy.Summarize(ctx, session, turns)
	session.Result = mergePatch(session.Result, result)
	if err := s.sessionService.UpdateSession(ctx, session); err != nil {
		return nil, err
	}
	return session.Result, nil
}

func (s *mockInterviewService) Result(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.MockInterviewResultResponse, error) {
	session, err := s.sessionService.OwnedSession(ctx, userId, sessionId, constant.SessionModeMockInterview)
	if err != nil {
		return nil, err
	}
	doc, err := s.resultDocument(ctx, session)
	if err != nil {
		return nil, err
	}

	res := &dto.MockInterviewResultResponse{
		KeyFindings: []dto.MockFinding{},
		Questions:   []dto.MockQuestionResult{},
	}

	info := asMap(doc["sessionInfo"])
	res.SessionInfo = dto.MockSessionInfo{
		SessionId:   session.Id,
		ProjectId:   session.ProjectId,
		Title:       asString(info["title"]),
		StartedAt:   session.StartedAt,
		DurationSec: session.DurationSec,
	}

	overall := asMap(doc["overall"])
	res.Overall.Score = asInt(overall["score"])
	for _, raw := range asSlice(overall["subScores"]) {
		item := asMap(raw)
		res.Overall.SubScores = append(res.Overall.SubScores, dto.MockScoreItem{
			Key:     asString(item["key"]),
			Label:   asString(item["label"]),
			Percent: asInt(item["percent"]),
		})
	}

	for _, raw := range asSlice(doc["keyFindings"]) {
		item := asMap(raw)
		res.KeyFindings = append(res.KeyFindings, dto.MockFinding{
			Code:   asString(item["code"]),
			Title:  asString(item["title"]),
			Detail: asString(item["detail"]),
		})
	}

	for _, raw := range asSlice(doc["questions"]) {
		item := asMap(raw)
		res.Questions = append(res.Questions, dto.MockQuestionResult{
			Index:       asInt(item["index"]),
			QuestionId:  asString(item["questionId"]),
			Prompt:      asString(item["prompt"]),
			Intent:      asString(item["intent"]),
			UserAnswer:  asString(item["userAnswer"]),
			Feedback:    asString(item["feedback"]),
			ModelAnswer: asString(item["modelAnswer"]),
			Score:       asFloat(item["score"]),
		})
	}

	return res, nil
}

func (s *mockInterviewService) Save(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.MockInterviewSaveResponse, error) {
	session, err := s.sessionService.OwnedSession(ctx, userId, sessionId, constant.SessionModeMockInterview)
	if err != nil {
		return nil, err
	}

	savedAt := time.Now().UTC()
	session.Meta = mergePatch(session.Meta, map[string]interface{}{
		"saved":   true,
		"savedAt": savedAt.Format(time.RFC3339),
	})
	if err := s.sessionService.UpdateSession(ctx, session); err != nil {
		return nil, err
	}

	return &dto.MockInterviewSaveResponse{
		SessionId: session.Id,
		Saved:     true,
		SavedAt:   savedAt,
	}, nil
}

// JSONB round-trips hand back generic types, so result readers normalize here.

func asMap(v interface{}) map[string]interface{} {
	if m, ok := v.(map[string]interface{}); ok {
		return m
	}
	return map[string]interface{}{}
}

func asSlice(v interface{}) []interface{} {
	switch typed := v.(type) {
	case []interface{}:
		return typed
	case []map[string]interface{}:
		out := make([]interface{}, 0, len(typed))
		for _, item := range typed {
			out = append(out, item)
		}
		return out
	}
	return nil
}

func asString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func asFloat(v interface{}) float64 {
	switch typed := v.(type) {
	case float64:
		return typed
	case float32:
		return float64(typed)
	case int:
		return float64(typed)
	case int64:
		return float64(typed)
	}
	return 0
}

func asInt(v interface{}) int {
	return int(asFloat(v))
}
