package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"careercoach-be/internal/constant"
	"careercoach-be/internal/dto"
	"careercoach-be/internal/entity"
	"careercoach-be/internal/pkg/apperror"
	"careercoach-be/internal/pkg/logger"
	"careercoach-be/internal/repository/specification"
	"careercoach-be/internal/repository/unitofwork"
	"careercoach-be/pkg/coach/policy"
	"careercoach-be/pkg/coach/sequence"
	"careercoach-be/pkg/events"
	pkgNats "careercoach-be/pkg/nats"

	"github.com/google/uuid"
)

// StepRequest is one user utterance routed through a mode policy.
type StepRequest struct {
	QuestionId string
	Answer     string
	AutoReply  bool
}

// StepOutcome bundles everything one policy-driven append produced.
type StepOutcome struct {
	Session  *entity.Session
	UserTurn *entity.Turn
	Replies  []*entity.Turn
	Decision *policy.StepDecision
}

type ISessionService interface {
	Start(ctx context.Context, userId uuid.UUID, req *dto.StartSessionRequest) (*dto.StartSessionResponse, error)
	AppendTurn(ctx context.Context, userId uuid.UUID, req *dto.AppendTurnRequest) (*dto.AppendTurnResponse, error)
	Analyze(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.AnalyzeSessionResponse, error)
	GetDetail(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, includeTurns bool) (*dto.SessionDetailResponse, error)

	// Mode-service entry points. These route through the same engine so
	// locking, ownership and completion rules stay in one place.
	OpenSession(ctx context.Context, userId uuid.UUID, projectId uuid.UUID, mode string, cfg policy.StartConfig) (*entity.Session, *policy.Opening, error)
	Step(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, mode string, req StepRequest) (*StepOutcome, error)
	OwnedSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, mode string) (*entity.Session, error)
	OwnedProject(ctx context.Context, userId uuid.UUID, projectId uuid.UUID) (*entity.Project, error)
	SessionTurns(ctx context.Context, sessionId uuid.UUID) ([]*entity.Turn, error)
	UpdateSession(ctx context.Context, session *entity.Session) error
	PolicyFor(mode string) (policy.ModePolicy, error)
}

type sessionService struct {
	uowFactory       unitofwork.RepositoryFactory
	policies         *policy.Registry
	publisherService IPublisherService
	eventPublisher   *pkgNats.Publisher
	logger           logger.ILogger

	// appendTurn must be serialized per session: two concurrent appends
	// would otherwise compute the same next index and collide on the
	// unique (session_id, turn_index) constraint.
	locks sync.Map
}

func NewSessionService(
	uowFactory unitofwork.RepositoryFactory,
	policies *policy.Registry,
	publisherService IPublisherService,
	eventPublisher *pkgNats.Publisher,
	log logger.ILogger,
) ISessionService {
	return &sessionService{
		uowFactory:       uowFactory,
		policies:         policies,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		logger:           log,
	}
}

func (s *sessionService) lockSession(sessionId uuid.UUID) func() {
	value, _ := s.locks.LoadOrStore(sessionId, &sync.Mutex{})
	mu := value.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (s *sessionService) PolicyFor(mode string) (policy.ModePolicy, error) {
	return s.policies.For(mode)
}

func (s *sessionService) ownedProject(ctx context.Context, uow unitofwork.UnitOfWork, userId, projectId uuid.UUID) (*entity.Project, error) {
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
	return project, nil
}

func (s *sessionService) ownedSession(ctx context.Context, uow unitofwork.UnitOfWork, userId, sessionId uuid.UUID, mode string) (*entity.Session, error) {
	session, err := uow.SessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	// Absent and not-owned are indistinguishable on purpose.
	if session == nil || (mode != "" && session.Mode != mode) {
		return nil, apperror.NotFound("session not found")
	}
	return session, nil
}

func (s *sessionService) listTurns(ctx context.Context, uow unitofwork.UnitOfWork, sessionId uuid.UUID) ([]*entity.Turn, error) {
	return uow.TurnRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.OrderBy{Field: "turn_index"},
	)
}

func subjectOf(project *entity.Project) policy.Subject {
	return policy.Subject{
		CompanyName: project.CompanyName,
		RoleTitle:   project.RoleTitle,
		PostingText: project.PostingText,
	}
}

func mergePatch(base, patch map[string]interface{}) map[string]interface{} {
	if len(patch) == 0 {
		return base
	}
	merged := make(map[string]interface{}, len(base)+len(patch))
	for key, value := range base {
		merged[key] = value
	}
	for key, value := range patch {
		merged[key] = value
	}
	return merged
}

// markCompleted stamps the terminal state. Timestamps are fixed on the
// first completion and never rewritten.
func markCompleted(session *entity.Session) {
	session.Status = constant.SessionStatusCompleted
	if session.EndedAt == nil {
		now := time.Now()
		session.EndedAt = &now
		if session.StartedAt != nil {
			duration := int(now.Sub(*session.StartedAt).Seconds())
			session.DurationSec = &duration
		}
	}
}

func (s *sessionService) OpenSession(ctx context.Context, userId uuid.UUID, projectId uuid.UUID, mode string, cfg policy.StartConfig) (*entity.Session, *policy.Opening, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	project, err := s.ownedProject(ctx, uow, userId, projectId)
	if err != nil {
		return nil, nil, err
	}
	pol, err := s.policies.For(mode)
	if err != nil {
		return nil, nil, err
	}

	opening, err := pol.Open(ctx, subjectOf(project), cfg)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	session := &entity.Session{
		Id:           uuid.New(),
		ProjectId:    projectId,
		UserId:       userId,
		Mode:         mode,
		Status:       constant.SessionStatusInProgress,
		CurrentIndex: 1,
		StartedAt:    &now,
		Meta:         mergePatch(cfg.Meta, opening.Meta),
		CreatedAt:    now,
	}
	if opening.TotalItems > 0 {
		totalItems := opening.TotalItems
		session.TotalItems = &totalItems
	}
	if opening.CurrentIndex > 0 {
		session.CurrentIndex = opening.CurrentIndex
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, nil, err
	}
	defer uow.Rollback()

	if err := uow.SessionRepository().Create(ctx, session); err != nil {
		return nil, nil, err
	}
	seq := sequence.New(uow.TurnRepository())
	for i, turn := range opening.Turns {
		if _, err := seq.AppendAt(ctx, session, turn, i+1); err != nil {
			return nil, nil, err
		}
	}
	if err := uow.Commit(); err != nil {
		return nil, nil, err
	}

	s.logger.Info("session", "session started", map[string]interface{}{
		"session_id": session.Id,
		"mode":       mode,
	})
	return session, opening, nil
}

func (s *sessionService) Step(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, mode string, req StepRequest) (*StepOutcome, error) {
	unlock := s.lockSession(sessionId)
	defer unlock()

	uow := s.uowFactory.NewUnitOfWork(ctx)
	session, err := s.ownedSession(ctx, uow, userId, sessionId, mode)
	if err != nil {
		return nil, err
	}
	if session.Status == constant.SessionStatusCompleted {
		return nil, apperror.Conflict("session already completed")
	}
	project, err := s.ownedProject(ctx, uow, userId, session.ProjectId)
	if err != nil {
		return nil, err
	}
	history, err := s.listTurns(ctx, uow, session.Id)
	if err != nil {
		return nil, err
	}
	pol, err := s.policies.For(session.Mode)
	if err != nil {
		return nil, err
	}

	decision, err := pol.NextStep(ctx, policy.StepInput{
		Subject:    subjectOf(project),
		Session:    session,
		History:    history,
		QuestionId: req.QuestionId,
		Answer:     req.Answer,
		AutoReply:  req.AutoReply,
	})
	if err != nil {
		return nil, err
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	seq := sequence.New(uow.TurnRepository())
	base, err := seq.NextIndex(ctx, session.Id)
	if err != nil {
		return nil, err
	}
	if _, err := seq.AppendAt(ctx, session, decision.UserTurn, base); err != nil {
		return nil, err
	}
	for i, reply := range decision.Replies {
		if _, err := seq.AppendAt(ctx, session, reply, base+1+i); err != nil {
			return nil, err
		}
	}

	session.Meta = mergePatch(session.Meta, decision.MetaPatch)
	session.Result = mergePatch(session.Result, decision.ResultPatch)
	// Every append advances the cursor. Policies may pin it explicitly;
	// otherwise it lands just past the last appended turn.
	if decision.NextIndex > 0 {
		session.CurrentIndex = decision.NextIndex
	} else {
		session.CurrentIndex = base + 1 + len(decision.Replies)
	}
	if decision.Complete {
		markCompleted(session)
		all := append(append(append([]*entity.Turn{}, history...), decision.UserTurn), decision.Replies...)
		session.Result = mergePatch(session.Result, pol.Summarize(ctx, session, all))
	}
	if err := uow.SessionRepository().Update(ctx, session); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	if decision.Complete {
		s.publishCompleted(ctx, session)
	}
	return &StepOutcome{
		Session:  session,
		UserTurn: decision.UserTurn,
		Replies:  decision.Replies,
		Decision: decision,
	}, nil
}

func (s *sessionService) publishCompleted(ctx context.Context, session *entity.Session) {
	payload := dto.SessionCompletedMessage{
		SessionId: session.Id,
		ProjectId: session.ProjectId,
		UserId:    session.UserId,
		Mode:      session.Mode,
	}
	raw, err := json.Marshal(payload)
	if err == nil {
		if err := s.publisherService.Publish(ctx, raw); err != nil {
			s.logger.Warn("session", "failed to publish completion message", map[string]interface{}{
				"session_id": session.Id,
				"error":      err.Error(),
			})
		}
	}

	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: constant.TopicSessionCompleted,
			Data: map[string]interface{}{
				"session_id": session.Id,
				"project_id": session.ProjectId,
				"user_id":    session.UserId,
				"mode":       session.Mode,
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("session", "failed to mirror completion event", map[string]interface{}{
				"session_id": session.Id,
				"error":      err.Error(),
			})
		}
	}
}

func (s *sessionService) Start(ctx context.Context, userId uuid.UUID, req *dto.StartSessionRequest) (*dto.StartSessionResponse, error) {
	cfg := policy.StartConfig{
		TotalItems: req.TotalItems,
		Meta:       req.Meta,
	}
	if req.SessionType == constant.SessionModeJobSimulation {
		// The generic surface runs the open-ended persona chat; the
		// scenario run has its own start endpoint.
		cfg.Variant = policy.SimPresetPersona
		if role, ok := req.Meta["role"].(string); ok {
			cfg.Role = role
		}
	}

	session, opening, err := s.OpenSession(ctx, userId, req.ProjectId, req.SessionType, cfg)
	if err != nil {
		return nil, err
	}

	res := &dto.StartSessionResponse{Session: toSessionResponse(session)}
	if len(opening.Turns) > 0 {
		initial := toTurnResponse(opening.Turns[0])
		res.InitialTurn = &initial
	}
	return res, nil
}

func (s *sessionService) AppendTurn(ctx context.Context, userId uuid.UUID, req *dto.AppendTurnRequest) (*dto.AppendTurnResponse, error) {
	if req.Role == constant.TurnRoleUser && req.AutoReply {
		outcome, err := s.Step(ctx, userId, req.SessionId, "", StepRequest{
			Answer:    firstNonEmpty(req.UserAnswer, req.Message),
			AutoReply: true,
		})
		if err != nil {
			return nil, err
		}
		res := &dto.AppendTurnResponse{
			Session:     toSessionResponse(outcome.Session),
			CreatedTurn: toTurnResponse(outcome.UserTurn),
		}
		if len(outcome.Replies) > 0 {
			generated := toTurnResponse(outcome.Replies[0])
			res.GeneratedTurn = &generated
		}
		return res, nil
	}

	unlock := s.lockSession(req.SessionId)
	defer unlock()

	uow := s.uowFactory.NewUnitOfWork(ctx)
	session, err := s.ownedSession(ctx, uow, userId, req.SessionId, "")
	if err != nil {
		return nil, err
	}
	if session.Status == constant.SessionStatusCompleted {
		return nil, apperror.Conflict("session already completed")
	}

	turn := &entity.Turn{
		Role:       req.Role,
		Speaker:    req.Speaker,
		Prompt:     req.Prompt,
		Answer:     req.UserAnswer,
		Message:    req.Message,
		Intent:     req.Intent,
		Feedback:   req.Feedback,
		Score:      req.Score,
		ScoreDelta: req.ScoreDelta,
		Meta:       req.Meta,
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	seq := sequence.New(uow.TurnRepository())
	created, err := seq.Append(ctx, session, turn)
	if err != nil {
		return nil, err
	}
	session.CurrentIndex = created.TurnIndex + 1
	session.Status = constant.SessionStatusInProgress
	if err := uow.SessionRepository().Update(ctx, session); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return &dto.AppendTurnResponse{
		Session:     toSessionResponse(session),
		CreatedTurn: toTurnResponse(created),
	}, nil
}

func (s *sessionService) Analyze(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.AnalyzeSessionResponse, error) {
	unlock := s.lockSession(sessionId)
	defer unlock()

	uow := s.uowFactory.NewUnitOfWork(ctx)
	session, err := s.ownedSession(ctx, uow, userId, sessionId, "")
	if err != nil {
		return nil, err
	}
	// Re-running analyze on a completed session returns the result frozen at
	// first completion.
	if session.Status == constant.SessionStatusCompleted && len(session.Result) > 0 {
		return &dto.AnalyzeSessionResponse{
			Session:    toSessionResponse(session),
			ResultJson: session.Result,
		}, nil
	}

	turns, err := s.listTurns(ctx, uow, session.Id)
	if err != nil {
		return nil, err
	}
	pol, err := s.policies.For(session.Mode)
	if err != nil {
		return nil, err
	}

	markCompleted(session)
	session.Result = mergePatch(session.Result, pol.Summarize(ctx, session, turns))
	if err := uow.SessionRepository().Update(ctx, session); err != nil {
		return nil, err
	}

	s.publishCompleted(ctx, session)
	return &dto.AnalyzeSessionResponse{
		Session:    toSessionResponse(session),
		ResultJson: session.Result,
	}, nil
}

func (s *sessionService) GetDetail(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, includeTurns bool) (*dto.SessionDetailResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	session, err := s.ownedSession(ctx, uow, userId, sessionId, "")
	if err != nil {
		return nil, err
	}

	res := &dto.SessionDetailResponse{
		Session: toSessionResponse(session),
		Turns:   []dto.TurnResponse{},
	}
	if includeTurns {
		turns, err := s.listTurns(ctx, uow, session.Id)
		if err != nil {
			return nil, err
		}
		for _, turn := range turns {
			res.Turns = append(res.Turns, toTurnResponse(turn))
		}
	}
	return res, nil
}

func (s *sessionService) OwnedSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, mode string) (*entity.Session, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return s.ownedSession(ctx, uow, userId, sessionId, mode)
}

func (s *sessionService) OwnedProject(ctx context.Context, userId uuid.UUID, projectId uuid.UUID) (*entity.Project, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return s.ownedProject(ctx, uow, userId, projectId)
}

func (s *sessionService) SessionTurns(ctx context.Context, sessionId uuid.UUID) ([]*entity.Turn, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return s.listTurns(ctx, uow, sessionId)
}

func (s *sessionService) UpdateSession(ctx context.Context, session *entity.Session) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.SessionRepository().Update(ctx, session)
}

func toSessionResponse(session *entity.Session) dto.SessionResponse {
	return dto.SessionResponse{
		Id:           session.Id,
		ProjectId:    session.ProjectId,
		UserId:       session.UserId,
		SessionType:  session.Mode,
		Status:       session.Status,
		TotalItems:   session.TotalItems,
		CurrentIndex: session.CurrentIndex,
		StartedAt:    session.StartedAt,
		EndedAt:      session.EndedAt,
		DurationSec:  session.DurationSec,
		Meta:         session.Meta,
		ResultJson:   session.Result,
		CreatedAt:    session.CreatedAt,
		UpdatedAt:    session.UpdatedAt,
	}
}

func toTurnResponse(turn *entity.Turn) dto.TurnResponse {
	return dto.TurnResponse{
		Id:         turn.Id,
		SessionId:  turn.SessionId,
		ProjectId:  turn.ProjectId,
		UserId:     turn.UserId,
		TurnIndex:  turn.TurnIndex,
		Role:       turn.Role,
		Speaker:    turn.Speaker,
		Prompt:     turn.Prompt,
		UserAnswer: turn.Answer,
		Message:    turn.Message,
		Intent:     turn.Intent,
		Feedback:   turn.Feedback,
		Score:      turn.Score,
		ScoreDelta: turn.ScoreDelta,
		Meta:       turn.Meta,
		CreatedAt:  turn.CreatedAt,
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
