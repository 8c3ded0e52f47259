package service

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"testing"

	"careercoach-be/internal/constant"
	"careercoach-be/internal/dto"
	"careercoach-be/internal/entity"
	"careercoach-be/internal/pkg/apperror"
	"careercoach-be/internal/repository/contract"
	"careercoach-be/internal/repository/specification"
	"careercoach-be/internal/repository/unitofwork"
	"careercoach-be/pkg/coach/policy"
	"careercoach-be/pkg/genai"

	"github.com/google/uuid"
)

// ---- in-memory repository fakes ----

type fakeStore struct {
	mu       sync.Mutex
	projects map[uuid.UUID]*entity.Project
	sessions map[uuid.UUID]*entity.Session
	turns    []*entity.Turn
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		projects: map[uuid.UUID]*entity.Project{},
		sessions: map[uuid.UUID]*entity.Session{},
	}
}

type specFilter struct {
	id        *uuid.UUID
	userId    *uuid.UUID
	sessionId *uuid.UUID
	mode      string
	status    string
}

func filterOf(specs []specification.Specification) specFilter {
	var f specFilter
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			id := s.ID
			f.id = &id
		case specification.UserOwnedBy:
			id := s.UserID
			f.userId = &id
		case specification.BySessionID:
			id := s.SessionID
			f.sessionId = &id
		case specification.ByMode:
			f.mode = s.Mode
		case specification.ByStatus:
			f.status = s.Status
		}
	}
	return f
}

type fakeProjectRepo struct{ store *fakeStore }

func (r *fakeProjectRepo) Create(ctx context.Context, project *entity.Project) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.projects[project.Id] = project
	return nil
}

func (r *fakeProjectRepo) Update(ctx context.Context, project *entity.Project) error {
	return r.Create(ctx, project)
}

func (r *fakeProjectRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Project, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	f := filterOf(specs)
	for _, project := range r.store.projects {
		if f.id != nil && project.Id != *f.id {
			continue
		}
		if f.userId != nil && project.UserId != *f.userId {
			continue
		}
		return project, nil
	}
	return nil, nil
}

func (r *fakeProjectRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Project, error) {
	return nil, nil
}

func (r *fakeProjectRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.store.projects)), nil
}

type fakeSessionRepo struct{ store *fakeStore }

func (r *fakeSessionRepo) Create(ctx context.Context, session *entity.Session) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	copied := *session
	r.store.sessions[session.Id] = &copied
	return nil
}

func (r *fakeSessionRepo) Update(ctx context.Context, session *entity.Session) error {
	return r.Create(ctx, session)
}

func (r *fakeSessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Session, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	f := filterOf(specs)
	for _, session := range r.store.sessions {
		if f.id != nil && session.Id != *f.id {
			continue
		}
		if f.userId != nil && session.UserId != *f.userId {
			continue
		}
		copied := *session
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeSessionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Session, error) {
	return nil, nil
}

func (r *fakeSessionRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.store.sessions)), nil
}

type fakeTurnRepo struct{ store *fakeStore }

func (r *fakeTurnRepo) Create(ctx context.Context, turn *entity.Turn) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, existing := range r.store.turns {
		if existing.SessionId == turn.SessionId && existing.TurnIndex == turn.TurnIndex {
			return apperror.Conflict("duplicate turn index %d", turn.TurnIndex)
		}
	}
	r.store.turns = append(r.store.turns, turn)
	return nil
}

func (r *fakeTurnRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Turn, error) {
	return nil, nil
}

func (r *fakeTurnRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Turn, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	f := filterOf(specs)
	var out []*entity.Turn
	for _, turn := range r.store.turns {
		if f.sessionId != nil && turn.SessionId != *f.sessionId {
			continue
		}
		out = append(out, turn)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TurnIndex < out[j].TurnIndex })
	return out, nil
}

func (r *fakeTurnRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	turns, _ := r.FindAll(ctx, specs...)
	return int64(len(turns)), nil
}

func (r *fakeTurnRepo) MaxTurnIndex(ctx context.Context, sessionId uuid.UUID) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	max := 0
	for _, turn := range r.store.turns {
		if turn.SessionId == sessionId && turn.TurnIndex > max {
			max = turn.TurnIndex
		}
	}
	return max, nil
}

type fakeUnitOfWork struct{ store *fakeStore }

func (u *fakeUnitOfWork) Begin(ctx context.Context) error { return nil }
func (u *fakeUnitOfWork) Commit() error                   { return nil }
func (u *fakeUnitOfWork) Rollback() error                 { return nil }

func (u *fakeUnitOfWork) ProjectRepository() contract.ProjectRepository {
	return &fakeProjectRepo{store: u.store}
}

func (u *fakeUnitOfWork) SessionRepository() contract.SessionRepository {
	return &fakeSessionRepo{store: u.store}
}

func (u *fakeUnitOfWork) TurnRepository() contract.TurnRepository {
	return &fakeTurnRepo{store: u.store}
}

type fakeFactory struct{ store *fakeStore }

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUnitOfWork{store: f.store}
}

type fakePublisher struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (p *fakePublisher) Publish(ctx context.Context, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.payloads = append(p.payloads, payload)
	return nil
}

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

// ---- fixture ----

type engineFixture struct {
	store     *fakeStore
	publisher *fakePublisher
	service   ISessionService
	userId    uuid.UUID
	projectId uuid.UUID
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()

	store := newFakeStore()
	publisher := &fakePublisher{}

	registry := policy.NewRegistry(
		policy.NewDeepInterview(genai.NewDisabledAdapter(), 6),
		policy.NewMockInterview(8),
		policy.NewJobSimulation(genai.NewDisabledAdapter(), 10),
	)
	svc := NewSessionService(&fakeFactory{store: store}, registry, publisher, nil, nopLogger{})

	userId := uuid.New()
	projectId := uuid.New()
	store.projects[projectId] = &entity.Project{
		Id:          projectId,
		UserId:      userId,
		CompanyName: "네이버",
		RoleTitle:   "백엔드 엔지니어",
	}

	return &engineFixture{
		store:     store,
		publisher: publisher,
		service:   svc,
		userId:    userId,
		projectId: projectId,
	}
}

// ---- tests ----

func TestStartUnknownMode(t *testing.T) {
	fx := newEngineFixture(t)

	_, err := fx.service.Start(context.Background(), fx.userId, &dto.StartSessionRequest{
		ProjectId:   fx.projectId,
		SessionType: "KARAOKE",
	})
	if !apperror.IsInvalidState(err) {
		t.Errorf("expected InvalidState for unknown mode, got %v", err)
	}
}

func TestStartForeignProjectIsNotFound(t *testing.T) {
	fx := newEngineFixture(t)

	_, err := fx.service.Start(context.Background(), uuid.New(), &dto.StartSessionRequest{
		ProjectId:   fx.projectId,
		SessionType: constant.SessionModeDeepInterview,
	})
	if !apperror.IsNotFound(err) {
		t.Errorf("expected NotFound for another owner's project, got %v", err)
	}
}

func TestStartDeepInterviewSeedsOpeningTurn(t *testing.T) {
	fx := newEngineFixture(t)

	res, err := fx.service.Start(context.Background(), fx.userId, &dto.StartSessionRequest{
		ProjectId:   fx.projectId,
		SessionType: constant.SessionModeDeepInterview,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Session.Status != constant.SessionStatusInProgress {
		t.Errorf("status = %q, want IN_PROGRESS", res.Session.Status)
	}
	if res.InitialTurn == nil || res.InitialTurn.TurnIndex != 1 {
		t.Fatalf("expected initial turn at index 1, got %+v", res.InitialTurn)
	}
	if res.Session.TotalItems == nil || *res.Session.TotalItems != 6 {
		t.Errorf("totalItems = %v, want 6", res.Session.TotalItems)
	}
}

func TestForeignSessionIndistinguishableFromAbsent(t *testing.T) {
	fx := newEngineFixture(t)

	res, err := fx.service.Start(context.Background(), fx.userId, &dto.StartSessionRequest{
		ProjectId:   fx.projectId,
		SessionType: constant.SessionModeDeepInterview,
	})
	if err != nil {
		t.Fatal(err)
	}

	stranger := uuid.New()
	_, errForeign := fx.service.GetDetail(context.Background(), stranger, res.Session.Id, false)
	_, errAbsent := fx.service.GetDetail(context.Background(), fx.userId, uuid.New(), false)

	if !apperror.IsNotFound(errForeign) || !apperror.IsNotFound(errAbsent) {
		t.Errorf("both must be NotFound: foreign=%v absent=%v", errForeign, errAbsent)
	}
	if errForeign.Error() != errAbsent.Error() {
		t.Errorf("messages differ, leaking existence: %q vs %q", errForeign, errAbsent)
	}
}

func TestMockInterviewFullFlow(t *testing.T) {
	fx := newEngineFixture(t)
	ctx := context.Background()

	session, _, err := fx.service.OpenSession(ctx, fx.userId, fx.projectId, constant.SessionModeMockInterview, policy.StartConfig{TotalItems: 2})
	if err != nil {
		t.Fatal(err)
	}

	answer := "문제 상황을 파악하고 해결 방안을 실행해 오류율을 4%에서 1%로 줄인 결과를 만들었습니다. " +
		"당시에는 백엔드 큐 지연이 문제였고, 제가 직접 원인을 분석해 재처리 정책을 고쳤습니다."

	outcome, err := fx.service.Step(ctx, fx.userId, session.Id, constant.SessionModeMockInterview, StepRequest{
		QuestionId: "q_1",
		Answer:     answer,
	})
	if err != nil {
		t.Fatalf("step 1: %v", err)
	}
	if outcome.Decision.Complete {
		t.Fatal("completed after 1 of 2 answers")
	}
	if outcome.Session.CurrentIndex != 2 {
		t.Errorf("currentIndex = %d, want 2", outcome.Session.CurrentIndex)
	}

	outcome, err = fx.service.Step(ctx, fx.userId, session.Id, constant.SessionModeMockInterview, StepRequest{
		QuestionId: "q_2",
		Answer:     answer,
	})
	if err != nil {
		t.Fatalf("step 2: %v", err)
	}
	if !outcome.Decision.Complete {
		t.Fatal("expected completion at 2 of 2")
	}
	if outcome.Session.Status != constant.SessionStatusCompleted {
		t.Errorf("status = %q, want COMPLETED", outcome.Session.Status)
	}
	if outcome.Session.EndedAt == nil {
		t.Error("endedAt not stamped on completion")
	}
	if _, ok := outcome.Session.Result["overall"]; !ok {
		t.Errorf("result not materialized on completion: %v", outcome.Session.Result)
	}

	// a completion event went out
	if len(fx.publisher.payloads) != 1 {
		t.Fatalf("published %d events, want 1", len(fx.publisher.payloads))
	}
	var msg dto.SessionCompletedMessage
	if err := json.Unmarshal(fx.publisher.payloads[0], &msg); err != nil {
		t.Fatalf("bad event payload: %v", err)
	}
	if msg.SessionId != session.Id || msg.Mode != constant.SessionModeMockInterview {
		t.Errorf("unexpected event: %+v", msg)
	}

	// further appends are rejected
	_, err = fx.service.Step(ctx, fx.userId, session.Id, constant.SessionModeMockInterview, StepRequest{
		QuestionId: "q_3",
		Answer:     answer,
	})
	if !apperror.IsConflict(err) {
		t.Errorf("expected Conflict on completed session, got %v", err)
	}
}

func TestTurnIndicesAreGapless(t *testing.T) {
	fx := newEngineFixture(t)
	ctx := context.Background()

	session, _, err := fx.service.OpenSession(ctx, fx.userId, fx.projectId, constant.SessionModeJobSimulation, policy.StartConfig{
		Role:    "백엔드",
		Variant: policy.SimPresetScenario,
	})
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 2; i++ {
		if _, err := fx.service.Step(ctx, fx.userId, session.Id, constant.SessionModeJobSimulation, StepRequest{
			Answer: "우선순위부터 정리하겠습니다.",
		}); err != nil {
			t.Fatalf("step %d: %v", i+1, err)
		}
	}

	turns, err := fx.service.SessionTurns(ctx, session.Id)
	if err != nil {
		t.Fatal(err)
	}
	for i, turn := range turns {
		if turn.TurnIndex != i+1 {
			t.Fatalf("gap in turn indices at position %d: %d", i, turn.TurnIndex)
		}
	}
}

func TestAnalyzeIsIdempotent(t *testing.T) {
	fx := newEngineFixture(t)
	ctx := context.Background()

	res, err := fx.service.Start(ctx, fx.userId, &dto.StartSessionRequest{
		ProjectId:   fx.projectId,
		SessionType: constant.SessionModeJobSimulation,
		Meta:        map[string]interface{}{"role": "백엔드"},
	})
	if err != nil {
		t.Fatal(err)
	}
	sessionId := res.Session.Id

	if _, err := fx.service.AppendTurn(ctx, fx.userId, &dto.AppendTurnRequest{
		SessionId:  sessionId,
		Role:       constant.TurnRoleUser,
		UserAnswer: "상황을 정리해서 공유했습니다.",
	}); err != nil {
		t.Fatal(err)
	}

	first, err := fx.service.Analyze(ctx, fx.userId, sessionId)
	if err != nil {
		t.Fatalf("first analyze: %v", err)
	}
	if first.Session.Status != constant.SessionStatusCompleted {
		t.Errorf("status = %q, want COMPLETED", first.Session.Status)
	}

	second, err := fx.service.Analyze(ctx, fx.userId, sessionId)
	if err != nil {
		t.Fatalf("second analyze: %v", err)
	}
	if second.Session.EndedAt == nil || first.Session.EndedAt == nil ||
		!second.Session.EndedAt.Equal(*first.Session.EndedAt) {
		t.Error("repeat analyze moved the completion timestamp")
	}

	firstJson, _ := json.Marshal(first.ResultJson)
	secondJson, _ := json.Marshal(second.ResultJson)
	if string(firstJson) != string(secondJson) {
		t.Error("repeat analyze changed the result document")
	}
}

func TestAutoReplyAppendAdvancesCurrentIndex(t *testing.T) {
	fx := newEngineFixture(t)
	ctx := context.Background()

	res, err := fx.service.Start(ctx, fx.userId, &dto.StartSessionRequest{
		ProjectId:   fx.projectId,
		SessionType: constant.SessionModeJobSimulation,
		Meta:        map[string]interface{}{"role": "백엔드"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Session.CurrentIndex != 2 {
		t.Fatalf("currentIndex after open = %d, want 2", res.Session.CurrentIndex)
	}

	appended, err := fx.service.AppendTurn(ctx, fx.userId, &dto.AppendTurnRequest{
		SessionId:  res.Session.Id,
		Role:       constant.TurnRoleUser,
		UserAnswer: "우선순위부터 정리해서 공유하겠습니다.",
		AutoReply:  true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if appended.GeneratedTurn == nil {
		t.Fatal("auto-reply append must generate a reply turn")
	}
	// Cursor lands just past the generated reply, same as a verbatim append.
	if appended.Session.CurrentIndex != appended.GeneratedTurn.TurnIndex+1 {
		t.Errorf("currentIndex = %d, want %d",
			appended.Session.CurrentIndex, appended.GeneratedTurn.TurnIndex+1)
	}
}

func TestAppendTurnVerbatim(t *testing.T) {
	fx := newEngineFixture(t)
	ctx := context.Background()

	res, err := fx.service.Start(ctx, fx.userId, &dto.StartSessionRequest{
		ProjectId:   fx.projectId,
		SessionType: constant.SessionModeJobSimulation,
		Meta:        map[string]interface{}{"role": "백엔드"},
	})
	if err != nil {
		t.Fatal(err)
	}

	appended, err := fx.service.AppendTurn(ctx, fx.userId, &dto.AppendTurnRequest{
		SessionId: res.Session.Id,
		Role:      constant.TurnRoleNPC,
		Speaker:   "기획자",
		Message:   "일정 조율이 필요합니다.",
	})
	if err != nil {
		t.Fatal(err)
	}
	if appended.GeneratedTurn != nil {
		t.Error("verbatim append must not generate replies")
	}
	if appended.Session.CurrentIndex != appended.CreatedTurn.TurnIndex+1 {
		t.Errorf("currentIndex = %d, want %d", appended.Session.CurrentIndex, appended.CreatedTurn.TurnIndex+1)
	}
}
