package policy

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"careercoach-be/internal/constant"
	"careercoach-be/internal/entity"
	"careercoach-be/pkg/genai"

	"github.com/google/uuid"
)

func scenarioSession(maxTurns int) *entity.Session {
	return &entity.Session{
		Id:         uuid.New(),
		Mode:       constant.SessionModeJobSimulation,
		Status:     constant.SessionStatusInProgress,
		TotalItems: &maxTurns,
		Meta:       map[string]interface{}{"preset": SimPresetScenario},
	}
}

func TestSimOpenScenarioFallback(t *testing.T) {
	p := NewJobSimulation(genai.NewDisabledAdapter(), 10)

	opening, err := p.Open(context.Background(), Subject{CompanyName: "토스"}, StartConfig{
		Role:    "백엔드 엔지니어",
		Variant: SimPresetScenario,
	})
	if err != nil {
		t.Fatalf("open must not fail without a backend: %v", err)
	}

	if opening.Turns[0].Role != constant.TurnRoleSystem || opening.Turns[0].Speaker != "시스템" {
		t.Errorf("first turn must be the system headline, got %+v", opening.Turns[0])
	}
	npcCount := 0
	for _, turn := range opening.Turns[1:] {
		if turn.Role != constant.TurnRoleNPC {
			t.Errorf("non-NPC opening turn: %+v", turn)
		}
		npcCount++
	}
	if npcCount == 0 || npcCount > 3 {
		t.Errorf("npc opening turns = %d, want 1..3", npcCount)
	}
	if opening.Meta["preset"] != SimPresetScenario {
		t.Errorf("preset = %v, want %s", opening.Meta["preset"], SimPresetScenario)
	}
	if opening.TotalItems != 10 {
		t.Errorf("totalItems = %d, want 10", opening.TotalItems)
	}
}

func TestSimScenarioStepFallback(t *testing.T) {
	p := NewJobSimulation(genai.NewDisabledAdapter(), 10)
	session := scenarioSession(10)

	decision, err := p.NextStep(context.Background(), StepInput{
		Session: session,
		Answer:  "우선순위를 먼저 정리하고 리스크를 공유하겠습니다.",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// the deterministic fallback always produces exactly one NPC reply
	if len(decision.Replies) != 1 {
		t.Fatalf("replies = %d, want 1", len(decision.Replies))
	}
	reply := decision.Replies[0]
	if reply.Role != constant.TurnRoleNPC {
		t.Errorf("reply role = %q, want npc", reply.Role)
	}

	if len(reply.ScoreDelta) != 3 {
		t.Fatalf("delta has %d keys, want the 3 canonical ones: %v", len(reply.ScoreDelta), reply.ScoreDelta)
	}
	for _, key := range []string{"communication", "stress", "problemSolving"} {
		if _, ok := reply.ScoreDelta[key]; !ok {
			t.Errorf("delta missing %q: %v", key, reply.ScoreDelta)
		}
	}
	// the answer mentions priority, sharing and risk: all three move
	if reply.ScoreDelta["problemSolving"] != 1 || reply.ScoreDelta["communication"] != 1 || reply.ScoreDelta["stress"] != 1 {
		t.Errorf("unexpected keyword deltas: %v", reply.ScoreDelta)
	}

	if decision.Complete {
		t.Error("completed on first of ten turns")
	}
	if decision.NextIndex != 2 {
		t.Errorf("nextIndex = %d, want 2", decision.NextIndex)
	}
}

func TestSimScenarioCompletesAtMaxTurns(t *testing.T) {
	p := NewJobSimulation(genai.NewDisabledAdapter(), 10)
	session := scenarioSession(3)

	history := []*entity.Turn{
		{TurnIndex: 2, Role: constant.TurnRoleUser, Message: "첫 번째 답변"},
		{TurnIndex: 4, Role: constant.TurnRoleUser, Message: "두 번째 답변"},
	}

	decision, err := p.NextStep(context.Background(), StepInput{
		Session: session,
		History: history,
		Answer:  "마지막 대응입니다.",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !decision.Complete {
		t.Fatal("expected completion at the turn ceiling")
	}
	resultUrl, _ := decision.Extra["resultUrl"].(string)
	if !strings.Contains(resultUrl, session.Id.String()) {
		t.Errorf("resultUrl %q missing session id", resultUrl)
	}
}

func TestSimPersonaStepWithoutAutoReply(t *testing.T) {
	p := NewJobSimulation(genai.NewDisabledAdapter(), 10)
	session := &entity.Session{
		Id:   uuid.New(),
		Meta: map[string]interface{}{"preset": SimPresetPersona},
	}

	decision, err := p.NextStep(context.Background(), StepInput{
		Session: session,
		Answer:  "상황을 먼저 파악하겠습니다.",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(decision.Replies) != 0 {
		t.Errorf("expected no reply without auto_reply, got %d", len(decision.Replies))
	}
	if decision.Complete {
		t.Error("persona sessions never self-complete")
	}
}

func TestSimPersonaStepAutoReplyFallback(t *testing.T) {
	p := NewJobSimulation(genai.NewDisabledAdapter(), 10)
	session := &entity.Session{
		Id:   uuid.New(),
		Meta: map[string]interface{}{"preset": SimPresetPersona},
	}

	decision, err := p.NextStep(context.Background(), StepInput{
		Session:   session,
		Answer:    "상황을 먼저 파악하겠습니다.",
		AutoReply: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(decision.Replies) != 1 {
		t.Fatalf("expected a single simulator reply, got %d", len(decision.Replies))
	}
	if decision.Replies[0].Message == "" {
		t.Error("fallback reply has no text")
	}
}

func TestSimSummarizeScenarioFit(t *testing.T) {
	p := NewJobSimulation(genai.NewDisabledAdapter(), 10)
	session := scenarioSession(10)
	session.Status = constant.SessionStatusCompleted

	turns := []*entity.Turn{
		{TurnIndex: 2, Role: constant.TurnRoleNPC, ScoreDelta: map[string]int{"communication": 10, "problemSolving": 10, "stress": 5}},
	}

	result := p.Summarize(context.Background(), session, turns)

	if result["fitScorePercent"] != 90 {
		t.Errorf("fitScorePercent = %v, want 90 (65 + 25)", result["fitScorePercent"])
	}
	if result["rankLabel"] != "상위 8%" {
		t.Errorf("rankLabel = %v, want 상위 8%%", result["rankLabel"])
	}

	// negative totals clamp at the floor, never below 1
	low := p.Summarize(context.Background(), session, []*entity.Turn{
		{TurnIndex: 2, ScoreDelta: map[string]int{"stress": -100}},
	})
	if low["fitScorePercent"] != 1 {
		t.Errorf("clamped fit = %v, want 1", low["fitScorePercent"])
	}
}

func TestUserTurnCount(t *testing.T) {
	turns := []*entity.Turn{
		{Role: constant.TurnRoleSystem, Message: "안내"},
		{Role: constant.TurnRoleNPC, Message: "압박"},
		{Role: constant.TurnRoleUser, Message: "응답"},
		{Role: constant.TurnRoleUser, Answer: "응답2"},
		{Role: constant.TurnRoleUser}, // placeholder without content
	}
	if got := UserTurnCount(turns); got != 2 {
		t.Errorf("UserTurnCount = %d, want 2", got)
	}
}

type cannedGenerator struct {
	text string
}

func (g cannedGenerator) GenerateText(ctx context.Context, systemInstruction, userPrompt string) (string, error) {
	return g.text, nil
}

func TestSimRefineResultAfterStorageRoundTrip(t *testing.T) {
	p := NewJobSimulation(genai.NewAdapter(cannedGenerator{
		text: `{"bestMomentText":"리스크를 수치로 설명한 순간","recommendText":"더 나은 추천"}`,
	}, time.Second), 10)
	session := scenarioSession(10)
	session.Meta["role"] = "백엔드 엔지니어"

	base := p.buildScenarioResult(session, nil)

	// The result comes back from the session row as generic JSON shapes.
	raw, err := json.Marshal(base)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var stored map[string]interface{}
	if err := json.Unmarshal(raw, &stored); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	refined := p.RefineResult(context.Background(), session, nil, stored)

	moment, ok := refined["bestMoment"].(map[string]interface{})
	if !ok || moment["text"] != "리스크를 수치로 설명한 순간" {
		t.Errorf("bestMoment not refined: %v", refined["bestMoment"])
	}
	rows, ok := refined["recommendations"].([]map[string]interface{})
	if !ok || len(rows) == 0 || rows[0]["text"] != "더 나은 추천" {
		t.Errorf("recommendations not refined: %v", refined["recommendations"])
	}

	// The stored map the caller handed in must stay untouched.
	storedMoment := stored["bestMoment"].(map[string]interface{})
	if storedMoment["text"] == "리스크를 수치로 설명한 순간" {
		t.Error("refinement mutated the stored bestMoment in place")
	}
	storedRow := stored["recommendations"].([]interface{})[0].(map[string]interface{})
	if storedRow["text"] == "더 나은 추천" {
		t.Error("refinement mutated the stored recommendation in place")
	}
}
