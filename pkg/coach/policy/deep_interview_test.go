package policy

import (
	"context"
	"testing"

	"careercoach-be/internal/constant"
	"careercoach-be/internal/entity"
	"careercoach-be/pkg/genai"

	"github.com/google/uuid"
)

func TestDeepOpenWithoutBackend(t *testing.T) {
	p := NewDeepInterview(genai.NewDisabledAdapter(), 6)

	opening, err := p.Open(context.Background(), Subject{CompanyName: "네이버", RoleTitle: "백엔드"}, StartConfig{})
	if err != nil {
		t.Fatalf("open must not fail without a backend: %v", err)
	}
	if opening.TotalItems != 6 {
		t.Errorf("totalItems = %d, want 6", opening.TotalItems)
	}
	if len(opening.Turns) != 1 {
		t.Fatalf("expected one opening question turn, got %d", len(opening.Turns))
	}
	if opening.Turns[0].Prompt == "" {
		t.Error("fallback question has no prompt")
	}
	if opening.Meta["questionGeneration"] != "fallback" {
		t.Errorf("expected fallback marker in meta, got %v", opening.Meta)
	}
}

func TestDeepNextStepAdvances(t *testing.T) {
	p := NewDeepInterview(genai.NewDisabledAdapter(), 6)
	total := 6
	session := &entity.Session{
		Id:           uuid.New(),
		Mode:         constant.SessionModeDeepInterview,
		CurrentIndex: 1,
		TotalItems:   &total,
		Meta:         map[string]interface{}{"askedCount": 1, "coverage": []string{}},
	}

	decision, err := p.NextStep(context.Background(), StepInput{
		Session:    session,
		QuestionId: "q_1",
		Answer:     "그 프로젝트에서는 제가 직접 기술 선택의 근거를 정리했습니다.",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Complete {
		t.Fatal("completed on first of six answers")
	}
	if len(decision.Replies) != 1 {
		t.Fatalf("expected a follow-up question, got %d replies", len(decision.Replies))
	}
	if decision.NextIndex != 2 {
		t.Errorf("nextIndex = %d, want 2", decision.NextIndex)
	}
	if decision.UserTurn.Speaker != "사용자" {
		t.Errorf("unexpected user turn speaker %q", decision.UserTurn.Speaker)
	}
	if decision.MetaPatch["askedCount"] != 2 {
		t.Errorf("askedCount patch = %v, want 2", decision.MetaPatch["askedCount"])
	}
}

func TestDeepCompletesAtCeiling(t *testing.T) {
	p := NewDeepInterview(genai.NewDisabledAdapter(), 6)
	total := 6
	session := &entity.Session{
		Id:           uuid.New(),
		CurrentIndex: 6,
		TotalItems:   &total,
	}

	decision, err := p.NextStep(context.Background(), StepInput{
		Session:    session,
		QuestionId: "q_6",
		Answer:     "마지막 답변입니다.",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !decision.Complete {
		t.Fatal("expected completion at the question ceiling")
	}
	if len(decision.Replies) != 0 {
		t.Errorf("no further question expected after completion, got %d", len(decision.Replies))
	}
	if decision.NextStep != "IMPROVEMENT_GUIDE" {
		t.Errorf("nextStep = %q, want IMPROVEMENT_GUIDE", decision.NextStep)
	}
}

func TestDeepIsComplete(t *testing.T) {
	p := NewDeepInterview(genai.NewDisabledAdapter(), 6)
	total := 6

	if p.IsComplete(&entity.Session{CurrentIndex: 5, TotalItems: &total}, nil) {
		t.Error("complete before reaching the ceiling")
	}
	if !p.IsComplete(&entity.Session{CurrentIndex: 6, TotalItems: &total}, nil) {
		t.Error("not complete at the ceiling")
	}
	if !p.IsComplete(&entity.Session{Status: constant.SessionStatusCompleted, TotalItems: &total}, nil) {
		t.Error("completed status not honored")
	}
}

func TestDeepRuleGuideAndInsight(t *testing.T) {
	p := NewDeepInterview(genai.NewDisabledAdapter(), 6)

	answers := []string{
		"근거를 정리해 협업 과정에서 공유했습니다.",
		"지표가 30% 개선되었습니다.",
	}

	sections := p.Guide(context.Background(), "", answers)
	if len(sections) == 0 {
		t.Fatal("guide must produce sections without a backend")
	}
	for _, section := range sections {
		if section.Title == "" || len(section.Items) == 0 {
			t.Errorf("incomplete guide section: %+v", section)
		}
	}

	insight := p.Insight(context.Background(), "", answers)
	if insight.Summary == "" {
		t.Error("insight summary is empty")
	}
	if len(insight.ActionChecklist) == 0 {
		t.Error("insight has no action checklist")
	}

	// no answers at all still yields a usable document
	empty := p.Insight(context.Background(), "", nil)
	if empty.Summary == "" {
		t.Error("empty-session insight summary is empty")
	}
}

func TestDeepFallbackQuestionBeyondScript(t *testing.T) {
	p := NewDeepInterview(genai.NewDisabledAdapter(), 6)

	seventh := p.FallbackQuestion(7)
	eighth := p.FallbackQuestion(8)

	if seventh.QuestionId != "q_7" || eighth.QuestionId != "q_8" {
		t.Errorf("ids = %s, %s, want q_7, q_8", seventh.QuestionId, eighth.QuestionId)
	}
	if seventh.Prompt != p.FallbackQuestion(6).Prompt {
		t.Errorf("prompt past the script must reuse the last scripted prompt, got %q", seventh.Prompt)
	}
}
