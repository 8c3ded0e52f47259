package policy

import (
	"context"
	"strings"
	"testing"

	"careercoach-be/internal/constant"
	"careercoach-be/internal/entity"
	"careercoach-be/internal/pkg/apperror"

	"github.com/google/uuid"
)

// 상황-행동-결과 구조에 수치까지 갖춘 장문 답변. Scores into the top bucket.
const strongAnswer = "당시 저는 결제 지연 문제 상황을 맡아 원인을 분석했고, 문제의 근본 원인이 재시도 큐 설정에 있음을 파악해 해결 방안을 설계했습니다. " +
	"큐 재처리 정책을 수정하고 배포한 결과 오류율이 4.2%에서 0.3%로 감소했으며, 그 결과를 팀 전체에 공유해 유사 장애 대응 시간도 절반으로 줄였습니다."

func TestMockScoreAnswerBuckets(t *testing.T) {
	p := NewMockInterview(0)

	tests := []struct {
		name     string
		answer   string
		minScore float64
		maxScore float64
	}{
		{
			name:     "long structured answer with metrics",
			answer:   strongAnswer,
			minScore: 8.5,
			maxScore: 10.0,
		},
		{
			name:     "short answer",
			answer:   "열심히 했습니다.",
			minScore: 1.0,
			maxScore: 6.0,
		},
		{
			name:     "filler penalized",
			answer:   "어.. 그냥 열심히 했던 것 같습니다.",
			minScore: 1.0,
			maxScore: 6.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, feedback := p.ScoreAnswer(tt.answer)
			if score < tt.minScore || score > tt.maxScore {
				t.Errorf("score = %.1f, want in [%.1f, %.1f]", score, tt.minScore, tt.maxScore)
			}
			if feedback == "" {
				t.Error("feedback is empty")
			}

			// determinism
			again, _ := p.ScoreAnswer(tt.answer)
			if again != score {
				t.Errorf("same answer scored %.1f then %.1f", score, again)
			}
		})
	}
}

func TestMockQuestionForCyclesBank(t *testing.T) {
	p := NewMockInterview(0)

	first := p.QuestionFor(1)
	wrapped := p.QuestionFor(1 + len(mockQuestionBank))

	if first.Prompt != wrapped.Prompt {
		t.Errorf("bank did not cycle: %q vs %q", first.Prompt, wrapped.Prompt)
	}
	if first.QuestionId == wrapped.QuestionId {
		t.Error("question ids must stay index-unique across cycles")
	}
}

func TestMockOpenDefaults(t *testing.T) {
	p := NewMockInterview(8)

	opening, err := p.Open(context.Background(), Subject{}, StartConfig{Variant: "technical"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opening.TotalItems != 8 {
		t.Errorf("totalItems = %d, want 8", opening.TotalItems)
	}
	if len(opening.Turns) != 1 || opening.Turns[0].Speaker != "면접관" {
		t.Fatalf("expected a single interviewer turn, got %+v", opening.Turns)
	}
	if opening.Meta["mode"] != "technical" || opening.Meta["saved"] != false {
		t.Errorf("unexpected meta: %v", opening.Meta)
	}
}

func TestMockNextStepQuestionIdMismatch(t *testing.T) {
	p := NewMockInterview(2)
	session := &entity.Session{Id: uuid.New(), CurrentIndex: 1}

	_, err := p.NextStep(context.Background(), StepInput{
		Session:    session,
		QuestionId: "q_7",
		Answer:     "답변",
	})
	if !apperror.IsInvalidState(err) {
		t.Errorf("expected InvalidState, got %v", err)
	}
}

func TestMockInterviewRunToCompletion(t *testing.T) {
	p := NewMockInterview(0)
	total := 2
	session := &entity.Session{
		Id:           uuid.New(),
		Mode:         constant.SessionModeMockInterview,
		Status:       constant.SessionStatusInProgress,
		CurrentIndex: 1,
		TotalItems:   &total,
	}

	// answer 1 of 2: a next question comes back
	decision, err := p.NextStep(context.Background(), StepInput{
		Session:    session,
		QuestionId: "q_1",
		Answer:     strongAnswer,
	})
	if err != nil {
		t.Fatalf("step 1: %v", err)
	}
	if decision.Complete {
		t.Fatal("completed after first of two answers")
	}
	if len(decision.Replies) != 1 {
		t.Fatalf("expected next question turn, got %d replies", len(decision.Replies))
	}
	if decision.NextIndex != 2 {
		t.Errorf("nextIndex = %d, want 2", decision.NextIndex)
	}
	if decision.UserTurn.Score == nil || *decision.UserTurn.Score < 8.5 {
		t.Errorf("strong answer scored %v, want >= 8.5", decision.UserTurn.Score)
	}

	// engine applies the patch and advances the index
	session.Result = decision.ResultPatch
	session.CurrentIndex = decision.NextIndex

	// answer 2 of 2: complete, with the result marker
	decision, err = p.NextStep(context.Background(), StepInput{
		Session:    session,
		QuestionId: "q_2",
		Answer:     strongAnswer,
	})
	if err != nil {
		t.Fatalf("step 2: %v", err)
	}
	if !decision.Complete {
		t.Fatal("expected completion at question 2 of 2")
	}
	resultUrl, _ := decision.Extra["resultUrl"].(string)
	if !strings.Contains(resultUrl, session.Id.String()) {
		t.Errorf("resultUrl %q missing session id", resultUrl)
	}

	rows := questionRows(decision.ResultPatch)
	if len(rows) != 2 {
		t.Errorf("expected 2 accumulated question rows, got %d", len(rows))
	}
}

func TestMockSummarizeBuildsOverall(t *testing.T) {
	p := NewMockInterview(2)
	total := 2
	score := 9.0
	session := &entity.Session{
		Id:           uuid.New(),
		CurrentIndex: 2,
		TotalItems:   &total,
	}
	turns := []*entity.Turn{
		{TurnIndex: 2, Role: constant.TurnRoleUser, Answer: strongAnswer, Score: &score, Meta: map[string]interface{}{"questionId": "q_1"}},
		{TurnIndex: 4, Role: constant.TurnRoleUser, Answer: strongAnswer, Score: &score, Meta: map[string]interface{}{"questionId": "q_2"}},
	}

	result := p.Summarize(context.Background(), session, turns)

	overall, ok := result["overall"].(map[string]interface{})
	if !ok {
		t.Fatalf("missing overall block: %v", result)
	}
	if overall["score"] != 90 {
		t.Errorf("overall score = %v, want 90", overall["score"])
	}
	if len(questionRows(result)) != 2 {
		t.Errorf("expected 2 question rows in result")
	}
}

// Every mode must satisfy the full policy surface the registry expects.
var _ ModePolicy = (*MockInterview)(nil)

func TestMockBuildContextTranscript(t *testing.T) {
	p := NewMockInterview(8)
	turns := []*entity.Turn{
		{Role: constant.TurnRoleAI, Prompt: "자기소개를 해주세요."},
		{Role: constant.TurnRoleUser, Answer: "백엔드 3년차입니다."},
	}

	got := p.BuildContext(Subject{RoleTitle: "백엔드 엔지니어"}, &entity.Session{}, turns)

	for _, want := range []string{
		"백엔드 엔지니어",
		"Q: 자기소개를 해주세요.",
		"A: 백엔드 3년차입니다.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("context missing %q:\n%s", want, got)
		}
	}
}
