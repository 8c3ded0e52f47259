package policy

import (
	"context"
	"fmt"
	"math"
	"strings"

	"careercoach-be/internal/constant"
	"careercoach-be/internal/entity"
)

const (
	defaultMockInterviewQuestions = 8

	// Per-question timer hints surfaced with every question.
	MockPrepSeconds   = 30
	MockAnswerSeconds = 120
)

type mockQuestion struct {
	Prompt      string
	Intent      string
	ModelAnswer string
}

var mockQuestionBank = []mockQuestion{
	{
		Prompt:      "자기소개를 해주세요.",
		Intent:      "지원자의 핵심 역량과 회사 적합성을 빠르게 파악하기 위한 질문입니다.",
		ModelAnswer: "예시 구조: 한줄 소개 → 대표 성과 → 지원 동기 연결",
	},
	{
		Prompt:      "가장 도전적이었던 프로젝트는 무엇이었나요?",
		Intent:      "문제 해결 능력과 회복탄력성을 보기 위한 질문입니다.",
		ModelAnswer: "예시 구조: 상황/문제 → 내 역할 → 선택 근거 → 결과(수치)",
	},
	{
		Prompt:      "협업 중 갈등을 해결한 경험이 있나요?",
		Intent:      "커뮤니케이션과 조율 역량을 평가하기 위한 질문입니다.",
		ModelAnswer: "예시 구조: 갈등 원인 → 조율 방식 → 합의 결과 → 재발 방지",
	},
	{
		Prompt:      "이 직무에 필요한 역량을 어떻게 준비했나요?",
		Intent:      "직무 이해도와 자기주도 학습을 보기 위한 질문입니다.",
		ModelAnswer: "예시 구조: 요구 역량 정의 → 준비 방법 → 실제 적용 사례",
	},
	{
		Prompt:      "최근 실패 경험과 배운 점을 말해주세요.",
		Intent:      "성장 관점과 피드백 수용 태도를 보기 위한 질문입니다.",
		ModelAnswer: "예시 구조: 실패 맥락 → 원인 분석 → 개선 행동 → 이후 변화",
	},
}

var (
	mockStructureKeywords = []string{"상황", "문제", "해결", "결과"}
	mockFillerMarkers     = []string{"어..", "그냥", "음.."}
)

// MockInterview runs the timed mock interview against a fixed question bank.
// Question selection and scoring are fully deterministic; variety matters
// less than reproducible feedback here, so the AI is never consulted.
type MockInterview struct {
	defaultTotal int
}

func NewMockInterview(total int) *MockInterview {
	if total <= 0 {
		total = defaultMockInterviewQuestions
	}
	return &MockInterview{defaultTotal: total}
}

func (p *MockInterview) Mode() string {
	return constant.SessionModeMockInterview
}

// QuestionFor cycles the bank by 1-based index.
func (p *MockInterview) QuestionFor(index int) Question {
	base := mockQuestionBank[(index-1)%len(mockQuestionBank)]
	return Question{
		QuestionId:  fmt.Sprintf("q_%d", index),
		Prompt:      base.Prompt,
		Intent:      base.Intent,
		ModelAnswer: base.ModelAnswer,
	}
}

// ScoreAnswer grades one answer. Same text always produces the same score
// and the same feedback bucket.
func (p *MockInterview) ScoreAnswer(answer string) (float64, string) {
	text := strings.TrimSpace(answer)
	score := 6.0
	if len([]rune(text)) >= 80 {
		score += 1.0
	}
	if len([]rune(text)) >= 150 {
		score += 0.8
	}
	if containsAny(text, mockStructureKeywords) {
		score += 0.8
	}
	if containsDigit(text) {
		score += 0.7
	}
	if containsAny(text, mockFillerMarkers) {
		score -= 0.8
	}
	score = math.Round(score*10) / 10
	score = math.Max(1.0, math.Min(10.0, score))

	feedback := "핵심은 좋습니다. 근거와 결과 수치를 한 문장 더 보강하세요."
	if score >= 8.5 {
		feedback = "구조가 안정적입니다. 선택 근거와 성과 연결이 명확합니다."
	} else if score <= 6.0 {
		feedback = "답변이 다소 짧습니다. 상황-행동-결과 구조로 다시 정리해보세요."
	}
	return score, feedback
}

// BuildContext renders the interview transcript. The mock flow is fully
// deterministic and never sends this to the AI.
func (p *MockInterview) BuildContext(subject Subject, session *entity.Session, turns []*entity.Turn) string {
	role := subject.RoleTitle
	if role == "" {
		role = "미지정"
	}
	lines := []string{fmt.Sprintf("지원 직무: %s", role)}
	for _, turn := range turns {
		switch turn.Role {
		case constant.TurnRoleAI:
			lines = append(lines, fmt.Sprintf("Q: %s", turn.Prompt))
		case constant.TurnRoleUser:
			lines = append(lines, fmt.Sprintf("A: %s", turn.Answer))
		}
	}
	return strings.Join(lines, "\n")
}

func (p *MockInterview) questionTurn(question Question) *entity.Turn {
	return &entity.Turn{
		Role:    constant.TurnRoleAI,
		Speaker: "면접관",
		Prompt:  question.Prompt,
		Message: question.Prompt,
		Intent:  question.Intent,
		Meta: map[string]interface{}{
			"questionId":  question.QuestionId,
			"modelAnswer": question.ModelAnswer,
		},
	}
}

func (p *MockInterview) Open(ctx context.Context, subject Subject, cfg StartConfig) (*Opening, error) {
	total := cfg.TotalItems
	if total <= 0 {
		total = p.defaultTotal
	}
	first := p.QuestionFor(1)
	return &Opening{
		TotalItems: total,
		Meta: map[string]interface{}{
			"mode":  cfg.Variant,
			"saved": false,
		},
		Turns: []*entity.Turn{p.questionTurn(first)},
		Extra: map[string]interface{}{"firstQuestion": first},
	}, nil
}

func (p *MockInterview) NextStep(ctx context.Context, in StepInput) (*StepDecision, error) {
	session := in.Session
	current := session.CurrentIndex
	expected := p.QuestionFor(current)
	if in.QuestionId != expected.QuestionId {
		return nil, expectedQuestionMismatch(expected.QuestionId)
	}

	score, feedback := p.ScoreAnswer(in.Answer)
	userTurn := &entity.Turn{
		Role:     constant.TurnRoleUser,
		Speaker:  "지원자",
		Prompt:   expected.Prompt,
		Answer:   in.Answer,
		Message:  in.Answer,
		Intent:   expected.Intent,
		Feedback: feedback,
		Score:    &score,
		Meta: map[string]interface{}{
			"questionId":  in.QuestionId,
			"modelAnswer": expected.ModelAnswer,
		},
	}

	rows := questionRows(session.Result)
	rows = append(rows, map[string]interface{}{
		"index":       current,
		"questionId":  in.QuestionId,
		"prompt":      expected.Prompt,
		"intent":      expected.Intent,
		"userAnswer":  in.Answer,
		"feedback":    feedback,
		"modelAnswer": expected.ModelAnswer,
		"score":       score,
	})
	resultPatch := map[string]interface{}{"questions": rows}

	total := p.defaultTotal
	if session.TotalItems != nil && *session.TotalItems > 0 {
		total = *session.TotalItems
	}

	if current < total {
		next := p.QuestionFor(current + 1)
		return &StepDecision{
			UserTurn:    userTurn,
			Replies:     []*entity.Turn{p.questionTurn(next)},
			ResultPatch: resultPatch,
			NextIndex:   current + 1,
			Extra: map[string]interface{}{
				"nextQuestion": next,
				"progress":     map[string]interface{}{"current": current + 1, "total": total},
			},
		}, nil
	}

	return &StepDecision{
		UserTurn:    userTurn,
		ResultPatch: resultPatch,
		Complete:    true,
		Extra: map[string]interface{}{
			"resultUrl": fmt.Sprintf("/v1/mock-interviews/sessions/%s/result", session.Id),
		},
	}, nil
}

func (p *MockInterview) IsComplete(session *entity.Session, turns []*entity.Turn) bool {
	if session.Status == constant.SessionStatusCompleted {
		return true
	}
	total := p.defaultTotal
	if session.TotalItems != nil && *session.TotalItems > 0 {
		total = *session.TotalItems
	}
	return session.CurrentIndex >= total
}

func (p *MockInterview) InitialScore() map[string]int {
	return map[string]int{}
}

// Summarize materializes the final report. It prefers the incrementally
// accumulated question rows and rebuilds them from turn history when the
// session predates them, so re-running it is always safe.
func (p *MockInterview) Summarize(ctx context.Context, session *entity.Session, turns []*entity.Turn) map[string]interface{} {
	rows := questionRows(session.Result)
	if len(rows) == 0 {
		rows = p.rowsFromTurns(turns)
	}
	return p.buildResult(session, rows)
}

func (p *MockInterview) rowsFromTurns(turns []*entity.Turn) []map[string]interface{} {
	rows := make([]map[string]interface{}, 0, len(turns))
	for _, turn := range turns {
		if turn.Role != constant.TurnRoleUser || turn.Answer == "" {
			continue
		}
		index := len(rows) + 1
		questionId := fmt.Sprintf("q_%d", index)
		modelAnswer := ""
		if turn.Meta != nil {
			if value, ok := turn.Meta["questionId"].(string); ok && value != "" {
				questionId = value
			}
			if value, ok := turn.Meta["modelAnswer"].(string); ok {
				modelAnswer = value
			}
		}
		score := 0.0
		if turn.Score != nil {
			score = *turn.Score
		}
		rows = append(rows, map[string]interface{}{
			"index":       index,
			"questionId":  questionId,
			"prompt":      turn.Prompt,
			"intent":      turn.Intent,
			"userAnswer":  turn.Answer,
			"feedback":    turn.Feedback,
			"modelAnswer": modelAnswer,
			"score":       score,
		})
	}
	return rows
}

func (p *MockInterview) buildResult(session *entity.Session, rows []map[string]interface{}) map[string]interface{} {
	avg := 0.0
	if len(rows) > 0 {
		sum := 0.0
		for _, row := range rows {
			sum += numberValue(row["score"])
		}
		avg = math.Round(sum/float64(len(rows))*10) / 10
	}
	overall := int(math.Round(avg * 10))

	subScore := func(key, label string, percent int) map[string]interface{} {
		return map[string]interface{}{
			"key":     key,
			"label":   label,
			"percent": clampInt(percent, 10, 100),
		}
	}

	var startedAt interface{}
	if session.StartedAt != nil {
		startedAt = session.StartedAt.Format("2006-01-02T15:04:05Z07:00")
	}
	var durationSec interface{}
	if session.DurationSec != nil {
		durationSec = *session.DurationSec
	}

	return map[string]interface{}{
		"sessionInfo": map[string]interface{}{
			"sessionId":   session.Id.String(),
			"projectId":   session.ProjectId.String(),
			"title":       "모의면접 결과",
			"startedAt":   startedAt,
			"durationSec": durationSec,
		},
		"overall": map[string]interface{}{
			"score": overall,
			"subScores": []map[string]interface{}{
				subScore("habit", "습관", overall-8),
				subScore("improvement", "보완점", overall-22),
				subScore("confidence", "자신감", overall+5),
				subScore("vocab", "어휘력", overall-4),
			},
		},
		"keyFindings": []map[string]interface{}{
			{
				"code":   "STRUCTURE_WEAK",
				"title":  "답변 구조 점검",
				"detail": "결론→근거→결과 순서로 말하면 설득력이 높아집니다.",
			},
			{
				"code":   "METRIC_MISSING",
				"title":  "성과 수치 보강",
				"detail": "가능하면 개선 전후 지표를 함께 제시하세요.",
			},
			{
				"code":   "QUESTION_FIT",
				"title":  "질문 의도 적합성",
				"detail": "질문 의도를 한 문장으로 재정의하고 답하면 정확도가 올라갑니다.",
			},
		},
		"questions": rows,
	}
}

func questionRows(result map[string]interface{}) []map[string]interface{} {
	raw, ok := result["questions"]
	if !ok {
		return nil
	}
	switch value := raw.(type) {
	case []map[string]interface{}:
		return append([]map[string]interface{}{}, value...)
	case []interface{}:
		rows := make([]map[string]interface{}, 0, len(value))
		for _, item := range value {
			if row, ok := item.(map[string]interface{}); ok {
				rows = append(rows, row)
			}
		}
		return rows
	default:
		return nil
	}
}

func numberValue(raw interface{}) float64 {
	switch value := raw.(type) {
	case float64:
		return value
	case float32:
		return float64(value)
	case int:
		return float64(value)
	case int64:
		return float64(value)
	default:
		return 0
	}
}
