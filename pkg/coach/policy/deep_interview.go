package policy

import (
	"context"
	"fmt"
	"strings"

	"careercoach-be/internal/constant"
	"careercoach-be/internal/entity"
	"careercoach-be/pkg/genai"
)

const defaultDeepInterviewQuestions = 6

// Question is one prompting item surfaced to the candidate.
type Question struct {
	QuestionId  string `json:"questionId"`
	Prompt      string `json:"prompt"`
	Intent      string `json:"intent,omitempty"`
	ModelAnswer string `json:"modelAnswer,omitempty"`
}

// GuideSection is one block of the improvement guide.
type GuideSection struct {
	Type  string   `json:"type"`
	Title string   `json:"title"`
	Items []string `json:"items"`
}

// InsightDoc is the qualitative report built from the candidate's answers.
type InsightDoc struct {
	Summary         string   `json:"summary"`
	StrengthPoints  []string `json:"strengthPoints"`
	WeakPoints      []string `json:"weakPoints"`
	EvidenceQuotes  []string `json:"evidenceQuotes"`
	ActionChecklist []string `json:"actionChecklist"`
}

var deepFallbackQuestions = []string{
	"이 프로젝트에서 왜 SQL을 선택했고, NoSQL을 배제한 근거는 무엇인가요?",
	"랭체인/랭그래프를 선택했다면 ADK 같은 대안과 비교 근거는 무엇인가요?",
	"대규모 사용자/트래픽을 가정했을 때 병목 지점과 대응 전략은 무엇인가요?",
	"기능 우선순위 결정 시 비즈니스 영향과 기술 리스크를 어떻게 비교했나요?",
	"협업(기획/디자인/백엔드)에서 갈등을 어떤 데이터와 논리로 조율했나요?",
	"이 프로젝트 경험을 자소서에 넣을 때 핵심 수치 2개는 무엇인가요?",
}

// DeepInterview runs the project-understanding interview: a bounded list of
// probing questions, AI-generated when possible, scripted otherwise.
type DeepInterview struct {
	ai      *genai.Adapter
	ceiling int
}

func NewDeepInterview(ai *genai.Adapter, ceiling int) *DeepInterview {
	if ceiling <= 0 {
		ceiling = defaultDeepInterviewQuestions
	}
	return &DeepInterview{ai: ai, ceiling: ceiling}
}

func (p *DeepInterview) Mode() string {
	return constant.SessionModeDeepInterview
}

// FallbackQuestion returns the scripted question for a 1-based index. Only
// the prompt lookup is clamped; the id keeps the real index so sessions
// longer than the script never repeat a questionId.
func (p *DeepInterview) FallbackQuestion(index int) Question {
	if index < 1 {
		index = 1
	}
	safe := clampInt(index, 1, len(deepFallbackQuestions))
	return Question{
		QuestionId: fmt.Sprintf("q_%d", index),
		Prompt:     deepFallbackQuestions[safe-1],
	}
}

// CollectAnswers returns the trimmed non-empty user answers in turn order.
func (p *DeepInterview) CollectAnswers(turns []*entity.Turn) []string {
	answers := make([]string, 0, len(turns))
	for _, turn := range turns {
		if turn.Role != constant.TurnRoleUser || turn.Answer == "" {
			continue
		}
		answers = append(answers, strings.TrimSpace(turn.Answer))
	}
	return answers
}

func (p *DeepInterview) BuildContext(subject Subject, session *entity.Session, turns []*entity.Turn) string {
	company := subject.CompanyName
	if company == "" {
		company = "미지정"
	}
	role := subject.RoleTitle
	if role == "" {
		role = "미지정"
	}
	posting := "없음"
	if subject.PostingText != "" {
		posting = truncate(subject.PostingText, 500)
	}

	lines := []string{
		fmt.Sprintf("지원 회사: %s", company),
		fmt.Sprintf("지원 직무: %s", role),
		fmt.Sprintf("공고 텍스트 일부: %s", posting),
		"최근 대화:",
	}
	recent := turns
	if len(recent) > 12 {
		recent = recent[len(recent)-12:]
	}
	for _, turn := range recent {
		switch turn.Role {
		case constant.TurnRoleAI:
			content := turn.Prompt
			if content == "" {
				content = turn.Message
			}
			lines = append(lines, fmt.Sprintf("Q: %s", content))
		case constant.TurnRoleUser:
			content := turn.Answer
			if content == "" {
				content = turn.Message
			}
			lines = append(lines, fmt.Sprintf("A: %s", content))
		}
	}
	return strings.Join(lines, "\n")
}

type deepQuestionPayload struct {
	Question   string   `json:"question"`
	Intent     string   `json:"intent"`
	ShouldStop bool     `json:"should_stop"`
	Coverage   []string `json:"coverage"`
}

func (p *DeepInterview) generateQuestion(ctx context.Context, contextText string, askedCount int) (*deepQuestionPayload, error) {
	var payload deepQuestionPayload
	userPrompt := fmt.Sprintf(
		"%s\n\n현재 질문 수: %d\n사용자가 프로젝트를 깊게 이해했는지 검증할 다음 질문 1개를 생성해라.",
		contextText, askedCount,
	)
	if err := p.ai.GenerateInto(ctx, constant.DeepQuestionSystemPromptV1, userPrompt, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (p *DeepInterview) questionTurn(question Question, intent string) *entity.Turn {
	return &entity.Turn{
		Role:    constant.TurnRoleAI,
		Speaker: "AI 인터뷰어",
		Prompt:  question.Prompt,
		Message: question.Prompt,
		Intent:  intent,
		Meta:    map[string]interface{}{"questionId": question.QuestionId},
	}
}

func (p *DeepInterview) Open(ctx context.Context, subject Subject, cfg StartConfig) (*Opening, error) {
	total := cfg.TotalItems
	if total <= 0 {
		total = p.ceiling
	}

	question := p.FallbackQuestion(1)
	intent := "프로젝트 핵심 의사결정 검증"
	meta := map[string]interface{}{
		"askedCount": 1,
		"coverage":   []string{},
	}

	generated, err := p.generateQuestion(ctx, p.BuildContext(subject, nil, nil), 0)
	if err != nil {
		meta["questionGeneration"] = "fallback"
		meta["lastAiError"] = truncate(err.Error(), 500)
	} else {
		if generated.Question != "" {
			question.Prompt = generated.Question
		}
		if generated.Intent != "" {
			intent = generated.Intent
		}
		if generated.Coverage != nil {
			meta["coverage"] = generated.Coverage
		}
	}

	return &Opening{
		TotalItems: total,
		Meta:       meta,
		Turns:      []*entity.Turn{p.questionTurn(question, intent)},
	}, nil
}

func (p *DeepInterview) NextStep(ctx context.Context, in StepInput) (*StepDecision, error) {
	session := in.Session
	current := session.CurrentIndex
	total := p.ceiling
	if session.TotalItems != nil && *session.TotalItems > 0 {
		total = *session.TotalItems
	}

	userTurn := &entity.Turn{
		Role:    constant.TurnRoleUser,
		Speaker: "사용자",
		Prompt:  fmt.Sprintf("questionId=%s", in.QuestionId),
		Answer:  in.Answer,
		Message: in.Answer,
		Meta:    map[string]interface{}{"questionId": in.QuestionId},
	}

	shouldStop := current >= total
	next := p.FallbackQuestion(current + 1)
	nextIntent := "답변 심화 검증"
	coverage := metaStrings(session.Meta, "coverage")
	patch := map[string]interface{}{}

	if !shouldStop {
		history := append(append([]*entity.Turn{}, in.History...), userTurn)
		generated, err := p.generateQuestion(ctx, p.BuildContext(in.Subject, session, history), current)
		if err != nil {
			patch["questionGeneration"] = "fallback"
			patch["lastAiError"] = truncate(err.Error(), 500)
		} else {
			if generated.Question != "" {
				next.Prompt = generated.Question
			}
			if generated.Intent != "" {
				nextIntent = generated.Intent
			}
			shouldStop = shouldStop || generated.ShouldStop
			if generated.Coverage != nil {
				coverage = generated.Coverage
			}
		}
	}

	if shouldStop {
		patch["coverage"] = coverage
		return &StepDecision{
			UserTurn:  userTurn,
			MetaPatch: patch,
			Complete:  true,
			NextStep:  "IMPROVEMENT_GUIDE",
		}, nil
	}

	patch["askedCount"] = current + 1
	patch["coverage"] = coverage
	return &StepDecision{
		UserTurn:  userTurn,
		Replies:   []*entity.Turn{p.questionTurn(next, nextIntent)},
		MetaPatch: patch,
		NextIndex: current + 1,
		Extra: map[string]interface{}{
			"nextQuestion": next,
			"progress":     map[string]interface{}{"current": current + 1, "total": total},
		},
	}, nil
}

func (p *DeepInterview) IsComplete(session *entity.Session, turns []*entity.Turn) bool {
	if session.Status == constant.SessionStatusCompleted {
		return true
	}
	total := p.ceiling
	if session.TotalItems != nil && *session.TotalItems > 0 {
		total = *session.TotalItems
	}
	return session.CurrentIndex >= total
}

// InitialScore is empty: this mode is qualitative.
func (p *DeepInterview) InitialScore() map[string]int {
	return map[string]int{}
}

func (p *DeepInterview) Summarize(ctx context.Context, session *entity.Session, turns []*entity.Turn) map[string]interface{} {
	answers := p.CollectAnswers(turns)
	return map[string]interface{}{
		"answerCount": len(answers),
		"summary":     fmt.Sprintf("총 %d개 문항을 완료했습니다.", len(answers)),
		"coverage":    metaStrings(session.Meta, "coverage"),
	}
}

// Guide rule-drafts the two fixed sections and then lets the AI refine them.
// The draft always survives a generation failure.
func (p *DeepInterview) Guide(ctx context.Context, contextText string, answers []string) []GuideSection {
	sections := p.ruleGuide(answers)

	var payload struct {
		GuideSections []GuideSection `json:"guideSections"`
	}
	userPrompt := fmt.Sprintf("%s\n\n현재 초안: %v", contextText, sections)
	if err := p.ai.GenerateInto(ctx, constant.DeepGuideSystemPromptV1, userPrompt, &payload); err != nil {
		return sections
	}
	if len(payload.GuideSections) == 0 {
		return sections
	}
	refined := make([]GuideSection, 0, len(payload.GuideSections))
	for _, row := range payload.GuideSections {
		if row.Type == "" {
			row.Type = "GENERAL"
		}
		if row.Title == "" {
			row.Title = "개선 포인트"
		}
		refined = append(refined, row)
	}
	return refined
}

func (p *DeepInterview) ruleGuide(answers []string) []GuideSection {
	hasNumeric := false
	for _, answer := range answers {
		if containsDigit(answer) {
			hasNumeric = true
			break
		}
	}
	impactItems := []string{
		"정량 지표(처리량, 오류율, 응답시간)를 1개 이상 넣기",
		"성과 수치가 없다면 로그/관측 근거라도 제시하기",
	}
	if hasNumeric {
		impactItems = []string{
			"성과 수치를 전/후 비교로 명시하기",
			"역할 분리(내 기여 vs 팀 기여) 한 문장 추가하기",
		}
	}
	return []GuideSection{
		{
			Type:  "TECH_DEPTH",
			Title: "기술 깊이 보강 포인트",
			Items: []string{
				"기술 선택 이유를 대안(예: SQL vs NoSQL)과 함께 비교해 설명하기",
				"아키텍처 선택의 트레이드오프를 비용/운영 관점으로 명시하기",
			},
		},
		{
			Type:  "IMPACT",
			Title: "성과/영향 보강 포인트",
			Items: impactItems,
		},
	}
}

// Insight builds the heuristic report and then lets the AI refine it field
// by field, keeping the heuristic value wherever the refinement is missing.
func (p *DeepInterview) Insight(ctx context.Context, contextText string, answers []string) InsightDoc {
	insight := p.ruleInsight(answers)

	var payload struct {
		Summary         string   `json:"summary"`
		StrengthPoints  []string `json:"strengthPoints"`
		WeakPoints      []string `json:"weakPoints"`
		EvidenceQuotes  []string `json:"evidenceQuotes"`
		ActionChecklist []string `json:"actionChecklist"`
	}
	userPrompt := fmt.Sprintf("%s\n\n현재 초안: %+v", contextText, insight)
	if err := p.ai.GenerateInto(ctx, constant.DeepInsightSystemPromptV1, userPrompt, &payload); err != nil {
		return insight
	}
	if payload.Summary != "" {
		insight.Summary = payload.Summary
	}
	if payload.StrengthPoints != nil {
		insight.StrengthPoints = payload.StrengthPoints
	}
	if payload.WeakPoints != nil {
		insight.WeakPoints = payload.WeakPoints
	}
	if payload.EvidenceQuotes != nil {
		insight.EvidenceQuotes = payload.EvidenceQuotes
	}
	if payload.ActionChecklist != nil {
		insight.ActionChecklist = payload.ActionChecklist
	}
	return insight
}

func (p *DeepInterview) ruleInsight(answers []string) InsightDoc {
	if len(answers) == 0 {
		return InsightDoc{
			Summary:         "심층 답변 데이터가 부족합니다.",
			StrengthPoints:  []string{},
			WeakPoints:      []string{"답변 수 부족"},
			EvidenceQuotes:  []string{},
			ActionChecklist: []string{"심층 인터뷰를 3문항 이상 진행하세요."},
		}
	}

	var strength, weak []string
	hasReasoning := false
	hasNumeric := false
	hasCollaboration := false
	for _, answer := range answers {
		if containsAny(answer, []string{"근거", "왜"}) {
			hasReasoning = true
		}
		if containsDigit(answer) {
			hasNumeric = true
		}
		if containsAny(answer, []string{"협업", "팀"}) {
			hasCollaboration = true
		}
	}
	if hasReasoning {
		strength = append(strength, "의사결정 근거를 설명하려는 시도가 보입니다.")
	} else {
		weak = append(weak, "의사결정 근거가 부족합니다.")
	}
	if hasNumeric {
		strength = append(strength, "정량 지표를 일부 포함하고 있습니다.")
	} else {
		weak = append(weak, "정량 성과 표현이 부족합니다.")
	}
	if hasCollaboration {
		strength = append(strength, "협업 맥락 설명이 포함되어 있습니다.")
	} else {
		weak = append(weak, "협업/조율 맥락이 부족합니다.")
	}
	if len(strength) == 0 {
		strength = []string{"문제 해결 의지는 확인됩니다."}
	}

	quotes := make([]string, 0, 3)
	for _, answer := range answers {
		if len(quotes) == 3 {
			break
		}
		quotes = append(quotes, truncate(answer, 120))
	}

	return InsightDoc{
		Summary:        fmt.Sprintf("총 %d개 답변 기반으로 프로젝트 이해도를 점검했습니다.", len(answers)),
		StrengthPoints: strength,
		WeakPoints:     weak,
		EvidenceQuotes: quotes,
		ActionChecklist: []string{
			"기술 선택 이유를 대안 비교로 설명하기",
			"성과 수치 최소 1개 포함하기",
			"내 역할과 팀 역할 분리하기",
		},
	}
}

func metaStrings(meta map[string]interface{}, key string) []string {
	raw, ok := meta[key]
	if !ok {
		return []string{}
	}
	switch value := raw.(type) {
	case []string:
		return value
	case []interface{}:
		out := make([]string, 0, len(value))
		for _, item := range value {
			out = append(out, fmt.Sprint(item))
		}
		return out
	default:
		return []string{}
	}
}
