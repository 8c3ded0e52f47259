package policy

import (
	"context"
	"fmt"
	"strings"

	"careercoach-be/internal/constant"
	"careercoach-be/internal/entity"
	"careercoach-be/pkg/coach/score"
	"careercoach-be/pkg/genai"
)

const defaultSimulationMaxTurns = 10

// Simulation presets. The scenario preset is the scripted multi-persona
// pressure run with a turn ceiling; the persona preset is the older
// open-ended single-persona chat that only completes on an explicit
// analyze call.
const (
	SimPresetScenario = "scenario"
	SimPresetPersona  = "persona"
)

// SimMessage is one NPC utterance surfaced to the candidate.
type SimMessage struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
	Intent  string `json:"intent"`
}

var (
	simFallbackSpeakers = []string{"기획자", "디자이너", "백엔드", "고객"}
	simFallbackPrompts  = []string{
		"좋아요, 근데 오늘 안에 절대 필요한 항목 2개만 선택해보세요.",
		"변경 요구를 반영하면 QA 일정이 밀려요. 어떤 기준으로 자를 건가요?",
		"API 한계가 있어요. 프론트에서 어떤 완충 UX를 제안할 수 있죠?",
		"고객 클레임이 들어왔어요. 지금 팀에 어떤 메시지를 먼저 공유하죠?",
	}
)

// JobSimulation stages a multi-stakeholder work crisis and scores how the
// candidate communicates through it.
type JobSimulation struct {
	ai       *genai.Adapter
	maxTurns int
}

func NewJobSimulation(ai *genai.Adapter, maxTurns int) *JobSimulation {
	if maxTurns <= 0 {
		maxTurns = defaultSimulationMaxTurns
	}
	return &JobSimulation{ai: ai, maxTurns: maxTurns}
}

func (p *JobSimulation) Mode() string {
	return constant.SessionModeJobSimulation
}

func sessionPreset(session *entity.Session) string {
	if session == nil || session.Meta == nil {
		return SimPresetScenario
	}
	if preset, ok := session.Meta["preset"].(string); ok && preset != "" {
		return preset
	}
	return SimPresetScenario
}

func (p *JobSimulation) BuildContext(subject Subject, session *entity.Session, turns []*entity.Turn) string {
	role := "미지정"
	scenario := "미지정"
	if session != nil && session.Meta != nil {
		if value, ok := session.Meta["role"].(string); ok && value != "" {
			role = value
		}
		if value, ok := session.Meta["scenario"]; ok {
			scenario = fmt.Sprint(value)
		}
	}
	lines := []string{
		fmt.Sprintf("지원 직무: %s", role),
		fmt.Sprintf("시나리오: %s", scenario),
		"대화 로그:",
	}
	lines = append(lines, transcriptLines(turns)...)
	return strings.Join(lines, "\n")
}

func transcriptLines(turns []*entity.Turn) []string {
	lines := make([]string, 0, len(turns))
	for _, turn := range turns {
		speaker := turn.Speaker
		if speaker == "" {
			speaker = turn.Role
		}
		content := turn.Message
		if content == "" {
			content = turn.Answer
		}
		if content == "" {
			content = turn.Prompt
		}
		lines = append(lines, fmt.Sprintf("[%s] %s", speaker, content))
	}
	return lines
}

// UserTurnCount counts the user utterances in the turn list.
func UserTurnCount(turns []*entity.Turn) int {
	count := 0
	for _, turn := range turns {
		if turn.Role == constant.TurnRoleUser && (turn.Message != "" || turn.Answer != "") {
			count++
		}
	}
	return count
}

func canonicalDelta() map[string]int {
	return map[string]int{"communication": 0, "stress": 0, "problemSolving": 0}
}

// normalizeDelta keeps only the three canonical dimensions, defaulting any
// missing one to zero.
func normalizeDelta(raw map[string]float64) map[string]int {
	delta := canonicalDelta()
	for key := range delta {
		if value, ok := raw[key]; ok {
			delta[key] = int(value)
		}
	}
	return delta
}

type simScenarioPayload struct {
	Headline        string                 `json:"headline"`
	Bullets         []string               `json:"bullets"`
	ExpectedMinutes int                    `json:"expectedMinutes"`
	Scenario        map[string]interface{} `json:"scenario"`
	OpeningMessages []SimMessage           `json:"openingMessages"`
}

func (p *JobSimulation) fallbackOpening(role string) simScenarioPayload {
	return simScenarioPayload{
		Headline: "멀티 페르소나 압박 시뮬레이션",
		Bullets: []string{
			"기획자/디자이너/백엔드가 동시에 요구사항을 제시합니다.",
			"당신은 우선순위와 커뮤니케이션 전략으로 상황을 풀어야 합니다.",
			"답변 흐름을 기반으로 커뮤니케이션 적합도를 평가합니다.",
		},
		ExpectedMinutes: 12,
		Scenario: map[string]interface{}{
			"roleLabel":   role,
			"difficulty":  "중급",
			"description": "런칭 당일, 디자인 변경/기획 요구/백엔드 제약이 동시에 발생했습니다.",
			"goals":       []string{"시간 관리", "의사소통", "위기 대처"},
		},
		OpeningMessages: []SimMessage{
			{Speaker: "기획자", Text: "핵심 KPI 때문에 오늘 안에 기능 우선순위를 바꿔야 해요.", Intent: "우선순위 재조정 압박"},
			{Speaker: "디자이너", Text: "새 브랜딩 가이드 반영이 필요해요. 지금 수정 가능해요?", Intent: "디자인 변경 협상"},
			{Speaker: "백엔드", Text: "API 응답이 느려서 프론트 단에서 완충 전략이 필요합니다.", Intent: "기술 제약 공유"},
		},
	}
}

func (p *JobSimulation) Open(ctx context.Context, subject Subject, cfg StartConfig) (*Opening, error) {
	if cfg.Variant == SimPresetPersona {
		return p.openPersona(ctx, subject, cfg)
	}
	return p.openScenario(ctx, subject, cfg)
}

func (p *JobSimulation) openScenario(ctx context.Context, subject Subject, cfg StartConfig) (*Opening, error) {
	maxTurns := cfg.TotalItems
	if maxTurns <= 0 {
		maxTurns = p.maxTurns
	}

	opening := p.fallbackOpening(cfg.Role)
	var generated simScenarioPayload
	userPrompt := fmt.Sprintf(
		"직무: %s\n회사: %s\n지원 포지션: %s\nscenarioId: %s\n서로 충돌하는 요구가 나타나는 상황을 만들어라.",
		cfg.Role, subject.CompanyName, subject.RoleTitle, cfg.ScenarioId,
	)
	if err := p.ai.GenerateInto(ctx, constant.SimScenarioSystemPromptV1, userPrompt, &generated); err == nil && len(generated.OpeningMessages) > 0 {
		opening = generated
	}

	headline := opening.Headline
	if headline == "" {
		headline = "직무 시뮬레이션을 시작합니다."
	}

	turns := []*entity.Turn{
		{
			Role:    constant.TurnRoleSystem,
			Speaker: "시스템",
			Message: headline,
			Intent:  "시뮬레이션 시작 안내",
			Meta:    map[string]interface{}{"scenario": opening.Scenario},
		},
	}
	for i, row := range opening.OpeningMessages {
		if i == 3 {
			break
		}
		speaker := row.Speaker
		if speaker == "" {
			speaker = "기획자"
		}
		intent := row.Intent
		if intent == "" {
			intent = "압박 상황 제시"
		}
		turns = append(turns, &entity.Turn{
			Role:       constant.TurnRoleNPC,
			Speaker:    speaker,
			Message:    row.Text,
			Intent:     intent,
			ScoreDelta: canonicalDelta(),
		})
	}

	return &Opening{
		TotalItems: maxTurns,
		Meta: map[string]interface{}{
			"preset":     SimPresetScenario,
			"role":       cfg.Role,
			"scenarioId": cfg.ScenarioId,
			"maxTurns":   maxTurns,
			"scenario":   opening.Scenario,
			"headline":   opening.Headline,
		},
		Turns: turns,
		Extra: map[string]interface{}{
			"headline":        opening.Headline,
			"bullets":         opening.Bullets,
			"expectedMinutes": opening.ExpectedMinutes,
			"scenario":        opening.Scenario,
		},
	}, nil
}

type simPersonaPayload struct {
	Response   string             `json:"response"`
	Persona    string             `json:"persona"`
	Intent     string             `json:"intent"`
	Feedback   string             `json:"feedback"`
	ScoreDelta map[string]float64 `json:"score_delta"`
}

// openEndedDelta keeps whatever dimensions the model produced; the persona
// preset scores on an open dimension set.
func openEndedDelta(raw map[string]float64) map[string]int {
	if len(raw) == 0 {
		return nil
	}
	delta := make(map[string]int, len(raw))
	for key, value := range raw {
		delta[key] = int(value)
	}
	return delta
}

func (p *JobSimulation) openPersona(ctx context.Context, subject Subject, cfg StartConfig) (*Opening, error) {
	role := cfg.Role
	if role == "" {
		role = "직무"
	}

	turn := &entity.Turn{
		Role:    constant.TurnRoleAI,
		Speaker: "AI 시뮬레이터",
		Message: fmt.Sprintf("%s 상황 면접을 시작합니다. 가장 까다로운 이슈를 먼저 설명해보세요.", role),
		Intent:  "상황 적응력 확인",
	}

	var generated simPersonaPayload
	userPrompt := fmt.Sprintf(
		"아래 정보를 바탕으로 시뮬레이션을 시작해라.\n직무: %s\n회사: %s\n공고 요약: %s\n첫 대사를 생성하고 JSON으로 응답해라.",
		role, subject.CompanyName, truncate(subject.PostingText, 500),
	)
	if err := p.ai.GenerateInto(ctx, constant.SimPersonaSystemPromptV1, userPrompt, &generated); err == nil {
		if generated.Persona != "" {
			turn.Speaker = generated.Persona
		}
		if generated.Response != "" {
			turn.Message = generated.Response
		}
		if generated.Intent != "" {
			turn.Intent = generated.Intent
		}
		turn.Feedback = generated.Feedback
		turn.ScoreDelta = openEndedDelta(generated.ScoreDelta)
	}

	return &Opening{
		CurrentIndex: 2,
		Meta: map[string]interface{}{
			"preset": SimPresetPersona,
			"role":   role,
		},
		Turns: []*entity.Turn{turn},
	}, nil
}

type simTurnPayload struct {
	Messages     []SimMessage       `json:"messages"`
	ScoreDelta   map[string]float64 `json:"scoreDelta"`
	Tags         []string           `json:"tags"`
	ShouldFinish bool               `json:"shouldFinish"`
}

// fallbackReply infers a delta from priority/collaboration/risk vocabulary
// and picks one canned pressure prompt from the rotating list.
func (p *JobSimulation) fallbackReply(text string, turn int) simTurnPayload {
	lower := strings.ToLower(text)
	var tags []string
	delta := canonicalDelta()
	if strings.Contains(text, "우선") || strings.Contains(lower, "priority") {
		tags = append(tags, "우선순위 명확")
		delta["problemSolving"]++
	}
	if containsAny(text, []string{"공유", "협업", "소통"}) {
		tags = append(tags, "소통 시도")
		delta["communication"]++
	}
	if containsAny(text, []string{"리스크", "위험", "대응"}) {
		tags = append(tags, "리스크 인지")
		delta["stress"]++
	}
	if len(tags) == 0 {
		tags = append(tags, "근거 보강 필요")
	}

	floatDelta := make(map[string]float64, len(delta))
	for key, value := range delta {
		floatDelta[key] = float64(value)
	}
	return simTurnPayload{
		Messages: []SimMessage{
			{
				Speaker: simFallbackSpeakers[(turn-1)%len(simFallbackSpeakers)],
				Text:    simFallbackPrompts[(turn-1)%len(simFallbackPrompts)],
				Intent:  "압박 질문",
			},
		},
		ScoreDelta: floatDelta,
		Tags:       tags,
	}
}

func (p *JobSimulation) NextStep(ctx context.Context, in StepInput) (*StepDecision, error) {
	if sessionPreset(in.Session) == SimPresetPersona {
		return p.personaStep(ctx, in)
	}
	return p.scenarioStep(ctx, in)
}

func (p *JobSimulation) scenarioStep(ctx context.Context, in StepInput) (*StepDecision, error) {
	session := in.Session
	currentUserTurn := UserTurnCount(in.History) + 1

	userTurn := &entity.Turn{
		Role:    constant.TurnRoleUser,
		Speaker: "나",
		Answer:  in.Answer,
		Message: in.Answer,
	}

	transcript := append(transcriptLines(in.History), fmt.Sprintf("[나] %s", in.Answer))
	scenario := ""
	if session.Meta != nil {
		scenario = fmt.Sprint(session.Meta["scenario"])
	}
	var reply simTurnPayload
	userPrompt := fmt.Sprintf(
		"시나리오: %s\n현재 사용자 턴: %d\n대화 로그:\n%s\n사용자에게 스트레스를 주되 현실적인 업무 상황으로 메시지를 생성해라.",
		scenario, currentUserTurn, strings.Join(transcript, "\n"),
	)
	if err := p.ai.GenerateInto(ctx, constant.SimTurnSystemPromptV1, userPrompt, &reply); err != nil || len(reply.Messages) == 0 {
		reply = p.fallbackReply(in.Answer, currentUserTurn)
	}

	delta := normalizeDelta(reply.ScoreDelta)
	replies := make([]*entity.Turn, 0, 2)
	for i, row := range reply.Messages {
		if i == 2 {
			break
		}
		speaker := row.Speaker
		if speaker == "" {
			speaker = "기획자"
		}
		intent := row.Intent
		if intent == "" {
			intent = "압박 질의"
		}
		replies = append(replies, &entity.Turn{
			Role:       constant.TurnRoleNPC,
			Speaker:    speaker,
			Message:    row.Text,
			Intent:     intent,
			Feedback:   strings.Join(reply.Tags, ", "),
			ScoreDelta: delta,
		})
	}

	maxTurns := p.maxTurns
	if session.TotalItems != nil && *session.TotalItems > 0 {
		maxTurns = *session.TotalItems
	}
	done := currentUserTurn >= maxTurns || reply.ShouldFinish

	extra := map[string]interface{}{
		"turn": currentUserTurn,
		"lightFeedback": map[string]interface{}{
			"tags":  reply.Tags,
			"delta": delta,
		},
	}
	if done {
		extra["resultUrl"] = fmt.Sprintf("/v1/simulations/sessions/%s/result", session.Id)
	}

	return &StepDecision{
		UserTurn:  userTurn,
		Replies:   replies,
		NextIndex: currentUserTurn + 1,
		Complete:  done,
		Extra:     extra,
	}, nil
}

func (p *JobSimulation) personaStep(ctx context.Context, in StepInput) (*StepDecision, error) {
	userTurn := &entity.Turn{
		Role:    constant.TurnRoleUser,
		Speaker: "나",
		Answer:  in.Answer,
		Message: in.Answer,
	}
	if !in.AutoReply {
		return &StepDecision{UserTurn: userTurn}, nil
	}

	reply := &entity.Turn{
		Role:    constant.TurnRoleAI,
		Speaker: "AI 시뮬레이터",
		Prompt:  "압박 꼬리 질문",
		Message: "답변을 더 구체적으로 설명해 주세요.",
		Intent:  "의사결정 근거 확인",
	}

	recent := in.History
	if len(recent) > 10 {
		recent = recent[len(recent)-10:]
	}
	var generated simPersonaPayload
	userPrompt := fmt.Sprintf(
		"%s\n\n사용자 최신 답변:\n%s",
		p.BuildContext(in.Subject, in.Session, recent), in.Answer,
	)
	if err := p.ai.GenerateInto(ctx, constant.SimPersonaTurnSystemPromptV1, userPrompt, &generated); err == nil {
		if generated.Persona != "" {
			reply.Speaker = generated.Persona
		}
		if generated.Response != "" {
			reply.Message = generated.Response
		}
		if generated.Intent != "" {
			reply.Prompt = generated.Intent
			reply.Intent = generated.Intent
		}
		reply.Feedback = generated.Feedback
		reply.ScoreDelta = openEndedDelta(generated.ScoreDelta)
	}

	return &StepDecision{
		UserTurn: userTurn,
		Replies:  []*entity.Turn{reply},
	}, nil
}

func (p *JobSimulation) IsComplete(session *entity.Session, turns []*entity.Turn) bool {
	if session.Status == constant.SessionStatusCompleted {
		return true
	}
	if sessionPreset(session) == SimPresetPersona {
		// Completion is caller-driven for the open-ended chat.
		return false
	}
	maxTurns := p.maxTurns
	if session.TotalItems != nil && *session.TotalItems > 0 {
		maxTurns = *session.TotalItems
	}
	return UserTurnCount(turns) >= maxTurns
}

func (p *JobSimulation) InitialScore() map[string]int {
	return canonicalDelta()
}

func (p *JobSimulation) Summarize(ctx context.Context, session *entity.Session, turns []*entity.Turn) map[string]interface{} {
	if sessionPreset(session) == SimPresetPersona {
		return p.summarizePersona(ctx, session, turns)
	}
	return p.buildScenarioResult(session, turns)
}

// buildScenarioResult derives the report purely from the turn history:
// baseline 65 plus every score delta, clamped to [1, 100].
func (p *JobSimulation) buildScenarioResult(session *entity.Session, turns []*entity.Turn) map[string]interface{} {
	fit := clampInt(65+score.Sum(turns), 1, 100)
	rank := "상위 45%"
	if fit >= 85 {
		rank = "상위 8%"
	} else if fit >= 70 {
		rank = "상위 20%"
	}
	roleLabel := "직무"
	if session.Meta != nil {
		if value, ok := session.Meta["role"].(string); ok && value != "" {
			roleLabel = value
		}
	}

	return map[string]interface{}{
		"sessionId":       session.Id.String(),
		"fitScorePercent": fit,
		"roleLabel":       roleLabel,
		"rankLabel":       rank,
		"summaryMetrics": map[string]interface{}{
			"tech":           float64(fit) / 10,
			"analysisCount":  len(turns),
			"spentTimeHours": 48,
		},
		"bestMoment": map[string]interface{}{
			"title":       "Best 순간",
			"text":        "이해관계자 요구를 분리하고 우선순위를 제시한 답변이 강점이었습니다.",
			"dateLabel":   "2025.03",
			"impactLabel": "+15% 영향력",
		},
		"worstMoment": map[string]interface{}{
			"title":     "Worst 순간",
			"text":      "근거 없이 단답형으로 응답한 구간에서 설득력이 낮아졌습니다.",
			"dateLabel": "2025.02",
			"tag":       "개선 필요",
		},
		"durability": []map[string]interface{}{
			{"key": "stress", "label": "스트레스 내성", "level": 0.72},
			{"key": "focus", "label": "업무 집중력", "level": 0.69},
			{"key": "feedback", "label": "피드백 수용", "level": 0.8},
		},
		"recommendations": []map[string]interface{}{
			{
				"title": "보완점 추천",
				"text":  "결론→근거→리스크→대안 순으로 답변하면 이해관계자 설득력이 올라갑니다.",
				"tags":  []string{"커뮤니케이션", "우선순위"},
			},
		},
		"cta": map[string]interface{}{
			"label":    "메타인지 리포트 상세 보기",
			"deepLink": fmt.Sprintf("app://simulation-report/%s", session.Id),
		},
	}
}

func (p *JobSimulation) summarizePersona(ctx context.Context, session *entity.Session, turns []*entity.Turn) map[string]interface{} {
	summary := score.Aggregate(turns)
	report := map[string]interface{}{
		"archetype":      "실전형",
		"summary":        "대화를 기반으로 커뮤니케이션/책임감/협업 점수를 집계했습니다.",
		"best_moment":    "근거를 제시한 답변",
		"worst_moment":   "근거가 부족한 답변",
		"resume_snippet": "압박 상황에서도 우선순위를 재정의하며 문제를 해결했습니다.",
	}

	var generated struct {
		Archetype     string `json:"archetype"`
		Summary       string `json:"summary"`
		BestMoment    string `json:"best_moment"`
		WorstMoment   string `json:"worst_moment"`
		ResumeSnippet string `json:"resume_snippet"`
	}
	userPrompt := fmt.Sprintf(
		"%s\n\n점수 요약: %v",
		p.BuildContext(Subject{}, session, turns), summary,
	)
	if err := p.ai.GenerateInto(ctx, constant.SimPersonaReportPromptV1, userPrompt, &generated); err == nil {
		if generated.Archetype != "" {
			report["archetype"] = generated.Archetype
		}
		if generated.Summary != "" {
			report["summary"] = generated.Summary
		}
		if generated.BestMoment != "" {
			report["best_moment"] = generated.BestMoment
		}
		if generated.WorstMoment != "" {
			report["worst_moment"] = generated.WorstMoment
		}
		if generated.ResumeSnippet != "" {
			report["resume_snippet"] = generated.ResumeSnippet
		}
	}

	return map[string]interface{}{
		"sessionType":  constant.SessionModeJobSimulation,
		"scoreSummary": summary,
		"report":       report,
		"turnCount":    len(turns),
	}
}

// RefineResult lets the AI sharpen an already materialized scenario report.
// Each field is validated before it overwrites the deterministic value.
func (p *JobSimulation) RefineResult(ctx context.Context, session *entity.Session, turns []*entity.Turn, base map[string]interface{}) map[string]interface{} {
	var generated struct {
		FitScorePercent *float64           `json:"fitScorePercent"`
		RankLabel       string             `json:"rankLabel"`
		BestMomentText  string             `json:"bestMomentText"`
		WorstMomentText string             `json:"worstMomentText"`
		RecommendText   string             `json:"recommendText"`
		Durability      map[string]float64 `json:"durability"`
	}
	userPrompt := fmt.Sprintf(
		"%s\n기본결과: %v\n기본결과를 참고해 더 정확한 리포트 값으로 보정해라.",
		p.BuildContext(Subject{}, session, turns), base,
	)
	if err := p.ai.GenerateInto(ctx, constant.SimResultSystemPromptV1, userPrompt, &generated); err != nil {
		return base
	}

	refined := make(map[string]interface{}, len(base))
	for key, value := range base {
		refined[key] = value
	}
	if generated.FitScorePercent != nil {
		refined["fitScorePercent"] = clampInt(int(*generated.FitScorePercent), 1, 100)
	}
	if generated.RankLabel != "" {
		refined["rankLabel"] = generated.RankLabel
	}
	if generated.BestMomentText != "" {
		if moment := detachMap(refined, "bestMoment"); moment != nil {
			moment["text"] = generated.BestMomentText
		}
	}
	if generated.WorstMomentText != "" {
		if moment := detachMap(refined, "worstMoment"); moment != nil {
			moment["text"] = generated.WorstMomentText
		}
	}
	if generated.RecommendText != "" {
		if rows := detachRecommendations(refined); len(rows) > 0 {
			rows[0]["text"] = generated.RecommendText
		}
	}
	if generated.Durability != nil {
		level := func(key string) float64 {
			if value, ok := generated.Durability[key]; ok {
				return value
			}
			return 0.7
		}
		refined["durability"] = []map[string]interface{}{
			{"key": "stress", "label": "스트레스 내성", "level": level("stress")},
			{"key": "focus", "label": "업무 집중력", "level": level("focus")},
			{"key": "feedback", "label": "피드백 수용", "level": level("feedback")},
		}
	}
	return refined
}

// detachMap replaces refined[key] with a copy and returns it, so nested
// writes never reach the base map the caller handed in.
func detachMap(refined map[string]interface{}, key string) map[string]interface{} {
	moment, ok := refined[key].(map[string]interface{})
	if !ok {
		return nil
	}
	copied := make(map[string]interface{}, len(moment))
	for k, v := range moment {
		copied[k] = v
	}
	refined[key] = copied
	return copied
}

// detachRecommendations normalizes the recommendation rows. A JSONB reload
// hands the slice back as []interface{}, a fresh result as
// []map[string]interface{}; both come out as detached row copies.
func detachRecommendations(refined map[string]interface{}) []map[string]interface{} {
	raw, ok := refined["recommendations"]
	if !ok {
		return nil
	}
	var rows []map[string]interface{}
	switch value := raw.(type) {
	case []map[string]interface{}:
		rows = make([]map[string]interface{}, 0, len(value))
		for _, row := range value {
			rows = append(rows, detachRow(row))
		}
	case []interface{}:
		rows = make([]map[string]interface{}, 0, len(value))
		for _, item := range value {
			if row, ok := item.(map[string]interface{}); ok {
				rows = append(rows, detachRow(row))
			}
		}
	}
	if len(rows) == 0 {
		return nil
	}
	refined["recommendations"] = rows
	return rows
}

func detachRow(row map[string]interface{}) map[string]interface{} {
	copied := make(map[string]interface{}, len(row))
	for k, v := range row {
		copied[k] = v
	}
	return copied
}
