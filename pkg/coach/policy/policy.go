package policy

import (
	"context"
	"strings"
	"unicode"

	"careercoach-be/internal/entity"
	"careercoach-be/internal/pkg/apperror"
)

// Subject is the project the session is about, resolved by the caller
// before any policy runs.
type Subject struct {
	CompanyName string
	RoleTitle   string
	PostingText string
}

// StartConfig carries the caller-side knobs for a new session. Zero values
// fall back to per-mode defaults.
type StartConfig struct {
	TotalItems int
	Role       string
	ScenarioId string
	Variant    string
	Meta       map[string]interface{}
}

// Opening is everything a policy contributes to a freshly created session:
// the target item count, the initial session meta, and the opening turns in
// append order. Indices are assigned by the caller.
type Opening struct {
	TotalItems   int
	CurrentIndex int
	Meta         map[string]interface{}
	Turns        []*entity.Turn
	Extra        map[string]interface{}
}

// StepInput is one user utterance plus the state the policy needs to decide
// what happens next. History holds the prior turns in ascending index order
// and never includes the turn being decided.
type StepInput struct {
	Subject    Subject
	Session    *entity.Session
	History    []*entity.Turn
	QuestionId string
	Answer     string
	AutoReply  bool
}

// StepDecision is the policy's verdict on one step. UserTurn is the caller's
// turn decorated with mode-specific fields (score, feedback, meta); Replies
// are appended after it. MetaPatch and ResultPatch are merged key-by-key
// into the session's meta and result. When Complete is set the caller stamps
// the terminal state and asks Summarize for the final result.
type StepDecision struct {
	UserTurn    *entity.Turn
	Replies     []*entity.Turn
	MetaPatch   map[string]interface{}
	ResultPatch map[string]interface{}
	NextIndex   int
	Complete    bool
	NextStep    string
	Extra       map[string]interface{}
}

// ModePolicy is the per-mode decision logic: what opens a session, what each
// user turn produces, when the session is done and what its result looks
// like. Policies are stateless; they never touch persistence and they never
// surface a generation failure as an error.
type ModePolicy interface {
	Mode() string
	Open(ctx context.Context, subject Subject, cfg StartConfig) (*Opening, error)
	NextStep(ctx context.Context, in StepInput) (*StepDecision, error)
	IsComplete(session *entity.Session, turns []*entity.Turn) bool
	BuildContext(subject Subject, session *entity.Session, turns []*entity.Turn) string
	InitialScore() map[string]int
	Summarize(ctx context.Context, session *entity.Session, turns []*entity.Turn) map[string]interface{}
}

// Registry resolves the policy for a session mode once per operation.
type Registry struct {
	byMode map[string]ModePolicy
}

func NewRegistry(policies ...ModePolicy) *Registry {
	byMode := make(map[string]ModePolicy, len(policies))
	for _, p := range policies {
		byMode[p.Mode()] = p
	}
	return &Registry{byMode: byMode}
}

func (r *Registry) For(mode string) (ModePolicy, error) {
	p, ok := r.byMode[mode]
	if !ok {
		return nil, apperror.InvalidState("unsupported session mode: %s", mode)
	}
	return p, nil
}

func expectedQuestionMismatch(expected string) error {
	return apperror.InvalidState("expected questionId=%s", expected)
}

func containsAny(text string, tokens []string) bool {
	for _, token := range tokens {
		if strings.Contains(text, token) {
			return true
		}
	}
	return false
}

func containsDigit(text string) bool {
	for _, r := range text {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}

func clampInt(value, low, high int) int {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}
