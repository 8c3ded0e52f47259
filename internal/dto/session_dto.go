package dto

import (
	"time"

	"github.com/google/uuid"
)

type StartSessionRequest struct {
	ProjectId   uuid.UUID              `json:"project_id" validate:"required"`
	SessionType string                 `json:"session_type" validate:"required,oneof=DEEP_INTERVIEW MOCK_INTERVIEW JOB_SIMULATION"`
	TotalItems  int                    `json:"total_items" validate:"omitempty,min=1,max=50"`
	Meta        map[string]interface{} `json:"meta"`
}

type SessionResponse struct {
	Id           uuid.UUID              `json:"id"`
	ProjectId    uuid.UUID              `json:"project_id"`
	UserId       uuid.UUID              `json:"user_id"`
	SessionType  string                 `json:"session_type"`
	Status       string                 `json:"status"`
	TotalItems   *int                   `json:"total_items"`
	CurrentIndex int                    `json:"current_index"`
	StartedAt    *time.Time             `json:"started_at"`
	EndedAt      *time.Time             `json:"ended_at"`
	DurationSec  *int                   `json:"duration_sec"`
	Meta         map[string]interface{} `json:"meta"`
	ResultJson   map[string]interface{} `json:"result_json"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    *time.Time             `json:"updated_at"`
}

type TurnResponse struct {
	Id         uuid.UUID              `json:"id"`
	SessionId  uuid.UUID              `json:"session_id"`
	ProjectId  uuid.UUID              `json:"project_id"`
	UserId     uuid.UUID              `json:"user_id"`
	TurnIndex  int                    `json:"turn_index"`
	Role       string                 `json:"role"`
	Speaker    string                 `json:"speaker"`
	Prompt     string                 `json:"prompt"`
	UserAnswer string                 `json:"user_answer"`
	Message    string                 `json:"message"`
	Intent     string                 `json:"intent"`
	Feedback   string                 `json:"feedback"`
	Score      *float64               `json:"score"`
	ScoreDelta map[string]int         `json:"score_delta"`
	Meta       map[string]interface{} `json:"meta"`
	CreatedAt  time.Time              `json:"created_at"`
}

type StartSessionResponse struct {
	Session     SessionResponse `json:"session"`
	InitialTurn *TurnResponse   `json:"initial_turn"`
}

type AppendTurnRequest struct {
	SessionId  uuid.UUID              `json:"-"`
	Role       string                 `json:"role" validate:"required,oneof=system ai npc user"`
	Speaker    string                 `json:"speaker"`
	Prompt     string                 `json:"prompt"`
	UserAnswer string                 `json:"user_answer"`
	Message    string                 `json:"message"`
	Intent     string                 `json:"intent"`
	Feedback   string                 `json:"feedback"`
	Score      *float64               `json:"score"`
	ScoreDelta map[string]int         `json:"score_delta"`
	Meta       map[string]interface{} `json:"meta"`
	AutoReply  bool                   `json:"auto_reply"`
}

type AppendTurnResponse struct {
	Session       SessionResponse `json:"session"`
	CreatedTurn   TurnResponse    `json:"created_turn"`
	GeneratedTurn *TurnResponse   `json:"generated_turn"`
}

type AnalyzeSessionResponse struct {
	Session    SessionResponse        `json:"session"`
	ResultJson map[string]interface{} `json:"result_json"`
}

type SessionDetailResponse struct {
	Session SessionResponse `json:"session"`
	Turns   []TurnResponse  `json:"turns"`
}

// SessionCompletedMessage is the bus payload emitted when a session reaches
// its terminal state.
type SessionCompletedMessage struct {
	SessionId uuid.UUID `json:"session_id"`
	ProjectId uuid.UUID `json:"project_id"`
	UserId    uuid.UUID `json:"user_id"`
	Mode      string    `json:"mode"`
}
