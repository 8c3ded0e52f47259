package dto

import (
	"github.com/google/uuid"
)

type SimulationPreviewResponse struct {
	ProjectId       uuid.UUID              `json:"projectId"`
	Title           string                 `json:"title"`
	Intro           map[string]interface{} `json:"intro"`
	ScenarioPreview map[string]interface{} `json:"scenarioPreview"`
	Cta             map[string]interface{} `json:"cta"`
}

type SimulationStartRequest struct {
	Role       string `json:"role" validate:"required"`
	ScenarioId string `json:"scenarioId"`
	MaxTurns   int    `json:"maxTurns" validate:"omitempty,min=1,max=30"`
}

type SimulationMessage struct {
	MessageId string `json:"messageId"`
	Role      string `json:"role"`
	Speaker   string `json:"speaker"`
	Text      string `json:"text"`
}

type SimulationStartResponse struct {
	SessionId uuid.UUID           `json:"sessionId"`
	ProjectId uuid.UUID           `json:"projectId"`
	Status    string              `json:"status"`
	MaxTurns  int                 `json:"maxTurns"`
	Turn      int                 `json:"turn"`
	Messages  []SimulationMessage `json:"messages"`
}

type SimulationSessionResponse struct {
	SessionId uuid.UUID           `json:"sessionId"`
	Status    string              `json:"status"`
	MaxTurns  int                 `json:"maxTurns"`
	Turn      int                 `json:"turn"`
	Messages  []SimulationMessage `json:"messages"`
}

type SimulationTurnRequest struct {
	SessionId uuid.UUID `json:"-"`
	Text      string    `json:"text" validate:"required"`
}

type SimulationTurnResponse struct {
	Turn             int                    `json:"turn"`
	MessagesAppended []SimulationMessage    `json:"messagesAppended"`
	LightFeedback    map[string]interface{} `json:"lightFeedback"`
	Done             bool                   `json:"done"`
	Next             map[string]interface{} `json:"next,omitempty"`
}
