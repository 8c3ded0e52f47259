package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session is one guided conversation (deep interview, mock interview or job
// simulation). CurrentIndex points at the next expected prompting turn.
type Session struct {
	Id           uuid.UUID
	ProjectId    uuid.UUID
	UserId       uuid.UUID
	Mode         string
	Status       string
	TotalItems   *int
	CurrentIndex int
	StartedAt    *time.Time
	EndedAt      *time.Time
	DurationSec  *int
	Meta         map[string]interface{}
	Result       map[string]interface{}
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

// Turn is one ordered utterance inside a session. TurnIndex values form a
// gapless 1-based sequence per session.
type Turn struct {
	Id         uuid.UUID
	SessionId  uuid.UUID
	ProjectId  uuid.UUID
	UserId     uuid.UUID
	TurnIndex  int
	Role       string
	Speaker    string
	Prompt     string
	Answer     string
	Message    string
	Intent     string
	Feedback   string
	Score      *float64
	ScoreDelta map[string]int
	Meta       map[string]interface{}
	CreatedAt  time.Time
}
