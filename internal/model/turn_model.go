package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Turn struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_turns_session_turn_index,priority:1"`
	ProjectId  uuid.UUID `gorm:"type:uuid;not null;index"`
	UserId     uuid.UUID `gorm:"type:uuid;not null;index"`
	TurnIndex  int       `gorm:"type:integer;not null;uniqueIndex:idx_turns_session_turn_index,priority:2"`
	Role       string    `gorm:"type:varchar(10);not null"`
	Speaker    string    `gorm:"type:varchar(50)"`
	Prompt     string    `gorm:"type:text"`
	Answer     string    `gorm:"type:text"`
	Message    string    `gorm:"type:text"`
	Intent     string    `gorm:"type:text"`
	Feedback   string    `gorm:"type:text"`
	Score      *float64  `gorm:"type:numeric(5,2)"`
	ScoreDelta datatypes.JSONMap `gorm:"type:jsonb"`
	Meta       datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt  time.Time         `gorm:"autoCreateTime"`
}

func (Turn) TableName() string {
	return "session_turns"
}
