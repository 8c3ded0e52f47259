package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Session struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProjectId    uuid.UUID `gorm:"type:uuid;not null;index"`
	UserId       uuid.UUID `gorm:"type:uuid;not null;index"` // User ownership for data isolation
	Mode         string    `gorm:"type:varchar(30);not null;index"`
	Status       string    `gorm:"type:varchar(20);not null;index"`
	TotalItems   *int      `gorm:"type:integer"`
	CurrentIndex int       `gorm:"type:integer;not null;default:1"`
	StartedAt    *time.Time
	EndedAt      *time.Time
	DurationSec  *int              `gorm:"type:integer"`
	Meta         datatypes.JSONMap `gorm:"type:jsonb"`
	Result       datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt    time.Time         `gorm:"autoCreateTime"`
	UpdatedAt    time.Time         `gorm:"autoUpdateTime"`
}

func (Session) TableName() string {
	return "sessions"
}
