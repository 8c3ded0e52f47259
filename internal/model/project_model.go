package model

import (
	"time"

	"github.com/google/uuid"
)

type Project struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId      uuid.UUID `gorm:"type:uuid;not null;index"`
	CompanyName string    `gorm:"type:text;not null"`
	RoleTitle   string    `gorm:"type:text;not null"`
	PostingText string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (Project) TableName() string {
	return "projects"
}
