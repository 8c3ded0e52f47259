package entity

import (
	"time"

	"github.com/google/uuid"
)

// Project is the subject a session is about: the target company/role plus
// whatever reference text has been attached to it.
type Project struct {
	Id          uuid.UUID
	UserId      uuid.UUID
	CompanyName string
	RoleTitle   string
	PostingText string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}
