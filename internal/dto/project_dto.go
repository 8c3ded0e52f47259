package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateProjectRequest struct {
	CompanyName string `json:"company_name" validate:"required"`
	RoleTitle   string `json:"role_title" validate:"required"`
	PostingText string `json:"posting_text"`
}

type CreateProjectResponse struct {
	Id uuid.UUID `json:"id"`
}

type ProjectResponse struct {
	Id          uuid.UUID  `json:"id"`
	CompanyName string     `json:"company_name"`
	RoleTitle   string     `json:"role_title"`
	PostingText string     `json:"posting_text"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}
