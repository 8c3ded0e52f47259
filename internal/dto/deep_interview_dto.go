package dto

import (
	"github.com/google/uuid"
)

type DeepInterviewStartRequest struct {
	ProjectId uuid.UUID `json:"projectId" validate:"required"`
}

type DeepInterviewQuestion struct {
	QuestionId string `json:"questionId"`
	Prompt     string `json:"prompt"`
}

type DeepInterviewStartResponse struct {
	SessionId      uuid.UUID             `json:"sessionId"`
	TotalQuestions int                   `json:"totalQuestions"`
	CurrentIndex   int                   `json:"currentIndex"`
	FirstQuestion  DeepInterviewQuestion `json:"firstQuestion"`
}

type DeepInterviewAnswerRequest struct {
	SessionId  uuid.UUID `json:"-"`
	QuestionId string    `json:"questionId" validate:"required"`
	Answer     string    `json:"answer" validate:"required"`
}

type DeepInterviewProgress struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

type DeepInterviewAnswerResponse struct {
	NextQuestion *DeepInterviewQuestion `json:"nextQuestion,omitempty"`
	Progress     *DeepInterviewProgress `json:"progress,omitempty"`
	Completed    bool                   `json:"completed"`
	NextStep     string                 `json:"nextStep,omitempty"`
}

type DeepInterviewSessionResponse struct {
	SessionId       uuid.UUID              `json:"sessionId"`
	CurrentIndex    int                    `json:"currentIndex"`
	TotalQuestions  int                    `json:"totalQuestions"`
	CurrentQuestion *DeepInterviewQuestion `json:"currentQuestion"`
}

type GuideSectionResponse struct {
	Type  string   `json:"type"`
	Title string   `json:"title"`
	Items []string `json:"items"`
}

type DeepInterviewGuideResponse struct {
	GuideSections []GuideSectionResponse `json:"guideSections"`
}

type InsightDocResponse struct {
	Summary         string   `json:"summary"`
	StrengthPoints  []string `json:"strengthPoints"`
	WeakPoints      []string `json:"weakPoints"`
	EvidenceQuotes  []string `json:"evidenceQuotes"`
	ActionChecklist []string `json:"actionChecklist"`
}
