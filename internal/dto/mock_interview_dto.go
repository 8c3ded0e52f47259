package dto

import (
	"time"

	"github.com/google/uuid"
)

type MockInterviewStartRequest struct {
	Mode          string `json:"mode"`
	QuestionCount int    `json:"questionCount" validate:"omitempty,min=1,max=20"`
}

type MockInterviewQuestion struct {
	QuestionId    string `json:"questionId"`
	Prompt        string `json:"prompt"`
	PrepSeconds   int    `json:"prepSeconds"`
	AnswerSeconds int    `json:"answerSeconds"`
}

type MockInterviewStartResponse struct {
	SessionId      uuid.UUID             `json:"sessionId"`
	TotalQuestions int                   `json:"totalQuestions"`
	CurrentIndex   int                   `json:"currentIndex"`
	FirstQuestion  MockInterviewQuestion `json:"firstQuestion"`
}

type MockInterviewAnswerRequest struct {
	SessionId  uuid.UUID `json:"-"`
	QuestionId string    `json:"questionId" validate:"required"`
	Answer     string    `json:"answer" validate:"required"`
}

type MockInterviewAnswerResponse struct {
	NextQuestion *MockInterviewQuestion `json:"nextQuestion,omitempty"`
	Progress     *DeepInterviewProgress `json:"progress,omitempty"`
	Completed    bool                   `json:"completed"`
	ResultUrl    string                 `json:"resultUrl,omitempty"`
}

type MockSessionInfo struct {
	SessionId   uuid.UUID  `json:"sessionId"`
	ProjectId   uuid.UUID  `json:"projectId"`
	Title       string     `json:"title"`
	StartedAt   *time.Time `json:"startedAt"`
	DurationSec *int       `json:"durationSec"`
}

type MockScoreItem struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	Percent int    `json:"percent"`
}

type MockOverall struct {
	Score     int             `json:"score"`
	SubScores []MockScoreItem `json:"subScores"`
}

type MockFinding struct {
	Code   string `json:"code"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

type MockQuestionResult struct {
	Index       int     `json:"index"`
	QuestionId  string  `json:"questionId"`
	Prompt      string  `json:"prompt"`
	Intent      string  `json:"intent"`
	UserAnswer  string  `json:"userAnswer"`
	Feedback    string  `json:"feedback"`
	ModelAnswer string  `json:"modelAnswer"`
	Score       float64 `json:"score"`
}

type MockInterviewResultResponse struct {
	SessionInfo MockSessionInfo      `json:"sessionInfo"`
	Overall     MockOverall          `json:"overall"`
	KeyFindings []MockFinding        `json:"keyFindings"`
	Questions   []MockQuestionResult `json:"questions"`
}

type MockInterviewSaveResponse struct {
	SessionId uuid.UUID `json:"sessionId"`
	Saved     bool      `json:"saved"`
	SavedAt   time.Time `json:"savedAt"`
}
