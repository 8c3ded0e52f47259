package mapper

import (
	"time"

	"careercoach-be/internal/entity"
	"careercoach-be/internal/model"

	"gorm.io/datatypes"
)

type SessionMapper struct{}

func NewSessionMapper() *SessionMapper {
	return &SessionMapper{}
}

// Session Mappers

func (m *SessionMapper) SessionToEntity(s *model.Session) *entity.Session {
	if s == nil {
		return nil
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	return &entity.Session{
		Id:           s.Id,
		ProjectId:    s.ProjectId,
		UserId:       s.UserId,
		Mode:         s.Mode,
		Status:       s.Status,
		TotalItems:   s.TotalItems,
		CurrentIndex: s.CurrentIndex,
		StartedAt:    s.StartedAt,
		EndedAt:      s.EndedAt,
		DurationSec:  s.DurationSec,
		Meta:         map[string]interface{}(s.Meta),
		Result:       map[string]interface{}(s.Result),
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    updatedAt,
	}
}

func (m *SessionMapper) SessionToModel(s *entity.Session) *model.Session {
	if s == nil {
		return nil
	}

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	return &model.Session{
		Id:           s.Id,
		ProjectId:    s.ProjectId,
		UserId:       s.UserId,
		Mode:         s.Mode,
		Status:       s.Status,
		TotalItems:   s.TotalItems,
		CurrentIndex: s.CurrentIndex,
		StartedAt:    s.StartedAt,
		EndedAt:      s.EndedAt,
		DurationSec:  s.DurationSec,
		Meta:         datatypes.JSONMap(s.Meta),
		Result:       datatypes.JSONMap(s.Result),
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    updatedAt,
	}
}

// Turn Mappers

func (m *SessionMapper) TurnToEntity(t *model.Turn) *entity.Turn {
	if t == nil {
		return nil
	}

	return &entity.Turn{
		Id:         t.Id,
		SessionId:  t.SessionId,
		ProjectId:  t.ProjectId,
		UserId:     t.UserId,
		TurnIndex:  t.TurnIndex,
		Role:       t.Role,
		Speaker:    t.Speaker,
		Prompt:     t.Prompt,
		Answer:     t.Answer,
		Message:    t.Message,
		Intent:     t.Intent,
		Feedback:   t.Feedback,
		Score:      t.Score,
		ScoreDelta: scoreDeltaToEntity(t.ScoreDelta),
		Meta:       map[string]interface{}(t.Meta),
		CreatedAt:  t.CreatedAt,
	}
}

func (m *SessionMapper) TurnToModel(t *entity.Turn) *model.Turn {
	if t == nil {
		return nil
	}

	return &model.Turn{
		Id:         t.Id,
		SessionId:  t.SessionId,
		ProjectId:  t.ProjectId,
		UserId:     t.UserId,
		TurnIndex:  t.TurnIndex,
		Role:       t.Role,
		Speaker:    t.Speaker,
		Prompt:     t.Prompt,
		Answer:     t.Answer,
		Message:    t.Message,
		Intent:     t.Intent,
		Feedback:   t.Feedback,
		Score:      t.Score,
		ScoreDelta: scoreDeltaToModel(t.ScoreDelta),
		Meta:       datatypes.JSONMap(t.Meta),
		CreatedAt:  t.CreatedAt,
	}
}

// JSONB numbers come back as float64; score deltas are integers by contract.
func scoreDeltaToEntity(raw datatypes.JSONMap) map[string]int {
	if raw == nil {
		return nil
	}
	delta := make(map[string]int, len(raw))
	for key, value := range raw {
		switch v := value.(type) {
		case float64:
			delta[key] = int(v)
		case int:
			delta[key] = v
		}
	}
	return delta
}

func scoreDeltaToModel(delta map[string]int) datatypes.JSONMap {
	if delta == nil {
		return nil
	}
	raw := make(datatypes.JSONMap, len(delta))
	for key, value := range delta {
		raw[key] = value
	}
	return raw
}
