package sequence

import (
	"context"
	"time"

	"careercoach-be/internal/entity"
	"careercoach-be/internal/repository/contract"

	"github.com/google/uuid"
)

// Sequencer guards turn-index integrity for a session. Indices are always
// derived from the persisted maximum, never from the session's own counter,
// so retries and out-of-band inspection cannot desynchronize the sequence.
type Sequencer struct {
	turns contract.TurnRepository
}

func New(turns contract.TurnRepository) *Sequencer {
	return &Sequencer{turns: turns}
}

// NextIndex returns one greater than the highest persisted turn_index, or 1
// for a fresh session.
func (s *Sequencer) NextIndex(ctx context.Context, sessionId uuid.UUID) (int, error) {
	max, err := s.turns.MaxTurnIndex(ctx, sessionId)
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}

// Append assigns the next index and persists the turn. When persistence
// fails the turn is not visible at all; the unique (session_id, turn_index)
// index rejects a concurrent duplicate instead of silently reordering.
func (s *Sequencer) Append(ctx context.Context, session *entity.Session, turn *entity.Turn) (*entity.Turn, error) {
	index, err := s.NextIndex(ctx, session.Id)
	if err != nil {
		return nil, err
	}
	return s.AppendAt(ctx, session, turn, index)
}

// AppendAt persists the turn at an explicit index. Callers appending a batch
// compute the base index once and step it themselves.
func (s *Sequencer) AppendAt(ctx context.Context, session *entity.Session, turn *entity.Turn, index int) (*entity.Turn, error) {
	turn.Id = uuid.New()
	turn.SessionId = session.Id
	turn.ProjectId = session.ProjectId
	turn.UserId = session.UserId
	turn.TurnIndex = index
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = time.Now()
	}
	if err := s.turns.Create(ctx, turn); err != nil {
		return nil, err
	}
	return turn, nil
}
