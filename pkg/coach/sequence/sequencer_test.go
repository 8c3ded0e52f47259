package sequence

import (
	"context"
	"errors"
	"testing"

	"careercoach-be/internal/entity"
	"careercoach-be/internal/repository/specification"

	"github.com/google/uuid"
)

type fakeTurnRepo struct {
	turns     []*entity.Turn
	createErr error
}

func (f *fakeTurnRepo) Create(ctx context.Context, turn *entity.Turn) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.turns {
		if existing.SessionId == turn.SessionId && existing.TurnIndex == turn.TurnIndex {
			return errors.New("duplicate turn_index")
		}
	}
	f.turns = append(f.turns, turn)
	return nil
}

func (f *fakeTurnRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Turn, error) {
	return nil, nil
}

func (f *fakeTurnRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Turn, error) {
	return f.turns, nil
}

func (f *fakeTurnRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(f.turns)), nil
}

func (f *fakeTurnRepo) MaxTurnIndex(ctx context.Context, sessionId uuid.UUID) (int, error) {
	max := 0
	for _, turn := range f.turns {
		if turn.SessionId == sessionId && turn.TurnIndex > max {
			max = turn.TurnIndex
		}
	}
	return max, nil
}

func TestNextIndexFreshSession(t *testing.T) {
	seq := New(&fakeTurnRepo{})

	index, err := seq.NextIndex(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if index != 1 {
		t.Errorf("index = %d, want 1", index)
	}
}

func TestAppendAssignsContiguousIndices(t *testing.T) {
	repo := &fakeTurnRepo{}
	seq := New(repo)
	session := &entity.Session{Id: uuid.New(), ProjectId: uuid.New(), UserId: uuid.New()}

	for i := 1; i <= 3; i++ {
		turn, err := seq.Append(context.Background(), session, &entity.Turn{Role: "user"})
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
		if turn.TurnIndex != i {
			t.Errorf("turn index = %d, want %d", turn.TurnIndex, i)
		}
		if turn.Id == uuid.Nil {
			t.Error("turn id not assigned")
		}
		if turn.SessionId != session.Id || turn.UserId != session.UserId {
			t.Error("turn not stamped with session identity")
		}
		if turn.CreatedAt.IsZero() {
			t.Error("created_at not stamped")
		}
	}
}

func TestAppendAtDuplicateIndexRejected(t *testing.T) {
	repo := &fakeTurnRepo{}
	seq := New(repo)
	session := &entity.Session{Id: uuid.New()}

	if _, err := seq.AppendAt(context.Background(), session, &entity.Turn{}, 1); err != nil {
		t.Fatalf("first append: %v", err)
	}
	if _, err := seq.AppendAt(context.Background(), session, &entity.Turn{}, 1); err == nil {
		t.Error("expected duplicate index to be rejected")
	}
}

func TestAppendIndependentSessions(t *testing.T) {
	repo := &fakeTurnRepo{}
	seq := New(repo)
	a := &entity.Session{Id: uuid.New()}
	b := &entity.Session{Id: uuid.New()}

	turnA, _ := seq.Append(context.Background(), a, &entity.Turn{})
	turnB, err := seq.Append(context.Background(), b, &entity.Turn{})
	if err != nil {
		t.Fatalf("append on second session: %v", err)
	}
	if turnA.TurnIndex != 1 || turnB.TurnIndex != 1 {
		t.Errorf("sessions share an index space: %d / %d", turnA.TurnIndex, turnB.TurnIndex)
	}
}
