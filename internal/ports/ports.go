package ports

import (
	"context"
	"time"

	"svw.info/knucklebones/internal/domain"
)

// Stats captures performance characteristics of an operation.
type Stats struct {
	Nodes    int
	Duration time.Duration
}

// Chooser picks the column a bot fills with an already rolled die.
type Chooser interface {
	Choose(ctx context.Context, own, opp domain.Board, die int, difficulty domain.Difficulty) (int, Stats, error)
}

// Analyzer scores every open column the way a difficulty tier would.
type Analyzer interface {
	Analyze(ctx context.Context, own, opp domain.Board, die int, difficulty domain.Difficulty) ([]domain.ColumnEval, Stats, error)
}

// Generator creates random positions; difficulty sets how crowded the boards are.
type Generator interface {
	Generate(ctx context.Context, seed int64, difficulty domain.Difficulty) (*domain.Position, Stats, error)
}

// Validator checks slot faces and column compaction.
type Validator interface {
	Validate(ctx context.Context, b domain.Board) (ok bool, problems []domain.SlotCoord, err error)
}

// Hinter suggests a placement to a human player.
type Hinter interface {
	Hint(ctx context.Context, own, opp domain.Board, die int) (domain.Hint, bool, error)
}

// Storage persists and retrieves positions.
type Storage interface {
	Save(ctx context.Context, p *domain.Position) error
	Load(ctx context.Context, id string) (*domain.Position, error)
	List(ctx context.Context) ([]domain.PositionMeta, error)
}
