// Package engine is the single entry point of the bot: it validates a
// request, selects the strategy for the difficulty and forwards to it.
package engine

import (
	"context"
	"fmt"

	"svw.info/knucklebones/internal/board"
	"svw.info/knucklebones/internal/domain"
	"svw.info/knucklebones/internal/ports"
	"svw.info/knucklebones/internal/strategy"
	"svw.info/knucklebones/internal/validator"
)

// Engine dispatches to one strategy per difficulty. It holds no state
// between calls and is safe for concurrent use when its random source is.
type Engine struct {
	Easy   strategy.Strategy
	Medium strategy.Strategy
	Hard   strategy.Strategy
}

// New builds an Engine whose Easy tier draws from r (a CSPRNG when nil).
func New(r strategy.Intn) *Engine {
	return &Engine{
		Easy:   strategy.NewEasy(r),
		Medium: strategy.Medium{},
		Hard:   strategy.Hard{},
	}
}

var std = New(nil)

// ChooseColumn returns the column the bot fills with die. Unknown difficulty
// tags select the medium strategy.
func ChooseColumn(own, opp domain.Board, die int, difficulty string) (int, error) {
	col, _, err := std.Choose(context.Background(), own, opp, die, domain.ParseDifficulty(difficulty))
	return col, err
}

// For returns the strategy of a difficulty tier.
func (e *Engine) For(d domain.Difficulty) strategy.Strategy {
	switch d {
	case domain.Easy:
		return e.Easy
	case domain.Hard:
		return e.Hard
	default:
		return e.Medium
	}
}

func (e *Engine) Choose(ctx context.Context, own, opp domain.Board, die int, d domain.Difficulty) (int, ports.Stats, error) {
	if err := checkRequest(ctx, own, opp, die); err != nil {
		return -1, ports.Stats{}, err
	}
	return e.For(d).Choose(own, opp, uint8(die))
}

func (e *Engine) Analyze(ctx context.Context, own, opp domain.Board, die int, d domain.Difficulty) ([]domain.ColumnEval, ports.Stats, error) {
	if err := checkRequest(ctx, own, opp, die); err != nil {
		return nil, ports.Stats{}, err
	}
	evals, st := e.For(d).Evaluate(own, opp, uint8(die))
	return evals, st, nil
}

func checkRequest(ctx context.Context, own, opp domain.Board, die int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if die < 1 || die > domain.Faces {
		return fmt.Errorf("%w: die value %d outside 1-%d", domain.ErrInvalidInput, die, domain.Faces)
	}
	if err := validator.Check(own); err != nil {
		return fmt.Errorf("own board: %w", err)
	}
	if err := validator.Check(opp); err != nil {
		return fmt.Errorf("opponent board: %w", err)
	}
	if board.IsFull(own) {
		return domain.ErrInvalidState
	}
	return nil
}
