// Package strategy implements the three bot difficulty tiers. Each strategy
// is stateless apart from the Easy tier's injected random source.
package strategy

import (
	"svw.info/knucklebones/internal/domain"
	"svw.info/knucklebones/internal/ports"
)

// Strategy picks a column for die on own's board.
type Strategy interface {
	Choose(own, opp domain.Board, die uint8) (int, ports.Stats, error)
	Evaluate(own, opp domain.Board, die uint8) ([]domain.ColumnEval, ports.Stats)
}

// Best returns the column with the strictly greatest score. Ties keep the
// earlier entry.
func Best(evals []domain.ColumnEval) (int, error) {
	if len(evals) == 0 {
		return -1, domain.ErrInvalidState
	}
	pick := evals[0]
	for _, e := range evals[1:] {
		if e.Score > pick.Score {
			pick = e
		}
	}
	return pick.Column, nil
}
