package strategy

import (
	"time"

	"svw.info/knucklebones/internal/board"
	"svw.info/knucklebones/internal/domain"
	"svw.info/knucklebones/internal/ports"
)

const (
	cancelWeight = 1.5
	tripleWeight = 4
)

// Medium scores each open column with a one-ply heuristic: the score gained,
// a bonus for cancelling opponent dice and a bonus for building pairs and
// triples.
type Medium struct{}

func (s Medium) Choose(own, opp domain.Board, die uint8) (int, ports.Stats, error) {
	evals, st := s.Evaluate(own, opp, die)
	col, err := Best(evals)
	return col, st, err
}

func (Medium) Evaluate(own, opp domain.Board, die uint8) ([]domain.ColumnEval, ports.Stats) {
	start := time.Now()
	cols := board.AvailableColumns(own)
	evals := make([]domain.ColumnEval, 0, len(cols))
	for _, c := range cols {
		evals = append(evals, evaluateColumn(own[c], opp[c], c, die))
	}
	return evals, ports.Stats{Nodes: len(cols), Duration: time.Since(start)}
}

func evaluateColumn(mine, theirs domain.Column, c int, die uint8) domain.ColumnEval {
	gain := board.ColumnScore(board.Place(mine, die)) - board.ColumnScore(mine)
	cancelled := board.Count(theirs, die)
	cancel := float64(cancelled) * float64(die) * cancelWeight

	matches := board.Count(mine, die)
	progress := 0
	switch matches {
	case 2:
		progress = int(die) * tripleWeight
	case 1:
		progress = int(die)
	}

	return domain.ColumnEval{
		Column:   c,
		Score:    float64(gain) + cancel + float64(progress),
		OwnGain:  gain,
		Cancel:   cancel,
		Progress: progress,

		Cancelled: cancelled,
		Matches:   matches,
	}
}
