package strategy

import (
	"math"
	"time"

	"svw.info/knucklebones/internal/board"
	"svw.info/knucklebones/internal/domain"
	"svw.info/knucklebones/internal/ports"
)

// SearchDepth is the number of simulated turns after the bot's placement.
const SearchDepth = 2

// Hard runs an exhaustive expectimax search: the opponent replies with its
// worst-for-us column, the bot answers with its best, and each simulated turn
// is averaged over the six faces of the unknown die.
type Hard struct{}

func (s Hard) Choose(own, opp domain.Board, die uint8) (int, ports.Stats, error) {
	evals, st := s.Evaluate(own, opp, die)
	col, err := Best(evals)
	return col, st, err
}

func (Hard) Evaluate(own, opp domain.Board, die uint8) ([]domain.ColumnEval, ports.Stats) {
	start := time.Now()
	var sr searcher
	cols := board.AvailableColumns(own)
	evals := make([]domain.ColumnEval, 0, len(cols))
	for _, c := range cols {
		mine, theirs := board.SimulatePlacement(own, opp, c, die)
		evals = append(evals, domain.ColumnEval{
			Column: c,
			Score:  sr.search(mine, theirs, SearchDepth, false),
		})
	}
	return evals, ports.Stats{Nodes: sr.nodes, Duration: time.Since(start)}
}

type searcher struct {
	nodes int
}

// search values (my, opp) from the bot's point of view; my is always the
// bot's board regardless of whose turn is simulated.
func (s *searcher) search(my, opp domain.Board, depth int, maximizing bool) float64 {
	s.nodes++
	if depth == 0 || board.IsFull(my) || board.IsFull(opp) {
		return margin(my, opp)
	}

	if maximizing {
		cols := board.AvailableColumns(my)
		if len(cols) == 0 {
			return margin(my, opp)
		}
		sum := 0.0
		for die := uint8(1); die <= domain.Faces; die++ {
			top := math.Inf(-1)
			for _, c := range cols {
				m, o := board.SimulatePlacement(my, opp, c, die)
				top = max(top, s.search(m, o, depth-1, false))
			}
			sum += top
		}
		return sum / domain.Faces
	}

	cols := board.AvailableColumns(opp)
	if len(cols) == 0 {
		return margin(my, opp)
	}
	sum := 0.0
	for die := uint8(1); die <= domain.Faces; die++ {
		low := math.Inf(1)
		for _, c := range cols {
			o, m := board.SimulatePlacement(opp, my, c, die)
			low = min(low, s.search(m, o, depth-1, true))
		}
		sum += low
	}
	return sum / domain.Faces
}

func margin(my, opp domain.Board) float64 {
	return float64(board.TotalScore(my) - board.TotalScore(opp))
}
