package strategy

import (
	"time"

	"lukechampine.com/frand"

	"svw.info/knucklebones/internal/board"
	"svw.info/knucklebones/internal/domain"
	"svw.info/knucklebones/internal/ports"
)

// Intn returns a uniform int in [0, n). *math/rand.Rand satisfies it.
type Intn interface {
	Intn(n int) int
}

type frandSource struct{}

func (frandSource) Intn(n int) int { return frand.Intn(n) }

// Easy picks uniformly among open columns.
type Easy struct {
	Rand Intn
}

// NewEasy uses r for column draws, or a CSPRNG when r is nil.
func NewEasy(r Intn) *Easy {
	if r == nil {
		r = frandSource{}
	}
	return &Easy{Rand: r}
}

func (s *Easy) Choose(own, _ domain.Board, _ uint8) (int, ports.Stats, error) {
	start := time.Now()
	cols := board.AvailableColumns(own)
	if len(cols) == 0 {
		return -1, ports.Stats{Duration: time.Since(start)}, domain.ErrInvalidState
	}
	r := s.Rand
	if r == nil {
		r = frandSource{}
	}
	return cols[r.Intn(len(cols))], ports.Stats{Nodes: 1, Duration: time.Since(start)}, nil
}

// Evaluate reports the probability of each open column being drawn.
func (s *Easy) Evaluate(own, _ domain.Board, _ uint8) ([]domain.ColumnEval, ports.Stats) {
	start := time.Now()
	cols := board.AvailableColumns(own)
	evals := make([]domain.ColumnEval, 0, len(cols))
	for _, c := range cols {
		evals = append(evals, domain.ColumnEval{Column: c, Score: 1 / float64(len(cols))})
	}
	return evals, ports.Stats{Nodes: len(cols), Duration: time.Since(start)}
}
