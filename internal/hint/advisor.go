package hint

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"svw.info/knucklebones/internal/domain"
	"svw.info/knucklebones/internal/engine"
	"svw.info/knucklebones/internal/strategy"
)

var columnNames = [domain.Cols]string{"left", "middle", "right"}

// Advisor suggests the column the hard bot would pick, explained with the
// heuristic breakdown for that column.
type Advisor struct {
	Engine *engine.Engine
}

func NewAdvisor(e *engine.Engine) *Advisor { return &Advisor{Engine: e} }

// Hint returns found=false when the player's board has no open column.
func (h *Advisor) Hint(ctx context.Context, own, opp domain.Board, die int) (domain.Hint, bool, error) {
	evals, _, err := h.Engine.Analyze(ctx, own, opp, die, domain.Hard)
	if errors.Is(err, domain.ErrInvalidState) {
		return domain.Hint{}, false, nil
	}
	if err != nil {
		return domain.Hint{}, false, err
	}
	col, err := strategy.Best(evals)
	if err != nil {
		return domain.Hint{}, false, err
	}
	breakdown, _, err := h.Engine.Analyze(ctx, own, opp, die, domain.Medium)
	if err != nil {
		return domain.Hint{}, false, err
	}
	var why domain.ColumnEval
	for _, e := range breakdown {
		if e.Column == col {
			why = e
		}
	}
	return domain.Hint{
		Column:      col,
		Message:     message(uint8(die), why),
		Evaluations: evals,
	}, true, nil
}

func message(die uint8, e domain.ColumnEval) string {
	var reasons []string
	if n := e.Cancelled; n > 0 {
		if n == 1 {
			reasons = append(reasons, fmt.Sprintf("removes your opponent's %d", die))
		} else {
			reasons = append(reasons, fmt.Sprintf("removes %d of your opponent's %ds", n, die))
		}
	}
	switch e.Matches {
	case 2:
		reasons = append(reasons, "completes a triple")
	case 1:
		reasons = append(reasons, "makes a pair")
	}
	reasons = append(reasons, fmt.Sprintf("scores %d", e.OwnGain))

	return fmt.Sprintf("Put the %d in the %s column: %s", die, columnNames[e.Column], strings.Join(reasons, ", "))
}
