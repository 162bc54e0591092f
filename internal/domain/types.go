package domain

import "fmt"

// Board geometry and die domain.
const (
	Cols  = 3
	Rows  = 3
	Faces = 6
)

// Empty marks an unfilled slot.
const Empty uint8 = 0

// Column holds slots bottom-up: index 0 fills first.
type Column [Rows]uint8

// Board is one player's grid. Boards are values, so assignment is a deep copy.
type Board [Cols]Column

// SlotCoord identifies a slot on a board.
type SlotCoord struct {
	Col int `json:"col"`
	Row int `json:"row"`
}

// ColumnEval is the evaluation of one candidate column. The breakdown fields
// are only set by the heuristic strategy.
type ColumnEval struct {
	Column   int     `json:"column"`
	Score    float64 `json:"score"`
	OwnGain  int     `json:"ownGain,omitempty"`
	Cancel   float64 `json:"cancel,omitempty"`
	Progress int     `json:"progress,omitempty"`
	// Cancelled is the number of opponent dice the placement removes.
	Cancelled int `json:"cancelled,omitempty"`
	// Matches counts own dice of the same face already in the column.
	Matches int `json:"matches,omitempty"`
}

// Hint describes a suggested placement for a human player.
type Hint struct {
	Column      int          `json:"column"`
	Message     string       `json:"message,omitempty"`
	Evaluations []ColumnEval `json:"evaluations,omitempty"`
}

// Position is a persisted pair of boards with a pending roll.
type Position struct {
	ID         string     `json:"id,omitempty"`
	Seed       int64      `json:"seed,omitempty"`
	Difficulty Difficulty `json:"difficulty,omitempty"`
	Own        Board      `json:"own"`
	Opponent   Board      `json:"opponent"`
	Die        uint8      `json:"die"`
	CreatedAt  int64      `json:"createdAt,omitempty"`
	// Optional user metadata
	Name  string `json:"name,omitempty"`
	Notes string `json:"notes,omitempty"`
}

// PositionMeta is a lightweight listing entry.
type PositionMeta struct {
	ID         string     `json:"id"`
	Name       string     `json:"name,omitempty"`
	Difficulty Difficulty `json:"difficulty"`
	CreatedAt  int64      `json:"createdAt"`
}

// BoardFromSlices converts a wire board (columns of slots) into a Board,
// rejecting anything that is not 3 columns of 3 slots holding 0-6.
func BoardFromSlices(cols [][]int) (Board, error) {
	var b Board
	if len(cols) != Cols {
		return b, fmt.Errorf("%w: board has %d columns, want %d", ErrInvalidInput, len(cols), Cols)
	}
	for c, col := range cols {
		if len(col) != Rows {
			return Board{}, fmt.Errorf("%w: column %d has %d slots, want %d", ErrInvalidInput, c, len(col), Rows)
		}
		for r, v := range col {
			if v < 0 || v > Faces {
				return Board{}, fmt.Errorf("%w: slot %d/%d holds %d", ErrInvalidInput, c, r, v)
			}
			b[c][r] = uint8(v)
		}
	}
	return b, nil
}

// Slices is the inverse of BoardFromSlices.
func (b Board) Slices() [][]int {
	out := make([][]int, Cols)
	for c := range b {
		out[c] = make([]int, Rows)
		for r, v := range b[c] {
			out[c][r] = int(v)
		}
	}
	return out
}
