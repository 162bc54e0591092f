// Package board implements the pure board operations every strategy is built
// on. All functions take and return values; callers' boards are never mutated.
package board

import "svw.info/knucklebones/internal/domain"

// AvailableColumns returns the indices of columns with at least one empty
// slot, in ascending order. A full board yields an empty slice.
func AvailableColumns(b domain.Board) []int {
	cols := make([]int, 0, domain.Cols)
	for c := range b {
		if Open(b[c]) {
			cols = append(cols, c)
		}
	}
	return cols
}

// Open reports whether the column has an empty slot.
func Open(col domain.Column) bool {
	for _, v := range col {
		if v == domain.Empty {
			return true
		}
	}
	return false
}

// IsFull reports whether every slot of every column is filled.
func IsFull(b domain.Board) bool {
	for c := range b {
		if Open(b[c]) {
			return false
		}
	}
	return true
}

// Count returns how many slots in the column hold die.
func Count(col domain.Column, die uint8) int {
	n := 0
	for _, v := range col {
		if v != domain.Empty && v == die {
			n++
		}
	}
	return n
}

// ColumnScore sums face*n*n over the distinct faces of the column.
func ColumnScore(col domain.Column) int {
	var counts [domain.Faces + 1]int
	for _, v := range col {
		if v == domain.Empty || v > domain.Faces {
			continue
		}
		counts[v]++
	}
	score := 0
	for face, n := range counts {
		score += face * n * n
	}
	return score
}

// TotalScore is the sum of the board's column scores.
func TotalScore(b domain.Board) int {
	total := 0
	for c := range b {
		total += ColumnScore(b[c])
	}
	return total
}

// Place writes die into the lowest empty slot of a copy of col. A full column
// is returned unchanged.
func Place(col domain.Column, die uint8) domain.Column {
	for r, v := range col {
		if v == domain.Empty {
			col[r] = die
			break
		}
	}
	return col
}

// Compact moves filled slots to the lowest indices, keeping their order, and
// pads the rest with empty slots.
func Compact(col domain.Column) domain.Column {
	var out domain.Column
	i := 0
	for _, v := range col {
		if v != domain.Empty {
			out[i] = v
			i++
		}
	}
	return out
}

// Cancel clears every slot equal to die and compacts the column.
func Cancel(col domain.Column, die uint8) domain.Column {
	for r, v := range col {
		if v == die {
			col[r] = domain.Empty
		}
	}
	return Compact(col)
}

// SimulatePlacement places die in column of mine and removes matching dice
// from the same column of theirs, returning the two resulting boards.
func SimulatePlacement(mine, theirs domain.Board, column int, die uint8) (domain.Board, domain.Board) {
	mine[column] = Place(mine[column], die)
	theirs[column] = Cancel(theirs[column], die)
	return mine, theirs
}
