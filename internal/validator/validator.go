package validator

import (
	"context"
	"fmt"

	"svw.info/knucklebones/internal/domain"
)

type FastValidator struct{}

func New() *FastValidator { return &FastValidator{} }

// Validate reports whether b is a legal board and which slots are not.
func (v *FastValidator) Validate(ctx context.Context, b domain.Board) (bool, []domain.SlotCoord, error) {
	if err := ctx.Err(); err != nil {
		return false, nil, err
	}
	problems := Problems(b)
	return len(problems) == 0, problems, nil
}

// Problems lists every invalid slot of b: faces above 6 and dice resting
// above an empty slot.
func Problems(b domain.Board) []domain.SlotCoord {
	var out []domain.SlotCoord
	for c := range b {
		hole := false
		for r, val := range b[c] {
			switch {
			case val > domain.Faces:
				out = append(out, domain.SlotCoord{Col: c, Row: r})
			case val == domain.Empty:
				hole = true
			case hole:
				out = append(out, domain.SlotCoord{Col: c, Row: r})
			}
		}
	}
	return out
}

// Check returns an ErrInvalidInput error naming the first problem of b.
func Check(b domain.Board) error {
	problems := Problems(b)
	if len(problems) == 0 {
		return nil
	}
	p := problems[0]
	if v := b[p.Col][p.Row]; v > domain.Faces {
		return fmt.Errorf("%w: column %d slot %d holds %d", domain.ErrInvalidInput, p.Col, p.Row, v)
	}
	return fmt.Errorf("%w: column %d is not compact", domain.ErrInvalidInput, p.Col)
}
