package generator

import (
	"context"
	"testing"
	"time"

	"svw.info/knucklebones/internal/board"
	"svw.info/knucklebones/internal/domain"
	"svw.info/knucklebones/internal/engine"
	"svw.info/knucklebones/internal/validator"
)

func countDice(b domain.Board) int {
	n := 0
	for c := range b {
		for _, v := range b[c] {
			if v != domain.Empty {
				n++
			}
		}
	}
	return n
}

func TestGenerateAllDifficulties(t *testing.T) {
	g := NewRandomGenerator()

	cases := []struct {
		name string
		diff domain.Difficulty
		dice int
	}{
		{"easy", domain.Easy, 2},
		{"medium", domain.Medium, 4},
		{"hard", domain.Hard, 7},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()

			for seed := int64(0); seed < 50; seed++ {
				p, st, err := g.Generate(ctx, seed, tc.diff)
				if err != nil {
					t.Fatalf("Generate(%s, %d) failed: %v", tc.name, seed, err)
				}
				if st.Nodes != 2*tc.dice {
					t.Fatalf("nodes = %d, want %d", st.Nodes, 2*tc.dice)
				}
				if n := countDice(p.Own); n != tc.dice {
					t.Fatalf("own board holds %d dice, want %d", n, tc.dice)
				}
				if n := countDice(p.Opponent); n != tc.dice {
					t.Fatalf("opponent board holds %d dice, want %d", n, tc.dice)
				}
				if p.Die < 1 || p.Die > domain.Faces {
					t.Fatalf("die = %d", p.Die)
				}
				if err := validator.Check(p.Own); err != nil {
					t.Fatalf("own board invalid: %v", err)
				}
				if err := validator.Check(p.Opponent); err != nil {
					t.Fatalf("opponent board invalid: %v", err)
				}
				if board.IsFull(p.Own) {
					t.Fatalf("own board is full: %v", p.Own)
				}
			}
		})
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	g := NewRandomGenerator()
	a, _, err := g.Generate(context.Background(), 12345, domain.Hard)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	b, _, err := g.Generate(context.Background(), 12345, domain.Hard)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if a.Own != b.Own || a.Opponent != b.Opponent || a.Die != b.Die {
		t.Fatalf("same seed produced different positions: %+v vs %+v", a, b)
	}
}

// Every generated position is a legal engine request at every difficulty.
func TestGeneratedPositionsAreDecidable(t *testing.T) {
	g := NewRandomGenerator()
	e := engine.New(nil)
	for seed := int64(100); seed < 130; seed++ {
		p, _, err := g.Generate(context.Background(), seed, domain.Hard)
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		for _, d := range []domain.Difficulty{domain.Easy, domain.Medium, domain.Hard} {
			col, _, err := e.Choose(context.Background(), p.Own, p.Opponent, int(p.Die), d)
			if err != nil {
				t.Fatalf("Choose(%v) on seed %d: %v", d, seed, err)
			}
			if !board.Open(p.Own[col]) {
				t.Fatalf("Choose(%v) picked full column %d of %v", d, col, p.Own)
			}
		}
	}
}

func TestGenerateCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := NewRandomGenerator().Generate(ctx, 1, domain.Medium); err == nil {
		t.Fatal("expected error from canceled context")
	}
}
