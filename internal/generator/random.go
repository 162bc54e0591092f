package generator

import (
	"context"
	"math/rand"
	"time"

	"svw.info/knucklebones/internal/board"
	"svw.info/knucklebones/internal/domain"
	"svw.info/knucklebones/internal/ports"
)

// targetDice is how many dice each board holds: openings for easy, endgames
// for hard.
func targetDice(d domain.Difficulty) int {
	switch d {
	case domain.Easy:
		return 2
	case domain.Hard:
		return 7
	default:
		return 4
	}
}

// Generate creates a position whose own board keeps at least one open column.
func (g *RandomGenerator) Generate(ctx context.Context, seed int64, diff domain.Difficulty) (*domain.Position, ports.Stats, error) {
	start := time.Now()
	rng := rand.New(rand.NewSource(seed))
	target := targetDice(diff)
	nodes := 0

	var own, opp domain.Board
	for i := 0; i < target; i++ {
		if err := ctx.Err(); err != nil {
			return nil, ports.Stats{Nodes: nodes, Duration: time.Since(start)}, err
		}
		own = dropRandom(rng, own)
		opp = dropRandom(rng, opp)
		nodes += 2
	}

	p := &domain.Position{
		Seed:       seed,
		Difficulty: diff,
		Own:        own,
		Opponent:   opp,
		Die:        uint8(rng.Intn(domain.Faces) + 1),
		CreatedAt:  time.Now().UnixNano(),
	}
	return p, ports.Stats{Nodes: nodes, Duration: time.Since(start)}, nil
}

// dropRandom places a random face in a random open column.
func dropRandom(rng *rand.Rand, b domain.Board) domain.Board {
	cols := board.AvailableColumns(b)
	if len(cols) == 0 {
		return b
	}
	c := cols[rng.Intn(len(cols))]
	b[c] = board.Place(b[c], uint8(rng.Intn(domain.Faces)+1))
	return b
}
