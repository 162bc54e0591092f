package generator

// RandomGenerator creates legal mid-game positions from a seed. The same seed
// and difficulty always give the same position.
type RandomGenerator struct{}

// NewRandomGenerator wires a position generator.
func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

// Note: The Generate method is implemented in random.go.
