package domain

import "strings"

// Difficulty selects the bot strategy. The zero value and any value outside
// the known tiers behave as Medium.
type Difficulty int

const (
	Easy Difficulty = iota + 1
	Medium
	Hard
)

// ParseDifficulty maps a difficulty tag to a Difficulty. Unknown tags are
// Medium, not an error.
func ParseDifficulty(s string) Difficulty {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return Easy
	case "hard":
		return Hard
	default:
		return Medium
	}
}

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Hard:
		return "hard"
	default:
		return "medium"
	}
}

func (d Difficulty) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Difficulty) UnmarshalText(b []byte) error {
	*d = ParseDifficulty(string(b))
	return nil
}
