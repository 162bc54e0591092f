package hint

import (
	"context"
	"errors"
	"strings"
	"testing"

	"svw.info/knucklebones/internal/domain"
	"svw.info/knucklebones/internal/engine"
)

func TestHintExplainsCancellation(t *testing.T) {
	h := NewAdvisor(engine.New(nil))
	opp := domain.Board{{6, 6, 0}, {1, 0, 0}, {2, 0, 0}}

	hh, ok, err := h.Hint(context.Background(), domain.Board{}, opp, 6)
	if err != nil {
		t.Fatalf("Hint: %v", err)
	}
	if !ok {
		t.Fatal("expected a hint")
	}
	if hh.Column != 0 {
		t.Fatalf("column = %d, want 0", hh.Column)
	}
	if !strings.Contains(hh.Message, "left column") || !strings.Contains(hh.Message, "removes 2 of your opponent's 6s") {
		t.Fatalf("unexpected message %q", hh.Message)
	}
	if len(hh.Evaluations) != 3 {
		t.Fatalf("expected 3 evaluations, got %d", len(hh.Evaluations))
	}
}

func TestHintFullBoardNotFound(t *testing.T) {
	h := NewAdvisor(engine.New(nil))
	full := domain.Board{{1, 2, 3}, {4, 5, 6}, {1, 1, 1}}
	_, ok, err := h.Hint(context.Background(), full, domain.Board{}, 2)
	if err != nil {
		t.Fatalf("Hint: %v", err)
	}
	if ok {
		t.Fatal("expected no hint on a full board")
	}
}

func TestHintRejectsBadDie(t *testing.T) {
	h := NewAdvisor(engine.New(nil))
	if _, _, err := h.Hint(context.Background(), domain.Board{}, domain.Board{}, 9); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("error = %v, want %v", err, domain.ErrInvalidInput)
	}
}

func TestMessage(t *testing.T) {
	cases := []struct {
		die  uint8
		eval domain.ColumnEval
		want string
	}{
		{5, domain.ColumnEval{Column: 1, OwnGain: 25, Matches: 2}, "Put the 5 in the middle column: completes a triple, scores 25"},
		{2, domain.ColumnEval{Column: 2, OwnGain: 6, Matches: 1, Cancelled: 1}, "Put the 2 in the right column: removes your opponent's 2, makes a pair, scores 6"},
		{1, domain.ColumnEval{Column: 0, OwnGain: 1}, "Put the 1 in the left column: scores 1"},
		{4, domain.ColumnEval{Column: 0, OwnGain: 4, Cancelled: 3}, "Put the 4 in the left column: removes 3 of your opponent's 4s, scores 4"},
	}
	for _, tc := range cases {
		if got := message(tc.die, tc.eval); got != tc.want {
			t.Fatalf("message = %q, want %q", got, tc.want)
		}
	}
}

func TestHintMatchesHardChoice(t *testing.T) {
	e := engine.New(nil)
	h := NewAdvisor(e)
	own := domain.Board{{3, 0, 0}, {1, 2, 0}, {5, 5, 0}}
	opp := domain.Board{{3, 3, 0}, {5, 0, 0}, {6, 6, 6}}

	for die := 1; die <= domain.Faces; die++ {
		want, _, err := e.Choose(context.Background(), own, opp, die, domain.Hard)
		if err != nil {
			t.Fatalf("Choose die %d: %v", die, err)
		}
		hh, ok, err := h.Hint(context.Background(), own, opp, die)
		if err != nil || !ok {
			t.Fatalf("Hint die %d: ok=%v err=%v", die, ok, err)
		}
		if hh.Column != want {
			t.Fatalf("die %d: hint column = %d, hard bot picks %d", die, hh.Column, want)
		}
	}
}
