package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand"
	"testing"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"svw.info/knucklebones/internal/domain"
	"svw.info/knucklebones/internal/engine"
	"svw.info/knucklebones/internal/generator"
	"svw.info/knucklebones/internal/hint"
	"svw.info/knucklebones/internal/infrastructure/storage"
	"svw.info/knucklebones/internal/validator"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	e := engine.New(rand.New(rand.NewSource(1)))
	uc := NewService(e, e, generator.NewRandomGenerator(), validator.New(), hint.NewAdvisor(e), storage.NewFS(t.TempDir()))
	uc.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return uc
}

func TestServiceNotConfigured(t *testing.T) {
	uc := &Service{}
	ctx := context.Background()
	checks := map[string]error{}
	_, _, checks["choose"] = uc.Choose(ctx, domain.Board{}, domain.Board{}, 1, domain.Hard)
	_, _, checks["analyze"] = uc.Analyze(ctx, domain.Board{}, domain.Board{}, 1, domain.Hard)
	_, _, checks["generate"] = uc.Generate(ctx, 1, domain.Hard)
	_, _, checks["validate"] = uc.Validate(ctx, domain.Board{})
	_, _, checks["hint"] = uc.Hint(ctx, domain.Board{}, domain.Board{}, 1)
	checks["save"] = uc.Save(ctx, &domain.Position{Die: 1})
	_, checks["load"] = uc.Load(ctx, "x")
	_, checks["list"] = uc.List(ctx)
	for name, err := range checks {
		if !errors.Is(err, errNotConfigured) {
			t.Fatalf("%s error = %v, want %v", name, err, errNotConfigured)
		}
	}
}

func TestChooseRecordsSpan(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	defer otel.SetTracerProvider(prev)

	uc := newTestService(t)
	col, st, err := uc.Choose(context.Background(), domain.Board{{1, 2, 3}, {}, {}}, domain.Board{}, 4, domain.Hard)
	if err != nil {
		t.Fatalf("Choose: %v", err)
	}
	if col == 0 {
		t.Fatal("chose a full column")
	}
	if st.Nodes == 0 {
		t.Fatal("expected search nodes")
	}

	spans := sr.Ended()
	if len(spans) == 0 || spans[len(spans)-1].Name() != "usecase.Choose" {
		t.Fatalf("expected usecase.Choose span, got %d spans", len(spans))
	}
}

func TestChoosePropagatesEngineErrors(t *testing.T) {
	uc := newTestService(t)
	full := domain.Board{{1, 2, 3}, {4, 5, 6}, {1, 1, 1}}
	if _, _, err := uc.Choose(context.Background(), full, domain.Board{}, 2, domain.Medium); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("error = %v, want %v", err, domain.ErrInvalidState)
	}
	if _, _, err := uc.Choose(context.Background(), domain.Board{}, domain.Board{}, 0, domain.Medium); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("error = %v, want %v", err, domain.ErrInvalidInput)
	}
}

func TestGenerateZeroSeedUsesSeedSource(t *testing.T) {
	uc := newTestService(t)
	uc.NewSeed = func() (int64, error) { return 4242, nil }
	p, _, err := uc.Generate(context.Background(), 0, domain.Easy)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if p.Seed != 4242 {
		t.Fatalf("seed = %d, want 4242", p.Seed)
	}

	uc.NewSeed = func() (int64, error) { return 0, errors.New("entropy exhausted") }
	if _, _, err := uc.Generate(context.Background(), 0, domain.Easy); err == nil {
		t.Fatal("expected seed error")
	}
}

func TestSaveAssignsIDAndChooseSaved(t *testing.T) {
	uc := newTestService(t)
	ctx := context.Background()
	p := &domain.Position{
		Difficulty: domain.Hard,
		Own:        domain.Board{},
		Opponent:   domain.Board{{6, 6, 0}, {1, 0, 0}, {2, 0, 0}},
		Die:        6,
	}
	if err := uc.Save(ctx, p); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if p.ID == "" || p.CreatedAt == 0 {
		t.Fatalf("expected ID and timestamp, got %+v", p)
	}

	loaded, col, _, err := uc.ChooseSaved(ctx, p.ID, "")
	if err != nil {
		t.Fatalf("ChooseSaved: %v", err)
	}
	if loaded.ID != p.ID {
		t.Fatalf("loaded %q, want %q", loaded.ID, p.ID)
	}
	if col != 0 {
		t.Fatalf("column = %d, want 0", col)
	}

	metas, err := uc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(metas) != 1 || metas[0].ID != p.ID {
		t.Fatalf("List = %+v", metas)
	}

	if _, _, _, err := uc.ChooseSaved(ctx, "missing", "hard"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("error = %v, want %v", err, domain.ErrNotFound)
	}
}

func TestSaveRejectsInvalidPositions(t *testing.T) {
	uc := newTestService(t)
	cases := map[string]*domain.Position{
		"nil":      nil,
		"die":      {Die: 0},
		"gap":      {Die: 3, Own: domain.Board{{0, 4, 0}}},
		"bad face": {Die: 3, Opponent: domain.Board{{}, {}, {7, 0, 0}}},
	}
	for name, p := range cases {
		if err := uc.Save(context.Background(), p); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("%s: error = %v, want %v", name, err, domain.ErrInvalidInput)
		}
	}
}

func TestHintThroughService(t *testing.T) {
	uc := newTestService(t)
	h, ok, err := uc.Hint(context.Background(), domain.Board{}, domain.Board{{6, 6, 0}}, 6)
	if err != nil || !ok {
		t.Fatalf("Hint = %v, %v", ok, err)
	}
	if h.Column != 0 {
		t.Fatalf("hint column = %d, want 0", h.Column)
	}
}
