package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"svw.info/knucklebones/internal/domain"
	"svw.info/knucklebones/internal/ports"
	"svw.info/knucklebones/internal/random"
)

var tracer = otel.Tracer("svw.info/knucklebones/internal/usecase")

type Service struct {
	Chooser   ports.Chooser
	Analyzer  ports.Analyzer
	Generator ports.Generator
	Validator ports.Validator
	Hinter    ports.Hinter
	Storage   ports.Storage

	Logger  *slog.Logger
	NewSeed func() (int64, error)
}

func NewService(c ports.Chooser, a ports.Analyzer, g ports.Generator, v ports.Validator, h ports.Hinter, st ports.Storage) *Service {
	return &Service{
		Chooser:   c,
		Analyzer:  a,
		Generator: g,
		Validator: v,
		Hinter:    h,
		Storage:   st,
		Logger:    slog.Default(),
		NewSeed:   random.NewSeed,
	}
}

var errNotConfigured = errors.New("usecase dependency not configured")

func (u *Service) logger() *slog.Logger {
	if u.Logger == nil {
		return slog.Default()
	}
	return u.Logger
}

func finish(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// Choose returns the column the bot fills with die.
func (u *Service) Choose(ctx context.Context, own, opp domain.Board, die int, d domain.Difficulty) (col int, st ports.Stats, err error) {
	if u.Chooser == nil {
		return -1, ports.Stats{}, errNotConfigured
	}
	ctx, span := tracer.Start(ctx, "usecase.Choose", trace.WithAttributes(
		attribute.String("difficulty", d.String()),
		attribute.Int("die", die),
	))
	defer func() { finish(span, err) }()

	col, st, err = u.Chooser.Choose(ctx, own, opp, die, d)
	if err != nil {
		return col, st, err
	}
	span.SetAttributes(attribute.Int("column", col), attribute.Int("nodes", st.Nodes))
	u.logger().DebugContext(ctx, "decision",
		"difficulty", d.String(),
		"die", die,
		"column", col,
		"nodes", st.Nodes,
		"dur", st.Duration,
	)
	return col, st, nil
}

func (u *Service) Analyze(ctx context.Context, own, opp domain.Board, die int, d domain.Difficulty) (evals []domain.ColumnEval, st ports.Stats, err error) {
	if u.Analyzer == nil {
		return nil, ports.Stats{}, errNotConfigured
	}
	ctx, span := tracer.Start(ctx, "usecase.Analyze", trace.WithAttributes(
		attribute.String("difficulty", d.String()),
		attribute.Int("die", die),
	))
	defer func() { finish(span, err) }()

	evals, st, err = u.Analyzer.Analyze(ctx, own, opp, die, d)
	span.SetAttributes(attribute.Int("nodes", st.Nodes))
	return evals, st, err
}

// Generate creates a position; seed 0 picks a random seed.
func (u *Service) Generate(ctx context.Context, seed int64, d domain.Difficulty) (p *domain.Position, st ports.Stats, err error) {
	if u.Generator == nil {
		return nil, ports.Stats{}, errNotConfigured
	}
	ctx, span := tracer.Start(ctx, "usecase.Generate")
	defer func() { finish(span, err) }()

	if seed == 0 {
		newSeed := u.NewSeed
		if newSeed == nil {
			newSeed = random.NewSeed
		}
		if seed, err = newSeed(); err != nil {
			return nil, ports.Stats{}, err
		}
	}
	span.SetAttributes(attribute.Int64("seed", seed), attribute.String("difficulty", d.String()))
	return u.Generator.Generate(ctx, seed, d)
}

func (u *Service) Validate(ctx context.Context, b domain.Board) (bool, []domain.SlotCoord, error) {
	if u.Validator == nil {
		return false, nil, errNotConfigured
	}
	return u.Validator.Validate(ctx, b)
}

func (u *Service) Hint(ctx context.Context, own, opp domain.Board, die int) (h domain.Hint, found bool, err error) {
	if u.Hinter == nil {
		return domain.Hint{}, false, errNotConfigured
	}
	ctx, span := tracer.Start(ctx, "usecase.Hint", trace.WithAttributes(attribute.Int("die", die)))
	defer func() { finish(span, err) }()
	return u.Hinter.Hint(ctx, own, opp, die)
}

// Persistence

// Save validates p, assigns an ID and timestamp when missing, and stores it.
func (u *Service) Save(ctx context.Context, p *domain.Position) error {
	if u.Storage == nil {
		return errNotConfigured
	}
	if p == nil {
		return fmt.Errorf("%w: position is required", domain.ErrInvalidInput)
	}
	if p.Die < 1 || p.Die > domain.Faces {
		return fmt.Errorf("%w: die value %d outside 1-%d", domain.ErrInvalidInput, p.Die, domain.Faces)
	}
	if u.Validator != nil {
		for _, b := range []domain.Board{p.Own, p.Opponent} {
			ok, problems, err := u.Validator.Validate(ctx, b)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: invalid slots %v", domain.ErrInvalidInput, problems)
			}
		}
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt == 0 {
		p.CreatedAt = time.Now().UnixNano()
	}
	if err := u.Storage.Save(ctx, p); err != nil {
		return err
	}
	u.logger().InfoContext(ctx, "position saved", "id", p.ID, "difficulty", p.Difficulty.String())
	return nil
}

func (u *Service) Load(ctx context.Context, id string) (*domain.Position, error) {
	if u.Storage == nil {
		return nil, errNotConfigured
	}
	return u.Storage.Load(ctx, id)
}

func (u *Service) List(ctx context.Context) ([]domain.PositionMeta, error) {
	if u.Storage == nil {
		return nil, errNotConfigured
	}
	return u.Storage.List(ctx)
}

// ChooseSaved decides the bot's column for a stored position, using the
// position's own difficulty unless override is non-empty.
func (u *Service) ChooseSaved(ctx context.Context, id, override string) (*domain.Position, int, ports.Stats, error) {
	p, err := u.Load(ctx, id)
	if err != nil {
		return nil, -1, ports.Stats{}, err
	}
	d := p.Difficulty
	if override != "" {
		d = domain.ParseDifficulty(override)
	}
	col, st, err := u.Choose(ctx, p.Own, p.Opponent, int(p.Die), d)
	return p, col, st, err
}
