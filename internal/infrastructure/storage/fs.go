package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"svw.info/knucklebones/internal/domain"
)

// FS stores positions as JSON files under one directory per difficulty.
type FS struct{ dir string }

func NewFS(dir string) *FS { return &FS{dir: dir} }

var buckets = []domain.Difficulty{domain.Easy, domain.Medium, domain.Hard}

func (s *FS) pathFor(id string, d domain.Difficulty) string {
	return filepath.Join(s.dir, d.String(), strings.TrimSpace(id)+".json")
}

func (s *FS) Save(ctx context.Context, p *domain.Position) error {
	if p == nil || p.ID == "" {
		return errors.New("invalid position: missing ID")
	}
	if strings.ContainsAny(p.ID, `/\`) || strings.Contains(p.ID, "..") {
		return fmt.Errorf("%w: position id %q", domain.ErrInvalidInput, p.ID)
	}
	// Ensure directory ./data/{difficulty} exists
	target := s.pathFor(p.ID, p.Difficulty)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	f, err := os.Create(target)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// an id lives in exactly one bucket
	for _, d := range buckets {
		if d == p.Difficulty {
			continue
		}
		if err := os.Remove(s.pathFor(p.ID, d)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}

func (s *FS) Load(ctx context.Context, id string) (*domain.Position, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return nil, fmt.Errorf("%w: position %q", domain.ErrNotFound, id)
	}
	for _, d := range buckets {
		data, err := os.ReadFile(s.pathFor(id, d))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		var out domain.Position
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, err
		}
		// difficulty missing from the file: trust the folder
		if out.Difficulty == 0 {
			out.Difficulty = d
		}
		return &out, nil
	}
	return nil, fmt.Errorf("%w: position %q", domain.ErrNotFound, id)
}

func (s *FS) List(ctx context.Context) ([]domain.PositionMeta, error) {
	out := []domain.PositionMeta{}
	for _, d := range buckets {
		dir := filepath.Join(s.dir, d.String())
		ents, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		for _, e := range ents {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
				continue
			}
			data, err := os.ReadFile(filepath.Join(dir, e.Name()))
			if err != nil {
				continue
			}
			var m domain.PositionMeta
			if err := json.Unmarshal(data, &m); err != nil || m.ID == "" {
				continue
			}
			if m.Difficulty == 0 {
				m.Difficulty = d
			}
			out = append(out, m)
		}
	}
	return out, nil
}
