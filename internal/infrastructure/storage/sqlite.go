package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"svw.info/knucklebones/internal/domain"
	"svw.info/knucklebones/internal/infrastructure/storage/migrations"
)

const migrationTable = "schema_migrations"

// SQLite stores positions in a single SQLite database.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens the database at path and applies embedded migrations.
func OpenSQLite(path string) (*SQLite, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Close closes the SQLite handle.
func (s *SQLite) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save inserts p or replaces the position with the same ID.
func (s *SQLite) Save(ctx context.Context, p *domain.Position) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p == nil || strings.TrimSpace(p.ID) == "" {
		return errors.New("invalid position: missing ID")
	}
	own, err := json.Marshal(p.Own)
	if err != nil {
		return fmt.Errorf("encode own board: %w", err)
	}
	opp, err := json.Marshal(p.Opponent)
	if err != nil {
		return fmt.Errorf("encode opponent board: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO positions (id, name, notes, difficulty, seed, own, opponent, die, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   notes = excluded.notes,
		   difficulty = excluded.difficulty,
		   seed = excluded.seed,
		   own = excluded.own,
		   opponent = excluded.opponent,
		   die = excluded.die,
		   created_at = excluded.created_at`,
		p.ID, p.Name, p.Notes, p.Difficulty.String(), p.Seed, string(own), string(opp), int(p.Die), p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save position: %w", err)
	}
	return nil
}

func (s *SQLite) Load(ctx context.Context, id string) (*domain.Position, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, notes, difficulty, seed, own, opponent, die, created_at
		 FROM positions WHERE id = ?`, id)

	var (
		p          domain.Position
		difficulty string
		own, opp   string
		die        int
	)
	err := row.Scan(&p.ID, &p.Name, &p.Notes, &difficulty, &p.Seed, &own, &opp, &die, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: position %q", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load position: %w", err)
	}
	if err := json.Unmarshal([]byte(own), &p.Own); err != nil {
		return nil, fmt.Errorf("decode own board: %w", err)
	}
	if err := json.Unmarshal([]byte(opp), &p.Opponent); err != nil {
		return nil, fmt.Errorf("decode opponent board: %w", err)
	}
	p.Difficulty = domain.ParseDifficulty(difficulty)
	p.Die = uint8(die)
	return &p, nil
}

// List returns positions newest first.
func (s *SQLite) List(ctx context.Context) ([]domain.PositionMeta, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, difficulty, created_at FROM positions ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list positions: %w", err)
	}
	defer rows.Close()

	out := []domain.PositionMeta{}
	for rows.Next() {
		var (
			m          domain.PositionMeta
			difficulty string
		)
		if err := rows.Scan(&m.ID, &m.Name, &difficulty, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan position: %w", err)
		}
		m.Difficulty = domain.ParseDifficulty(difficulty)
		out = append(out, m)
	}
	return out, rows.Err()
}

// applyMigrations executes each embedded .sql file at most once.
func applyMigrations(db *sql.DB, migrationFS fs.FS) error {
	entries, err := fs.ReadDir(migrationFS, ".")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS ` + migrationTable + ` (
    name TEXT PRIMARY KEY,
    applied_at INTEGER NOT NULL
)`); err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}

	for _, file := range files {
		var found int
		err := db.QueryRow(`SELECT 1 FROM `+migrationTable+` WHERE name = ?`, file).Scan(&found)
		if err == nil {
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("check migration %s: %w", file, err)
		}

		content, err := fs.ReadFile(migrationFS, file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %s: %w", file, err)
		}
		if _, err := tx.Exec(upSection(string(content))); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("exec migration %s: %w", file, err)
		}
		if _, err := tx.Exec(`INSERT INTO `+migrationTable+` (name, applied_at) VALUES (?, ?)`, file, time.Now().UTC().UnixMilli()); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %s: %w", file, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %s: %w", file, err)
		}
	}
	return nil
}

// upSection returns the SQL between "-- +migrate Up" and "-- +migrate Down".
func upSection(content string) string {
	const up, down = "-- +migrate Up", "-- +migrate Down"
	i := strings.Index(content, up)
	if i == -1 {
		return content
	}
	content = content[i+len(up):]
	if j := strings.Index(content, down); j != -1 {
		content = content[:j]
	}
	return content
}
