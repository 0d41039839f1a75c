// Package storage persists finished training episodes in SQLite.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store is the episode log.
type Store struct {
	db *sql.DB
}

// Episode is one finished run of a knight.
type Episode struct {
	ID        int64
	Run       string
	Episode   int
	Steps     int
	Reward    float64
	Coins     int
	Goals     int
	EndReason string
	CreatedAt time.Time
}

var ErrNoEpisodes = errors.New("storage: no episodes recorded")

// Open creates or opens the database at dbPath, creating parent directories
// and the schema as needed. ":memory:" opens a private in-memory database.
func Open(dbPath string) (*Store, error) {
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// one writer; also keeps ":memory:" on a single connection
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}
	return store, nil
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS episodes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run TEXT NOT NULL,
			episode INTEGER NOT NULL,
			steps INTEGER NOT NULL,
			reward REAL NOT NULL,
			coins INTEGER NOT NULL DEFAULT 0,
			goals INTEGER NOT NULL DEFAULT 0,
			end_reason TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_episodes_run ON episodes(run, episode);
		CREATE INDEX IF NOT EXISTS idx_episodes_reward ON episodes(run, reward DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveEpisode records a finished episode and returns its row ID.
func (s *Store) SaveEpisode(ctx context.Context, ep Episode) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO episodes (run, episode, steps, reward, coins, goals, end_reason)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ep.Run, ep.Episode, ep.Steps, ep.Reward, ep.Coins, ep.Goals, ep.EndReason,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save episode: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get episode id: %w", err)
	}
	return id, nil
}

// RecentEpisodes returns up to limit episodes of a run, newest first. An
// empty run matches every run.
func (s *Store) RecentEpisodes(ctx context.Context, run string, limit int) ([]Episode, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run, episode, steps, reward, coins, goals, end_reason, created_at
		 FROM episodes
		 WHERE ? = '' OR run = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		run, run, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query episodes: %w", err)
	}
	defer rows.Close()

	var out []Episode
	for rows.Next() {
		ep, err := scanEpisode(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: error iterating episodes: %w", err)
	}
	return out, nil
}

// BestEpisode returns the highest-reward episode of a run.
func (s *Store) BestEpisode(ctx context.Context, run string) (Episode, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, run, episode, steps, reward, coins, goals, end_reason, created_at
		 FROM episodes
		 WHERE ? = '' OR run = ?
		 ORDER BY reward DESC, id ASC
		 LIMIT 1`,
		run, run,
	)
	ep, err := scanEpisode(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Episode{}, ErrNoEpisodes
	}
	return ep, err
}

// Summary aggregates a run.
type Summary struct {
	Episodes   int
	MeanReward float64
	MeanSteps  float64
}

func (s *Store) Summarize(ctx context.Context, run string) (Summary, error) {
	var sum Summary
	var meanReward, meanSteps sql.NullFloat64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), AVG(reward), AVG(steps)
		 FROM episodes
		 WHERE ? = '' OR run = ?`,
		run, run,
	).Scan(&sum.Episodes, &meanReward, &meanSteps)
	if err != nil {
		return Summary{}, fmt.Errorf("storage: cannot summarize run: %w", err)
	}
	sum.MeanReward = meanReward.Float64
	sum.MeanSteps = meanSteps.Float64
	return sum, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEpisode(r scanner) (Episode, error) {
	var ep Episode
	if err := r.Scan(&ep.ID, &ep.Run, &ep.Episode, &ep.Steps, &ep.Reward, &ep.Coins, &ep.Goals, &ep.EndReason, &ep.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Episode{}, err
		}
		return Episode{}, fmt.Errorf("storage: cannot scan episode: %w", err)
	}
	return ep, nil
}
