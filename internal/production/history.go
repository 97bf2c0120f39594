package production

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/comalice/reflexpong"
)

var ErrNotConfigured = errors.New("history store is not configured")

const historySchema = `
CREATE TABLE IF NOT EXISTS game_results (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	winner INTEGER NOT NULL,
	p1_score INTEGER NOT NULL,
	p2_score INTEGER NOT NULL,
	pass_count INTEGER NOT NULL,
	finished_at INTEGER NOT NULL
)`

// Result is one finished game.
type Result struct {
	ID         int64
	Winner     reflexpong.Player
	P1Score    uint8
	P2Score    uint8
	PassCount  uint32
	FinishedAt time.Time
}

// ResultFromTransition returns the game result carried by a transition into
// a wins state.
func ResultFromTransition(ev TransitionEvent) (Result, bool) {
	var winner reflexpong.Player
	switch ev.To {
	case reflexpong.P1Wins:
		winner = reflexpong.Player1
	case reflexpong.P2Wins:
		winner = reflexpong.Player2
	default:
		return Result{}, false
	}
	return Result{
		Winner:     winner,
		P1Score:    ev.Controllers.P1Score,
		P2Score:    ev.Controllers.P2Score,
		PassCount:  ev.Controllers.PassCount,
		FinishedAt: ev.Timestamp,
	}, true
}

// HistoryStore keeps finished games in SQLite.
type HistoryStore struct {
	sqlDB *sql.DB
}

// OpenHistory opens or creates the history database at path.
func OpenHistory(path string) (*HistoryStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("history path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(historySchema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &HistoryStore{sqlDB: sqlDB}, nil
}

// Close releases the SQLite connection.
func (s *HistoryStore) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// RecordResult stores a finished game and returns its id.
func (s *HistoryStore) RecordResult(ctx context.Context, r Result) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, ErrNotConfigured
	}
	if r.Winner != reflexpong.Player1 && r.Winner != reflexpong.Player2 {
		return 0, fmt.Errorf("unknown winner %d", r.Winner)
	}
	if r.FinishedAt.IsZero() {
		r.FinishedAt = time.Now().UTC()
	}

	res, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO game_results (
	winner,
	p1_score,
	p2_score,
	pass_count,
	finished_at
) VALUES (?, ?, ?, ?, ?)
`,
		int(r.Winner),
		int(r.P1Score),
		int(r.P2Score),
		int64(r.PassCount),
		r.FinishedAt.UTC().UnixMilli(),
	)
	if err != nil {
		return 0, fmt.Errorf("record result: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("result id: %w", err)
	}
	return id, nil
}

// ListResults lists the newest results first.
func (s *HistoryStore) ListResults(ctx context.Context, limit int) ([]Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, ErrNotConfigured
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than zero")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT
	id,
	winner,
	p1_score,
	p2_score,
	pass_count,
	finished_at
FROM game_results
ORDER BY finished_at DESC, id DESC
LIMIT ?
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	results := make([]Result, 0, limit)
	for rows.Next() {
		var (
			r                        Result
			winner, p1, p2           int
			passes, finishedAtMillis int64
		)
		if err := rows.Scan(&r.ID, &winner, &p1, &p2, &passes, &finishedAtMillis); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		r.Winner = reflexpong.Player(winner)
		r.P1Score = uint8(p1)
		r.P2Score = uint8(p2)
		r.PassCount = uint32(passes)
		r.FinishedAt = time.UnixMilli(finishedAtMillis).UTC()
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return results, nil
}

// Wins counts recorded wins per player.
func (s *HistoryStore) Wins(ctx context.Context) ([2]int, error) {
	var wins [2]int
	if s == nil || s.sqlDB == nil {
		return wins, ErrNotConfigured
	}
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT winner, COUNT(*) FROM game_results GROUP BY winner`)
	if err != nil {
		return wins, fmt.Errorf("count wins: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var winner, n int
		if err := rows.Scan(&winner, &n); err != nil {
			return wins, fmt.Errorf("scan wins: %w", err)
		}
		if winner == int(reflexpong.Player1) || winner == int(reflexpong.Player2) {
			wins[winner] = n
		}
	}
	if err := rows.Err(); err != nil {
		return wins, fmt.Errorf("iterate wins: %w", err)
	}
	return wins, nil
}
