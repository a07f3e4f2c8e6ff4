package leaderboard

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/michaelpaglia/fun-sunday-work/shared/protocol"
)

type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one writer; avoids SQLITE_BUSY under concurrent submits
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite wal: %w", err)
	}
	_, err = db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS leaderboard(
			id TEXT PRIMARY KEY,
			wallet_address TEXT NOT NULL,
			wallet_short TEXT NOT NULL,
			player TEXT NOT NULL DEFAULT '',
			score INTEGER NOT NULL,
			snake_count INTEGER NOT NULL,
			top_snake TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}
	if _, err := db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS leaderboard_score ON leaderboard(score DESC, created_at ASC)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite index: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Add(ctx context.Context, e protocol.LeaderboardEntry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO leaderboard(id, wallet_address, wallet_short, player, score, snake_count, top_snake, created_at)
		 VALUES(?,?,?,?,?,?,?,?)`,
		e.ID, e.WalletAddress, e.WalletShort, e.Player, e.Score, e.SnakeCount, e.TopSnake, e.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("insert score: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Top(ctx context.Context, limit int) ([]protocol.LeaderboardEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, wallet_address, wallet_short, player, score, snake_count, top_snake, created_at
		 FROM leaderboard ORDER BY score DESC, created_at ASC LIMIT ?`, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query scores: %w", err)
	}
	defer rows.Close()

	var out []protocol.LeaderboardEntry
	for rows.Next() {
		var e protocol.LeaderboardEntry
		var created int64
		if err := rows.Scan(&e.ID, &e.WalletAddress, &e.WalletShort, &e.Player, &e.Score, &e.SnakeCount, &e.TopSnake, &created); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		e.CreatedAt = time.Unix(0, created).UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error { return s.db.Close() }
