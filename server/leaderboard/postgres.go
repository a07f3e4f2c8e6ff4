package leaderboard

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/michaelpaglia/fun-sunday-work/shared/protocol"
)

// PostgresStore uses the same leaderboard table layout as a hosted Supabase project.
type PostgresStore struct {
	db *pgxpool.Pool
}

func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	_, err = db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS leaderboard(
			id UUID PRIMARY KEY,
			wallet_address TEXT NOT NULL,
			wallet_short TEXT NOT NULL,
			player TEXT NOT NULL DEFAULT '',
			score BIGINT NOT NULL,
			snake_count INT NOT NULL,
			top_snake TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres schema: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Add(ctx context.Context, e protocol.LeaderboardEntry) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO leaderboard(id, wallet_address, wallet_short, player, score, snake_count, top_snake, created_at)
		VALUES($1,$2,$3,$4,$5,$6,$7,$8)`,
		e.ID, e.WalletAddress, e.WalletShort, e.Player, e.Score, e.SnakeCount, e.TopSnake, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert score: %w", err)
	}
	return nil
}

func (s *PostgresStore) Top(ctx context.Context, limit int) ([]protocol.LeaderboardEntry, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id::text, wallet_address, wallet_short, player, score, snake_count, top_snake, created_at
		FROM leaderboard ORDER BY score DESC, created_at ASC LIMIT $1`, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query scores: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (protocol.LeaderboardEntry, error) {
		var e protocol.LeaderboardEntry
		err := row.Scan(&e.ID, &e.WalletAddress, &e.WalletShort, &e.Player, &e.Score, &e.SnakeCount, &e.TopSnake, &e.CreatedAt)
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan scores: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}
