// Package leaderboard stores submitted scores and reads back the best ones.
package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/michaelpaglia/fun-sunday-work/shared/protocol"
)

var (
	ErrInvalidSubmission = errors.New("invalid submission")
	ErrUnknownBackend    = errors.New("unknown leaderboard backend")
)

// Store is a score table. Top returns at most limit entries, best first.
type Store interface {
	Add(ctx context.Context, e protocol.LeaderboardEntry) error
	Top(ctx context.Context, limit int) ([]protocol.LeaderboardEntry, error)
	Close() error
}

// NewEntry validates a submission and fills in defaults and identity.
func NewEntry(sub protocol.ScoreSubmission, player string, now time.Time) (protocol.LeaderboardEntry, error) {
	addr := strings.TrimSpace(sub.WalletAddress)
	if addr == "" {
		return protocol.LeaderboardEntry{}, fmt.Errorf("%w: wallet_address is required", ErrInvalidSubmission)
	}
	if sub.Score < 0 {
		return protocol.LeaderboardEntry{}, fmt.Errorf("%w: negative score", ErrInvalidSubmission)
	}
	e := protocol.LeaderboardEntry{
		ID:            protocol.NewID(),
		WalletAddress: addr,
		WalletShort:   protocol.ShortAddress(addr),
		Player:        player,
		Score:         sub.Score,
		SnakeCount:    sub.SnakeCount,
		TopSnake:      strings.TrimSpace(sub.TopSnake),
		CreatedAt:     now.UTC(),
	}
	if e.SnakeCount <= 0 {
		e.SnakeCount = protocol.DefaultSnakeCount
	}
	if e.TopSnake == "" {
		e.TopSnake = protocol.DefaultTopSnake
	}
	return e, nil
}

// Open picks a backend from dsn:
//
//	postgres://... or postgresql://...  Postgres via pgx
//	sqlite:path or *.db                 SQLite
//	file:path or *.json                 JSON file
func Open(ctx context.Context, dsn string) (Store, error) {
	var (
		st  Store
		err error
	)
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		var pg *PostgresStore
		if pg, err = OpenPostgres(ctx, dsn); err == nil {
			st = pg
		}
	case strings.HasPrefix(dsn, "sqlite:"), strings.HasSuffix(dsn, ".db"):
		var lite *SQLiteStore
		if lite, err = OpenSQLite(ctx, strings.TrimPrefix(dsn, "sqlite:")); err == nil {
			st = lite
		}
	case strings.HasPrefix(dsn, "file:"), strings.HasSuffix(dsn, ".json"):
		var fs *FileStore
		if fs, err = OpenFile(strings.TrimPrefix(dsn, "file:")); err == nil {
			st = fs
		}
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownBackend, dsn)
	}
	return st, err
}

// rank orders best first: higher score, then earlier submission.
func rank(entries []protocol.LeaderboardEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > protocol.LeaderboardLimit {
		return protocol.LeaderboardLimit
	}
	return limit
}
