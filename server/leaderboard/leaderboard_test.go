package leaderboard

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/michaelpaglia/fun-sunday-work/shared/protocol"
)

const wallet = "9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM"

func TestNewEntryDefaults(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	e, err := NewEntry(protocol.ScoreSubmission{WalletAddress: wallet, Score: 420}, "", now)
	if err != nil {
		t.Fatal(err)
	}
	if e.SnakeCount != 1 || e.TopSnake != "SOL" {
		t.Fatalf("defaults not applied: %+v", e)
	}
	if e.WalletShort != "9WzD...AWWM" || e.ID == "" || !e.CreatedAt.Equal(now) {
		t.Fatalf("entry=%+v", e)
	}

	if _, err := NewEntry(protocol.ScoreSubmission{Score: 1}, "", now); !errors.Is(err, ErrInvalidSubmission) {
		t.Fatalf("missing wallet err=%v", err)
	}
	if _, err := NewEntry(protocol.ScoreSubmission{WalletAddress: wallet, Score: -1}, "", now); !errors.Is(err, ErrInvalidSubmission) {
		t.Fatalf("negative score err=%v", err)
	}
}

func testStore(t *testing.T, st Store) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	scores := []int64{50, 300, 300, 10}
	for i, sc := range scores {
		e, err := NewEntry(protocol.ScoreSubmission{WalletAddress: wallet, Score: sc, TopSnake: "BONK"}, "", base.Add(time.Duration(i)*time.Second))
		if err != nil {
			t.Fatal(err)
		}
		if err := st.Add(ctx, e); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	top, err := st.Top(ctx, 3)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("len=%d", len(top))
	}
	if top[0].Score != 300 || top[1].Score != 300 || top[2].Score != 50 {
		t.Fatalf("order=%d,%d,%d", top[0].Score, top[1].Score, top[2].Score)
	}
	if !top[0].CreatedAt.Before(top[1].CreatedAt) {
		t.Fatalf("tie not broken by submission time")
	}
	if top[0].TopSnake != "BONK" || top[0].WalletShort != "9WzD...AWWM" {
		t.Fatalf("entry=%+v", top[0])
	}
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores", "board.json")
	st, err := OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	testStore(t, st)

	again, err := OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	top, _ := again.Top(context.Background(), 0)
	if len(top) != 4 {
		t.Fatalf("reloaded %d entries", len(top))
	}
}

func TestSQLiteStore(t *testing.T) {
	st, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "board.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	testStore(t, st)
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("LEADERBOARD_TEST_POSTGRES")
	if dsn == "" {
		t.Skip("LEADERBOARD_TEST_POSTGRES not set")
	}
	st, err := OpenPostgres(context.Background(), dsn)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	if _, err := st.db.Exec(context.Background(), "TRUNCATE leaderboard"); err != nil {
		t.Fatal(err)
	}
	testStore(t, st)
}

func TestOpenPicksBackend(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	st, err := Open(ctx, filepath.Join(dir, "a.json"))
	if _, ok := st.(*FileStore); err != nil || !ok {
		t.Fatalf("json: %T %v", st, err)
	}
	st, err = Open(ctx, "sqlite:"+filepath.Join(dir, "b"))
	if _, ok := st.(*SQLiteStore); err != nil || !ok {
		t.Fatalf("sqlite: %T %v", st, err)
	}
	st.Close()
	if _, err := Open(ctx, "mysql://x"); !errors.Is(err, ErrUnknownBackend) {
		t.Fatalf("err=%v", err)
	}
}
