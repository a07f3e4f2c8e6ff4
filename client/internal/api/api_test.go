package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"

	serverapi "github.com/michaelpaglia/fun-sunday-work/server/api"
	"github.com/michaelpaglia/fun-sunday-work/server/auth"
	"github.com/michaelpaglia/fun-sunday-work/server/leaderboard"
	"github.com/michaelpaglia/fun-sunday-work/server/srv"
	"github.com/michaelpaglia/fun-sunday-work/shared/feed"
	"github.com/michaelpaglia/fun-sunday-work/shared/protocol"
)

const wallet = "9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM"

type stubWallets struct{}

func (stubWallets) Tokens(ctx context.Context, addr string) ([]protocol.Token, error) {
	return []protocol.Token{
		{Mint: protocol.SOLMint, Symbol: "SOL", Balance: decimal.RequireFromString("2.5")},
		{Mint: "BONKmint", Symbol: "BONK", Balance: decimal.RequireFromString("1000")},
	}, nil
}

// startServer runs the real server handlers against stub upstreams.
func startServer(t *testing.T) *httptest.Server {
	t.Helper()
	a, err := auth.NewAuth(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	st, err := leaderboard.OpenFile(filepath.Join(t.TempDir(), "board.json"))
	if err != nil {
		t.Fatal(err)
	}
	hub := srv.NewHub(st)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	s := &serverapi.Server{
		Wallets: stubWallets{},
		Prices: feed.PriceFunc(func(ctx context.Context, mints []string) (map[string]float64, error) {
			out := map[string]float64{}
			for _, m := range mints {
				if m == protocol.SOLMint {
					out[m] = 140
				}
			}
			return out, nil
		}),
		Store: st,
		Board: hub,
	}
	mux := http.NewServeMux()
	s.Routes(mux, a)
	up := websocket.Upgrader{}
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := up.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.HandleWS(conn, protocol.ParseEncoding(r.URL.Query().Get("enc")), "test")
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(func() {
		cancel()
		ts.Close()
	})
	return ts
}

func TestWalletAndPrices(t *testing.T) {
	ts := startServer(t)
	c := New(ts.URL + "/")
	ctx := context.Background()

	tokens, err := c.Tokens(ctx, wallet)
	if err != nil {
		t.Fatal(err)
	}
	if len(tokens) != 2 || tokens[1].Symbol != "BONK" {
		t.Fatalf("tokens=%+v", tokens)
	}
	prices, err := c.Prices(ctx, feed.Mints(tokens))
	if err != nil {
		t.Fatal(err)
	}
	if prices[protocol.SOLMint] != 140 {
		t.Fatalf("prices=%v", prices)
	}
	if priced := feed.PriceTokens(tokens, prices); len(priced) != 1 || priced[0].Symbol != "SOL" {
		t.Fatalf("priced=%+v", priced)
	}
}

func TestWalletErrorCarriesServerMessage(t *testing.T) {
	ts := startServer(t)
	_, err := New(ts.URL).Tokens(context.Background(), "bad")
	if !errors.Is(err, feed.ErrWalletFetch) || !strings.Contains(err.Error(), "Invalid Solana address format") {
		t.Fatalf("err=%v", err)
	}
}

func TestSubmitNeedsSession(t *testing.T) {
	ts := startServer(t)
	c := New(ts.URL)
	ctx := context.Background()
	sub := protocol.ScoreSubmission{WalletAddress: wallet, Score: 420, SnakeCount: 3, TopSnake: "SOL"}

	_, err := c.Submit(ctx, sub)
	var he *HTTPError
	if !errors.As(err, &he) || he.Status != http.StatusUnauthorized {
		t.Fatalf("err=%v", err)
	}

	if _, err := c.StartSession(ctx, wallet); err != nil {
		t.Fatal(err)
	}
	e, err := c.Submit(ctx, sub)
	if err != nil {
		t.Fatal(err)
	}
	if e.Score != 420 || e.WalletShort != "9WzD...AWWM" {
		t.Fatalf("entry=%+v", e)
	}
	lb, err := c.Leaderboard(ctx)
	if err != nil || len(lb.Items) != 1 {
		t.Fatalf("board=%+v err=%v", lb, err)
	}
}

func TestLoginKeepsToken(t *testing.T) {
	ts := startServer(t)
	c := New(ts.URL)
	ctx := context.Background()
	if err := c.Register(ctx, "erin", "secret1"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Login(ctx, "erin", "nope123"); err == nil || err.Error() != "invalid credentials" {
		t.Fatalf("err=%v", err)
	}
	resp, err := c.Login(ctx, "erin", "secret1")
	if err != nil || resp.Username != "erin" || c.Token() != resp.Token {
		t.Fatalf("resp=%+v err=%v", resp, err)
	}
}

func waitBoard(t *testing.T, l *Live, want int) protocol.Leaderboard {
	t.Helper()
	timeout := time.After(3 * time.Second)
	for {
		select {
		case lb, ok := <-l.Boards():
			if !ok {
				t.Fatalf("live closed")
			}
			if len(lb.Items) == want {
				return lb
			}
		case <-timeout:
			t.Fatalf("no board with %d items", want)
		}
	}
}

func TestLiveBoards(t *testing.T) {
	for _, enc := range []protocol.Encoding{protocol.EncodingJSON, protocol.EncodingMsgpack} {
		t.Run(string(enc), func(t *testing.T) {
			ts := startServer(t)
			c := New(ts.URL)
			ctx := context.Background()
			if _, err := c.StartSession(ctx, wallet); err != nil {
				t.Fatal(err)
			}
			l, err := Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", c.Token(), enc)
			if err != nil {
				t.Fatal(err)
			}
			defer l.Close()
			waitBoard(t, l, 0)

			if _, err := c.Submit(ctx, protocol.ScoreSubmission{WalletAddress: wallet, Score: 99}); err != nil {
				t.Fatal(err)
			}
			lb := waitBoard(t, l, 1)
			if lb.Items[0].Score != 99 {
				t.Fatalf("board=%+v", lb)
			}
			if err := l.Refresh(); err != nil {
				t.Fatal(err)
			}
			waitBoard(t, l, 1)

			l.Close()
			if !l.IsClosed() || l.Refresh() == nil {
				t.Fatalf("closed live still usable")
			}
		})
	}
}

func TestPrefs(t *testing.T) {
	p := Prefs{Dir: t.TempDir()}
	if p.LoadToken() != "" || p.LoadWallet() != "" {
		t.Fatalf("fresh prefs not empty")
	}
	_ = p.SaveToken(" abc \n")
	_ = p.SaveWallet(wallet)
	if p.LoadToken() != "abc" || p.LoadWallet() != wallet {
		t.Fatalf("token=%q wallet=%q", p.LoadToken(), p.LoadWallet())
	}
	_ = p.SaveUsername("neo")
	if p.LoadUsername() != "neo" {
		t.Fatalf("username=%q", p.LoadUsername())
	}
	p.ClearToken()
	if p.LoadToken() != "" || p.LoadUsername() != "" {
		t.Fatalf("account not cleared")
	}
}

func TestSanitize(t *testing.T) {
	if got := sanitize(" My Profile!! "); got != "my_profile" {
		t.Fatalf("got %q", got)
	}
	if got := sanitize("///"); got != "default" {
		t.Fatalf("got %q", got)
	}
}
