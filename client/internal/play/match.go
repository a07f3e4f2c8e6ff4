package play

import (
	"context"
	"errors"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/michaelpaglia/fun-sunday-work/client/internal/api"
	"github.com/michaelpaglia/fun-sunday-work/shared/feed"
	"github.com/michaelpaglia/fun-sunday-work/shared/protocol"
	"github.com/michaelpaglia/fun-sunday-work/shared/sim"
)

// Match is one running game: the simulation session plus the price refresher
// that feeds it. The frame loop calls Frame; everything else may be called
// from any goroutine.
type Match struct {
	Wallet string

	sess *sim.Session
	ref  *feed.Refresher

	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	priceErr error
	stopped  bool
}

// NewMatch builds the world for tokens on the standard play field and starts
// refreshing prices from src every interval. A nil src never refreshes.
func NewMatch(cfg sim.Config, rng sim.Rand, tokens []sim.Token, wallet string, src feed.PriceSource, interval time.Duration) *Match {
	m := &Match{
		Wallet: wallet,
		sess:   sim.NewSession(cfg, rng, tokens, protocol.CanvasW, protocol.CanvasH),
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	if src != nil {
		m.ref = feed.NewRefresher(src, interval, m.sess.Mints)
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			_ = m.ref.Run(ctx)
		}()
	}
	return m
}

func (m *Match) Session() *sim.Session { return m.sess }

// Frame applies the newest pending price update, if any, then advances the
// world one step. It returns the consumption events of the step.
func (m *Match) Frame() []sim.Event {
	if m.ref != nil {
		select {
		case u := <-m.ref.Updates():
			m.applyUpdate(u)
		default:
		}
	}
	return m.sess.Step()
}

func (m *Match) applyUpdate(u feed.Update) {
	m.mu.Lock()
	m.priceErr = u.Err
	m.mu.Unlock()
	if u.Err != nil {
		log.Printf("PLAY: %v", u.Err)
		return
	}
	m.sess.ApplyPrices(u.Prices)
}

// PriceErr is the error of the last price refresh the frame loop saw.
func (m *Match) PriceErr() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.priceErr
}

// Stop halts the refresher and freezes the world. The final state stays
// readable through Session. Safe to call more than once.
func (m *Match) Stop() {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return
	}
	m.stopped = true
	m.mu.Unlock()

	m.cancel()
	m.wg.Wait()
	m.sess.Stop()
}

// Submission builds the leaderboard entry for the current state. ok is false
// when there is nothing worth submitting: no points or no wallet.
func (m *Match) Submission() (sub protocol.ScoreSubmission, ok bool) {
	w := m.sess.Snapshot()
	sub = protocol.ScoreSubmission{
		WalletAddress: m.Wallet,
		Score:         w.Score,
		SnakeCount:    len(w.Snakes),
		TopSnake:      protocol.DefaultTopSnake,
	}
	if s, found := w.Selected(); found && s.Token.Symbol != "" {
		sub.TopSnake = s.Token.Symbol
	}
	return sub, w.Score > 0 && m.Wallet != ""
}

// SubmitStatus is the line shown after a score submit. Any answer from the
// server that is not a success is a failed submit; no answer is a network error.
func SubmitStatus(err error) string {
	var he *api.HTTPError
	switch {
	case err == nil:
		return "SCORE SUBMITTED!"
	case errors.As(err, &he):
		return "SUBMIT FAILED"
	default:
		return "NETWORK ERROR"
	}
}

// Ranking orders snakes by price change, best first. Ties keep world order.
func Ranking(w sim.World) []sim.Snake {
	out := append([]sim.Snake(nil), w.Snakes...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Token.PriceChange > out[j].Token.PriceChange
	})
	return out
}

// SelectRank makes the snake at rank i (0 based) the controlled one.
func (m *Match) SelectRank(i int) bool {
	r := Ranking(m.sess.Snapshot())
	if i < 0 || i >= len(r) {
		return false
	}
	return m.sess.Select(r[i].ID)
}

// SelectNext moves control to the next snake in ranking order, wrapping.
func (m *Match) SelectNext() bool {
	w := m.sess.Snapshot()
	r := Ranking(w)
	if len(r) == 0 {
		return false
	}
	next := 0
	for i, s := range r {
		if s.ID == w.SelectedID {
			next = (i + 1) % len(r)
			break
		}
	}
	return m.sess.Select(r[next].ID)
}

// DirectionForKey maps arrow names and WASD to a direction.
func DirectionForKey(key string) (sim.Direction, bool) {
	switch key {
	case "w", "W":
		return sim.Up, true
	case "s", "S":
		return sim.Down, true
	case "a", "A":
		return sim.Left, true
	case "d", "D":
		return sim.Right, true
	}
	return sim.ParseDirection(key)
}
