// Package feed keeps a running game's prices fresh. A Refresher polls a
// PriceSource on a fixed cadence in its own goroutine and hands results to
// the frame loop over a channel.
package feed

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/michaelpaglia/fun-sunday-work/shared/protocol"
	"github.com/michaelpaglia/fun-sunday-work/shared/sim"
)

var (
	ErrWalletFetch = errors.New("wallet fetch failed")
	ErrPriceFetch  = errors.New("price fetch failed")
)

// PriceSource returns USD prices by mint. A mint missing from the result has no price.
type PriceSource interface {
	Prices(ctx context.Context, mints []string) (map[string]float64, error)
}

// WalletSource lists the tokens held by a wallet.
type WalletSource interface {
	Tokens(ctx context.Context, address string) ([]protocol.Token, error)
}

type PriceFunc func(ctx context.Context, mints []string) (map[string]float64, error)

func (f PriceFunc) Prices(ctx context.Context, mints []string) (map[string]float64, error) {
	return f(ctx, mints)
}

// Update is one refresh result. On error Prices is nil and the caller should
// keep the sizes it has.
type Update struct {
	Prices map[string]float64
	Err    error
	At     time.Time
}

type Refresher struct {
	src      PriceSource
	interval time.Duration
	mints    func() []string
	timeout  time.Duration

	out   chan Update
	group singleflight.Group

	mu      sync.Mutex
	lastErr error
}

// NewRefresher polls src every interval for the mints returned by mints.
// mints is called on the refresher goroutine and must be safe for that.
func NewRefresher(src PriceSource, interval time.Duration, mints func() []string) *Refresher {
	if interval <= 0 {
		interval = time.Duration(protocol.PriceRefreshMs) * time.Millisecond
	}
	return &Refresher{
		src:      src,
		interval: interval,
		mints:    mints,
		timeout:  interval,
		out:      make(chan Update, 1),
	}
}

// Updates delivers results. Only the newest unread result is kept.
func (r *Refresher) Updates() <-chan Update { return r.out }

// Run polls until ctx is done. It does not fetch at start; the caller already
// has the prices it started with.
func (r *Refresher) Run(ctx context.Context) error {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			r.publish(r.Refresh(ctx))
		}
	}
}

// Refresh fetches prices once. Concurrent calls for the same mint set share
// one upstream request.
func (r *Refresher) Refresh(ctx context.Context) Update {
	mints := r.mints()
	if len(mints) == 0 {
		return Update{At: time.Now()}
	}
	key := mintKey(mints)
	v, err, _ := r.group.Do(key, func() (interface{}, error) {
		cctx, cancel := context.WithTimeout(ctx, r.timeout)
		defer cancel()
		return r.src.Prices(cctx, mints)
	})
	u := Update{At: time.Now()}
	if err != nil {
		u.Err = fmt.Errorf("%w: %v", ErrPriceFetch, err)
	} else {
		u.Prices, _ = v.(map[string]float64)
	}
	r.mu.Lock()
	r.lastErr = u.Err
	r.mu.Unlock()
	return u
}

// LastErr is the error from the most recent refresh, nil after a success.
func (r *Refresher) LastErr() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}

func (r *Refresher) publish(u Update) {
	for {
		select {
		case r.out <- u:
			return
		default:
		}
		// drop the stale unread update and retry
		select {
		case <-r.out:
		default:
		}
	}
}

func mintKey(mints []string) string {
	s := append([]string(nil), mints...)
	sort.Strings(s)
	return strings.Join(s, ",")
}

// PriceTokens turns wallet holdings into game tokens, keeping only those with
// a usable price. Each token's start price is its price now.
func PriceTokens(tokens []protocol.Token, prices map[string]float64) []sim.Token {
	out := make([]sim.Token, 0, len(tokens))
	for _, t := range tokens {
		p, ok := prices[t.Mint]
		if !ok || !(p > 0) {
			continue
		}
		out = append(out, sim.Token{
			Mint:         t.Mint,
			Symbol:       t.Symbol,
			Name:         t.Name,
			Balance:      t.Balance.InexactFloat64(),
			Price:        p,
			PriceAtStart: p,
		})
	}
	return out
}

// Mints lists the mints of tokens in order.
func Mints(tokens []protocol.Token) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, t.Mint)
	}
	return out
}
