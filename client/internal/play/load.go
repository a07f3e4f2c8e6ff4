// Package play holds the client-side game flow that does not depend on a
// renderer: loading a wallet into tokens, running a match, ranking snakes and
// building the score submission. Both the ebiten and the terminal client drive
// it.
package play

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/michaelpaglia/fun-sunday-work/client/internal/api"
	"github.com/michaelpaglia/fun-sunday-work/shared/feed"
	"github.com/michaelpaglia/fun-sunday-work/shared/protocol"
	"github.com/michaelpaglia/fun-sunday-work/shared/sim"
)

var (
	ErrNoTokens       = errors.New("no tokens found in wallet")
	ErrNoPricedTokens = errors.New("no priced tokens found")
)

// SessionStarter is optional on the wallet source; the api client implements
// it to get a token the leaderboard will accept.
type SessionStarter interface {
	StartSession(ctx context.Context, wallet string) (string, error)
}

// Load resolves a wallet into priced game tokens, capped at protocol.MaxSnakes
// in wallet order.
func Load(ctx context.Context, wallets feed.WalletSource, prices feed.PriceSource, addr string) ([]sim.Token, error) {
	held, err := wallets.Tokens(ctx, addr)
	if err != nil {
		return nil, err
	}
	if len(held) == 0 {
		return nil, ErrNoTokens
	}
	quotes, err := prices.Prices(ctx, feed.Mints(held))
	if err != nil {
		return nil, err
	}
	tokens := feed.PriceTokens(held, quotes)
	if len(tokens) == 0 {
		return nil, ErrNoPricedTokens
	}
	if len(tokens) > protocol.MaxSnakes {
		tokens = tokens[:protocol.MaxSnakes]
	}

	if s, ok := wallets.(SessionStarter); ok {
		// a failed session only costs the ability to submit
		if _, err := s.StartSession(ctx, addr); err != nil {
			log.Printf("PLAY: session for %s failed: %v", protocol.ShortAddress(addr), err)
		}
	}
	return tokens, nil
}

// ErrorText is the line the error screen shows for a Load failure.
func ErrorText(err error) string {
	var he *api.HTTPError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNoTokens):
		return "No tokens found in wallet"
	case errors.Is(err, ErrNoPricedTokens):
		return "No priced tokens found"
	case errors.As(err, &he) && he.Message != "":
		return he.Message
	default:
		return "Failed to load wallet data"
	}
}

// LoadResult carries an asynchronous Load back to the frame loop.
type LoadResult struct {
	Wallet string
	Tokens []sim.Token
	Err    error
}

// LoadAsync runs Load on its own goroutine. The channel receives exactly one
// result and is then closed.
func LoadAsync(ctx context.Context, wallets feed.WalletSource, prices feed.PriceSource, addr string) <-chan LoadResult {
	ch := make(chan LoadResult, 1)
	go func() {
		defer close(ch)
		tokens, err := Load(ctx, wallets, prices, addr)
		if err != nil {
			err = fmt.Errorf("load %s: %w", protocol.ShortAddress(addr), err)
		}
		ch <- LoadResult{Wallet: addr, Tokens: tokens, Err: err}
	}()
	return ch
}
