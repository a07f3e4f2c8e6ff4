package feed

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/michaelpaglia/fun-sunday-work/shared/protocol"
	"github.com/michaelpaglia/fun-sunday-work/shared/sim"
)

func staticMints(m ...string) func() []string {
	return func() []string { return m }
}

func TestRefreshSuccess(t *testing.T) {
	src := PriceFunc(func(ctx context.Context, mints []string) (map[string]float64, error) {
		return map[string]float64{"a": 2, "b": 3}, nil
	})
	r := NewRefresher(src, time.Second, staticMints("a", "b"))
	u := r.Refresh(context.Background())
	if u.Err != nil || u.Prices["a"] != 2 || u.Prices["b"] != 3 {
		t.Fatalf("update=%+v", u)
	}
	if r.LastErr() != nil {
		t.Fatalf("last err=%v", r.LastErr())
	}
}

func TestRefreshFailureIsWrapped(t *testing.T) {
	boom := errors.New("upstream 502")
	src := PriceFunc(func(ctx context.Context, mints []string) (map[string]float64, error) {
		return nil, boom
	})
	r := NewRefresher(src, time.Second, staticMints("a"))
	u := r.Refresh(context.Background())
	if !errors.Is(u.Err, ErrPriceFetch) || u.Prices != nil {
		t.Fatalf("update=%+v", u)
	}
	if !errors.Is(r.LastErr(), ErrPriceFetch) {
		t.Fatalf("last err=%v", r.LastErr())
	}
}

func TestRefreshNoMints(t *testing.T) {
	called := false
	src := PriceFunc(func(ctx context.Context, mints []string) (map[string]float64, error) {
		called = true
		return nil, nil
	})
	u := NewRefresher(src, time.Second, staticMints()).Refresh(context.Background())
	if called || u.Err != nil {
		t.Fatalf("called=%v err=%v", called, u.Err)
	}
}

func TestRefreshCoalescesConcurrentCalls(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	src := PriceFunc(func(ctx context.Context, mints []string) (map[string]float64, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return map[string]float64{"a": 1}, nil
	})
	r := NewRefresher(src, time.Second, staticMints("a"))

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Refresh(context.Background())
		}()
	}
	for atomic.LoadInt32(&calls) == 0 {
		time.Sleep(time.Millisecond)
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()
	if n := atomic.LoadInt32(&calls); n > 2 {
		t.Fatalf("upstream called %d times", n)
	}
}

func TestRunDeliversUpdates(t *testing.T) {
	src := PriceFunc(func(ctx context.Context, mints []string) (map[string]float64, error) {
		return map[string]float64{"a": 5}, nil
	})
	r := NewRefresher(src, 5*time.Millisecond, staticMints("a"))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	select {
	case u := <-r.Updates():
		if u.Prices["a"] != 5 {
			t.Fatalf("update=%+v", u)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no update delivered")
	}
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("run err=%v", err)
	}
}

func TestPublishKeepsNewest(t *testing.T) {
	r := NewRefresher(PriceFunc(nil), time.Second, staticMints())
	r.publish(Update{Prices: map[string]float64{"a": 1}})
	r.publish(Update{Prices: map[string]float64{"a": 2}})
	u := <-r.Updates()
	if u.Prices["a"] != 2 {
		t.Fatalf("got stale update %+v", u)
	}
}

func TestPriceTokens(t *testing.T) {
	tokens := []protocol.Token{
		{Mint: "a", Symbol: "AAA", Balance: decimal.RequireFromString("1.5")},
		{Mint: "b", Symbol: "BBB"},
		{Mint: "c", Symbol: "CCC"},
	}
	got := PriceTokens(tokens, map[string]float64{"a": 2, "c": 0})
	if len(got) != 1 {
		t.Fatalf("tokens=%+v", got)
	}
	want := sim.Token{Mint: "a", Symbol: "AAA", Balance: 1.5, Price: 2, PriceAtStart: 2}
	if got[0] != want {
		t.Fatalf("token=%+v want %+v", got[0], want)
	}
	if m := Mints(tokens); len(m) != 3 || m[2] != "c" {
		t.Fatalf("mints=%v", m)
	}
}

func TestWalkStaysPositive(t *testing.T) {
	w := NewWalk(sim.NewRand(4), 5, map[string]float64{"a": 10})
	for i := 0; i < 1000; i++ {
		p, err := w.Prices(context.Background(), []string{"a", "b"})
		if err != nil {
			t.Fatal(err)
		}
		if !(p["a"] > 0) || !(p["b"] > 0) {
			t.Fatalf("non-positive price %+v", p)
		}
	}
}
