package sim

import (
	"math"
	"testing"
)

func TestPriceUpdateScenario(t *testing.T) {
	cfg := DefaultConfig()
	s := testSnake("a", Point{}, 15)
	s = ApplyPriceUpdate(cfg, s, 20)
	if math.Abs(s.CurrentSize-21) > 1e-9 {
		t.Fatalf("size=%v want 21", s.CurrentSize)
	}
	if s.Token.PriceChange != 20 || s.BonusSize != 0 {
		t.Fatalf("change=%v bonus=%v", s.Token.PriceChange, s.BonusSize)
	}
	if len(s.Segments) != 5 {
		t.Fatalf("price update changed segment count to %d", len(s.Segments))
	}
}

func TestPriceUpdateClamps(t *testing.T) {
	cfg := DefaultConfig()
	s := testSnake("a", Point{}, 15)
	if got := ApplyPriceUpdate(cfg, s, 500).CurrentSize; got != cfg.MaxSize {
		t.Fatalf("size=%v want max", got)
	}
	if got := ApplyPriceUpdate(cfg, s, -90).CurrentSize; got != cfg.MinSize {
		t.Fatalf("size=%v want min", got)
	}
	if got := ApplyPriceUpdate(cfg, s, math.NaN()).CurrentSize; got != 15 {
		t.Fatalf("NaN changed size to %v", got)
	}
}

func TestPriceUpdateKeepsBonus(t *testing.T) {
	cfg := DefaultConfig()
	s := testSnake("a", Point{}, 15)
	s = GrowFromFood(cfg, s)
	s = ApplyPriceUpdate(cfg, s, -10)
	// 15 - 3 + 3
	if math.Abs(s.CurrentSize-15) > 1e-9 || s.BonusSize != 3 {
		t.Fatalf("size=%v bonus=%v", s.CurrentSize, s.BonusSize)
	}
}

func TestGrowFromFood(t *testing.T) {
	cfg := DefaultConfig()
	s := testSnake("a", Point{X: 50, Y: 50}, 15)
	tail := s.Segments[len(s.Segments)-1]
	g := GrowFromFood(cfg, s)
	if len(g.Segments) != 7 {
		t.Fatalf("segments=%d want 7", len(g.Segments))
	}
	if g.Segments[5] != tail || g.Segments[6] != tail {
		t.Fatalf("new segments not at tail")
	}
	if g.BonusSize != 3 || g.CurrentSize != 18 {
		t.Fatalf("bonus=%v size=%v", g.BonusSize, g.CurrentSize)
	}
	if len(s.Segments) != 5 {
		t.Fatalf("input snake mutated")
	}
}

func TestGrowFromSnake(t *testing.T) {
	cfg := DefaultConfig()
	me := testSnake("me", Point{}, 20)
	victim := testSnake("v", Point{}, 25)
	victim.Segments = victim.Segments[:3]

	g := GrowFromSnake(cfg, me, victim)
	if len(g.Segments) != 8 {
		t.Fatalf("segments=%d want 8", len(g.Segments))
	}
	if g.BonusSize != 12 || g.CurrentSize != 32 {
		t.Fatalf("bonus=%v size=%v", g.BonusSize, g.CurrentSize)
	}

	victim = testSnake("v", Point{}, 25)
	victim.Segments = line(Point{}, 12, 5)
	if got := len(GrowFromSnake(cfg, me, victim).Segments); got != 10 {
		t.Fatalf("segments=%d want 10", got)
	}
}

func TestPriceChange(t *testing.T) {
	cases := []struct {
		start, now float64
		want       float64
		ok         bool
	}{
		{100, 120, 20, true},
		{100, 50, -50, true},
		{0, 10, 0, true},
		{100, 0, 0, false},
		{100, -3, 0, false},
		{100, math.Inf(1), 0, false},
		{100, math.NaN(), 0, false},
	}
	for _, c := range cases {
		got, ok := PriceChange(c.start, c.now)
		if ok != c.ok || math.Abs(got-c.want) > 1e-9 {
			t.Errorf("PriceChange(%v,%v)=%v,%v want %v,%v", c.start, c.now, got, ok, c.want, c.ok)
		}
	}
}

func TestVisualScale(t *testing.T) {
	cases := map[float64]float64{8: 16, 15: 16, 25: 20, 40: 32, 100: 32}
	for in, want := range cases {
		if got := VisualScale(in); math.Abs(got-want) > 1e-9 {
			t.Errorf("VisualScale(%v)=%v want %v", in, got, want)
		}
	}
}
