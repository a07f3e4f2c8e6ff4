package sim

import (
	"math"
	"testing"
)

func TestNewSnakeSpawnsInsideMargin(t *testing.T) {
	cfg := DefaultConfig()
	rng := NewRand(7)
	for i := 0; i < 500; i++ {
		s := NewSnake(cfg, rng, Token{Mint: "m"}, 900, 550, i, false)
		h := s.Head()
		if h.X < 50 || h.X > 850 || h.Y < 50 || h.Y > 500 {
			t.Fatalf("spawn %d at %+v outside margin", i, h)
		}
	}
}

func TestNewSnakeBodyTrailsHead(t *testing.T) {
	cfg := DefaultConfig()
	for d := 0; d < 4; d++ {
		rng := &scriptRand{floats: []float64{0.5}, ints: []int{d}}
		s := NewSnake(cfg, rng, Token{Mint: "m"}, 900, 550, 0, true)
		if len(s.Segments) != cfg.InitialSegments {
			t.Fatalf("segments=%d want %d", len(s.Segments), cfg.InitialSegments)
		}
		dx, dy := s.Direction.Vector()
		gap := cfg.BaseSize * cfg.SegmentGap
		for i := 1; i < len(s.Segments); i++ {
			prev, cur := s.Segments[i-1], s.Segments[i]
			// each segment sits one gap behind its leader, against the heading
			if got := (prev.X-cur.X)*dx + (prev.Y-cur.Y)*dy; math.Abs(got-gap) > 1e-9 {
				t.Fatalf("%s: segment %d offset %v want %v", s.Direction, i, got, gap)
			}
		}
	}
}

func TestNewSnakeFields(t *testing.T) {
	cfg := DefaultConfig()
	tok := Token{Mint: "So11111111111111111111111111111111111111112", Symbol: "SOL"}
	s := NewSnake(cfg, NewRand(1), tok, 900, 550, 11, true)
	if s.ID != tok.Mint || !s.IsPlayer {
		t.Fatalf("id=%q player=%v", s.ID, s.IsPlayer)
	}
	if s.CurrentSize != 15 || s.BaseSize != 15 || s.BonusSize != 0 || s.Speed != 2 {
		t.Fatalf("unexpected sizing %+v", s)
	}
	if s.Color != cfg.Palette[1] {
		t.Fatalf("color=%s want palette[1]", s.Color)
	}
}

func TestColorRepeatsEveryTen(t *testing.T) {
	cfg := DefaultConfig()
	if len(cfg.Palette) != 10 {
		t.Fatalf("palette size %d", len(cfg.Palette))
	}
	for i := 0; i < 30; i++ {
		if cfg.Color(i) != cfg.Color(i+10) {
			t.Fatalf("color %d and %d differ", i, i+10)
		}
	}
}

func TestNewSnakeTinyBounds(t *testing.T) {
	s := NewSnake(DefaultConfig(), NewRand(3), Token{Mint: "m"}, 60, 40, 0, false)
	if h := s.Head(); h.X != 30 || h.Y != 20 {
		t.Fatalf("head=%+v want center", h)
	}
}
